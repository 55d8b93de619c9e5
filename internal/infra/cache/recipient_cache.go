package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/xavierca1/prospect-intake/internal/entity"
)

const (
	keyAllRecipients    = "email_recipients:all"
	keyActiveRecipients = "email_recipients:active"
	keyGeneration       = "email_recipients:gen"
	DefaultTTL          = 5 * time.Minute
)

// Client is the subset of *redis.Client the cache needs.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
}

// RecipientRepository wraps a recipient repository with a read-through cache of
// the two list queries. List keys carry a generation number that every write
// bumps, so a fill that loaded before a write lands on a key nobody reads.
// Redis failures are logged and fall through to the wrapped repository.
type RecipientRepository struct {
	next  entity.EmailRecipientRepositoryInterface
	redis Client
	ttl   time.Duration
}

func NewRecipientRepository(next entity.EmailRecipientRepositoryInterface, client Client, ttl time.Duration) *RecipientRepository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RecipientRepository{next: next, redis: client, ttl: ttl}
}

func (c *RecipientRepository) List(ctx context.Context) ([]entity.EmailRecipient, error) {
	return c.cachedList(ctx, keyAllRecipients, c.next.List)
}

func (c *RecipientRepository) ListActive(ctx context.Context) ([]entity.EmailRecipient, error) {
	return c.cachedList(ctx, keyActiveRecipients, c.next.ListActive)
}

func (c *RecipientRepository) FindByID(ctx context.Context, id string) (*entity.EmailRecipient, error) {
	return c.next.FindByID(ctx, id)
}

func (c *RecipientRepository) Create(ctx context.Context, r *entity.EmailRecipient) error {
	if err := c.next.Create(ctx, r); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *RecipientRepository) Update(ctx context.Context, r *entity.EmailRecipient) error {
	if err := c.next.Update(ctx, r); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *RecipientRepository) Delete(ctx context.Context, id string) error {
	if err := c.next.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *RecipientRepository) cachedList(
	ctx context.Context,
	key string,
	load func(context.Context) ([]entity.EmailRecipient, error),
) ([]entity.EmailRecipient, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		log.Printf("⚠️ Redis read %s failed: %v", keyGeneration, err)
		return load(ctx)
	}
	key = versioned(key, gen)

	var out []entity.EmailRecipient
	err = c.get(ctx, key, &out)
	if err == nil {
		return out, nil
	}
	if !errors.Is(err, redis.Nil) {
		log.Printf("⚠️ Redis read %s failed: %v", key, err)
	}

	out, err = load(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.set(ctx, key, out); err != nil {
		log.Printf("⚠️ Redis write %s failed: %v", key, err)
	}
	return out, nil
}

func (c *RecipientRepository) get(ctx context.Context, key string, value interface{}) error {
	str, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		// redis.Nil when the key does not exist
		return err
	}
	return json.Unmarshal([]byte(str), value)
}

func (c *RecipientRepository) set(ctx context.Context, key string, value interface{}) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.redis.Set(ctx, key, b, c.ttl).Err()
}

func (c *RecipientRepository) generation(ctx context.Context) (int64, error) {
	gen, err := c.redis.Get(ctx, keyGeneration).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func versioned(key string, gen int64) string {
	return fmt.Sprintf("%s:%d", key, gen)
}

func (c *RecipientRepository) invalidate(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	gen, err := c.redis.Incr(ctx, keyGeneration).Result()
	if err != nil {
		log.Printf("⚠️ Redis invalidation failed: %v", err)
		return
	}
	// Older generations are unreachable now; dropping them only frees memory.
	prev := gen - 1
	if err := c.redis.Del(ctx, versioned(keyAllRecipients, prev), versioned(keyActiveRecipients, prev)).Err(); err != nil {
		log.Printf("⚠️ Redis cleanup of generation %d failed: %v", prev, err)
	}
}
