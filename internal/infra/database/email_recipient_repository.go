package database

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/jmoiron/sqlx"

	"github.com/xavierca1/prospect-intake/internal/entity"
)

const recipientColumns = `id, email, name, active, created_at, updated_at`

type EmailRecipientRepository struct {
	DB *sqlx.DB
}

func NewEmailRecipientRepository(db *sqlx.DB) *EmailRecipientRepository {
	return &EmailRecipientRepository{DB: db}
}

func (r *EmailRecipientRepository) List(ctx context.Context) ([]entity.EmailRecipient, error) {
	out := []entity.EmailRecipient{}
	query := `SELECT ` + recipientColumns + ` FROM email_recipients ORDER BY created_at DESC`
	if err := r.DB.SelectContext(ctx, &out, query); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *EmailRecipientRepository) ListActive(ctx context.Context) ([]entity.EmailRecipient, error) {
	out := []entity.EmailRecipient{}
	query := `SELECT ` + recipientColumns + ` FROM email_recipients WHERE active = TRUE ORDER BY created_at`
	if err := r.DB.SelectContext(ctx, &out, query); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *EmailRecipientRepository) FindByID(ctx context.Context, id string) (*entity.EmailRecipient, error) {
	var rec entity.EmailRecipient
	query := `SELECT ` + recipientColumns + ` FROM email_recipients WHERE id = $1`
	if err := r.DB.GetContext(ctx, &rec, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrRecipientNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *EmailRecipientRepository) Create(ctx context.Context, rec *entity.EmailRecipient) error {
	query := `
		INSERT INTO email_recipients (id, email, name, active, created_at, updated_at)
		VALUES (:id, :email, :name, :active, :created_at, :updated_at)
	`
	if _, err := r.DB.NamedExecContext(ctx, query, rec); err != nil {
		if isUniqueViolation(err) {
			return entity.ErrEmailAlreadyExists
		}
		log.Printf("❌ Database error creating recipient %s: %v", rec.Email, err)
		return err
	}
	return nil
}

func (r *EmailRecipientRepository) Update(ctx context.Context, rec *entity.EmailRecipient) error {
	query := `
		UPDATE email_recipients
		SET email = :email, name = :name, active = :active, updated_at = :updated_at
		WHERE id = :id
	`
	res, err := r.DB.NamedExecContext(ctx, query, rec)
	if err != nil {
		if isUniqueViolation(err) {
			return entity.ErrEmailAlreadyExists
		}
		log.Printf("❌ Database error updating recipient %s: %v", rec.ID, err)
		return err
	}
	return requireAffected(res, entity.ErrRecipientNotFound)
}

func (r *EmailRecipientRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM email_recipients WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res, entity.ErrRecipientNotFound)
}

func requireAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
