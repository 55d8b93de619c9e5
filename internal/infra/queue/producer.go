package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/prospect-intake/internal/entity"
)

// ProspectSubmittedPayload carries the whole submission so the consumer does not
// need to read it back from the database.
type ProspectSubmittedPayload struct {
	ProspectID  string             `json:"prospect_id"`
	Name        string             `json:"name"`
	Email       string             `json:"email"`
	Phone       string             `json:"phone"`
	Company     string             `json:"company,omitempty"`
	Goals       string             `json:"goals"`
	Timeline    entity.Timeline    `json:"timeline,omitempty"`
	Services    []string           `json:"services"`
	BudgetRange entity.BudgetRange `json:"budget_range"`
	SubmittedAt time.Time          `json:"submitted_at"`
	Origin      string             `json:"origin"`
}

func NewProspectSubmittedPayload(p *entity.Prospect, origin string) ProspectSubmittedPayload {
	return ProspectSubmittedPayload{
		ProspectID:  p.ID,
		Name:        p.Name,
		Email:       p.Email,
		Phone:       p.Phone,
		Company:     p.Company,
		Goals:       p.Goals,
		Timeline:    p.Timeline,
		Services:    p.Services,
		BudgetRange: p.BudgetRange,
		SubmittedAt: p.CreatedAt,
		Origin:      origin,
	}
}

type QueueProducerInterface interface {
	PublishProspectSubmitted(ctx context.Context, payload ProspectSubmittedPayload) error
}

// Publisher is the subset of *amqp.Channel used by the producer.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RabbitMQProducer struct {
	Ch Publisher
}

func NewProducer(ch Publisher) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch}
}

func (p *RabbitMQProducer) PublishProspectSubmitted(ctx context.Context, payload ProspectSubmittedPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal prospect payload: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			MessageId:    payload.ProspectID,
			Timestamp:    time.Now().UTC(),
		},
	)
	if err != nil {
		return fmt.Errorf("publish to rabbitmq: %w", err)
	}

	return nil
}
