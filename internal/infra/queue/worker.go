package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/prospect-intake/internal/infra/http/middleware"
)

// ProspectHandler reacts to a submitted prospect (notifications, CRM, ...).
type ProspectHandler interface {
	Execute(ctx context.Context, payload ProspectSubmittedPayload) error
}

// Consumer is the subset of *amqp.Channel used by the worker.
type Consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type Worker struct {
	Channel Consumer
	Handler ProspectHandler
}

func NewWorker(ch Consumer, handler ProspectHandler) *Worker {
	return &Worker{
		Channel: ch,
		Handler: handler,
	}
}

// Start consumes queueName until ctx is cancelled or the channel closes.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("register rabbitmq consumer: %w", err)
	}

	log.Printf(" [*] Worker waiting on queue '%s'", queueName)

	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ [WORKER] stopping")
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("rabbitmq delivery channel closed")
			}
			w.handle(ctx, d)
		}
	}
}

func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	var payload ProspectSubmittedPayload
	if err := json.Unmarshal(d.Body, &payload); err != nil {
		log.Printf("❌ [WORKER] invalid JSON: %s", err)
		// Malformed messages go straight to the DLQ so they do not block the queue.
		d.Nack(false, false)
		middleware.RecordQueueMessage("malformed")
		return
	}

	log.Printf("⚙️ [WORKER] processing prospect %s (%s)", payload.ProspectID, payload.Email)

	if err := w.Handler.Execute(ctx, payload); err != nil {
		log.Printf("❌ [WORKER] prospect %s failed: %s", payload.ProspectID, err)
		d.Nack(false, false)
		middleware.RecordQueueMessage("failed")
		return
	}

	log.Printf("✅ [WORKER] prospect %s delivered", payload.ProspectID)
	d.Ack(false)
	middleware.RecordQueueMessage("processed")
}
