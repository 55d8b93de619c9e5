package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/prospect-intake/internal/entity"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	args := m.Called(ctx, exchange, key, mandatory, immediate, msg)
	return args.Error(0)
}

type MockHandler struct {
	mock.Mock
}

func (m *MockHandler) Execute(ctx context.Context, payload ProspectSubmittedPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

type fakeAcknowledger struct {
	acked   int
	nacked  int
	requeue bool
}

func (a *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	a.acked++
	return nil
}

func (a *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	a.nacked++
	a.requeue = requeue
	return nil
}

func (a *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

type fakeConsumer struct {
	deliveries chan amqp.Delivery
}

func (c *fakeConsumer) Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error) {
	return c.deliveries, nil
}

func samplePayload() ProspectSubmittedPayload {
	p := entity.NewProspect(entity.ProspectSubmission{
		Name:        "Amy",
		Email:       "amy@example.com",
		Phone:       "5550102030",
		Goals:       "Audit",
		Services:    []string{"Assurance Services"},
		BudgetRange: entity.Budget5kTo10k,
	})
	return NewProspectSubmittedPayload(p, "QUESTIONNAIRE")
}

func TestPublishProspectSubmitted(t *testing.T) {
	pub := new(MockPublisher)
	payload := samplePayload()

	pub.On("PublishWithContext", mock.Anything, ExchangeName, RoutingKey, false, false,
		mock.MatchedBy(func(msg amqp.Publishing) bool {
			var got ProspectSubmittedPayload
			if err := json.Unmarshal(msg.Body, &got); err != nil {
				return false
			}
			return msg.DeliveryMode == amqp.Persistent &&
				msg.ContentType == "application/json" &&
				msg.MessageId == payload.ProspectID &&
				got.BudgetRange == entity.Budget5kTo10k
		})).Return(nil)

	err := NewProducer(pub).PublishProspectSubmitted(context.Background(), payload)

	assert.NoError(t, err)
	pub.AssertExpectations(t)
}

func TestPublishProspectSubmittedError(t *testing.T) {
	pub := new(MockPublisher)
	pub.On("PublishWithContext", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("channel closed"))

	err := NewProducer(pub).PublishProspectSubmitted(context.Background(), samplePayload())

	assert.ErrorContains(t, err, "channel closed")
}

func TestPayloadWireKeys(t *testing.T) {
	body, err := json.Marshal(samplePayload())
	require.NoError(t, err)

	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &data))

	for _, field := range []string{"prospect_id", "name", "email", "phone", "goals", "services", "budget_range", "submitted_at", "origin"} {
		assert.Contains(t, data, field)
	}
	assert.Equal(t, "5k-10k", data["budget_range"])
}

func TestWorkerAcksOnSuccess(t *testing.T) {
	h := new(MockHandler)
	payload := samplePayload()
	h.On("Execute", mock.Anything, mock.MatchedBy(func(p ProspectSubmittedPayload) bool {
		return p.ProspectID == payload.ProspectID
	})).Return(nil)

	body, _ := json.Marshal(payload)
	ack := &fakeAcknowledger{}

	NewWorker(nil, h).handle(context.Background(), amqp.Delivery{Acknowledger: ack, Body: body})

	assert.Equal(t, 1, ack.acked)
	assert.Equal(t, 0, ack.nacked)
	h.AssertExpectations(t)
}

func TestWorkerNacksWithoutRequeueOnFailure(t *testing.T) {
	h := new(MockHandler)
	h.On("Execute", mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	body, _ := json.Marshal(samplePayload())
	ack := &fakeAcknowledger{}

	NewWorker(nil, h).handle(context.Background(), amqp.Delivery{Acknowledger: ack, Body: body})

	assert.Equal(t, 0, ack.acked)
	assert.Equal(t, 1, ack.nacked)
	assert.False(t, ack.requeue)
}

func TestWorkerRejectsMalformedJSON(t *testing.T) {
	h := new(MockHandler)
	ack := &fakeAcknowledger{}

	NewWorker(nil, h).handle(context.Background(), amqp.Delivery{Acknowledger: ack, Body: []byte("{oops")})

	assert.Equal(t, 1, ack.nacked)
	h.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestWorkerStartStopsOnContextCancel(t *testing.T) {
	h := new(MockHandler)
	called := make(chan struct{}, 1)
	h.On("Execute", mock.Anything, mock.Anything).Return(nil).Run(func(mock.Arguments) {
		called <- struct{}{}
	})

	consumer := &fakeConsumer{deliveries: make(chan amqp.Delivery, 1)}
	body, _ := json.Marshal(samplePayload())
	ack := &fakeAcknowledger{}
	consumer.deliveries <- amqp.Delivery{Acknowledger: ack, Body: body}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewWorker(consumer, h).Start(ctx, QueueName) }()

	select {
	case <-called:
	case <-time.After(time.Second):
		t.Fatal("message was not handled")
	}
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestWorkerStartReturnsWhenDeliveriesClose(t *testing.T) {
	consumer := &fakeConsumer{deliveries: make(chan amqp.Delivery)}
	close(consumer.deliveries)

	err := NewWorker(consumer, new(MockHandler)).Start(context.Background(), QueueName)

	assert.Error(t, err)
}
