package mq

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	CorpusEventQueue = "corpus_events"
)

// CorpusEvent is the out-of-band notification other workers and the broker
// consume. The corpus itself knows nothing about it; the campaign loop emits
// these after it mutated corpus state.
type CorpusEvent struct {
	CampaignID string    `json:"campaign_id"`
	Kind       string    `json:"kind"` // only "added" is emitted so far
	CorpusID   int       `json:"corpus_id"`
	InputLen   int       `json:"input_len"`
	Edges      int       `json:"edges"`
	Timestamp  time.Time `json:"timestamp"`
}

// EventPublisher publishes corpus events to the broker.
type EventPublisher struct {
	rabbitMQ RabbitMQ
	logger   *zap.Logger
}

func NewEventPublisher(rabbitMQ RabbitMQ, logger *zap.Logger) *EventPublisher {
	return &EventPublisher{rabbitMQ, logger}
}

func (p *EventPublisher) Publish(ctx context.Context, event *CorpusEvent) error {
	if p.rabbitMQ == nil {
		// mock mode, nothing to publish to
		return nil
	}

	channel := p.rabbitMQ.GetChannel()
	if channel == nil {
		return errors.New("failed to get RabbitMQ channel")
	}
	defer channel.Close()

	q, err := channel.QueueDeclare(
		CorpusEventQueue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = channel.PublishWithContext(ctx,
		"",     // exchange
		q.Name, // routing key
		false,  // mandatory
		false,  // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
	if err != nil {
		return err
	}

	p.logger.Debug("published corpus event",
		zap.String("kind", event.Kind),
		zap.Int("corpus_id", event.CorpusID))
	return nil
}
