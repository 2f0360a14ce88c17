package service

import (
	"context"
	"encoding/json"

	"solemate-be/internal/pkg/logger"
	"solemate-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// EventForwarder ships events off the process (NATS JetStream)
type EventForwarder interface {
	Publish(ctx context.Context, event events.Event) error
}

// consumerService drains the in-process topic so turn handling never waits on the broker
type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	forwarder  EventForwarder
	logger     logger.ILogger
}

// NewConsumerService builds the consumer. A nil forwarder only logs events.
func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	forwarder EventForwarder,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		forwarder:  forwarder,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var event events.BaseEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		cs.logger.Error("EVENTS", "Failed to unmarshal event", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	cs.logger.Debug("EVENTS", "Turn event", map[string]interface{}{
		"type": event.Type,
		"data": event.Data,
	})

	if cs.forwarder == nil {
		msg.Ack()
		return
	}

	if err := cs.forwarder.Publish(ctx, event); err != nil {
		// Broker outages must not back up the in-process bus
		cs.logger.Warn("EVENTS", "Failed to forward event", map[string]interface{}{
			"type":  event.Type,
			"error": err.Error(),
		})
	}
	msg.Ack()
}
