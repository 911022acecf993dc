package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// Relay fans published events out to in-process subscribers over a
// gochannel pub/sub. Clients polling for checklist refresh hints and the
// reminder sweep both listen here without a round trip to the broker.
type Relay struct {
	pubsub *gochannel.GoChannel
	logger *slog.Logger
}

func NewRelay(logger *slog.Logger) *Relay {
	return &Relay{
		pubsub: gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: 64},
			watermill.NewSlogLogger(logger),
		),
		logger: logger,
	}
}

func (r *Relay) Publish(ctx context.Context, topic string, event *Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.SetContext(ctx)

	return r.pubsub.Publish(topic, msg)
}

// Subscribe returns a channel of decoded events for a topic. The channel
// closes when ctx is cancelled.
func (r *Relay) Subscribe(ctx context.Context, topic string) (<-chan *Event, error) {
	messages, err := r.pubsub.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", topic, err)
	}

	out := make(chan *Event)
	go func() {
		defer close(out)
		for msg := range messages {
			var event Event
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				r.logger.Warn("Dropping undecodable relay message", "error", err)
				msg.Ack()
				continue
			}
			msg.Ack()

			select {
			case out <- &event:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

func (r *Relay) Close() error {
	return r.pubsub.Close()
}

// TeePublisher forwards events to a primary publisher and mirrors them
// onto the in-process relay. Relay failures are logged, never fatal.
type TeePublisher struct {
	primary EventPublisher
	relay   *Relay
	logger  *slog.Logger
}

func NewTeePublisher(primary EventPublisher, relay *Relay, logger *slog.Logger) *TeePublisher {
	return &TeePublisher{
		primary: primary,
		relay:   relay,
		logger:  logger,
	}
}

func (t *TeePublisher) Publish(ctx context.Context, topic string, event *Event) error {
	if err := t.primary.Publish(ctx, topic, event); err != nil {
		return err
	}

	if t.relay != nil {
		if err := t.relay.Publish(ctx, topic, event); err != nil {
			t.logger.Warn("Failed to mirror event onto relay",
				"topic", topic,
				"event_type", event.Type,
				"error", err)
		}
	}

	return nil
}

func (t *TeePublisher) Close() error {
	if t.relay != nil {
		if err := t.relay.Close(); err != nil {
			t.logger.Warn("Failed to close relay", "error", err)
		}
	}
	return t.primary.Close()
}
