package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"

	"github.com/amrivadeneyra/lunari-sub002/pkg/logger"
)

// Publisher publishes domain events
type Publisher interface {
	Publish(ctx context.Context, topic string, event *Event) error
	Close()
}

// Event is the envelope written to every topic
type Event struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Key        string          `json:"key"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data"`
}

// NewEvent builds an event with a fresh id. Key selects the partition.
func NewEvent(eventType, key string, data any) (*Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s event: %w", eventType, err)
	}
	return &Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		Key:        key,
		OccurredAt: time.Now().UTC(),
		Data:       raw,
	}, nil
}

// ProducerConfig holds franz-go producer settings
type ProducerConfig struct {
	Brokers  []string
	ClientID string
	// DeliveryTimeout bounds how long a record may wait for the broker
	DeliveryTimeout time.Duration
	Logger          *logger.Logger
}

// Producer publishes events asynchronously with franz-go. Delivery
// failures are reported to the logger, never to the caller.
type Producer struct {
	client  *kgo.Client
	timeout time.Duration
	log     *logger.Logger
}

// NewProducer creates a producer. Brokers are contacted lazily on first produce.
func NewProducer(cfg *ProducerConfig) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka: at least one broker is required")
	}

	timeout := cfg.DeliveryTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	log := cfg.Logger
	if log == nil {
		log = logger.NewNop()
	}

	opts := []kgo.Opt{
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ProducerLinger(5 * time.Millisecond),
		kgo.RecordDeliveryTimeout(timeout),
	}
	if cfg.ClientID != "" {
		opts = append(opts, kgo.ClientID(cfg.ClientID))
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("kafka: failed to create client: %w", err)
	}

	return &Producer{client: client, timeout: timeout, log: log}, nil
}

// Publish buffers event for topic and returns without waiting for the
// broker. Only encoding errors are returned.
func (p *Producer) Publish(ctx context.Context, topic string, event *Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka: failed to encode event: %w", err)
	}

	// the record outlives the request that produced it
	ctx = context.WithoutCancel(ctx)

	record := &kgo.Record{
		Topic: topic,
		Key:   []byte(event.Key),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}
	p.client.Produce(ctx, record, func(r *kgo.Record, err error) {
		if err != nil {
			p.log.WarnContext(ctx, "failed to deliver event",
				zap.String("topic", r.Topic),
				zap.String("event_type", event.Type),
				zap.String("event_id", event.ID),
				zap.Error(err),
			)
		}
	})
	return nil
}

// Flush waits until every buffered record is delivered or failed
func (p *Producer) Flush(ctx context.Context) error {
	return p.client.Flush(ctx)
}

// Ping checks that a broker is reachable
func (p *Producer) Ping(ctx context.Context) error {
	return p.client.Ping(ctx)
}

// Close flushes buffered records and closes the client
func (p *Producer) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	if err := p.client.Flush(ctx); err != nil {
		p.log.Warn("kafka flush on close failed", zap.Error(err))
	}
	p.client.Close()
}

// NoopPublisher drops every event. Used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, *Event) error { return nil }

func (NoopPublisher) Close() {}
