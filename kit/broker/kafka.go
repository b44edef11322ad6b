package broker

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const headerMessageID = "message_id"

// KafkaProducer hashes on the message key so every envelope for one payment
// id lands on the same partition.
type KafkaProducer struct {
	w *kafka.Writer
}

func NewKafkaProducer(brokers []string, writeTimeout time.Duration) *KafkaProducer {
	if writeTimeout <= 0 {
		writeTimeout = 5 * time.Second
	}
	return &KafkaProducer{w: &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		WriteTimeout:           writeTimeout,
	}}
}

func (p *KafkaProducer) Produce(ctx context.Context, topic, key string, value []byte) error {
	return p.w.WriteMessages(ctx, kafka.Message{
		Topic:   topic,
		Key:     []byte(key),
		Value:   value,
		Headers: []kafka.Header{{Key: headerMessageID, Value: []byte(uuid.NewString())}},
	})
}

func (p *KafkaProducer) Close() error {
	return p.w.Close()
}

type KafkaConsumer struct {
	r *kafka.Reader
}

func NewKafkaConsumer(brokers []string, groupID, topic string) *KafkaConsumer {
	return &KafkaConsumer{r: kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  time.Second,
	})}
}

// Run fetches one message at a time and commits it only after h acknowledges
// it. An unacknowledged message stops the loop so the group rebalances from the
// last committed offset.
func (c *KafkaConsumer) Run(ctx context.Context, h Handler) error {
	for {
		m, err := c.r.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Printf("layer=broker component=kafka method=Run err=%v", err)
			return err
		}

		msg := Message{ID: messageID(m), Topic: m.Topic, Key: string(m.Key), Value: m.Value}
		if err := h(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Printf("layer=broker component=kafka method=Run topic=%s partition=%d offset=%d err=%v", m.Topic, m.Partition, m.Offset, err)
			return err
		}

		if err := c.r.CommitMessages(ctx, m); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			log.Printf("layer=broker component=kafka method=Run topic=%s offset=%d err=%v", m.Topic, m.Offset, err)
			return err
		}
	}
}

func (c *KafkaConsumer) Close() error {
	return c.r.Close()
}

// Ping dials the first reachable broker.
func Ping(ctx context.Context, brokers []string) error {
	var lastErr error
	for _, addr := range brokers {
		conn, err := kafka.DialContext(ctx, "tcp", addr)
		if err != nil {
			lastErr = err
			continue
		}
		return conn.Close()
	}
	if lastErr == nil {
		lastErr = errors.New("broker: no brokers configured")
	}
	return lastErr
}

func messageID(m kafka.Message) string {
	for _, h := range m.Headers {
		if h.Key == headerMessageID {
			return string(h.Value)
		}
	}
	return ""
}
