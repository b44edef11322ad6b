package broker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
)

var ErrQueueFull = errors.New("broker: queue full")
var ErrClosed = errors.New("broker: closed")

type Message struct {
	ID    string
	Topic string
	Key   string
	Value []byte
}

// Producer pushes a serialized value onto a topic.
type Producer interface {
	Produce(ctx context.Context, topic, key string, value []byte) error
}

// Handler processes one message. A nil error acknowledges it; transports that
// support redelivery leave unacknowledged messages uncommitted.
type Handler func(ctx context.Context, msg Message) error

// Bus is an in-process topic queue. Messages are delivered one at a time by
// Run, so a handler that produces onto the same topic never re-enters itself.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	queue    chan Message
	closed   bool
}

func New(capacity int) *Bus {
	if capacity <= 0 {
		capacity = 1024
	}
	return &Bus{handlers: make(map[string][]Handler), queue: make(chan Message, capacity)}
}

func (b *Bus) Subscribe(topic string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[topic] = append(b.handlers[topic], h)
}

func (b *Bus) Produce(ctx context.Context, topic, key string, value []byte) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrClosed
	}

	msg := Message{ID: uuid.NewString(), Topic: topic, Key: key, Value: append([]byte(nil), value...)}
	select {
	case b.queue <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fmt.Errorf("%w: topic=%s", ErrQueueFull, topic)
	}
}

// Run delivers queued messages until ctx is done or the bus is closed.
func (b *Bus) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-b.queue:
			if !ok {
				return
			}
			b.Deliver(ctx, msg)
		}
	}
}

// Drain delivers everything currently queued, including messages produced by
// the handlers themselves, and returns how many were delivered.
func (b *Bus) Drain(ctx context.Context) int {
	n := 0
	for {
		select {
		case msg, ok := <-b.queue:
			if !ok {
				return n
			}
			b.Deliver(ctx, msg)
			n++
		default:
			return n
		}
	}
}

func (b *Bus) Deliver(ctx context.Context, msg Message) []error {
	b.mu.RLock()
	hs := append([]Handler(nil), b.handlers[msg.Topic]...)
	b.mu.RUnlock()

	var errs []error
	for i, h := range hs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("broker handler panic topic=%s message_id=%s handler_index=%d panic=%v", msg.Topic, msg.ID, i, r)
					errs = append(errs, fmt.Errorf("handler panic: %v", r))
				}
			}()
			if err := h(ctx, msg); err != nil {
				log.Printf("broker handler error topic=%s message_id=%s handler_index=%d error=%v", msg.Topic, msg.ID, i, err)
				errs = append(errs, err)
			}
		}()
	}
	return errs
}

func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	close(b.queue)
}
