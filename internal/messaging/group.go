package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/zap"
)

var (
	// ErrDuplicateTopic is returned when a second consumer is added for a topic.
	ErrDuplicateTopic = errors.New("topic already has a consumer")

	// ErrGroupStarted is returned when a running group is started or extended.
	ErrGroupStarted = errors.New("consumer group already started")
)

// Runnable is a consumer bound to one topic.
type Runnable interface {
	Topic() string
	Start(ctx context.Context) error
	Shutdown() error
}

// ConsumerGroup runs one consumer per topic under a shared context.
// The subscriber they read from is closed once every consumer has stopped.
type ConsumerGroup struct {
	mu         sync.Mutex
	consumers  []Runnable
	topics     []string
	started    []Runnable
	cancel     context.CancelFunc
	subscriber message.Subscriber
	logger     *zap.Logger
}

// NewConsumerGroup creates a group whose consumers read from subscriber.
func NewConsumerGroup(subscriber message.Subscriber, logger *zap.Logger) *ConsumerGroup {
	return &ConsumerGroup{
		subscriber: subscriber,
		logger:     logger,
	}
}

// Add registers the consumer of a topic. Each topic takes one consumer.
func (g *ConsumerGroup) Add(consumer Runnable) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.cancel != nil {
		return ErrGroupStarted
	}

	topic := consumer.Topic()
	for _, t := range g.topics {
		if t == topic {
			return fmt.Errorf("%w: %s", ErrDuplicateTopic, topic)
		}
	}

	g.consumers = append(g.consumers, consumer)
	g.topics = append(g.topics, topic)

	return nil
}

// Topics lists the registered topics in registration order.
func (g *ConsumerGroup) Topics() []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	return append([]string(nil), g.topics...)
}

// Start starts every consumer under a context that Shutdown cancels.
// If one fails, the consumers started before it are stopped again.
func (g *ConsumerGroup) Start(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.cancel != nil {
		return ErrGroupStarted
	}

	ctx, cancel := context.WithCancel(ctx)
	started := make([]Runnable, 0, len(g.consumers))

	for _, consumer := range g.consumers {
		if err := consumer.Start(ctx); err != nil {
			cancel()
			_ = stopAll(started)

			return fmt.Errorf("start consumer for %s: %w", consumer.Topic(), err)
		}

		started = append(started, consumer)
	}

	g.cancel = cancel
	g.started = started

	g.logger.Info("consumer group started", zap.Strings("topics", g.topics))

	return nil
}

// Shutdown cancels the shared context, stops the consumers and closes the subscriber.
// It returns the first error but always attempts every step.
func (g *ConsumerGroup) Shutdown() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.logger.Info("shutting down consumer group", zap.Strings("topics", g.topics))

	if g.cancel != nil {
		g.cancel()
	}

	firstErr := stopAll(g.started)
	g.started = nil

	if err := g.subscriber.Close(); err != nil && firstErr == nil {
		firstErr = err
	}

	return firstErr
}

// stopAll shuts consumers down in reverse start order.
func stopAll(consumers []Runnable) error {
	var firstErr error

	for i := len(consumers) - 1; i >= 0; i-- {
		if err := consumers[i].Shutdown(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
