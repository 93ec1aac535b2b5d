package container

import (
	"github.com/samber/do"
	"github.com/serroba/linkshorter/internal/events"
	"github.com/serroba/linkshorter/internal/messaging"
	"go.uber.org/zap"
)

// PublisherPackage provides events.Publishers, backed by Redis streams when Redis is enabled.
func PublisherPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		logger := do.MustInvoke[*zap.Logger](i)
		client := do.MustInvoke[*Redis](i).Client

		publisher, err := messaging.NewRedisPublisher(client, logger.Named("publisher"))
		if err != nil {
			return nil, err
		}

		return messaging.NewPublisherGroup(publisher), nil
	})

	do.Provide(i, func(i *do.Injector) (events.Publishers, error) {
		if !do.MustInvoke[*Options](i).RedisEnabled() {
			return events.DiscardPublishers(), nil
		}

		return events.NewPublishers(do.MustInvoke[*messaging.PublisherGroup](i).Publisher()), nil
	})
}

// ConsumerGroupPackage provides the *messaging.ConsumerGroup draining every event topic into the log sink.
func ConsumerGroupPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		client := do.MustInvoke[*Redis](i).Client

		subscriber, err := messaging.NewRedisSubscriber(client, opts.ConsumerGroup, logger.Named("subscriber"))
		if err != nil {
			return nil, err
		}

		group := messaging.NewConsumerGroup(subscriber, logger)

		if err = events.RegisterConsumers(group, subscriber, events.NewLogSink(logger.Named("events")), logger); err != nil {
			_ = subscriber.Close()

			return nil, err
		}

		return group, nil
	})
}
