package events

import (
	"errors"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/serroba/linkshorter/internal/messaging"
	"go.uber.org/zap"
)

// Publishers holds one typed publish func per topic.
type Publishers struct {
	ShortLinkCreated  messaging.Publish[ShortLinkCreated]
	ShortLinkResolved messaging.Publish[ShortLinkResolved]
	BarcodeServed     messaging.Publish[BarcodeServed]
}

// NewPublishers binds every topic to publisher.
func NewPublishers(publisher message.Publisher) Publishers {
	return Publishers{
		ShortLinkCreated:  messaging.NewPublishFunc[ShortLinkCreated](publisher, TopicShortLinkCreated),
		ShortLinkResolved: messaging.NewPublishFunc[ShortLinkResolved](publisher, TopicShortLinkResolved),
		BarcodeServed:     messaging.NewPublishFunc[BarcodeServed](publisher, TopicBarcodeServed),
	}
}

// DiscardPublishers drops every event.
func DiscardPublishers() Publishers {
	return Publishers{
		ShortLinkCreated:  messaging.Discard[ShortLinkCreated](),
		ShortLinkResolved: messaging.Discard[ShortLinkResolved](),
		BarcodeServed:     messaging.Discard[BarcodeServed](),
	}
}

// RegisterConsumers adds a consumer per topic to group, each writing into sink.
func RegisterConsumers(group *messaging.ConsumerGroup, subscriber message.Subscriber, sink Sink, logger *zap.Logger) error {
	return errors.Join(
		group.Add(messaging.NewConsumer(subscriber, TopicShortLinkCreated, sink.SaveShortLinkCreated, logger)),
		group.Add(messaging.NewConsumer(subscriber, TopicShortLinkResolved, sink.SaveShortLinkResolved, logger)),
		group.Add(messaging.NewConsumer(subscriber, TopicBarcodeServed, sink.SaveBarcodeServed, logger)),
	)
}
