package messaging

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

// inProcessBuffer is the per-subscriber buffer of the in-process broker.
const inProcessBuffer = 1024

// Broker is a publisher and subscriber pair backed by the same transport.
type Broker struct {
	Publisher  message.Publisher
	Subscriber message.Subscriber
	// InProcess is true when messages never leave the process, so the
	// consumers must run alongside the publishers.
	InProcess bool
}

// NewInProcessBroker returns a broker backed by Go channels. Publish returns
// once every subscriber acked the message, so a drained publisher leaves
// nothing in flight.
func NewInProcessBroker(logger watermill.LoggerAdapter) *Broker {
	pubSub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer:            inProcessBuffer,
		BlockPublishUntilSubscriberAck: true,
	}, logger)

	return &Broker{
		Publisher:  pubSub,
		Subscriber: pubSub,
		InProcess:  true,
	}
}

// NewRedisBroker returns a broker backed by Redis streams. Subscribers join
// consumerGroup so several consumer processes share the stream.
func NewRedisBroker(client redis.UniversalClient, consumerGroup string, logger watermill.LoggerAdapter) (*Broker, error) {
	publisher, err := redisstream.NewPublisher(redisstream.PublisherConfig{
		Client:     client,
		Marshaller: redisstream.DefaultMarshallerUnmarshaller{},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create redis stream publisher: %w", err)
	}

	subscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
		Client:        client,
		Unmarshaller:  redisstream.DefaultMarshallerUnmarshaller{},
		ConsumerGroup: consumerGroup,
	}, logger)
	if err != nil {
		_ = publisher.Close()

		return nil, fmt.Errorf("create redis stream subscriber: %w", err)
	}

	return &Broker{
		Publisher:  publisher,
		Subscriber: subscriber,
	}, nil
}
