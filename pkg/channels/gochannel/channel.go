// Package gochannel provides the in-process pub/sub the editor publishes its
// notifications on.
package gochannel

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// CreateChannel creates a GoChannel pub/sub for the editor event bus.
// Publishing never waits for listeners so the editor loop is not held up.
func CreateChannel(logger watermill.LoggerAdapter) (*gochannel.GoChannel, *gochannel.GoChannel, error) {
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer:            256,
			Persistent:                     false,
			BlockPublishUntilSubscriberAck: false,
		},
		logger,
	)

	// GoChannel implements both Publisher and Subscriber
	return pubSub, pubSub, nil
}

// CreateTestChannel keeps published messages so a late subscriber still sees
// them, which makes tests deterministic.
func CreateTestChannel(logger watermill.LoggerAdapter) (*gochannel.GoChannel, *gochannel.GoChannel, error) {
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer: 16,
			Persistent:          true,
		},
		logger,
	)

	return pubSub, pubSub, nil
}
