package clanqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// PublisherReplier publishes replies as JSON messages on a watermill topic.
type PublisherReplier struct {
	publisher message.Publisher
	topic     string
}

// NewPublisherReplier creates a replier publishing to topic.
func NewPublisherReplier(publisher message.Publisher, topic string) *PublisherReplier {
	return &PublisherReplier{publisher: publisher, topic: topic}
}

func (p *PublisherReplier) Reply(ctx context.Context, reply AdminReply) error {
	payload, err := json.Marshal(reply)
	if err != nil {
		return fmt.Errorf("failed to marshal admin reply: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	msg.Metadata.Set("caller_id", strconv.FormatInt(reply.CallerID, 10))
	if reply.CorrelationID != "" {
		msg.Metadata.Set("correlation_id", reply.CorrelationID)
	}

	if err := p.publisher.Publish(p.topic, msg); err != nil {
		return fmt.Errorf("failed to publish admin reply: %w", err)
	}
	return nil
}

var _ Replier = (*PublisherReplier)(nil)
