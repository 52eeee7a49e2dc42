package events

import (
	"context"
	"fmt"

	aws_pkg "academy-service/pkg/aws"
)

// SNSPublisher fans events out through an SNS topic, tagging each message
// with an event_type attribute for subscription filters.
type SNSPublisher struct {
	client   aws_pkg.SNSPublisher
	topicARN string
}

func NewSNSPublisher(client aws_pkg.SNSPublisher, topicARN string) *SNSPublisher {
	return &SNSPublisher{client: client, topicARN: topicARN}
}

func (p *SNSPublisher) Publish(ctx context.Context, evt Event) error {
	msg, err := evt.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}
	return p.client.Publish(ctx, p.topicARN, msg, map[string]string{"event_type": evt.Type})
}

func (p *SNSPublisher) Close() error { return nil }
