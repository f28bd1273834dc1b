package testutil

import (
	"context"

	"github.com/connectus-app/backend/pkg/pubsub"
)

type MockPublisher struct {
	PublishFunc func(ctx context.Context, topic string, pack *pubsub.Pack) error

	Published []*pubsub.Pack
}

func (p *MockPublisher) Publish(ctx context.Context, topic string, pack *pubsub.Pack) error {
	p.Published = append(p.Published, pack)
	if p.PublishFunc != nil {
		return p.PublishFunc(ctx, topic, pack)
	}

	return nil
}
