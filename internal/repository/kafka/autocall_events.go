package kafka

import (
	"context"

	"github.com/NordCoder/Carelink/internal/domain/autocall"
)

type AutoCallEventsKafka struct {
	p *Producer
}

func NewAutoCallEventsKafka(p *Producer) *AutoCallEventsKafka { return &AutoCallEventsKafka{p: p} }

var _ autocall.Events = (*AutoCallEventsKafka)(nil)

// PublishAutoCallRequested keys by user so one user's requests stay ordered.
func (e *AutoCallEventsKafka) PublishAutoCallRequested(ctx context.Context, r autocall.Request) error {
	return e.p.PublishJSON(ctx, KeyFromInt64(r.UserID), r)
}
