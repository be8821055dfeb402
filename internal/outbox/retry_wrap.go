package outbox

import (
	"context"

	"github.com/NordCoder/Carelink/internal/domain/outbox"
	"github.com/NordCoder/Carelink/internal/obs/retry"
)

// WrapKindHandler retries h under p. The payload is not re-read between
// attempts.
func WrapKindHandler(h outbox.KindHandler, p retry.Policy) outbox.KindHandler {
	return func(ctx context.Context, data []byte) error {
		return retry.Do(ctx, func() error { return h(ctx, data) }, p)
	}
}
