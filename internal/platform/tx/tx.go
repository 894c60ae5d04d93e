package tx

import "context"

// Manager wraps transactional boundaries for multi-adapter operations.
// Vault writes have no rollback; the boundary only groups the steps of one
// reconciliation so callers can swap in a recording or locking manager.
type Manager interface {
	Within(ctx context.Context, fn func(context.Context) error) error
}

type NoopManager struct{}

func (NoopManager) Within(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}
