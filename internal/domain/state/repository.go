package state

import "context"

// Repository persists the engine state. Load never fails on a missing or
// unreadable snapshot; it falls back to Default.
type Repository interface {
	Load(ctx context.Context) (State, error)
	Save(ctx context.Context, s State) error
}
