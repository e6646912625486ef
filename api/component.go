// Package api defines public contracts for plugin-lifecycle.
package api

import "context"

// Initializer is implemented by components that need ordered initialization.
// Components without it are marked initialized with no further action.
type Initializer interface {
	Init(ctx context.Context) error
}

// Pauser is implemented by components that react to the coordinator entering
// the PAUSED phase. Components without it are skipped.
type Pauser interface {
	Pause(ctx context.Context) error
}

// Resumer is implemented by components that react to the coordinator leaving
// the PAUSED phase. Components without it are skipped.
type Resumer interface {
	Resume(ctx context.Context) error
}

// Destroyer is implemented by components that release resources during
// teardown. Components without it are skipped.
type Destroyer interface {
	Destroy(ctx context.Context) error
}
