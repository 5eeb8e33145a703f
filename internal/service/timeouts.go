package service

import (
	"context"
	"time"
)

// Timeouts bound the collaborator calls the services make. A zero value
// leaves only the caller's context in charge.
type Timeouts struct {
	// Store covers registry reads and writes.
	Store time.Duration
	// Embed covers AddChunks, which embeds every chunk before indexing.
	Embed time.Duration
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
