package contract

import "context"

// DocumentRegistryRepository tracks which filenames each session ingested.
type DocumentRegistryRepository interface {
	// Register is an idempotent add.
	Register(ctx context.Context, sessionID, filename string) error
	// List returns the session's filenames sorted; never nil.
	List(ctx context.Context, sessionID string) ([]string, error)
}
