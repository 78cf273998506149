package db

import "context"

// SchemaInterface manages the versioned schema of the database.
type SchemaInterface interface {
	// Upgrade applies every version newer than the database's, in order.
	//
	// Returns applied versions.
	Upgrade(ctx context.Context) ([]int, error)

	// Version is the schema version of the database. 0 means "no schema yet".
	Version(ctx context.Context) (int, error)

	// Latest is the newest version in the schema repository.
	Latest() (int, error)

	// Context returns a context which is cancelled when the database schema is
	// older than the schema repository, now or later.
	Context(ctx context.Context) (context.Context, context.CancelFunc)
}
