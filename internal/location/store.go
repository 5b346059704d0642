package location

import "context"

// Store persists ingested locations.
type Store interface {
	Insert(ctx context.Context, loc *Location) error
}
