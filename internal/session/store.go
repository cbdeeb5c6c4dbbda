package session

import (
	"context"

	"github.com/mbd888/trapline/internal/pagination"
)

// Store persists session state.
type Store interface {
	// Get returns the session or ErrNotFound.
	Get(ctx context.Context, id string) (*Session, error)
	// Save upserts the session.
	Save(ctx context.Context, s *Session) error
	// Finalize flips the finalized flag exactly once; the second and
	// later calls return ErrAlreadyFinalized. The check and the flip are
	// atomic so concurrent turns cannot both trigger the final report.
	Finalize(ctx context.Context, id string) error
	// Delete removes the session.
	Delete(ctx context.Context, id string) error
	// ActiveCount returns the number of live, unfinalized sessions.
	ActiveCount(ctx context.Context) (int, error)
	// List returns up to limit sessions ordered newest first, starting
	// strictly after the cursor position when one is given.
	List(ctx context.Context, limit int, after *pagination.Cursor) ([]*Session, error)
}
