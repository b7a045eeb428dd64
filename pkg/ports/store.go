package ports

import (
	"context"

	"github.com/aretw0/markmenu/pkg/domain"
)

// TraceStore defines the interface for persisting recorded gesture traces.
type TraceStore interface {
	// Save persists a trace under its ID, replacing any previous version.
	Save(ctx context.Context, trace *domain.Trace) error

	// Load retrieves a trace by ID.
	// Returns domain.ErrTraceNotFound if the trace does not exist.
	Load(ctx context.Context, id string) (*domain.Trace, error)

	// Delete removes a trace. Deleting a missing trace is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of the stored traces.
	List(ctx context.Context) ([]string, error)
}
