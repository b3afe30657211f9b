package ports

import (
	"context"

	"github.com/xvierd/hookscope/internal/domain"
)

// OutcomeRepository defines the interface for hook outcome persistence.
// This is a driven port (implemented by adapters).
type OutcomeRepository interface {
	// Save persists an outcome record with its diagnostics.
	Save(ctx context.Context, record *domain.OutcomeRecord) error

	// FindByID retrieves a record by its unique identifier.
	FindByID(ctx context.Context, id string) (*domain.OutcomeRecord, error)

	// FindRecent returns the newest records first, at most limit of them.
	FindRecent(ctx context.Context, limit int) ([]*domain.OutcomeRecord, error)

	// FindByHook returns the records of one hook, newest first.
	FindByHook(ctx context.Context, hook string) ([]*domain.OutcomeRecord, error)

	// FindByStatus returns the records with the given status, newest first.
	FindByStatus(ctx context.Context, status domain.Status) ([]*domain.OutcomeRecord, error)
}

// Storage is the combined repository interface.
// This is a driven port (implemented by adapters).
type Storage interface {
	// Outcomes provides access to audited hook outcomes.
	Outcomes() OutcomeRepository

	// Close closes the storage connection.
	Close() error

	// Migrate runs database migrations.
	Migrate() error
}
