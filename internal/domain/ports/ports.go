// Package ports defines interfaces for external dependencies.
// Clean Architecture: These are the boundaries - usecases depend on these abstractions,
// not concrete implementations. Adapters implement these interfaces.
package ports

import (
	"context"

	"github.com/0xcro3dile/medquery-go/internal/domain/entities"
)

// DatasetLoader reads the medicine table and returns validated records.
type DatasetLoader interface {
	// Load reads every record from the dataset at path.
	// Any failure is fatal for startup and wraps entities.ErrDatasetLoad.
	Load(ctx context.Context, path string) ([]entities.MedicineRecord, error)

	// SupportedExtensions returns file extensions this loader handles.
	SupportedExtensions() []string
}

// Enricher looks up extra drug information for a medicine name.
// Callers treat every error as "no enrichment".
type Enricher interface {
	Enrich(ctx context.Context, medicineName string) (*entities.Enrichment, error)
}

// EnrichmentCache stores successful enrichment lookups by lookup token.
type EnrichmentCache interface {
	// Get returns the cached value and whether it was present.
	Get(ctx context.Context, key string) (*entities.Enrichment, bool, error)

	// Set stores a value.
	Set(ctx context.Context, key string, value *entities.Enrichment) error
}

// ConversationLog is the append-only record of processed turns.
// It is informational only and never consulted for ranking.
type ConversationLog interface {
	Append(turn entities.ConversationTurn)
	Turns() []entities.ConversationTurn
	Len() int
}

// FileWatcher monitors a file for changes.
type FileWatcher interface {
	// Watch starts monitoring path and emits events.
	Watch(ctx context.Context, path string) (<-chan FileEvent, error)

	// Stop stops the watcher.
	Stop() error
}

// FileEvent represents a file system change.
type FileEvent struct {
	Path      string
	Operation FileOperation
}

// FileOperation is the type of file change.
type FileOperation int

const (
	FileCreated FileOperation = iota
	FileModified
	FileDeleted
)
