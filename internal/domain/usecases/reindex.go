package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/0xcro3dile/medquery-go/internal/domain/knowledge"
	"github.com/0xcro3dile/medquery-go/internal/domain/ports"
)

// BuildIndex loads the dataset at path and fits a fresh index over it.
func BuildIndex(ctx context.Context, loader ports.DatasetLoader, path string, cfg knowledge.VectorizerConfig) (*knowledge.Index, error) {
	records, err := loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	return knowledge.Build(records, cfg)
}

// IndexSwapper receives freshly built indexes.
type IndexSwapper interface {
	SwapIndex(ix *knowledge.Index)
}

// ReindexUseCase rebuilds the knowledge index when the dataset changes.
// Each rebuild produces a new index; a failed rebuild keeps the old one.
type ReindexUseCase struct {
	loader   ports.DatasetLoader
	cfg      knowledge.VectorizerConfig
	target   IndexSwapper
	debounce time.Duration
	logger   *slog.Logger
}

// NewReindexUseCase creates a ReindexUseCase with injected dependencies.
// Bursts of file events within debounce collapse into one rebuild.
func NewReindexUseCase(
	loader ports.DatasetLoader,
	cfg knowledge.VectorizerConfig,
	target IndexSwapper,
	debounce time.Duration,
	logger *slog.Logger,
) *ReindexUseCase {
	if debounce < 0 {
		debounce = 0
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReindexUseCase{
		loader:   loader,
		cfg:      cfg,
		target:   target,
		debounce: debounce,
		logger:   logger.With("component", "reindex"),
	}
}

// Reindex rebuilds from path and swaps the result in.
func (uc *ReindexUseCase) Reindex(ctx context.Context, path string) error {
	ix, err := BuildIndex(ctx, uc.loader, path, uc.cfg)
	if err != nil {
		return fmt.Errorf("rebuilding index: %w", err)
	}
	uc.target.SwapIndex(ix)
	uc.logger.Info("index rebuilt", "path", path, "records", ix.Len(), "features", ix.Dimension())
	return nil
}

// Watch rebuilds on every create or modify event for path until ctx is
// done or the watcher closes its channel.
func (uc *ReindexUseCase) Watch(ctx context.Context, watcher ports.FileWatcher, path string) error {
	events, err := watcher.Watch(ctx, path)
	if err != nil {
		return fmt.Errorf("watching dataset: %w", err)
	}

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if event.Operation == ports.FileDeleted {
				uc.logger.Warn("dataset removed, keeping current index", "path", event.Path)
				continue
			}
			if uc.debounce == 0 {
				uc.rebuild(ctx, path)
				continue
			}
			if timer == nil {
				timer = time.NewTimer(uc.debounce)
			} else {
				timer.Reset(uc.debounce)
			}
			pending = timer.C
		case <-pending:
			pending = nil
			uc.rebuild(ctx, path)
		}
	}
}

func (uc *ReindexUseCase) rebuild(ctx context.Context, path string) {
	if err := uc.Reindex(ctx, path); err != nil {
		uc.logger.Error("reindex failed, keeping current index", "path", path, "error", err)
	}
}
