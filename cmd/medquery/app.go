package main

import (
	"context"
	"log/slog"

	"github.com/0xcro3dile/medquery-go/internal/adapters/cache"
	"github.com/0xcro3dile/medquery-go/internal/adapters/enrichment"
	"github.com/0xcro3dile/medquery-go/internal/adapters/history"
	"github.com/0xcro3dile/medquery-go/internal/adapters/loader"
	"github.com/0xcro3dile/medquery-go/internal/domain/knowledge"
	"github.com/0xcro3dile/medquery-go/internal/domain/lexicon"
	"github.com/0xcro3dile/medquery-go/internal/domain/ports"
	"github.com/0xcro3dile/medquery-go/internal/domain/usecases"
	"github.com/0xcro3dile/medquery-go/internal/infrastructure/config"
)

// app is the wired engine plus whatever needs closing on exit.
type app struct {
	chat    *usecases.ChatUseCase
	loader  ports.DatasetLoader
	vectors knowledge.VectorizerConfig
	closers []func() error
}

func (a *app) Close() {
	for _, c := range a.closers {
		c()
	}
}

// newApp loads the lexicon and dataset, builds the index and wires the
// enrichment chain. Any dataset failure aborts startup.
func newApp(ctx context.Context, cfg config.Config, logger *slog.Logger) (*app, error) {
	lex, err := loadLexicon(cfg.LexiconPath)
	if err != nil {
		return nil, err
	}

	a := &app{
		loader: loader.NewMultiLoader(),
		vectors: knowledge.VectorizerConfig{
			StopWords:   cfg.StopWords,
			MaxFeatures: cfg.MaxFeatures,
			NgramMin:    1,
			NgramMax:    cfg.NgramMax,
			MinDF:       cfg.MinDF,
			MaxDF:       cfg.MaxDF,
		},
	}

	ix, err := usecases.BuildIndex(ctx, a.loader, cfg.DatasetPath, a.vectors)
	if err != nil {
		return nil, err
	}
	logger.Info("knowledge index built", "path", cfg.DatasetPath, "records", ix.Len(), "features", ix.Dimension())

	a.chat = usecases.NewChatUseCase(ix, lex, a.newEnricher(ctx, cfg, logger), history.NewInMemoryLog(), usecases.ChatOptions{
		TopK:             cfg.TopK,
		Threshold:        cfg.Threshold,
		PreviewLength:    cfg.PreviewLength,
		AltPreviewLength: cfg.AltPreviewLength,
	}, logger)
	return a, nil
}

func loadLexicon(path string) (*lexicon.Lexicon, error) {
	if path == "" {
		return lexicon.Default()
	}
	return lexicon.Load(path)
}

// newEnricher returns nil when enrichment is disabled. A configured but
// unreachable Redis falls back to the in-process cache.
func (a *app) newEnricher(ctx context.Context, cfg config.Config, logger *slog.Logger) ports.Enricher {
	if !cfg.EnrichEnabled {
		logger.Info("enrichment disabled")
		return nil
	}

	source := enrichment.NewOpenFDAAdapter(cfg.OpenFDABaseURL, cfg.EnrichTimeout, logger)

	var store ports.EnrichmentCache = cache.NewMemoryCache(cfg.CacheSize)
	if cfg.RedisAddr != "" {
		redisCache, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.CacheTTL,
		})
		if err != nil {
			logger.Warn("redis cache unavailable, using memory cache", "addr", cfg.RedisAddr, "error", err)
		} else {
			store = redisCache
			a.closers = append(a.closers, redisCache.Close)
		}
	}

	return enrichment.NewCachedEnricher(source, store, logger)
}
