// Package usecases contains application business rules.
// Usecases orchestrate entities and depend on port interfaces only.
package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/0xcro3dile/medquery-go/internal/domain/entities"
	"github.com/0xcro3dile/medquery-go/internal/domain/knowledge"
	"github.com/0xcro3dile/medquery-go/internal/domain/lexicon"
	"github.com/0xcro3dile/medquery-go/internal/domain/ports"
)

// ChatOptions tunes retrieval and rendering.
type ChatOptions struct {
	TopK             int     // matches to retrieve, default 2
	Threshold        float64 // scores at or below are discarded
	PreviewLength    int     // enrichment field preview, default 200
	AltPreviewLength int     // alternative uses preview, default 100
}

// ChatUseCase answers one free-text query at a time. It is safe for
// concurrent use: the index is read-only and only the conversation log
// is written per request.
type ChatUseCase struct {
	index        atomic.Pointer[knowledge.Index]
	preprocessor *lexicon.Preprocessor
	classifier   *lexicon.Classifier
	advisor      *lexicon.Advisor
	composer     *Composer
	enricher     ports.Enricher // nil disables enrichment
	history      ports.ConversationLog
	topK         int
	threshold    float64
	logger       *slog.Logger
	newID        func() string
}

// NewChatUseCase creates a ChatUseCase with injected dependencies.
func NewChatUseCase(
	index *knowledge.Index,
	lex *lexicon.Lexicon,
	enricher ports.Enricher,
	history ports.ConversationLog,
	opts ChatOptions,
	logger *slog.Logger,
) *ChatUseCase {
	if opts.TopK <= 0 {
		opts.TopK = 2
	}
	if logger == nil {
		logger = slog.Default()
	}
	uc := &ChatUseCase{
		preprocessor: lexicon.NewPreprocessor(lex),
		classifier:   lexicon.NewClassifier(lex),
		advisor:      lexicon.NewAdvisor(lex),
		composer:     NewComposer(opts.PreviewLength, opts.AltPreviewLength),
		enricher:     enricher,
		history:      history,
		topK:         opts.TopK,
		threshold:    opts.Threshold,
		logger:       logger.With("component", "chat"),
		newID:        uuid.NewString,
	}
	uc.index.Store(index)
	return uc
}

// Index returns the index currently serving queries.
func (uc *ChatUseCase) Index() *knowledge.Index {
	return uc.index.Load()
}

// SwapIndex replaces the serving index. Requests already running keep the
// index they started with.
func (uc *ChatUseCase) SwapIndex(ix *knowledge.Index) {
	uc.index.Store(ix)
}

// MedicinesLoaded returns the number of records in the serving index.
func (uc *ChatUseCase) MedicinesLoaded() int {
	return uc.index.Load().Len()
}

// History returns a snapshot of the conversation log.
func (uc *ChatUseCase) History() []entities.ConversationTurn {
	return uc.history.Turns()
}

// Respond runs the full pipeline for query. It never fails: internal errors
// become the no-match template or the generic apology. Exactly one user turn
// and one bot turn are appended to the conversation log.
func (uc *ChatUseCase) Respond(ctx context.Context, query string) (resp *entities.ChatResponse) {
	uc.record(entities.RoleUser, query)

	defer func() {
		if r := recover(); r != nil {
			uc.logger.Error("compose failed", "query", query, "panic", fmt.Sprint(r))
			resp = &entities.ChatResponse{
				Answer:  ApologyMessage,
				Outcome: entities.OutcomeError,
				Intent:  entities.IntentGeneral,
			}
		}
		uc.record(entities.RoleBot, resp.Answer)
	}()

	return uc.respond(ctx, query)
}

func (uc *ChatUseCase) respond(ctx context.Context, query string) *entities.ChatResponse {
	normalized := uc.preprocessor.Normalize(query)
	intent := uc.classifier.Classify(normalized)

	if advice, ok := uc.advisor.Lookup(normalized); ok {
		return &entities.ChatResponse{Answer: advice, Outcome: entities.OutcomeAdvice, Intent: intent}
	}

	matches := uc.match(normalized)
	if len(matches) == 0 {
		return &entities.ChatResponse{Answer: NoMatchMessage, Outcome: entities.OutcomeNoMatch, Intent: intent}
	}

	enrichment := uc.enrich(ctx, matches[0].Record.Name)
	outcome := entities.OutcomeMatch
	if enrichment != nil {
		outcome = entities.OutcomeMatchEnriched
	}

	return &entities.ChatResponse{
		Answer:     uc.composer.Compose(intent, matches, enrichment),
		Outcome:    outcome,
		Intent:     intent,
		Matches:    matches,
		Enrichment: enrichment,
	}
}

// match ranks the corpus. Failures are logged and read as "no matches".
func (uc *ChatUseCase) match(normalized string) []entities.QueryMatch {
	matches, err := uc.index.Load().Search(normalized, uc.topK, uc.threshold)
	if err != nil {
		uc.logger.Warn("matching failed", "query", normalized, "error", err)
		return nil
	}
	return matches
}

// enrich returns nil when enrichment is disabled, fails or carries no field.
func (uc *ChatUseCase) enrich(ctx context.Context, name string) *entities.Enrichment {
	if uc.enricher == nil {
		return nil
	}
	e, err := uc.enricher.Enrich(ctx, name)
	if err != nil {
		uc.logger.Warn("enrichment unavailable", "medicine", name, "error", err)
		return nil
	}
	if !e.HasData() {
		return nil
	}
	return e
}

func (uc *ChatUseCase) record(role entities.Role, content string) {
	uc.history.Append(entities.ConversationTurn{
		ID:        uc.newID(),
		Timestamp: time.Now(),
		Role:      role,
		Content:   content,
	})
}
