// Package history provides conversation log adapters.
package history

import (
	"sync"

	"github.com/0xcro3dile/medquery-go/internal/domain/entities"
)

// InMemoryLog is an append-only, unbounded conversation log kept for the
// lifetime of the process. Appends are serialized.
type InMemoryLog struct {
	mu    sync.RWMutex
	turns []entities.ConversationTurn
}

// NewInMemoryLog creates an empty log.
func NewInMemoryLog() *InMemoryLog {
	return &InMemoryLog{}
}

// Append adds turn at the end of the log.
func (l *InMemoryLog) Append(turn entities.ConversationTurn) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.turns = append(l.turns, turn)
}

// Turns returns a copy of every turn in append order.
func (l *InMemoryLog) Turns() []entities.ConversationTurn {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]entities.ConversationTurn, len(l.turns))
	copy(out, l.turns)
	return out
}

// Len returns the number of turns.
func (l *InMemoryLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.turns)
}
