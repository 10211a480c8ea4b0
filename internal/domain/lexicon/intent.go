package lexicon

import (
	"strings"

	"github.com/0xcro3dile/medquery-go/internal/domain/entities"
)

// Classifier maps a normalized query to an intent.
// First match in declared order wins, not best match.
type Classifier struct {
	intents []IntentPatterns
}

// NewClassifier creates a Classifier over the lexicon's intent table.
func NewClassifier(lex *Lexicon) *Classifier {
	return &Classifier{intents: lex.Intents}
}

// Classify returns the first intent whose pattern occurs in query,
// or entities.IntentGeneral.
func (c *Classifier) Classify(query string) entities.Intent {
	q := strings.ToLower(query)
	for _, ip := range c.intents {
		for _, pattern := range ip.Patterns {
			if strings.Contains(q, pattern) {
				return ip.Intent
			}
		}
	}
	return entities.IntentGeneral
}
