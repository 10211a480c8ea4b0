// Package lexicon holds the static keyword tables that drive query
// normalization, intent classification and the canned advice responses.
// Tables are ordered lists, never maps: declaration order is precedence.
package lexicon

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/0xcro3dile/medquery-go/internal/domain/entities"
)

//go:embed lexicon.yaml
var defaultLexicon []byte

// ErrInvalidLexicon is returned when a lexicon document fails validation.
var ErrInvalidLexicon = errors.New("invalid lexicon")

// Correction rewrites a known misspelling or synonym.
type Correction struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// IntentPatterns maps an intent to its trigger substrings.
type IntentPatterns struct {
	Intent   entities.Intent `yaml:"intent"`
	Patterns []string        `yaml:"patterns"`
}

// Advice is a canned response for a common symptom or condition.
type Advice struct {
	Keyword string `yaml:"keyword"`
	Title   string `yaml:"title,omitempty"` // defaults to the title-cased keyword
	Text    string `yaml:"text"`
}

// Lexicon is the full set of keyword tables.
type Lexicon struct {
	StopWords        []string         `yaml:"stop_words"`
	Corrections      []Correction     `yaml:"corrections"`
	Intents          []IntentPatterns `yaml:"intents"`
	Advice           []Advice         `yaml:"advice"`
	AdviceDisclaimer string           `yaml:"advice_disclaimer"`
}

// Default returns the built-in lexicon.
func Default() (*Lexicon, error) {
	return Parse(defaultLexicon)
}

// Load reads a lexicon document from path.
func Load(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading lexicon: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML lexicon document.
func Parse(data []byte) (*Lexicon, error) {
	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLexicon, err)
	}
	lex.normalize()
	if err := lex.Validate(); err != nil {
		return nil, err
	}
	return &lex, nil
}

// normalize lowercases every matching key so lookups run against lowercased queries.
func (l *Lexicon) normalize() {
	for i, w := range l.StopWords {
		l.StopWords[i] = strings.ToLower(strings.TrimSpace(w))
	}
	for i := range l.Corrections {
		l.Corrections[i].From = strings.ToLower(l.Corrections[i].From)
		l.Corrections[i].To = strings.ToLower(l.Corrections[i].To)
	}
	for i := range l.Intents {
		for j, p := range l.Intents[i].Patterns {
			l.Intents[i].Patterns[j] = strings.ToLower(p)
		}
	}
	for i := range l.Advice {
		a := &l.Advice[i]
		a.Keyword = strings.ToLower(strings.TrimSpace(a.Keyword))
		if a.Title == "" && a.Keyword != "" {
			a.Title = strings.ToUpper(a.Keyword[:1]) + a.Keyword[1:]
		}
	}
}

// Validate checks that every table entry is usable.
func (l *Lexicon) Validate() error {
	for _, w := range l.StopWords {
		if w == "" {
			return fmt.Errorf("%w: empty stop word", ErrInvalidLexicon)
		}
	}
	for _, c := range l.Corrections {
		if c.From == "" {
			return fmt.Errorf("%w: correction with empty source", ErrInvalidLexicon)
		}
	}
	seen := make(map[entities.Intent]bool, len(l.Intents))
	for _, ip := range l.Intents {
		if !ip.Intent.Valid() || ip.Intent == entities.IntentGeneral {
			return fmt.Errorf("%w: unknown intent %q", ErrInvalidLexicon, ip.Intent)
		}
		if seen[ip.Intent] {
			return fmt.Errorf("%w: intent %q declared twice", ErrInvalidLexicon, ip.Intent)
		}
		seen[ip.Intent] = true
		if len(ip.Patterns) == 0 {
			return fmt.Errorf("%w: intent %q has no patterns", ErrInvalidLexicon, ip.Intent)
		}
		for _, p := range ip.Patterns {
			if p == "" {
				return fmt.Errorf("%w: intent %q has an empty pattern", ErrInvalidLexicon, ip.Intent)
			}
		}
	}
	for _, a := range l.Advice {
		if a.Keyword == "" || strings.TrimSpace(a.Text) == "" {
			return fmt.Errorf("%w: advice entry needs keyword and text", ErrInvalidLexicon)
		}
	}
	return nil
}
