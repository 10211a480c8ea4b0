package lexicon

import (
	"regexp"
	"strings"
)

// Preprocessor normalizes raw query text. It is safe for concurrent use.
type Preprocessor struct {
	stopWords   *regexp.Regexp // nil when the lexicon has no stop words
	corrections []Correction
}

// NewPreprocessor compiles the stop-word pattern for lex.
func NewPreprocessor(lex *Lexicon) *Preprocessor {
	p := &Preprocessor{corrections: lex.Corrections}
	if len(lex.StopWords) > 0 {
		quoted := make([]string, len(lex.StopWords))
		for i, w := range lex.StopWords {
			quoted[i] = regexp.QuoteMeta(w)
		}
		p.stopWords = regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)
	}
	return p
}

// Normalize lowercases and trims the query, drops whole-word stop words and
// applies the substring corrections in declared order.
func (p *Preprocessor) Normalize(query string) string {
	q := strings.ToLower(strings.TrimSpace(query))
	if p.stopWords != nil {
		q = p.stopWords.ReplaceAllString(q, "")
	}
	for _, c := range p.corrections {
		q = strings.ReplaceAll(q, c.From, c.To)
	}
	return strings.Join(strings.Fields(q), " ")
}
