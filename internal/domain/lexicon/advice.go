package lexicon

import "strings"

// Advisor answers symptom queries from the static advice table.
type Advisor struct {
	entries    []Advice
	disclaimer string
}

// NewAdvisor creates an Advisor over the lexicon's advice table.
func NewAdvisor(lex *Lexicon) *Advisor {
	return &Advisor{entries: lex.Advice, disclaimer: lex.AdviceDisclaimer}
}

// Lookup returns the formatted advice block for the first entry whose keyword
// occurs in query.
func (a *Advisor) Lookup(query string) (string, bool) {
	q := strings.ToLower(query)
	for _, e := range a.entries {
		if strings.Contains(q, e.Keyword) {
			return a.format(e), true
		}
	}
	return "", false
}

func (a *Advisor) format(e Advice) string {
	var sb strings.Builder
	sb.WriteString("## General Advice for ")
	sb.WriteString(e.Title)
	sb.WriteString("\n\n")
	sb.WriteString(strings.TrimSpace(e.Text))
	if a.disclaimer != "" {
		sb.WriteString("\n\n**⚠️ Disclaimer:** ")
		sb.WriteString(a.disclaimer)
	}
	return sb.String()
}
