package knowledge

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
)

var (
	// ErrEmptyVocabulary is returned when no term survives document-frequency pruning.
	ErrEmptyVocabulary = errors.New("no terms remain after pruning")
	// ErrInvalidConfig is returned for inconsistent vectorizer options.
	ErrInvalidConfig = errors.New("invalid vectorizer config")
)

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// VectorizerConfig controls vocabulary selection.
type VectorizerConfig struct {
	StopWords   string  // stop list language, "" for none
	MaxFeatures int     // 0 means unlimited
	NgramMin    int     // smallest n-gram length
	NgramMax    int     // largest n-gram length
	MinDF       int     // minimum document count for a term
	MaxDF       float64 // fraction of documents when <= 1, document count otherwise
}

// DefaultVectorizerConfig mirrors the settings the medicine corpus was tuned with.
func DefaultVectorizerConfig() VectorizerConfig {
	return VectorizerConfig{
		StopWords:   "english",
		MaxFeatures: 5000,
		NgramMin:    1,
		NgramMax:    2,
		MinDF:       1,
		MaxDF:       0.95,
	}
}

// Vector is a sparse vector with indices in ascending order.
type Vector struct {
	Indices []int
	Values  []float64
}

// Norm returns the Euclidean length of v.
func (v Vector) Norm() float64 {
	var sum float64
	for _, x := range v.Values {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Vectorizer is a fitted TF-IDF model. It is immutable after Fit.
type Vectorizer struct {
	cfg        VectorizerConfig
	stopWords  map[string]struct{}
	vocabulary map[string]int
	idf        []float64
}

// Fit learns the vocabulary and inverse document frequencies from docs.
func Fit(docs []string, cfg VectorizerConfig) (*Vectorizer, error) {
	stop, ok := stopWordsFor(cfg.StopWords)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported stop words %q", ErrInvalidConfig, cfg.StopWords)
	}
	if cfg.NgramMin <= 0 {
		cfg.NgramMin = 1
	}
	if cfg.NgramMax < cfg.NgramMin {
		return nil, fmt.Errorf("%w: ngram range (%d, %d)", ErrInvalidConfig, cfg.NgramMin, cfg.NgramMax)
	}
	if cfg.MinDF <= 0 {
		cfg.MinDF = 1
	}
	if cfg.MaxDF <= 0 {
		cfg.MaxDF = 1.0
	}
	if len(docs) == 0 {
		return nil, ErrEmptyVocabulary
	}

	v := &Vectorizer{cfg: cfg, stopWords: stop}

	n := len(docs)
	df := make(map[string]int)
	total := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool)
		for _, term := range v.analyze(doc) {
			total[term]++
			if !seen[term] {
				seen[term] = true
				df[term]++
			}
		}
	}

	maxDocs := int(cfg.MaxDF)
	if cfg.MaxDF <= 1.0 {
		maxDocs = int(math.Floor(cfg.MaxDF*float64(n) + 1e-9))
	}
	if maxDocs < cfg.MinDF {
		return nil, fmt.Errorf("%w: max_df allows %d documents, fewer than min_df %d", ErrEmptyVocabulary, maxDocs, cfg.MinDF)
	}

	terms := make([]string, 0, len(df))
	for term, count := range df {
		if count >= cfg.MinDF && count <= maxDocs {
			terms = append(terms, term)
		}
	}
	if len(terms) == 0 {
		return nil, ErrEmptyVocabulary
	}

	if cfg.MaxFeatures > 0 && len(terms) > cfg.MaxFeatures {
		sort.Slice(terms, func(i, j int) bool {
			if total[terms[i]] != total[terms[j]] {
				return total[terms[i]] > total[terms[j]]
			}
			return terms[i] < terms[j]
		})
		terms = terms[:cfg.MaxFeatures]
	}

	sort.Strings(terms)
	v.vocabulary = make(map[string]int, len(terms))
	v.idf = make([]float64, len(terms))
	for i, term := range terms {
		v.vocabulary[term] = i
		v.idf[i] = math.Log(float64(1+n)/float64(1+df[term])) + 1
	}
	return v, nil
}

// Dimension returns the vocabulary size.
func (v *Vectorizer) Dimension() int {
	return len(v.idf)
}

// Transform projects text into the fitted space. Unknown terms are ignored
// and the result is L2-normalized; text with no known term yields a zero vector.
func (v *Vectorizer) Transform(text string) Vector {
	counts := make(map[int]float64)
	for _, term := range v.analyze(text) {
		if idx, ok := v.vocabulary[term]; ok {
			counts[idx]++
		}
	}
	if len(counts) == 0 {
		return Vector{}
	}

	vec := Vector{
		Indices: make([]int, 0, len(counts)),
		Values:  make([]float64, 0, len(counts)),
	}
	for idx := range counts {
		vec.Indices = append(vec.Indices, idx)
	}
	sort.Ints(vec.Indices)
	for _, idx := range vec.Indices {
		vec.Values = append(vec.Values, counts[idx]*v.idf[idx])
	}

	norm := vec.Norm()
	for i := range vec.Values {
		vec.Values[i] /= norm
	}
	return vec
}

// analyze tokenizes text, drops stop words and expands n-grams.
func (v *Vectorizer) analyze(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	tokens := raw[:0]
	for _, tok := range raw {
		if _, stop := v.stopWords[tok]; !stop {
			tokens = append(tokens, tok)
		}
	}

	var terms []string
	for n := v.cfg.NgramMin; n <= v.cfg.NgramMax; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			terms = append(terms, strings.Join(tokens[i:i+n], " "))
		}
	}
	return terms
}

// cosineSimilarity computes the cosine of the angle between two sparse vectors.
// Returns 0 if either vector has zero magnitude.
func cosineSimilarity(a, b Vector) float64 {
	var dot float64
	i, j := 0, 0
	for i < len(a.Indices) && j < len(b.Indices) {
		switch {
		case a.Indices[i] == b.Indices[j]:
			dot += a.Values[i] * b.Values[j]
			i++
			j++
		case a.Indices[i] < b.Indices[j]:
			i++
		default:
			j++
		}
	}
	denom := a.Norm() * b.Norm()
	if denom == 0 {
		return 0
	}
	return dot / denom
}
