// Package knowledge holds the medicine knowledge index: the immutable corpus,
// its fitted TF-IDF model and one vector per record.
package knowledge

import (
	"errors"
	"fmt"

	"github.com/0xcro3dile/medquery-go/internal/domain/entities"
)

// ErrIndexState is returned when a search runs against an ill-formed index.
var ErrIndexState = errors.New("knowledge index is not usable")

// Index is built once and then shared read-only; no method mutates it.
type Index struct {
	records []entities.MedicineRecord
	vectors []Vector
	model   *Vectorizer
}

// Build fits the vectorizer over every record's combined text.
// It fails on an empty corpus or when no vocabulary survives pruning.
func Build(records []entities.MedicineRecord, cfg VectorizerConfig) (*Index, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %w", entities.ErrDatasetLoad, entities.ErrEmptyCorpus)
	}

	docs := make([]string, len(records))
	for i, rec := range records {
		docs[i] = rec.CombinedText
	}

	model, err := Fit(docs, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: fitting vectorizer: %w", entities.ErrDatasetLoad, err)
	}

	ix := &Index{
		records: make([]entities.MedicineRecord, len(records)),
		vectors: make([]Vector, len(records)),
		model:   model,
	}
	copy(ix.records, records)
	for i, doc := range docs {
		ix.vectors[i] = model.Transform(doc)
	}
	return ix, nil
}

// Len returns the number of records.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.records)
}

// Dimension returns the size of the vector space.
func (ix *Index) Dimension() int {
	if ix == nil || ix.model == nil {
		return 0
	}
	return ix.model.Dimension()
}

// Record returns the record at position i.
func (ix *Index) Record(i int) (entities.MedicineRecord, bool) {
	if ix == nil || i < 0 || i >= len(ix.records) {
		return entities.MedicineRecord{}, false
	}
	return ix.records[i], true
}
