package loader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/0xcro3dile/medquery-go/internal/domain/entities"
)

// CSVLoader reads the medicine table from a comma-separated file with a
// header row.
type CSVLoader struct{}

// NewCSVLoader creates a new CSV dataset loader.
func NewCSVLoader() *CSVLoader {
	return &CSVLoader{}
}

// Load reads every row of the CSV file at path.
func (l *CSVLoader) Load(ctx context.Context, path string) ([]entities.MedicineRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, loadError(path, err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, loadError(path, entities.ErrEmptyCorpus)
	}
	if err != nil {
		return nil, loadError(path, fmt.Errorf("reading header: %w", err))
	}
	index, err := columnIndex(header)
	if err != nil {
		return nil, loadError(path, err)
	}

	var records []entities.MedicineRecord
	for {
		if err := ctx.Err(); err != nil {
			return nil, loadError(path, err)
		}
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, loadError(path, err)
		}
		records = append(records, buildRecord(index, row))
	}

	if len(records) == 0 {
		return nil, loadError(path, entities.ErrEmptyCorpus)
	}
	return records, nil
}

// SupportedExtensions returns file extensions this loader handles.
func (l *CSVLoader) SupportedExtensions() []string {
	return []string{".csv"}
}
