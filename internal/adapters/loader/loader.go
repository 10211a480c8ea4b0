// Package loader provides dataset loading adapters implementing
// ports.DatasetLoader.
package loader

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/0xcro3dile/medquery-go/internal/domain/entities"
	"github.com/0xcro3dile/medquery-go/internal/domain/ports"
)

// MultiLoader combines multiple loaders.
type MultiLoader struct {
	loaders map[string]ports.DatasetLoader
}

// NewMultiLoader creates a loader that handles CSV and SQLite datasets.
func NewMultiLoader() *MultiLoader {
	m := &MultiLoader{loaders: make(map[string]ports.DatasetLoader)}
	m.Register(NewCSVLoader())
	m.Register(NewSQLiteLoader(""))
	return m
}

// Register adds l for every extension it supports, replacing earlier loaders.
func (m *MultiLoader) Register(l ports.DatasetLoader) {
	for _, ext := range l.SupportedExtensions() {
		m.loaders[strings.ToLower(ext)] = l
	}
}

// Load dispatches to the appropriate loader based on extension.
func (m *MultiLoader) Load(ctx context.Context, path string) ([]entities.MedicineRecord, error) {
	ext := strings.ToLower(filepath.Ext(path))
	l, ok := m.loaders[ext]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported dataset extension %q", entities.ErrDatasetLoad, ext)
	}
	return l.Load(ctx, path)
}

// SupportedExtensions returns all supported extensions, sorted.
func (m *MultiLoader) SupportedExtensions() []string {
	exts := make([]string, 0, len(m.loaders))
	for ext := range m.loaders {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// columnIndex maps each required column to its position in header.
// Header names are matched after trimming and dropping a trailing unit
// suffix, so "Storage Temperature (°C)" satisfies "Storage Temperature".
func columnIndex(header []string) (map[string]int, error) {
	found := make(map[string]int, len(header))
	for i, h := range header {
		name := canonicalColumn(h)
		if _, dup := found[name]; !dup {
			found[name] = i
		}
	}

	index := make(map[string]int, len(entities.RequiredColumns))
	var missing []string
	for _, col := range entities.RequiredColumns {
		i, ok := found[col]
		if !ok {
			missing = append(missing, col)
			continue
		}
		index[col] = i
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", entities.ErrMissingColumn, strings.Join(missing, ", "))
	}
	return index, nil
}

func canonicalColumn(h string) string {
	h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	if strings.HasSuffix(h, ")") {
		if open := strings.LastIndex(h, "("); open > 0 {
			h = strings.TrimSpace(h[:open])
		}
	}
	return h
}

// buildRecord picks the required cells out of row.
func buildRecord(index map[string]int, row []string) entities.MedicineRecord {
	fields := make(map[string]string, len(index))
	for col, i := range index {
		if i < len(row) {
			fields[col] = row[i]
		}
	}
	return entities.NewMedicineRecord(fields)
}

func loadError(path string, err error) error {
	return fmt.Errorf("%w: %s: %w", entities.ErrDatasetLoad, path, err)
}
