package loader

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/0xcro3dile/medquery-go/internal/domain/entities"
)

// SQLiteLoader reads the medicine table from a SQLite database. Column
// names follow the CSV header.
type SQLiteLoader struct {
	table string
}

// NewSQLiteLoader creates a loader reading table, "medicines" by default.
func NewSQLiteLoader(table string) *SQLiteLoader {
	if table == "" {
		table = "medicines"
	}
	return &SQLiteLoader{table: table}
}

// Load reads every row of the configured table, read-only.
func (l *SQLiteLoader) Load(ctx context.Context, path string) ([]entities.MedicineRecord, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, loadError(path, err)
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, loadError(path, fmt.Errorf("opening database: %w", err))
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, fmt.Sprintf(`SELECT * FROM "%s"`, l.table))
	if err != nil {
		return nil, loadError(path, fmt.Errorf("querying %s: %w", l.table, err))
	}
	defer rows.Close()

	header, err := rows.Columns()
	if err != nil {
		return nil, loadError(path, err)
	}
	index, err := columnIndex(header)
	if err != nil {
		return nil, loadError(path, err)
	}

	cells := make([]sql.NullString, len(header))
	dest := make([]any, len(header))
	for i := range cells {
		dest[i] = &cells[i]
	}

	var records []entities.MedicineRecord
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, loadError(path, fmt.Errorf("scanning row: %w", err))
		}
		row := make([]string, len(cells))
		for i, c := range cells {
			row[i] = c.String
		}
		records = append(records, buildRecord(index, row))
	}
	if err := rows.Err(); err != nil {
		return nil, loadError(path, err)
	}

	if len(records) == 0 {
		return nil, loadError(path, entities.ErrEmptyCorpus)
	}
	return records, nil
}

// SupportedExtensions returns file extensions this loader handles.
func (l *SQLiteLoader) SupportedExtensions() []string {
	return []string{".db", ".sqlite", ".sqlite3"}
}
