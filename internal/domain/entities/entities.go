// Package entities contains core business entities.
// These are the enterprise business rules - pure domain objects with no external dependencies.
package entities

import (
	"errors"
	"strings"
	"time"
)

// NotAvailable marks a dataset cell or an enrichment field that has no value.
const NotAvailable = "Not available"

var (
	// ErrDatasetLoad wraps every startup failure while reading the corpus.
	ErrDatasetLoad = errors.New("dataset load failed")
	// ErrEmptyCorpus is returned when the dataset holds no records.
	ErrEmptyCorpus = errors.New("corpus is empty")
	// ErrMissingColumn is returned when a required dataset column is absent.
	ErrMissingColumn = errors.New("required column missing")
)

// Dataset column names, as they appear in the source table header.
const (
	ColumnName               = "Medicine Name"
	ColumnUses               = "Uses"
	ColumnComposition        = "Composition"
	ColumnSideEffects        = "Side_effects"
	ColumnManufacturer       = "Manufacturer"
	ColumnStorageCondition   = "Storage Condition"
	ColumnStorageTemperature = "Storage Temperature"
	ColumnStorageHumidity    = "Storage Humidity"
)

// RequiredColumns lists every column a dataset must carry.
var RequiredColumns = []string{
	ColumnName,
	ColumnUses,
	ColumnComposition,
	ColumnSideEffects,
	ColumnManufacturer,
	ColumnStorageCondition,
	ColumnStorageTemperature,
	ColumnStorageHumidity,
}

// MedicineRecord is one row of the knowledge base.
// Build it with NewMedicineRecord so the derived texts are populated.
type MedicineRecord struct {
	Name               string
	Composition        string
	Uses               string
	SideEffects        string
	Manufacturer       string
	StorageCondition   string
	StorageTemperature string
	StorageHumidity    string

	CombinedText string // searchable fields joined, fed to the vectorizer
	KeywordText  string // lowercased CombinedText
}

// NewMedicineRecord builds a record from column values keyed by column name.
// Blank or missing cells become NotAvailable.
func NewMedicineRecord(fields map[string]string) MedicineRecord {
	cell := func(col string) string {
		v := strings.TrimSpace(fields[col])
		if v == "" {
			return NotAvailable
		}
		return v
	}

	rec := MedicineRecord{
		Name:               cell(ColumnName),
		Composition:        cell(ColumnComposition),
		Uses:               cell(ColumnUses),
		SideEffects:        cell(ColumnSideEffects),
		Manufacturer:       cell(ColumnManufacturer),
		StorageCondition:   cell(ColumnStorageCondition),
		StorageTemperature: cell(ColumnStorageTemperature),
		StorageHumidity:    cell(ColumnStorageHumidity),
	}
	rec.CombinedText = strings.Join([]string{
		rec.Name, rec.Uses, rec.Composition, rec.SideEffects, rec.Manufacturer,
	}, " ")
	rec.KeywordText = strings.ToLower(rec.CombinedText)
	return rec
}

// Intent is the classified purpose of a query.
type Intent string

const (
	IntentSideEffects Intent = "side_effects"
	IntentDosage      Intent = "dosage"
	IntentUsage       Intent = "usage"
	IntentInteraction Intent = "interaction"
	IntentStorage     Intent = "storage"
	IntentComposition Intent = "composition"
	IntentGeneral     Intent = "general"
)

// Valid reports whether i is one of the known intents.
func (i Intent) Valid() bool {
	switch i {
	case IntentSideEffects, IntentDosage, IntentUsage, IntentInteraction,
		IntentStorage, IntentComposition, IntentGeneral:
		return true
	}
	return false
}

// QueryMatch is a ranked reference into the knowledge index.
type QueryMatch struct {
	Index  int            // position in the corpus
	Record MedicineRecord
	Score  float64        // cosine similarity in [0, 1]
}

// Confidence returns the score as a rounded percentage.
func (m QueryMatch) Confidence() int {
	return int(m.Score*100 + 0.5)
}

// Enrichment holds fields fetched from the external drug-label source.
// A field that the source did not provide is NotAvailable.
type Enrichment struct {
	Indications       string `json:"indications"`
	Warnings          string `json:"warnings"`
	Dosage            string `json:"dosage"`
	Contraindications string `json:"contraindications"`
}

// HasData reports whether at least one field carries a value.
func (e *Enrichment) HasData() bool {
	if e == nil {
		return false
	}
	for _, v := range []string{e.Indications, e.Warnings, e.Dosage, e.Contraindications} {
		if Available(v) {
			return true
		}
	}
	return false
}

// Available reports whether a field value is populated.
func Available(v string) bool {
	return v != "" && v != NotAvailable
}

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// ConversationTurn is one entry of the conversation log.
type ConversationTurn struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
}

// Outcome tells which path produced a response.
type Outcome string

const (
	OutcomeAdvice        Outcome = "advice"
	OutcomeNoMatch       Outcome = "no_match"
	OutcomeMatch         Outcome = "match"
	OutcomeMatchEnriched Outcome = "match_enriched"
	OutcomeError         Outcome = "error"
)

// ChatResponse is the engine's answer to a single query.
type ChatResponse struct {
	Answer     string
	Outcome    Outcome
	Intent     Intent
	Matches    []QueryMatch
	Enrichment *Enrichment
}
