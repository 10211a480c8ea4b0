package entities

import (
	"strings"
	"testing"
)

func TestNewMedicineRecord_FillsBlankCells(t *testing.T) {
	rec := NewMedicineRecord(map[string]string{
		ColumnName:        "Aspirin 75mg Tablet",
		ColumnUses:        "Pain relief",
		ColumnComposition: "  ",
	})

	if rec.Name != "Aspirin 75mg Tablet" {
		t.Errorf("expected name to be kept, got %q", rec.Name)
	}
	if rec.Composition != NotAvailable {
		t.Errorf("expected blank composition to be %q, got %q", NotAvailable, rec.Composition)
	}
	if rec.StorageHumidity != NotAvailable {
		t.Errorf("expected missing humidity to be %q, got %q", NotAvailable, rec.StorageHumidity)
	}
}

func TestNewMedicineRecord_DerivedTexts(t *testing.T) {
	rec := NewMedicineRecord(map[string]string{
		ColumnName:             "Crocin",
		ColumnUses:             "Fever",
		ColumnComposition:      "Paracetamol",
		ColumnSideEffects:      "Nausea",
		ColumnManufacturer:     "GSK",
		ColumnStorageCondition: "Cool place",
	})

	want := "Crocin Fever Paracetamol Nausea GSK"
	if rec.CombinedText != want {
		t.Errorf("expected combined text %q, got %q", want, rec.CombinedText)
	}
	if rec.KeywordText != strings.ToLower(want) {
		t.Errorf("keyword text should be lowercased combined text, got %q", rec.KeywordText)
	}
	if strings.Contains(rec.CombinedText, "Cool place") {
		t.Error("storage fields must not be part of the searchable text")
	}
}

func TestIntent_Valid(t *testing.T) {
	if !IntentSideEffects.Valid() || !IntentGeneral.Valid() {
		t.Error("known intents should be valid")
	}
	if Intent("pricing").Valid() {
		t.Error("unknown intent should be invalid")
	}
}

func TestQueryMatch_Confidence(t *testing.T) {
	tests := []struct {
		score float64
		want  int
	}{
		{0.0, 0},
		{0.114, 11},
		{0.457, 46},
		{1.0, 100},
	}
	for _, tt := range tests {
		if got := (QueryMatch{Score: tt.score}).Confidence(); got != tt.want {
			t.Errorf("Confidence(%v) = %d, want %d", tt.score, got, tt.want)
		}
	}
}

func TestEnrichment_HasData(t *testing.T) {
	var nilEnrichment *Enrichment
	if nilEnrichment.HasData() {
		t.Error("nil enrichment has no data")
	}

	empty := &Enrichment{
		Indications:       NotAvailable,
		Warnings:          NotAvailable,
		Dosage:            NotAvailable,
		Contraindications: NotAvailable,
	}
	if empty.HasData() {
		t.Error("all-unavailable enrichment has no data")
	}

	empty.Warnings = "Do not exceed the stated dose."
	if !empty.HasData() {
		t.Error("enrichment with a warning has data")
	}
}
