package knowledge

import (
	"errors"
	"math"
	"testing"

	"github.com/0xcro3dile/medquery-go/internal/domain/entities"
)

func record(name, uses, composition, sideEffects, manufacturer string) entities.MedicineRecord {
	return entities.NewMedicineRecord(map[string]string{
		entities.ColumnName:         name,
		entities.ColumnUses:         uses,
		entities.ColumnComposition:  composition,
		entities.ColumnSideEffects:  sideEffects,
		entities.ColumnManufacturer: manufacturer,
	})
}

func testCorpus() []entities.MedicineRecord {
	return []entities.MedicineRecord{
		record("Aspirin 75mg Tablet", "Pain relief, fever and prevention of heart attack", "Aspirin (75mg)", "Stomach upset, heartburn, nausea", "Bayer"),
		record("Ibuprofen 400mg Tablet", "Pain relief, inflammation and arthritis", "Ibuprofen (400mg)", "Nausea, dizziness, stomach pain", "Abbott"),
		record("Metformin 500mg Tablet", "Type 2 diabetes mellitus", "Metformin (500mg)", "Diarrhea, metallic taste, vitamin B12 deficiency", "Sun Pharma"),
		record("Cetirizine 10mg Tablet", "Allergic rhinitis, hives, itching", "Cetirizine (10mg)", "Drowsiness, dry mouth", "Cipla"),
		record("Omeprazole 20mg Capsule", "Acid reflux, peptic ulcer", "Omeprazole (20mg)", "Headache, abdominal pain", "Dr Reddys"),
	}
}

func mustBuild(t *testing.T, records []entities.MedicineRecord) *Index {
	t.Helper()
	ix, err := Build(records, DefaultVectorizerConfig())
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	return ix
}

func TestBuild_EmptyCorpus(t *testing.T) {
	_, err := Build(nil, DefaultVectorizerConfig())
	if !errors.Is(err, entities.ErrEmptyCorpus) || !errors.Is(err, entities.ErrDatasetLoad) {
		t.Fatalf("expected empty corpus load error, got %v", err)
	}
}

func TestBuild_OneVectorPerRecord(t *testing.T) {
	ix := mustBuild(t, testCorpus())

	if ix.Len() != 5 {
		t.Errorf("expected 5 records, got %d", ix.Len())
	}
	if len(ix.vectors) != ix.Len() {
		t.Errorf("expected one vector per record, got %d", len(ix.vectors))
	}
	if ix.Dimension() == 0 {
		t.Error("expected a non-empty vocabulary")
	}
	rec, ok := ix.Record(2)
	if !ok || rec.Name != "Metformin 500mg Tablet" {
		t.Errorf("unexpected record at 2: %+v", rec)
	}
	if _, ok := ix.Record(5); ok {
		t.Error("out of range record should not be found")
	}
}

func TestBuild_CopiesInput(t *testing.T) {
	records := testCorpus()
	ix := mustBuild(t, records)

	records[0].Name = "Changed"
	if rec, _ := ix.Record(0); rec.Name != "Aspirin 75mg Tablet" {
		t.Error("index must not share the caller's slice")
	}
}

func TestFit_SingleDocumentPrunesEverything(t *testing.T) {
	_, err := Fit([]string{"aspirin tablet"}, DefaultVectorizerConfig())
	if !errors.Is(err, ErrEmptyVocabulary) {
		t.Fatalf("expected ErrEmptyVocabulary, got %v", err)
	}
}

func TestFit_UnsupportedStopWords(t *testing.T) {
	cfg := DefaultVectorizerConfig()
	cfg.StopWords = "klingon"
	if _, err := Fit([]string{"a b", "c d"}, cfg); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestFit_VocabularyOptions(t *testing.T) {
	docs := []string{
		"the pain relief tablet",
		"fever relief syrup",
		"pain and fever capsule",
	}
	v, err := Fit(docs, DefaultVectorizerConfig())
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}

	if _, ok := v.vocabulary["the"]; ok {
		t.Error("stop words must be removed")
	}
	if _, ok := v.vocabulary["pain relief"]; !ok {
		t.Error("expected bigram 'pain relief' in vocabulary")
	}
	if _, ok := v.vocabulary["tablet"]; !ok {
		t.Error("expected unigram 'tablet' in vocabulary")
	}

	cfg := DefaultVectorizerConfig()
	cfg.MaxFeatures = 3
	limited, err := Fit(docs, cfg)
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}
	if limited.Dimension() != 3 {
		t.Errorf("expected 3 features, got %d", limited.Dimension())
	}
}

func TestFit_MaxDFDropsUbiquitousTerms(t *testing.T) {
	docs := []string{"tablet aspirin", "tablet ibuprofen", "tablet metformin"}
	v, err := Fit(docs, DefaultVectorizerConfig())
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}
	if _, ok := v.vocabulary["tablet"]; ok {
		t.Error("term present in every document should be pruned by max_df")
	}
}

func TestTransform_NormalizedAndUnknownTerms(t *testing.T) {
	ix := mustBuild(t, testCorpus())

	vec := ix.model.Transform("aspirin for heart attack")
	if math.Abs(vec.Norm()-1) > 1e-9 {
		t.Errorf("expected unit vector, got norm %v", vec.Norm())
	}

	zero := ix.model.Transform("xyzabc123nonsense")
	if len(zero.Indices) != 0 || zero.Norm() != 0 {
		t.Error("unknown terms must yield a zero vector")
	}
}

func TestCosineSimilarity_ZeroVector(t *testing.T) {
	a := Vector{Indices: []int{0, 2}, Values: []float64{0.6, 0.8}}
	if got := cosineSimilarity(Vector{}, a); got != 0 {
		t.Errorf("zero vector similarity should be 0, got %v", got)
	}
	if got := cosineSimilarity(a, a); math.Abs(got-1) > 1e-9 {
		t.Errorf("self similarity should be 1, got %v", got)
	}
	b := Vector{Indices: []int{1}, Values: []float64{1}}
	if got := cosineSimilarity(a, b); got != 0 {
		t.Errorf("orthogonal vectors should score 0, got %v", got)
	}
}

func TestSearch_ExactNameIsTopMatch(t *testing.T) {
	corpus := testCorpus()
	ix := mustBuild(t, corpus)

	for i, rec := range corpus {
		matches, err := ix.Search(rec.Name, 3, 0.1)
		if err != nil {
			t.Fatalf("search failed: %v", err)
		}
		if len(matches) == 0 {
			t.Fatalf("no match for exact name %q", rec.Name)
		}
		if matches[0].Index != i {
			t.Errorf("query %q: expected top index %d, got %d", rec.Name, i, matches[0].Index)
		}
		if matches[0].Score <= 0.1 {
			t.Errorf("query %q: top score %v should exceed threshold", rec.Name, matches[0].Score)
		}
	}
}

func TestSearch_ScoresBoundedAndSorted(t *testing.T) {
	ix := mustBuild(t, testCorpus())

	for _, q := range []string{"pain relief", "nausea stomach", "tablet", "headache abdominal pain", "aspirin ibuprofen"} {
		matches, err := ix.Search(q, 5, 0)
		if err != nil {
			t.Fatalf("search failed: %v", err)
		}
		for i, m := range matches {
			if m.Score < 0 || m.Score > 1 {
				t.Errorf("query %q: score %v out of range", q, m.Score)
			}
			if m.Score <= 0 {
				t.Errorf("query %q: score %v not above threshold", q, m.Score)
			}
			if i > 0 && matches[i-1].Score < m.Score {
				t.Errorf("query %q: scores not sorted at %d", q, i)
			}
		}
	}
}

func TestSearch_TopKAndThreshold(t *testing.T) {
	ix := mustBuild(t, testCorpus())

	matches, _ := ix.Search("pain", 1, 0)
	if len(matches) != 1 {
		t.Errorf("expected 1 match with topK=1, got %d", len(matches))
	}

	matches, _ = ix.Search("pain", 5, 0.99)
	if len(matches) != 0 {
		t.Errorf("expected no match above 0.99, got %d", len(matches))
	}
}

func TestSearch_NoSimilarRecord(t *testing.T) {
	ix := mustBuild(t, testCorpus())

	matches, err := ix.Search("xyzabc123nonsense", 3, 0.1)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("expected no matches, got %d", len(matches))
	}

	matches, _ = ix.Search("", 3, 0.1)
	if len(matches) != 0 {
		t.Errorf("empty query should not match, got %d", len(matches))
	}
}

func TestSearch_TiesKeepCorpusOrder(t *testing.T) {
	corpus := append(testCorpus(), testCorpus()[0])
	ix := mustBuild(t, corpus)

	matches, err := ix.Search("aspirin", 2, 0.1)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Index != 0 || matches[1].Index != 5 {
		t.Errorf("expected indices [0 5], got [%d %d]", matches[0].Index, matches[1].Index)
	}
}

func TestSearch_IllFormedIndex(t *testing.T) {
	var nilIndex *Index
	if _, err := nilIndex.Search("aspirin", 3, 0.1); !errors.Is(err, ErrIndexState) {
		t.Errorf("expected ErrIndexState for nil index, got %v", err)
	}

	broken := &Index{records: testCorpus()}
	if _, err := broken.Search("aspirin", 3, 0.1); !errors.Is(err, ErrIndexState) {
		t.Errorf("expected ErrIndexState for missing model, got %v", err)
	}

	ix := mustBuild(t, testCorpus())
	if _, err := ix.Search("aspirin", 0, 0.1); !errors.Is(err, ErrIndexState) {
		t.Errorf("expected ErrIndexState for topK=0, got %v", err)
	}
}
