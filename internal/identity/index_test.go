package identity

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAddQueryFindsNearest(t *testing.T) {
	idx := New(4)
	if err := idx.Add("E001", "Alice", []float32{1, 0, 0, 0}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := idx.Add("E002", "Bob", []float32{0, 1, 0, 0}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	matches, err := idx.Query([]float32{0.99, 0.01, 0, 0}, 1)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(matches) != 1 || matches[0].EmployeeID != "E001" {
		t.Fatalf("expected E001 top match, got %+v", matches)
	}
	if matches[0].Score < 0.9 {
		t.Fatalf("expected high cosine score, got %f", matches[0].Score)
	}
}

func TestQueryTiesBreakByLowerID(t *testing.T) {
	idx := New(2)
	idx.Add("B", "", []float32{1, 0})
	idx.Add("A", "", []float32{1, 0})

	matches, err := idx.Query([]float32{1, 0}, 2)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if matches[0].EmployeeID != "A" {
		t.Fatalf("expected A first on tie, got %s", matches[0].EmployeeID)
	}
}

func TestDimensionMismatchRejected(t *testing.T) {
	idx := New(4)
	idx.Add("E001", "", []float32{1, 0, 0, 0})
	if _, err := idx.Query([]float32{1, 0, 0}, 1); err == nil {
		t.Fatal("expected dimension mismatch error")
	}
}

func TestPersistLoadRoundTrip(t *testing.T) {
	idx := New(3)
	idx.Add("E001", "Alice", []float32{1, 2, 2})
	idx.Add("E002", "Bob", []float32{2, 1, 2})

	dir := t.TempDir()
	path := filepath.Join(dir, "index.bin")
	if err := idx.Persist(path); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	loaded, err := Load(path, 3)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	probe := []float32{1, 2, 2}
	want, err := idx.Query(probe, 2)
	if err != nil {
		t.Fatalf("Query original: %v", err)
	}
	got, err := loaded.Query(probe, 2)
	if err != nil {
		t.Fatalf("Query loaded: %v", err)
	}
	if len(want) != len(got) {
		t.Fatalf("length mismatch: %d vs %d", len(want), len(got))
	}
	for i := range want {
		if want[i].EmployeeID != got[i].EmployeeID {
			t.Fatalf("match %d differs: %+v vs %+v", i, want[i], got[i])
		}
	}
}

func TestLoadRejectsDimensionMismatch(t *testing.T) {
	idx := New(2)
	idx.Add("E001", "", []float32{1, 0})
	dir := t.TempDir()
	path := filepath.Join(dir, "index.bin")
	if err := idx.Persist(path); err != nil {
		t.Fatalf("Persist: %v", err)
	}
	if _, err := Load(path, 4); err == nil {
		t.Fatal("expected dimension mismatch on load")
	}
	_ = os.Remove(path)
}
