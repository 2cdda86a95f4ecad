// Package identity implements the IdentityIndex: an embedding store keyed
// by employee id, supporting exact add/remove and nearest-neighbor query
// under cosine similarity.
package identity

import (
	"fmt"
	"sort"
	"sync"

	"gonum.org/v1/gonum/floats"

	"github.com/kepler-fts/facetrackd/internal/ftserrors"
	"github.com/kepler-fts/facetrackd/internal/models"
)

// Index is a flat-scan nearest-neighbor index. Concurrent readers are
// allowed; writers (Add/Remove) serialize and block readers only for the
// duration of the mutation.
type Index struct {
	mu         sync.RWMutex
	dimension  int
	identities map[string]models.Identity // keyed by EmployeeID
}

// New creates an empty index fixed to dimension D. D is learned from the
// first Add if zero is passed.
func New(dimension int) *Index {
	return &Index{dimension: dimension, identities: make(map[string]models.Identity)}
}

// Add validates and unit-normalizes vec, then inserts it under id. Re-adding
// an existing id overwrites it; enrollment duplication is the caller's
// (AdminAdapter.Enroll's) concern, not the index's.
func (idx *Index) Add(id, displayName string, vec []float32) error {
	normalized, err := normalize(vec)
	if err != nil {
		return err
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.dimension == 0 {
		idx.dimension = len(normalized)
	} else if len(normalized) != idx.dimension {
		return fmt.Errorf("%w: got %d want %d", ftserrors.ErrDimensionMismatch, len(normalized), idx.dimension)
	}

	idx.identities[id] = models.Identity{
		EmployeeID:  id,
		DisplayName: displayName,
		Embedding:   normalized,
	}
	return nil
}

// Remove deletes id if present; removing an absent id is a no-op.
func (idx *Index) Remove(id string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	delete(idx.identities, id)
}

// Len returns the number of enrolled identities.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.identities)
}

// Get reports whether id is currently enrolled, used by Enroll to reject
// duplicates before running detection/embedding on the submitted image.
func (idx *Index) Get(id string) (models.Identity, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	ident, ok := idx.identities[id]
	return ident, ok
}

// Query returns the top-k matches by cosine similarity, descending, ties
// broken by lower employee id lexicographically. Deterministic for
// identical inputs and index state.
func (idx *Index) Query(vec []float32, k int) ([]models.Match, error) {
	normalized, err := normalize(vec)
	if err != nil {
		return nil, err
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.dimension != 0 && len(normalized) != idx.dimension {
		return nil, fmt.Errorf("%w: got %d want %d", ftserrors.ErrDimensionMismatch, len(normalized), idx.dimension)
	}

	matches := make([]models.Match, 0, len(idx.identities))
	for id, ident := range idx.identities {
		matches = append(matches, models.Match{EmployeeID: id, Score: cosine(normalized, ident.Embedding)})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].EmployeeID < matches[j].EmployeeID
	})

	if k > 0 && k < len(matches) {
		matches = matches[:k]
	}
	return matches, nil
}

// normalize validates dimension non-zero and returns a unit-norm copy.
func normalize(vec []float32) ([]float32, error) {
	if len(vec) == 0 {
		return nil, fmt.Errorf("%w: empty vector", ftserrors.ErrDimensionMismatch)
	}
	f64 := make([]float64, len(vec))
	for i, v := range vec {
		f64[i] = float64(v)
	}
	norm := floats.Norm(f64, 2)
	if norm == 0 {
		return nil, fmt.Errorf("%w: zero vector", ftserrors.ErrDimensionMismatch)
	}
	out := make([]float32, len(vec))
	for i, v := range f64 {
		out[i] = float32(v / norm)
	}
	return out, nil
}

// cosine computes cosine similarity between two unit-norm vectors, which
// reduces to their dot product.
func cosine(a, b []float32) float32 {
	if len(a) != len(b) {
		return -1
	}
	fa := make([]float64, len(a))
	fb := make([]float64, len(b))
	for i := range a {
		fa[i] = float64(a[i])
		fb[i] = float64(b[i])
	}
	return float32(floats.Dot(fa, fb))
}
