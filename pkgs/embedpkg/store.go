package embedpkg

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

////////////////////////////////////////////////////////////////////////////////

// DEFAULT_DIMENSION is the embedding dimension of the observed deployment.
const DEFAULT_DIMENSION = 1536

// Backend persists cache entries. Save receives both the changed entry and a
// snapshot of the whole cache so snapshot-style backends (the JSON file) can
// rewrite everything while keyed backends (the database) upsert one row.
type Backend interface {
	Load(ctx context.Context) (map[string][]float64, error)
	Save(ctx context.Context, key string, vector []float64, snapshot map[string][]float64) error
	Clear(ctx context.Context) error
}

// EmbedFunc obtains an embedding for a text remotely. ok=false means the
// caller degrades to a zero vector.
type EmbedFunc func(ctx context.Context, text string) ([]float64, bool)

////////////////////////////////////////////////////////////////////////////////

// Store is a persistent cache mapping normalized text to fixed-length
// vectors. Every vector it returns has exactly the configured dimension;
// entries of any other length are treated as misses and recomputed. Entries
// are never evicted.
type Store struct {
	mu        sync.Mutex
	dimension int
	entries   map[string][]float64
	backend   Backend
}

// NewStore creates a store over the given backend and loads the persisted
// entries. A load failure starts the store empty rather than failing the
// caller.
func NewStore(dimension int, backend Backend) *Store {
	if dimension <= 0 {
		dimension = DEFAULT_DIMENSION
	}

	entries, err := backend.Load(context.Background())
	if err != nil {
		log.WithField("caller", "NewStore").WithError(err).Warn("failed to load embedding cache")
		entries = make(map[string][]float64)
	}
	if entries == nil {
		entries = make(map[string][]float64)
	}

	log.WithFields(log.Fields{
		"caller":  "NewStore",
		"entries": len(entries),
	}).Debug("embedding cache loaded")

	return &Store{
		dimension: dimension,
		entries:   entries,
		backend:   backend,
	}
}

////////////////////////////////////////////////////////////////////////////////

// GetOrCompute returns the cached vector for a normalized text, computing and
// persisting it through embed on a miss. A cache-write failure is logged and
// never aborts the caller; a remote failure yields a zero vector with
// ok=false so the scoring job stays alive.
func (s *Store) GetOrCompute(ctx context.Context, text string, embed EmbedFunc) ([]float64, bool) {
	if vector, ok := s.Lookup(text); ok {
		return vector, true
	}

	vector, ok := embed(ctx, text)
	if !ok {
		return Zero(s.dimension), false
	}
	vector = Reshape(vector, s.dimension)

	s.mu.Lock()
	s.entries[text] = vector
	snapshot := make(map[string][]float64, len(s.entries))
	for k, v := range s.entries {
		snapshot[k] = v
	}
	s.mu.Unlock()

	if err := s.backend.Save(ctx, text, vector, snapshot); err != nil {
		log.WithField("caller", "Store.GetOrCompute").WithError(err).Error("failed to persist embedding cache")
	}
	return vector, true
}

// Lookup returns the cached vector without computing. Wrong-length entries
// are reported as misses, never returned as-is.
func (s *Store) Lookup(text string) ([]float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	vector, ok := s.entries[text]
	if !ok {
		return nil, false
	}
	if len(vector) != s.dimension {
		log.WithFields(log.Fields{
			"caller": "Store.Lookup",
			"length": len(vector),
			"want":   s.dimension,
		}).Warn("cached embedding has wrong shape, recomputing")
		return nil, false
	}

	out := make([]float64, s.dimension)
	copy(out, vector)
	return out, true
}

// Misses returns the unique texts that would miss the cache, in first-seen
// order.
func (s *Store) Misses(texts []string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool, len(texts))
	var misses []string
	for _, text := range texts {
		if seen[text] {
			continue
		}
		seen[text] = true
		if vector, ok := s.entries[text]; ok && len(vector) == s.dimension {
			continue
		}
		misses = append(misses, text)
	}
	return misses
}

// Len returns the number of cached entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Dimension returns the configured vector length.
func (s *Store) Dimension() int {
	return s.dimension
}

// Clear drops all entries, in memory and in the backend.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.entries = make(map[string][]float64)
	s.mu.Unlock()
	return s.backend.Clear(ctx)
}

////////////////////////////////////////////////////////////////////////////////

// Reshape forces a vector to the given dimension: longer vectors are
// truncated, shorter ones zero-padded on the right. This is a lossy
// keep-alive measure for dimensionality drift of the remote model, not a
// correctness feature.
func Reshape(vector []float64, dimension int) []float64 {
	if len(vector) == dimension {
		return vector
	}

	log.WithFields(log.Fields{
		"caller": "Reshape",
		"length": len(vector),
		"want":   dimension,
	}).Warn("embedding has unexpected shape, adjusting")

	out := make([]float64, dimension)
	copy(out, vector)
	return out
}

// Zero returns the all-zero vector of the given dimension.
func Zero(dimension int) []float64 {
	return make([]float64, dimension)
}
