package store

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"jobfinder-engine/internal/domain"

	"github.com/gofrs/flock"
)

// Store is the job_results.xlsx ledger. It is append-only: rows are never
// removed and no two rows share a Link after Merge.
type Store struct {
	path string
	lock *flock.Flock
	mu   sync.Mutex
}

func Open(path string) *Store {
	return &Store{
		path: path,
		lock: flock.New(path + ".lock"),
	}
}

func (s *Store) Path() string { return s.path }

// Load returns the rows in file order with headers normalized.
func (s *Store) Load() ([]domain.Listing, error) {
	return readTable(s.path)
}

// Save overwrites the file with rows under the canonical headers.
func (s *Store) Save(rows []domain.Listing) error {
	return writeTable(s.path, rows)
}

type MergeResult struct {
	// New holds fetched listings whose link was not stored yet, in fetch order.
	New []domain.Listing
	// Existing holds the rows that were in the file before the merge.
	Existing []domain.Listing
}

// Merge appends the listings whose Link is not stored yet and rewrites the
// file. When nothing is new the file is left untouched. The whole
// read-modify-write holds an exclusive lock on path.lock.
func (s *Store) Merge(ctx context.Context, fetched []domain.Listing) (MergeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return MergeResult{}, err
	}
	ok, err := s.lock.TryLockContext(ctx, 100*time.Millisecond)
	if err != nil {
		return MergeResult{}, fmt.Errorf("lock %s: %w", s.lock.Path(), err)
	}
	if !ok {
		return MergeResult{}, fmt.Errorf("lock %s: not acquired", s.lock.Path())
	}
	defer func() { _ = s.lock.Unlock() }()

	existing, err := readTable(s.path)
	if err != nil {
		return MergeResult{}, err
	}

	res := MergeResult{Existing: existing, New: NewListings(existing, fetched)}
	if len(res.New) == 0 {
		return res, nil
	}

	all := make([]domain.Listing, 0, len(existing)+len(res.New))
	all = append(all, existing...)
	all = append(all, res.New...)
	if err := writeTable(s.path, all); err != nil {
		return MergeResult{}, err
	}
	log.Printf("[store] saved path=%s rows=%d new=%d", s.path, len(all), len(res.New))
	return res, nil
}

// NewListings returns fetched listings whose Link appears neither in existing
// nor earlier in fetched. Links compare exactly.
func NewListings(existing, fetched []domain.Listing) []domain.Listing {
	seen := make(map[string]bool, len(existing)+len(fetched))
	for _, l := range existing {
		seen[l.Link] = true
	}
	out := []domain.Listing{}
	for _, l := range fetched {
		if seen[l.Link] {
			continue
		}
		seen[l.Link] = true
		out = append(out, l)
	}
	return out
}
