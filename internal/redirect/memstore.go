package redirect

import (
	"context"
	"errors"
	"sync"

	"github.com/sundayezeilo/qrdirect/internal/errx"
)

// MemStore is an in-process Store for local development and tests. It keeps
// the same contract as PGStore: no record until the first write, partial
// merge semantics, copies on the way in and out.
type MemStore struct {
	mu      sync.RWMutex
	mapping Mapping // nil until the first write
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{}
}

func (s *MemStore) Read(_ context.Context) (Mapping, error) {
	const op = "redirect.memstore.Read"

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.mapping == nil {
		return nil, errx.E(op, errx.NotFound, errors.New("no mapping record"))
	}
	return s.mapping.Clone(), nil
}

func (s *MemStore) Write(_ context.Context, partial Mapping) error {
	const op = "redirect.memstore.Write"

	if len(partial) == 0 {
		return errx.E(op, errx.Invalid, errors.New("empty partial write"))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mapping == nil {
		s.mapping = Mapping{}
	}
	for k, v := range partial {
		s.mapping[k] = v
	}
	return nil
}
