package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/riskibarqy/fantasy-squad/internal/domain/manager"
)

// ManagerRepository holds managers shared by the ledger store and the points
// repository. Its mutex is always taken last.
type ManagerRepository struct {
	mu    sync.RWMutex
	items map[string]manager.Manager
}

func NewManagerRepository(items []manager.Manager) *ManagerRepository {
	r := &ManagerRepository{items: make(map[string]manager.Manager, len(items))}
	for _, m := range items {
		r.items[m.ID] = m
	}
	return r
}

func (r *ManagerRepository) GetByID(_ context.Context, managerID string) (manager.Manager, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.items[managerID]
	return m, ok, nil
}

func (r *ManagerRepository) List(_ context.Context) ([]manager.Manager, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]manager.Manager, 0, len(r.items))
	for _, m := range r.items {
		out = append(out, m)
	}
	slices.SortFunc(out, func(a, b manager.Manager) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (r *ManagerRepository) Upsert(m manager.Manager) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[m.ID] = m
}
