package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/riskibarqy/fantasy-squad/internal/domain/gameweek"
)

type GameweekRepository struct {
	mu    sync.RWMutex
	items map[string]gameweek.Gameweek
}

func NewGameweekRepository(items []gameweek.Gameweek) *GameweekRepository {
	r := &GameweekRepository{items: make(map[string]gameweek.Gameweek, len(items))}
	for _, gw := range items {
		r.items[gw.ID] = gw
	}
	return r
}

func (r *GameweekRepository) GetByID(_ context.Context, gameweekID string) (gameweek.Gameweek, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	gw, ok := r.items[gameweekID]
	return gw, ok, nil
}

func (r *GameweekRepository) List(_ context.Context) ([]gameweek.Gameweek, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]gameweek.Gameweek, 0, len(r.items))
	for _, gw := range r.items {
		out = append(out, gw)
	}
	slices.SortFunc(out, func(a, b gameweek.Gameweek) int { return cmp.Compare(a.Number, b.Number) })
	return out, nil
}

// SetStatus moves a gameweek to another phase; the schedule feed owns this in production.
func (r *GameweekRepository) SetStatus(gameweekID string, status gameweek.Status) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	gw, ok := r.items[gameweekID]
	if !ok {
		return false
	}
	gw.Status = status
	r.items[gameweekID] = gw
	return true
}
