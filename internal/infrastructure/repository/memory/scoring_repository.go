package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/riskibarqy/fantasy-squad/internal/domain/player"
	"github.com/riskibarqy/fantasy-squad/internal/domain/scoring"
)

// ScoringRepository serves scoring rules, match events and finalized points.
type ScoringRepository struct {
	mu       sync.RWMutex
	rules    []scoring.Rule
	events   map[string][]scoring.Event
	points   map[string]scoring.ManagerGameweekPoints
	managers *ManagerRepository
}

func NewScoringRepository(rules []scoring.Rule, events []scoring.Event, managers *ManagerRepository) *ScoringRepository {
	r := &ScoringRepository{
		rules:    slices.Clone(rules),
		events:   make(map[string][]scoring.Event),
		points:   make(map[string]scoring.ManagerGameweekPoints),
		managers: managers,
	}
	for _, e := range events {
		key := ledgerKey(e.PlayerID, e.GameweekID)
		r.events[key] = append(r.events[key], e)
	}
	return r
}

func (r *ScoringRepository) List(_ context.Context) ([]scoring.Rule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.rules), nil
}

func (r *ScoringRepository) PointsFor(_ context.Context, eventType scoring.EventType, position player.Position) (int, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rule := range r.rules {
		if rule.EventType == eventType && rule.Position == position {
			return rule.Points, true, nil
		}
	}
	return 0, false, nil
}

func (r *ScoringRepository) EventsFor(_ context.Context, playerID, gameweekID string) ([]scoring.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.events[ledgerKey(playerID, gameweekID)]), nil
}

// RecordEvent appends a match event, as the fixture feed would.
func (r *ScoringRepository) RecordEvent(e scoring.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := ledgerKey(e.PlayerID, e.GameweekID)
	r.events[key] = append(r.events[key], e)
}

func (r *ScoringRepository) SaveGameweekPoints(_ context.Context, points scoring.ManagerGameweekPoints, cumulative int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.managers.mu.Lock()
	defer r.managers.mu.Unlock()

	m, ok := r.managers.items[points.ManagerID]
	if !ok {
		return fmt.Errorf("manager %s not found", points.ManagerID)
	}
	m.CumulativePoints = cumulative
	m.UpdatedAt = points.CalculatedAt
	r.managers.items[m.ID] = m
	r.points[ledgerKey(points.ManagerID, points.GameweekID)] = points
	return nil
}

func (r *ScoringRepository) ListByManager(_ context.Context, managerID string) ([]scoring.ManagerGameweekPoints, error) {
	return r.filterPoints(func(p scoring.ManagerGameweekPoints) bool { return p.ManagerID == managerID }), nil
}

func (r *ScoringRepository) ListByGameweek(_ context.Context, gameweekID string) ([]scoring.ManagerGameweekPoints, error) {
	return r.filterPoints(func(p scoring.ManagerGameweekPoints) bool { return p.GameweekID == gameweekID }), nil
}

func (r *ScoringRepository) filterPoints(keep func(scoring.ManagerGameweekPoints) bool) []scoring.ManagerGameweekPoints {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]scoring.ManagerGameweekPoints, 0)
	for _, p := range r.points {
		if keep(p) {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b scoring.ManagerGameweekPoints) int {
		if c := cmp.Compare(a.ManagerID, b.ManagerID); c != 0 {
			return c
		}
		return cmp.Compare(a.GameweekID, b.GameweekID)
	})
	return out
}
