package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/riskibarqy/fantasy-squad/internal/domain/player"
)

type PlayerRepository struct {
	mu     sync.RWMutex
	items  map[string]player.Player
	prices map[string]int64
}

func NewPlayerRepository(players []player.Player, prices []player.GameweekPrice) *PlayerRepository {
	r := &PlayerRepository{
		items:  make(map[string]player.Player, len(players)),
		prices: make(map[string]int64, len(prices)),
	}
	for _, p := range players {
		r.items[p.ID] = p
	}
	for _, gp := range prices {
		r.prices[priceKey(gp.PlayerID, gp.GameweekID)] = gp.Price
	}
	return r
}

func (r *PlayerRepository) GetByIDs(_ context.Context, playerIDs []string) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(playerIDs))
	for _, id := range playerIDs {
		if p, ok := r.items[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *PlayerRepository) List(_ context.Context) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(r.items))
	for _, p := range r.items {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b player.Player) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (r *PlayerRepository) PriceAt(_ context.Context, playerID, gameweekID string) (int64, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	price, ok := r.priceLocked(playerID, gameweekID)
	return price, ok, nil
}

func (r *PlayerRepository) PricesAt(_ context.Context, gameweekID string, playerIDs []string) (map[string]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]int64, len(playerIDs))
	for _, id := range playerIDs {
		if price, ok := r.priceLocked(id, gameweekID); ok {
			out[id] = price
		}
	}
	return out, nil
}

// SetGameweekPrice overrides a player's price for one gameweek.
func (r *PlayerRepository) SetGameweekPrice(playerID, gameweekID string, price int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prices[priceKey(playerID, gameweekID)] = price
}

func (r *PlayerRepository) priceLocked(playerID, gameweekID string) (int64, bool) {
	if price, ok := r.prices[priceKey(playerID, gameweekID)]; ok {
		return price, true
	}
	p, ok := r.items[playerID]
	if !ok {
		return 0, false
	}
	return p.Price, true
}

func priceKey(playerID, gameweekID string) string {
	return playerID + "|" + gameweekID
}
