package cache

import (
	"context"
	"slices"

	"github.com/riskibarqy/fantasy-squad/internal/domain/player"
	"github.com/riskibarqy/fantasy-squad/internal/domain/scoring"
	basecache "github.com/riskibarqy/fantasy-squad/internal/platform/cache"
)

const (
	ruleListKey     = "scoring_rule:list"
	playerListKey   = "player:list"
	playerKeyPrefix = "player:id:"
)

// RuleRepository caches the scoring rule table. Rules change between seasons,
// not between requests.
type RuleRepository struct {
	next  scoring.RuleRepository
	cache *basecache.Store[[]scoring.Rule]
}

func NewRuleRepository(next scoring.RuleRepository, cache *basecache.Store[[]scoring.Rule]) *RuleRepository {
	return &RuleRepository{next: next, cache: cache}
}

func (r *RuleRepository) List(ctx context.Context) ([]scoring.Rule, error) {
	items, err := r.cache.GetOrLoad(ctx, ruleListKey, func(ctx context.Context) ([]scoring.Rule, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return slices.Clone(items), nil
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(items), nil
}

// PointsFor answers from the cached table; a missing rule is reported as not found.
func (r *RuleRepository) PointsFor(ctx context.Context, eventType scoring.EventType, position player.Position) (int, bool, error) {
	items, err := r.List(ctx)
	if err != nil {
		return 0, false, err
	}
	for _, rule := range items {
		if rule.EventType == eventType && rule.Position == position {
			return rule.Points, true, nil
		}
	}
	return 0, false, nil
}

func (r *RuleRepository) Invalidate(ctx context.Context) {
	r.cache.DeletePrefix(ctx, ruleListKey)
}

// PlayerCatalog caches player identity (team, position, active flag). Prices
// are never cached here; PricingView reads them per gameweek.
type PlayerCatalog struct {
	next  player.Catalog
	cache *basecache.Store[[]player.Player]
}

func NewPlayerCatalog(next player.Catalog, cache *basecache.Store[[]player.Player]) *PlayerCatalog {
	return &PlayerCatalog{next: next, cache: cache}
}

func (c *PlayerCatalog) List(ctx context.Context) ([]player.Player, error) {
	items, err := c.cache.GetOrLoad(ctx, playerListKey, func(ctx context.Context) ([]player.Player, error) {
		items, err := c.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return slices.Clone(items), nil
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(items), nil
}

// GetByIDs serves cached players and loads the rest in one call. Unknown ids
// are left out of the result, as with the underlying catalog.
func (c *PlayerCatalog) GetByIDs(ctx context.Context, playerIDs []string) ([]player.Player, error) {
	out := make([]player.Player, 0, len(playerIDs))
	missing := make([]string, 0, len(playerIDs))
	for _, id := range playerIDs {
		if cached, ok := c.cache.Get(ctx, playerKeyPrefix+id); ok && len(cached) == 1 {
			out = append(out, cached[0])
			continue
		}
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return out, nil
	}

	loaded, err := c.next.GetByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}
	for _, p := range loaded {
		c.cache.Set(ctx, playerKeyPrefix+p.ID, []player.Player{p})
		out = append(out, p)
	}
	return out, nil
}

func (c *PlayerCatalog) Invalidate(ctx context.Context) {
	c.cache.DeletePrefix(ctx, "player:")
}
