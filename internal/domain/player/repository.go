package player

import "context"

// Catalog is the read-only player pool.
type Catalog interface {
	GetByIDs(ctx context.Context, playerIDs []string) ([]Player, error)
	List(ctx context.Context) ([]Player, error)
}

// PricingView resolves the price of a player within a gameweek, falling back
// to the current list price when no gameweek price exists. Every operation
// reads prices for exactly one gameweek so a transfer never mixes snapshots.
type PricingView interface {
	PriceAt(ctx context.Context, playerID, gameweekID string) (int64, bool, error)
	PricesAt(ctx context.Context, gameweekID string, playerIDs []string) (map[string]int64, error)
}
