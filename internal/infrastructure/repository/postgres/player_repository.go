package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/fantasy-squad/internal/domain/player"
	qb "github.com/riskibarqy/fantasy-squad/internal/platform/querybuilder"
)

// PlayerRepository serves both the catalog and the per-gameweek price view.
type PlayerRepository struct {
	db *sqlx.DB
}

var playerSelectColumns = qb.Columns(playerTableModel{})

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) GetByIDs(ctx context.Context, playerIDs []string) ([]player.Player, error) {
	if len(playerIDs) == 0 {
		return []player.Player{}, nil
	}

	query, args, err := qb.Select(playerSelectColumns...).From("players").
		Where(
			qb.In("public_id", playerIDs),
			qb.IsNull("deleted_at"),
		).
		OrderBy("public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players by ids query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players by ids: %w", err)
	}
	return playersToDomain(rows), nil
}

func (r *PlayerRepository) List(ctx context.Context) ([]player.Player, error) {
	query, args, err := qb.Select(playerSelectColumns...).From("players").
		Where(qb.IsNull("deleted_at")).
		OrderBy("public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list players query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	return playersToDomain(rows), nil
}

const priceAtQuery = `
SELECT p.public_id AS player_public_id, COALESCE(pp.price, p.price) AS price
FROM players p
LEFT JOIN player_prices pp
  ON pp.player_public_id = p.public_id AND pp.gameweek_public_id = $1
WHERE p.public_id = ANY($2) AND p.deleted_at IS NULL`

func (r *PlayerRepository) PriceAt(ctx context.Context, playerID, gameweekID string) (int64, bool, error) {
	prices, err := r.PricesAt(ctx, gameweekID, []string{playerID})
	if err != nil {
		return 0, false, err
	}
	price, ok := prices[playerID]
	return price, ok, nil
}

// PricesAt reads every requested price from one statement so the result is a
// single snapshot of the gameweek's prices.
func (r *PlayerRepository) PricesAt(ctx context.Context, gameweekID string, playerIDs []string) (map[string]int64, error) {
	out := make(map[string]int64, len(playerIDs))
	if len(playerIDs) == 0 {
		return out, nil
	}

	var rows []playerPriceRow
	if err := r.db.SelectContext(ctx, &rows, priceAtQuery, gameweekID, pq.Array(playerIDs)); err != nil {
		return nil, fmt.Errorf("select gameweek prices: %w", err)
	}
	for _, row := range rows {
		out[row.PlayerID] = row.Price
	}
	return out, nil
}

func playersToDomain(rows []playerTableModel) []player.Player {
	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, player.Player{
			ID:       row.PublicID,
			TeamID:   row.TeamID,
			Name:     row.Name,
			Position: player.Position(row.Position),
			Price:    row.Price,
			Active:   row.Active,
		})
	}
	return out
}
