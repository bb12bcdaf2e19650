package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fantasy-squad/internal/domain/gameweek"
	qb "github.com/riskibarqy/fantasy-squad/internal/platform/querybuilder"
)

type GameweekRepository struct {
	db *sqlx.DB
}

var gameweekSelectColumns = qb.Columns(gameweekTableModel{})

func NewGameweekRepository(db *sqlx.DB) *GameweekRepository {
	return &GameweekRepository{db: db}
}

func (r *GameweekRepository) GetByID(ctx context.Context, gameweekID string) (gameweek.Gameweek, bool, error) {
	query, args, err := qb.Select(gameweekSelectColumns...).From("gameweeks").
		Where(qb.Eq("public_id", gameweekID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return gameweek.Gameweek{}, false, fmt.Errorf("build select gameweek query: %w", err)
	}

	var row gameweekTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return gameweek.Gameweek{}, false, nil
		}
		return gameweek.Gameweek{}, false, fmt.Errorf("get gameweek: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *GameweekRepository) List(ctx context.Context) ([]gameweek.Gameweek, error) {
	query, args, err := qb.Select(gameweekSelectColumns...).From("gameweeks").
		OrderBy("number").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list gameweeks query: %w", err)
	}

	var rows []gameweekTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list gameweeks: %w", err)
	}

	out := make([]gameweek.Gameweek, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (m gameweekTableModel) toDomain() gameweek.Gameweek {
	return gameweek.Gameweek{
		ID:       m.PublicID,
		Number:   m.Number,
		Status:   gameweek.Status(m.Status),
		Deadline: m.Deadline,
	}
}
