package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fantasy-squad/internal/domain/scoring"
	"github.com/riskibarqy/fantasy-squad/internal/infrastructure/repository/memory"
	qb "github.com/riskibarqy/fantasy-squad/internal/platform/querybuilder"
)

// BootstrapSeed loads the demo season into an empty database.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM gameweeks`); err != nil {
		return fmt.Errorf("count gameweeks for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	gameweeks := make([]gameweekTableModel, 0)
	for _, gw := range memory.SeedGameweeks() {
		gameweeks = append(gameweeks, gameweekTableModel{
			PublicID: gw.ID,
			Number:   gw.Number,
			Status:   string(gw.Status),
			Deadline: gw.Deadline,
		})
	}
	if err := seedRows(ctx, tx, "gameweeks", gameweeks); err != nil {
		return err
	}

	players := make([]playerTableModel, 0)
	for _, p := range memory.SeedPlayers() {
		players = append(players, playerTableModel{
			PublicID: p.ID,
			TeamID:   p.TeamID,
			Name:     p.Name,
			Position: string(p.Position),
			Price:    p.Price,
			Active:   p.Active,
		})
	}
	if err := seedRows(ctx, tx, "players", players); err != nil {
		return err
	}

	for _, gp := range memory.SeedGameweekPrices() {
		query, args, err := qb.InsertInto("player_prices").
			Columns("player_public_id", "gameweek_public_id", "price").
			Values(gp.PlayerID, gp.GameweekID, gp.Price).
			OnConflict().
			DoNothing().
			ToSQL()
		if err != nil {
			return fmt.Errorf("build seed price query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("seed price %s/%s: %w", gp.PlayerID, gp.GameweekID, err)
		}
	}

	managers := make([]managerTableModel, 0)
	for _, m := range memory.SeedManagers() {
		managers = append(managers, managerTableModel{
			PublicID:         m.ID,
			SquadName:        m.SquadName,
			Wallet:           m.Wallet,
			CumulativePoints: m.CumulativePoints,
			CreatedAt:        m.CreatedAt,
			UpdatedAt:        m.UpdatedAt,
		})
	}
	if err := seedRows(ctx, tx, "managers", managers); err != nil {
		return err
	}

	rules := make([]scoringRuleTableModel, 0)
	for _, r := range scoring.DefaultRules() {
		rules = append(rules, scoringRuleTableModel{
			EventType: string(r.EventType),
			Position:  string(r.Position),
			Points:    r.Points,
		})
	}
	if err := seedRows(ctx, tx, "scoring_rules", rules); err != nil {
		return err
	}

	events := make([]playerEventTableModel, 0)
	for _, e := range memory.SeedEvents() {
		events = append(events, playerEventTableModel{
			PublicID:   e.ID,
			PlayerID:   e.PlayerID,
			GameweekID: e.GameweekID,
			FixtureID:  e.FixtureID,
			EventType:  string(e.Type),
			Minute:     e.Minute,
			CreatedAt:  e.CreatedAt,
		})
	}
	if err := seedRows(ctx, tx, "player_events", events); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}
	return nil
}

// seedRows inserts rows, skipping any that already exist.
func seedRows[T any](ctx context.Context, tx *sqlx.Tx, table string, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	query, args, err := qb.InsertModels(table, rows...).OnConflict().DoNothing().ToSQL()
	if err != nil {
		return fmt.Errorf("build seed %s query: %w", table, err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("seed %s: %w", table, err)
	}
	return nil
}
