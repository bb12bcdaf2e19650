package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fantasy-squad/internal/domain/player"
	"github.com/riskibarqy/fantasy-squad/internal/domain/scoring"
	qb "github.com/riskibarqy/fantasy-squad/internal/platform/querybuilder"
)

// ScoringRepository reads rules and events and stores finalized points.
type ScoringRepository struct {
	db *sqlx.DB
}

var (
	ruleSelectColumns   = qb.Columns(scoringRuleTableModel{})
	eventSelectColumns  = qb.Columns(playerEventTableModel{})
	pointsSelectColumns = qb.Columns(managerPointsTableModel{})
)

func NewScoringRepository(db *sqlx.DB) *ScoringRepository {
	return &ScoringRepository{db: db}
}

func (r *ScoringRepository) List(ctx context.Context) ([]scoring.Rule, error) {
	query, args, err := qb.Select(ruleSelectColumns...).From("scoring_rules").
		OrderBy("event_type", "position").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list scoring rules query: %w", err)
	}

	var rows []scoringRuleTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list scoring rules: %w", err)
	}

	out := make([]scoring.Rule, 0, len(rows))
	for _, row := range rows {
		out = append(out, scoring.Rule{
			EventType: scoring.EventType(row.EventType),
			Position:  player.Position(row.Position),
			Points:    row.Points,
		})
	}
	return out, nil
}

func (r *ScoringRepository) PointsFor(ctx context.Context, eventType scoring.EventType, position player.Position) (int, bool, error) {
	query, args, err := qb.Select("points").From("scoring_rules").
		Where(
			qb.Eq("event_type", string(eventType)),
			qb.Eq("position", string(position)),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return 0, false, fmt.Errorf("build select rule points query: %w", err)
	}

	var points int
	if err := r.db.GetContext(ctx, &points, query, args...); err != nil {
		if isNotFound(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("get rule points: %w", err)
	}
	return points, true, nil
}

func (r *ScoringRepository) EventsFor(ctx context.Context, playerID, gameweekID string) ([]scoring.Event, error) {
	query, args, err := qb.Select(eventSelectColumns...).From("player_events").
		Where(
			qb.Eq("player_public_id", playerID),
			qb.Eq("gameweek_public_id", gameweekID),
		).
		OrderBy("minute", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select player events query: %w", err)
	}

	var rows []playerEventTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select player events: %w", err)
	}

	out := make([]scoring.Event, 0, len(rows))
	for _, row := range rows {
		out = append(out, scoring.Event{
			ID:         row.PublicID,
			PlayerID:   row.PlayerID,
			GameweekID: row.GameweekID,
			FixtureID:  row.FixtureID,
			Type:       scoring.EventType(row.EventType),
			Minute:     row.Minute,
			CreatedAt:  row.CreatedAt,
		})
	}
	return out, nil
}

func (r *ScoringRepository) SaveGameweekPoints(ctx context.Context, points scoring.ManagerGameweekPoints, cumulative int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save points tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	upsertSQL, upsertArgs, err := qb.InsertModels("manager_gameweek_points", managerPointsTableModel{
		ManagerID:    points.ManagerID,
		GameweekID:   points.GameweekID,
		Points:       points.Points,
		CalculatedAt: points.CalculatedAt,
	}).
		OnConflict("manager_public_id", "gameweek_public_id").
		DoUpdate("points", "calculated_at").
		ToSQL()
	if err != nil {
		return fmt.Errorf("build upsert manager points query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, upsertSQL, upsertArgs...); err != nil {
		return fmt.Errorf("upsert manager points: %w", err)
	}

	updateSQL, updateArgs, err := qb.Update("managers").
		Set("cumulative_points", cumulative).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("public_id", points.ManagerID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update cumulative points query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, updateSQL, updateArgs...); err != nil {
		return fmt.Errorf("update cumulative points: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save points tx: %w", err)
	}
	return nil
}

func (r *ScoringRepository) ListByManager(ctx context.Context, managerID string) ([]scoring.ManagerGameweekPoints, error) {
	return r.listPoints(ctx, qb.Eq("manager_public_id", managerID))
}

func (r *ScoringRepository) ListByGameweek(ctx context.Context, gameweekID string) ([]scoring.ManagerGameweekPoints, error) {
	return r.listPoints(ctx, qb.Eq("gameweek_public_id", gameweekID))
}

func (r *ScoringRepository) listPoints(ctx context.Context, condition qb.Condition) ([]scoring.ManagerGameweekPoints, error) {
	query, args, err := qb.Select(pointsSelectColumns...).From("manager_gameweek_points").
		Where(condition).
		OrderBy("manager_public_id", "gameweek_public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list manager points query: %w", err)
	}

	var rows []managerPointsTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list manager points: %w", err)
	}

	out := make([]scoring.ManagerGameweekPoints, 0, len(rows))
	for _, row := range rows {
		out = append(out, scoring.ManagerGameweekPoints{
			ManagerID:    row.ManagerID,
			GameweekID:   row.GameweekID,
			Points:       row.Points,
			CalculatedAt: row.CalculatedAt,
		})
	}
	return out, nil
}
