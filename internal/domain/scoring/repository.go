package scoring

import (
	"context"

	"github.com/riskibarqy/fantasy-squad/internal/domain/player"
)

// EventStore reads match events. It is read-only to the scoring core.
type EventStore interface {
	EventsFor(ctx context.Context, playerID, gameweekID string) ([]Event, error)
}

type RuleRepository interface {
	List(ctx context.Context) ([]Rule, error)
	PointsFor(ctx context.Context, eventType EventType, position player.Position) (int, bool, error)
}

// PointsRepository stores finalized gameweek scores.
type PointsRepository interface {
	// SaveGameweekPoints upserts the gameweek row and sets the manager's
	// cumulative total in one write.
	SaveGameweekPoints(ctx context.Context, points ManagerGameweekPoints, cumulative int) error
	ListByManager(ctx context.Context, managerID string) ([]ManagerGameweekPoints, error)
	ListByGameweek(ctx context.Context, gameweekID string) ([]ManagerGameweekPoints, error)
}
