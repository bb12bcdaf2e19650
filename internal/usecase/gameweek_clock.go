package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/riskibarqy/fantasy-squad/internal/domain/gameweek"
)

// RepositoryClock answers gameweek.Clock from the local gameweek table.
type RepositoryClock struct {
	repo gameweek.Repository
}

func NewRepositoryClock(repo gameweek.Repository) *RepositoryClock {
	return &RepositoryClock{repo: repo}
}

func (c *RepositoryClock) CurrentStatus(ctx context.Context, gameweekID string) (gameweek.Status, error) {
	gw, err := c.get(ctx, gameweekID)
	if err != nil {
		return "", err
	}
	return gw.Status, nil
}

func (c *RepositoryClock) Deadline(ctx context.Context, gameweekID string) (time.Time, error) {
	gw, err := c.get(ctx, gameweekID)
	if err != nil {
		return time.Time{}, err
	}
	return gw.Deadline, nil
}

func (c *RepositoryClock) LatestActive(ctx context.Context) (string, error) {
	items, err := c.repo.List(ctx)
	if err != nil {
		return "", errors.Wrap(err, "list gameweeks")
	}
	gw, ok := gameweek.SelectLatestActive(items)
	if !ok {
		return "", gameweek.ErrNoActiveGameweek
	}
	return gw.ID, nil
}

func (c *RepositoryClock) get(ctx context.Context, gameweekID string) (gameweek.Gameweek, error) {
	gw, ok, err := c.repo.GetByID(ctx, gameweekID)
	if err != nil {
		return gameweek.Gameweek{}, errors.Wrapf(err, "get gameweek %s", gameweekID)
	}
	if !ok {
		return gameweek.Gameweek{}, fmt.Errorf("%w: %s", gameweek.ErrUnknownGameweek, gameweekID)
	}
	return gw, nil
}

type writeKind string

const (
	writeSquad        writeKind = "save squad"
	writeTransfer     writeKind = "make transfer"
	writeSubstitution writeKind = "substitute"
)

// gameweekGate resolves gameweek ids and decides whether a write may run.
type gameweekGate struct {
	clock           gameweek.Clock
	scheduledWrites bool
	now             func() time.Time
}

// resolve returns the requested gameweek, or the latest active one when id is empty.
func (g gameweekGate) resolve(ctx context.Context, gameweekID string) (string, gameweek.Status, error) {
	gameweekID = strings.TrimSpace(gameweekID)
	if gameweekID == "" {
		active, err := g.clock.LatestActive(ctx)
		if err != nil {
			return "", "", clockError("resolve active gameweek", "active", err)
		}
		gameweekID = active
	}

	status, err := g.clock.CurrentStatus(ctx, gameweekID)
	if err != nil {
		return "", "", clockError("get gameweek status", gameweekID, err)
	}
	return gameweekID, status, nil
}

// checkWritable allows squad saves while open, or while scheduled before the
// deadline when enabled. Transfers and substitutions need an open gameweek.
func (g gameweekGate) checkWritable(ctx context.Context, gameweekID string, status gameweek.Status, kind writeKind) error {
	switch status {
	case gameweek.StatusOpen:
		return nil
	case gameweek.StatusScheduled:
		if kind != writeSquad || !g.scheduledWrites {
			break
		}
		deadline, err := g.clock.Deadline(ctx, gameweekID)
		if err != nil {
			return clockError("get gameweek deadline", gameweekID, err)
		}
		if deadline.IsZero() || g.now().Before(deadline) {
			return nil
		}
		return &ConflictError{Reason: string(kind) + " after the deadline", GameweekID: gameweekID, Status: status}
	}
	return &ConflictError{Reason: string(kind) + " is not allowed", GameweekID: gameweekID, Status: status}
}

func clockError(op, gameweekID string, err error) error {
	switch {
	case errors.Is(err, gameweek.ErrUnknownGameweek):
		return &NotFoundError{Entity: "gameweek", ID: gameweekID}
	case errors.Is(err, gameweek.ErrNoActiveGameweek):
		return &NotFoundError{Entity: "gameweek", ID: gameweekID}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrDependencyUnavailable, op, err)
}

func lockKey(managerID, gameweekID string) string {
	return managerID + "|" + gameweekID
}
