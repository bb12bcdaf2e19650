package gameweek

import (
	"context"
	"errors"
	"time"
)

var (
	ErrUnknownGameweek  = errors.New("unknown gameweek")
	ErrNoActiveGameweek = errors.New("no active gameweek")
)

// Repository reads gameweek metadata.
type Repository interface {
	GetByID(ctx context.Context, gameweekID string) (Gameweek, bool, error)
	List(ctx context.Context) ([]Gameweek, error)
}

// Clock is the read-only scheduling oracle consulted by every write and by
// reads that resolve the current gameweek. Lookups of an unknown gameweek
// return an error wrapping ErrUnknownGameweek.
type Clock interface {
	CurrentStatus(ctx context.Context, gameweekID string) (Status, error)
	Deadline(ctx context.Context, gameweekID string) (time.Time, error)
	LatestActive(ctx context.Context) (string, error)
}
