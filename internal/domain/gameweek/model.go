package gameweek

import (
	"fmt"
	"time"
)

// Status is the lifecycle phase of a gameweek.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusOpen      Status = "open"
	StatusClosed    Status = "closed"
	StatusCompleted Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusOpen, StatusClosed, StatusCompleted:
		return true
	default:
		return false
	}
}

// Gameweek is one scoring round. Core services never mutate it.
type Gameweek struct {
	ID       string
	Number   int
	Status   Status
	Deadline time.Time
}

func (g Gameweek) Validate() error {
	if g.ID == "" {
		return fmt.Errorf("gameweek id is required")
	}
	if g.Number <= 0 {
		return fmt.Errorf("gameweek number must be greater than zero")
	}
	if !g.Status.Valid() {
		return fmt.Errorf("invalid gameweek status: %s", g.Status)
	}
	return nil
}

// SelectLatestActive picks the gameweek "current" reads resolve to: the
// highest-numbered open gameweek, else the highest closed, else the highest
// completed, else the lowest scheduled.
func SelectLatestActive(items []Gameweek) (Gameweek, bool) {
	var (
		open, closed, completed, scheduled Gameweek
		hasOpen, hasClosed, hasCompleted   bool
		hasScheduled                       bool
	)
	for _, gw := range items {
		switch gw.Status {
		case StatusOpen:
			if !hasOpen || gw.Number > open.Number {
				open, hasOpen = gw, true
			}
		case StatusClosed:
			if !hasClosed || gw.Number > closed.Number {
				closed, hasClosed = gw, true
			}
		case StatusCompleted:
			if !hasCompleted || gw.Number > completed.Number {
				completed, hasCompleted = gw, true
			}
		case StatusScheduled:
			if !hasScheduled || gw.Number < scheduled.Number {
				scheduled, hasScheduled = gw, true
			}
		}
	}

	switch {
	case hasOpen:
		return open, true
	case hasClosed:
		return closed, true
	case hasCompleted:
		return completed, true
	case hasScheduled:
		return scheduled, true
	default:
		return Gameweek{}, false
	}
}
