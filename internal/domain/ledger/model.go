package ledger

import (
	"fmt"
	"time"
)

const (
	// InitialFreeTransfers is granted when a manager is first seen in a gameweek.
	InitialFreeTransfers = 1
	// DefaultTransferPenalty is deducted per transfer made without a free transfer.
	DefaultTransferPenalty = 4
)

// GameweekState is the per-(manager, gameweek) transfer ledger. Version is
// bumped on every committed change and used for optimistic checks.
type GameweekState struct {
	ManagerID              string
	GameweekID             string
	FreeTransfersRemaining int
	TransfersMade          int
	PenaltyPoints          int
	SquadCost              int64
	Version                int64
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// NewGameweekState returns the lazily created state for a manager's first
// write in a gameweek. Nothing carries over from earlier gameweeks.
func NewGameweekState(managerID, gameweekID string, now time.Time) GameweekState {
	return GameweekState{
		ManagerID:              managerID,
		GameweekID:             gameweekID,
		FreeTransfersRemaining: InitialFreeTransfers,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
}

// ApplyTransfer consumes a free transfer when one is left, otherwise adds
// penalty points. It reports whether a penalty was charged.
func (s *GameweekState) ApplyTransfer(penalty int) bool {
	s.TransfersMade++
	if s.FreeTransfersRemaining > 0 {
		s.FreeTransfersRemaining--
		return false
	}
	s.PenaltyPoints += penalty
	return true
}

func (s GameweekState) Validate() error {
	if s.ManagerID == "" || s.GameweekID == "" {
		return fmt.Errorf("manager id and gameweek id are required")
	}
	if s.FreeTransfersRemaining < 0 {
		return fmt.Errorf("free transfers remaining cannot be negative")
	}
	if s.TransfersMade < 0 || s.PenaltyPoints < 0 {
		return fmt.Errorf("transfer counters cannot be negative")
	}
	return nil
}

// TransferRecord is one committed player swap.
type TransferRecord struct {
	ID             string
	ManagerID      string
	GameweekID     string
	PlayerOutID    string
	PlayerInID     string
	PriceOut       int64
	PriceIn        int64
	PenaltyApplied bool
	WalletAfter    int64
	CreatedAt      time.Time
}
