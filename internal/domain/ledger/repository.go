package ledger

import (
	"context"
	"errors"

	"github.com/riskibarqy/fantasy-squad/internal/domain/fantasy"
	"github.com/riskibarqy/fantasy-squad/internal/domain/manager"
)

var (
	// ErrInsufficientFunds is returned when a wallet delta would go negative.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrVersionConflict is returned when a state row changed since it was read.
	ErrVersionConflict = errors.New("gameweek state version conflict")
)

// Store owns squads, gameweek states and transfer history. Every mutation goes
// through WithinTx so wallet, roster, state and history commit together or
// not at all.
type Store interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error

	GetSquad(ctx context.Context, managerID, gameweekID string) (fantasy.Squad, bool, error)
	ListSquadsByGameweek(ctx context.Context, gameweekID string) ([]fantasy.Squad, error)
	GetState(ctx context.Context, managerID, gameweekID string) (GameweekState, bool, error)
	ListStatesByGameweek(ctx context.Context, gameweekID string) ([]GameweekState, error)
	// ListTransfers returns history oldest first; an empty gameweekID lists every gameweek.
	ListTransfers(ctx context.Context, managerID, gameweekID string) ([]TransferRecord, error)
}

// Tx is one atomic unit of work.
type Tx interface {
	GetManager(ctx context.Context, managerID string) (manager.Manager, bool, error)
	GetSquad(ctx context.Context, managerID, gameweekID string) (fantasy.Squad, bool, error)
	// GetPriorSquad returns the squad for gameweekID, else the manager's most
	// recent squad from an earlier gameweek.
	GetPriorSquad(ctx context.Context, managerID, gameweekID string, gameweekNumber int) (fantasy.Squad, bool, error)
	// LockState reads the state row and holds it until the transaction ends.
	LockState(ctx context.Context, managerID, gameweekID string) (GameweekState, bool, error)

	ReplaceSquad(ctx context.Context, squad fantasy.Squad) error
	// AdjustWallet applies delta and returns the new balance, or ErrInsufficientFunds.
	AdjustWallet(ctx context.Context, managerID string, delta int64) (int64, error)
	// SaveState writes state if the stored version still equals state.Version
	// (zero for a new row) and returns it with the bumped version.
	SaveState(ctx context.Context, state GameweekState) (GameweekState, error)
	AppendTransfer(ctx context.Context, record TransferRecord) error
}
