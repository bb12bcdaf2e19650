package usecase

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/riskibarqy/fantasy-squad/internal/domain/fantasy"
	"github.com/riskibarqy/fantasy-squad/internal/domain/gameweek"
	"github.com/riskibarqy/fantasy-squad/internal/domain/ledger"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrConflict              = errors.New("conflict")
	ErrInsufficientFunds     = errors.New("insufficient funds")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrInternal              = errors.New("internal error")
)

// NotFoundError reports a missing manager, gameweek, squad or player.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ConflictError reports a write rejected because of gameweek state or a
// concurrent change. Status is set when the gameweek phase was the cause.
type ConflictError struct {
	Reason     string
	GameweekID string
	Status     gameweek.Status
}

func (e *ConflictError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("conflict: %s (gameweek %s is %s)", e.Reason, e.GameweekID, e.Status)
	}
	return "conflict: " + e.Reason
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

type InsufficientFundsError struct {
	Wallet   int64
	Required int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: wallet %d, required %d", e.Wallet, e.Required)
}

func (e *InsufficientFundsError) Is(target error) bool { return target == ErrInsufficientFunds }

// InternalError hides storage details from callers. The cause stays
// reachable through Unwrap for logging.
type InternalError struct {
	Op  string
	Err error
}

func (e *InternalError) Error() string { return "internal error" }

func (e *InternalError) Unwrap() error { return e.Err }

func (e *InternalError) Is(target error) bool { return target == ErrInternal }

// internalError wraps unexpected failures from collaborators. Errors that
// already carry a caller-facing meaning pass through unchanged.
func internalError(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrConflict),
		errors.Is(err, ErrInsufficientFunds),
		errors.Is(err, ErrDependencyUnavailable),
		errors.Is(err, ErrInternal),
		errors.Is(err, fantasy.ErrInvalidSquad):
		return err
	case errors.Is(err, ledger.ErrVersionConflict):
		return &ConflictError{Reason: "gameweek state changed concurrently, retry"}
	}
	return &InternalError{Op: op, Err: errors.Wrap(err, op)}
}

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
