package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/riskibarqy/fantasy-squad/internal/domain/ledger"
)

const (
	sqlStateUniqueViolation      = "23505"
	sqlStateCheckViolation       = "23514"
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// walletConstraint is the CHECK on managers.wallet declared in the migrations.
const walletConstraint = "managers_wallet_non_negative"

func pqError(err error) (*pq.Error, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr, true
	}
	return nil, false
}

// translateError maps driver errors that callers branch on to ledger
// sentinels and wraps everything else with op.
func translateError(op string, err error) error {
	if err == nil {
		return nil
	}
	pqErr, ok := pqError(err)
	if !ok {
		return fmt.Errorf("%s: %w", op, err)
	}
	switch string(pqErr.Code) {
	case sqlStateSerializationFailure, sqlStateDeadlockDetected, sqlStateUniqueViolation:
		return fmt.Errorf("%s: %w: %w", op, ledger.ErrVersionConflict, err)
	case sqlStateCheckViolation:
		if pqErr.Constraint == walletConstraint {
			return fmt.Errorf("%s: %w: %w", op, ledger.ErrInsufficientFunds, err)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
