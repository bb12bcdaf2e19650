package manager

import "context"

// Repository reads managers. Wallet writes go through ledger.Tx so they commit
// together with the squad and transfer history.
type Repository interface {
	GetByID(ctx context.Context, managerID string) (Manager, bool, error)
	List(ctx context.Context) ([]Manager, error)
}
