package manager

import (
	"fmt"
	"time"
)

// Manager owns a squad and the wallet it was bought with. Wallet is in
// hundredths of a currency unit and never goes negative.
type Manager struct {
	ID               string
	SquadName        string
	Wallet           int64
	CumulativePoints int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (m Manager) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("manager id is required")
	}
	if m.SquadName == "" {
		return fmt.Errorf("squad name is required")
	}
	if m.Wallet < 0 {
		return fmt.Errorf("wallet cannot be negative")
	}
	return nil
}
