package postgres

import "time"

type gameweekTableModel struct {
	PublicID string    `db:"public_id"`
	Number   int       `db:"number"`
	Status   string    `db:"status"`
	Deadline time.Time `db:"deadline_at"`
}

type playerTableModel struct {
	PublicID string `db:"public_id"`
	TeamID   string `db:"team_public_id"`
	Name     string `db:"name"`
	Position string `db:"position"`
	Price    int64  `db:"price"`
	Active   bool   `db:"is_active"`
}

type playerPriceRow struct {
	PlayerID string `db:"player_public_id"`
	Price    int64  `db:"price"`
}

type managerTableModel struct {
	PublicID         string    `db:"public_id"`
	SquadName        string    `db:"squad_name"`
	Wallet           int64     `db:"wallet"`
	CumulativePoints int       `db:"cumulative_points"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

type squadTableModel struct {
	ID             int64     `db:"id"`
	ManagerID      string    `db:"manager_public_id"`
	GameweekID     string    `db:"gameweek_public_id"`
	GameweekNumber int       `db:"gameweek_number"`
	TotalCost      int64     `db:"total_cost"`
	UpdatedAt      time.Time `db:"updated_at"`
}

type squadSlotTableModel struct {
	SquadID       int64  `db:"squad_id"`
	PlayerID      string `db:"player_public_id"`
	TeamID        string `db:"team_public_id"`
	Position      string `db:"position"`
	Price         int64  `db:"price"`
	IsStarter     bool   `db:"is_starter"`
	IsCaptain     bool   `db:"is_captain"`
	IsViceCaptain bool   `db:"is_vice_captain"`
}

type gameweekStateTableModel struct {
	ManagerID              string    `db:"manager_public_id"`
	GameweekID             string    `db:"gameweek_public_id"`
	FreeTransfersRemaining int       `db:"free_transfers_remaining"`
	TransfersMade          int       `db:"transfers_made"`
	PenaltyPoints          int       `db:"penalty_points"`
	SquadCost              int64     `db:"squad_cost"`
	Version                int64     `db:"version"`
	CreatedAt              time.Time `db:"created_at"`
	UpdatedAt              time.Time `db:"updated_at"`
}

type transferTableModel struct {
	PublicID       string    `db:"public_id"`
	ManagerID      string    `db:"manager_public_id"`
	GameweekID     string    `db:"gameweek_public_id"`
	PlayerOutID    string    `db:"player_out_public_id"`
	PlayerInID     string    `db:"player_in_public_id"`
	PriceOut       int64     `db:"price_out"`
	PriceIn        int64     `db:"price_in"`
	PenaltyApplied bool      `db:"penalty_applied"`
	WalletAfter    int64     `db:"wallet_after"`
	CreatedAt      time.Time `db:"created_at"`
}

type scoringRuleTableModel struct {
	EventType string `db:"event_type"`
	Position  string `db:"position"`
	Points    int    `db:"points"`
}

type playerEventTableModel struct {
	PublicID   string    `db:"public_id"`
	PlayerID   string    `db:"player_public_id"`
	GameweekID string    `db:"gameweek_public_id"`
	FixtureID  string    `db:"fixture_public_id"`
	EventType  string    `db:"event_type"`
	Minute     int       `db:"minute"`
	CreatedAt  time.Time `db:"created_at"`
}

type managerPointsTableModel struct {
	ManagerID    string    `db:"manager_public_id"`
	GameweekID   string    `db:"gameweek_public_id"`
	Points       int       `db:"points"`
	CalculatedAt time.Time `db:"calculated_at"`
}
