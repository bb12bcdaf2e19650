package player

import "fmt"

// Position represents football position categories used in fantasy rules.
type Position string

const (
	PositionGoalkeeper Position = "GK"
	PositionDefender   Position = "DEF"
	PositionMidfielder Position = "MID"
	PositionForward    Position = "FWD"
)

// Positions lists every position in display order.
var Positions = []Position{
	PositionGoalkeeper,
	PositionDefender,
	PositionMidfielder,
	PositionForward,
}

func (p Position) Valid() bool {
	switch p {
	case PositionGoalkeeper, PositionDefender, PositionMidfielder, PositionForward:
		return true
	default:
		return false
	}
}

// Rank orders positions GK < DEF < MID < FWD.
func (p Position) Rank() int {
	for i, pos := range Positions {
		if pos == p {
			return i
		}
	}
	return len(Positions)
}

// Player is a selectable athlete. Price is the current list price in
// hundredths of a currency unit.
type Player struct {
	ID       string
	TeamID   string
	Name     string
	Position Position
	Price    int64
	Active   bool
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if p.TeamID == "" {
		return fmt.Errorf("player team id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("player name is required")
	}
	if !p.Position.Valid() {
		return fmt.Errorf("invalid player position: %s", p.Position)
	}
	if p.Price <= 0 {
		return fmt.Errorf("player price must be greater than zero")
	}
	return nil
}

// GameweekPrice overrides a player's list price for one gameweek.
type GameweekPrice struct {
	PlayerID   string
	GameweekID string
	Price      int64
}
