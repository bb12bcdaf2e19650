package scoring

import (
	"fmt"
	"time"

	"github.com/riskibarqy/fantasy-squad/internal/domain/player"
)

// EventType names a match event that can be worth points.
type EventType string

const (
	EventGoal          EventType = "goal"
	EventAssist        EventType = "assist"
	EventCleanSheet    EventType = "clean_sheet"
	EventYellowCard    EventType = "yellow"
	EventRedCard       EventType = "red"
	EventOwnGoal       EventType = "own_goal"
	EventPenaltySaved  EventType = "penalty_saved"
	EventPenaltyMissed EventType = "penalty_missed"
	EventAppearance    EventType = "appearance"
)

// Rule awards Points for one event type scored by a player in Position.
type Rule struct {
	EventType EventType
	Position  player.Position
	Points    int
}

func (r Rule) Validate() error {
	if r.EventType == "" {
		return fmt.Errorf("event type is required")
	}
	if !r.Position.Valid() {
		return fmt.Errorf("invalid rule position: %s", r.Position)
	}
	return nil
}

// RuleTable indexes rules by event type and position. Missing pairs score zero.
type RuleTable map[EventType]map[player.Position]int

func NewRuleTable(rules []Rule) RuleTable {
	table := make(RuleTable)
	for _, r := range rules {
		byPos, ok := table[r.EventType]
		if !ok {
			byPos = make(map[player.Position]int, len(player.Positions))
			table[r.EventType] = byPos
		}
		byPos[r.Position] = r.Points
	}
	return table
}

func (t RuleTable) PointsFor(eventType EventType, position player.Position) int {
	return t[eventType][position]
}

// DefaultRules is the points table seeded into fresh installs.
func DefaultRules() []Rule {
	seed := []struct {
		event  EventType
		points [4]int
	}{
		{EventGoal, [4]int{6, 6, 5, 4}},
		{EventAssist, [4]int{3, 3, 3, 3}},
		{EventCleanSheet, [4]int{4, 4, 1, 0}},
		{EventYellowCard, [4]int{-1, -1, -1, -1}},
		{EventRedCard, [4]int{-3, -3, -3, -3}},
		{EventOwnGoal, [4]int{-2, -2, -2, -2}},
		{EventPenaltySaved, [4]int{5, 0, 0, 0}},
		{EventPenaltyMissed, [4]int{-2, -2, -2, -2}},
		{EventAppearance, [4]int{2, 2, 2, 2}},
	}
	out := make([]Rule, 0, len(seed)*len(player.Positions))
	for _, s := range seed {
		for i, pos := range player.Positions {
			out = append(out, Rule{EventType: s.event, Position: pos, Points: s.points[i]})
		}
	}
	return out
}

// Event is one recorded match event for a player in a gameweek.
type Event struct {
	ID         string
	PlayerID   string
	GameweekID string
	FixtureID  string
	Type       EventType
	Minute     int
	CreatedAt  time.Time
}

// PlayerPoints is one player's contribution to a manager's gameweek score.
type PlayerPoints struct {
	PlayerID  string
	Position  player.Position
	IsStarter bool
	Points    int
}

// ManagerGameweekPoints is a finalized gameweek score.
type ManagerGameweekPoints struct {
	ManagerID    string
	GameweekID   string
	Points       int
	CalculatedAt time.Time
}
