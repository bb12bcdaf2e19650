package fantasy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/riskibarqy/fantasy-squad/internal/domain/player"
)

// ErrInvalidSquad matches every *ValidationError.
var ErrInvalidSquad = errors.New("invalid squad")

// Rule names the first roster rule a candidate broke.
type Rule string

const (
	RulePlayerExistence Rule = "player_existence"
	RuleSquadSize       Rule = "squad_size"
	RuleStarters        Rule = "starters"
	RulePositionQuota   Rule = "position_quota"
	RuleTeamLimit       Rule = "team_limit"
	RuleCaptaincy       Rule = "captaincy"
	RuleBudget          Rule = "budget"
	RuleTransfer        Rule = "transfer"
	RuleFormation       Rule = "formation"
)

type ValidationError struct {
	Rule   Rule
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid squad: %s: %s", e.Rule, e.Detail)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidSquad
}

func invalid(rule Rule, format string, args ...any) error {
	return &ValidationError{Rule: rule, Detail: fmt.Sprintf(format, args...)}
}

// Rules stores roster validation parameters.
type Rules struct {
	SquadSize         int
	StarterCount      int
	MaxPlayersPerTeam int
	PositionQuota     map[player.Position]int
	StarterMinimum    map[player.Position]int
	StarterMaximum    map[player.Position]int
}

func DefaultRules() Rules {
	return Rules{
		SquadSize:         15,
		StarterCount:      11,
		MaxPlayersPerTeam: 3,
		PositionQuota: map[player.Position]int{
			player.PositionGoalkeeper: 2,
			player.PositionDefender:   5,
			player.PositionMidfielder: 5,
			player.PositionForward:    3,
		},
		StarterMinimum: map[player.Position]int{
			player.PositionGoalkeeper: 1,
			player.PositionDefender:   3,
			player.PositionMidfielder: 2,
			player.PositionForward:    1,
		},
		StarterMaximum: map[player.Position]int{
			player.PositionGoalkeeper: 1,
			player.PositionDefender:   5,
			player.PositionMidfielder: 5,
			player.PositionForward:    3,
		},
	}
}

// ParsePositionQuota reads "GK:2,DEF:5,MID:5,FWD:3".
func ParsePositionQuota(raw string) (map[player.Position]int, error) {
	out := make(map[player.Position]int, len(player.Positions))
	for part := range strings.SplitSeq(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, value, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("invalid quota entry %q", part)
		}
		pos := player.Position(strings.ToUpper(strings.TrimSpace(name)))
		if !pos.Valid() {
			return nil, fmt.Errorf("invalid quota position %q", name)
		}
		var n int
		if _, err := fmt.Sscanf(strings.TrimSpace(value), "%d", &n); err != nil || n < 0 {
			return nil, fmt.Errorf("invalid quota count %q", value)
		}
		out[pos] = n
	}
	return out, nil
}

// Validate checks that the rule set is internally consistent.
func (r Rules) Validate() error {
	if r.SquadSize <= 0 || r.StarterCount <= 0 || r.StarterCount > r.SquadSize {
		return fmt.Errorf("invalid squad size %d / starters %d", r.SquadSize, r.StarterCount)
	}
	if r.MaxPlayersPerTeam <= 0 {
		return fmt.Errorf("max players per team must be greater than zero")
	}
	total := 0
	for _, pos := range player.Positions {
		total += r.PositionQuota[pos]
	}
	if total != r.SquadSize {
		return fmt.Errorf("position quota sums to %d, squad size is %d", total, r.SquadSize)
	}
	return nil
}

// ValidateRoster checks a full candidate roster and returns the normalized
// slots. Rules are checked in a fixed order and the first failure is returned:
// player existence, squad size and uniqueness, starter count, position quota,
// per-team cap, captaincy, budget.
func ValidateRoster(candidate []SlotInput, lookup map[string]PlayerInfo, budget int64, rules Rules) ([]Slot, error) {
	for _, in := range candidate {
		info, ok := lookup[in.PlayerID]
		if in.PlayerID == "" || !ok {
			return nil, invalid(RulePlayerExistence, "player %q does not exist", in.PlayerID)
		}
		if !info.Active {
			return nil, invalid(RulePlayerExistence, "player %q is not available", in.PlayerID)
		}
	}

	if len(candidate) != rules.SquadSize {
		return nil, invalid(RuleSquadSize, "expected %d players, got %d", rules.SquadSize, len(candidate))
	}
	seen := make(map[string]struct{}, len(candidate))
	for _, in := range candidate {
		if _, dup := seen[in.PlayerID]; dup {
			return nil, invalid(RuleSquadSize, "player %q selected more than once", in.PlayerID)
		}
		seen[in.PlayerID] = struct{}{}
	}

	slots := make([]Slot, 0, len(candidate))
	for _, in := range candidate {
		info := lookup[in.PlayerID]
		slots = append(slots, Slot{
			PlayerID:      info.ID,
			TeamID:        info.TeamID,
			Position:      info.Position,
			Price:         info.Price,
			IsStarter:     in.IsStarter,
			IsCaptain:     in.IsCaptain,
			IsViceCaptain: in.IsViceCaptain,
		})
	}

	if err := checkComposition(slots, rules); err != nil {
		return nil, err
	}
	if err := checkCaptaincy(slots); err != nil {
		return nil, err
	}
	if cost := TotalCost(slots); cost > budget {
		return nil, invalid(RuleBudget, "squad costs %d, budget is %d", cost, budget)
	}

	SortSlots(slots)
	return slots, nil
}

// ValidateSwap replaces outID with in and re-checks starters, quota and team cap.
// The incoming player takes over the outgoing slot's starter, captain and
// vice-captain flags, so the armband follows the slot.
func ValidateSwap(slots []Slot, outID string, in PlayerInfo, rules Rules) ([]Slot, error) {
	idx := -1
	for i, slot := range slots {
		if slot.PlayerID == outID {
			idx = i
		}
		if slot.PlayerID == in.ID {
			return nil, invalid(RuleTransfer, "player %q is already in the squad", in.ID)
		}
	}
	if idx < 0 {
		return nil, invalid(RuleTransfer, "player %q is not in the squad", outID)
	}
	if in.ID == "" || !in.Active {
		return nil, invalid(RulePlayerExistence, "player %q is not available", in.ID)
	}
	out := slots[idx]

	next := CloneSlots(slots)
	next[idx] = Slot{
		PlayerID:      in.ID,
		TeamID:        in.TeamID,
		Position:      in.Position,
		Price:         in.Price,
		IsStarter:     out.IsStarter,
		IsCaptain:     out.IsCaptain,
		IsViceCaptain: out.IsViceCaptain,
	}
	if err := checkComposition(next, rules); err != nil {
		return nil, err
	}

	SortSlots(next)
	return next, nil
}

// ValidateSubstitution swaps one starter with one bench player and checks the
// starting eleven still fields the minimum formation.
func ValidateSubstitution(slots []Slot, starterOutID, benchInID string, rules Rules) ([]Slot, error) {
	next := CloneSlots(slots)
	outIdx, inIdx := -1, -1
	for i, slot := range next {
		switch slot.PlayerID {
		case starterOutID:
			outIdx = i
		case benchInID:
			inIdx = i
		}
	}
	if outIdx < 0 || !next[outIdx].IsStarter {
		return nil, invalid(RuleStarters, "player %q is not a starter", starterOutID)
	}
	if inIdx < 0 || next[inIdx].IsStarter {
		return nil, invalid(RuleStarters, "player %q is not on the bench", benchInID)
	}

	next[outIdx].IsStarter = false
	next[inIdx].IsStarter = true

	counts := make(map[player.Position]int, len(player.Positions))
	for _, slot := range next {
		if slot.IsStarter {
			counts[slot.Position]++
		}
	}
	for _, pos := range player.Positions {
		if minimum := rules.StarterMinimum[pos]; counts[pos] < minimum {
			return nil, invalid(RuleFormation, "starting eleven needs at least %d %s, has %d", minimum, pos, counts[pos])
		}
		if maximum, ok := rules.StarterMaximum[pos]; ok && counts[pos] > maximum {
			return nil, invalid(RuleFormation, "starting eleven allows at most %d %s, has %d", maximum, pos, counts[pos])
		}
	}

	SortSlots(next)
	return next, nil
}

func checkComposition(slots []Slot, rules Rules) error {
	starters := 0
	positions := make(map[player.Position]int, len(player.Positions))
	teams := make(map[string]int)
	for _, slot := range slots {
		if slot.IsStarter {
			starters++
		}
		positions[slot.Position]++
		teams[slot.TeamID]++
	}

	if starters != rules.StarterCount {
		return invalid(RuleStarters, "expected %d starters and %d bench, got %d starters", rules.StarterCount, len(slots)-rules.StarterCount, starters)
	}
	for _, pos := range player.Positions {
		if want := rules.PositionQuota[pos]; positions[pos] != want {
			return invalid(RulePositionQuota, "expected %d %s, got %d", want, pos, positions[pos])
		}
	}
	for _, slot := range slots {
		if teams[slot.TeamID] > rules.MaxPlayersPerTeam {
			return invalid(RuleTeamLimit, "team %q has %d players, max is %d", slot.TeamID, teams[slot.TeamID], rules.MaxPlayersPerTeam)
		}
	}
	return nil
}

func checkCaptaincy(slots []Slot) error {
	var captains, vices int
	for _, slot := range slots {
		if slot.IsCaptain {
			captains++
		}
		if slot.IsViceCaptain {
			vices++
			if slot.IsCaptain {
				return invalid(RuleCaptaincy, "player %q cannot be captain and vice-captain", slot.PlayerID)
			}
		}
	}
	if captains != 1 {
		return invalid(RuleCaptaincy, "expected exactly one captain, got %d", captains)
	}
	if vices != 1 {
		return invalid(RuleCaptaincy, "expected exactly one vice-captain, got %d", vices)
	}
	return nil
}
