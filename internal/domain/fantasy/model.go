package fantasy

import (
	"cmp"
	"slices"
	"time"

	"github.com/riskibarqy/fantasy-squad/internal/domain/player"
)

// SlotInput is one requested roster entry before validation.
type SlotInput struct {
	PlayerID      string
	IsStarter     bool
	IsCaptain     bool
	IsViceCaptain bool
}

// PlayerInfo is what the validator needs to know about a player, priced for
// the gameweek being validated.
type PlayerInfo struct {
	ID       string
	TeamID   string
	Position player.Position
	Active   bool
	Price    int64
}

// Slot is one validated roster entry. Price is the gameweek price the slot was
// bought at.
type Slot struct {
	PlayerID      string
	TeamID        string
	Position      player.Position
	Price         int64
	IsStarter     bool
	IsCaptain     bool
	IsViceCaptain bool
}

// Squad is a manager's stored roster for one gameweek.
type Squad struct {
	ManagerID      string
	GameweekID     string
	GameweekNumber int
	Slots          []Slot
	UpdatedAt      time.Time
}

func (s Squad) TotalCost() int64 {
	return TotalCost(s.Slots)
}

func (s Squad) Slot(playerID string) (Slot, bool) {
	for _, slot := range s.Slots {
		if slot.PlayerID == playerID {
			return slot, true
		}
	}
	return Slot{}, false
}

func (s Squad) Starters() []Slot {
	out := make([]Slot, 0, len(s.Slots))
	for _, slot := range s.Slots {
		if slot.IsStarter {
			out = append(out, slot)
		}
	}
	return out
}

func (s Squad) PlayerIDs() []string {
	out := make([]string, 0, len(s.Slots))
	for _, slot := range s.Slots {
		out = append(out, slot.PlayerID)
	}
	return out
}

// SameSlots reports whether two rosters hold identical entries, ignoring order.
func SameSlots(a, b []Slot) bool {
	if len(a) != len(b) {
		return false
	}
	x := slices.Clone(a)
	y := slices.Clone(b)
	SortSlots(x)
	SortSlots(y)
	return slices.Equal(x, y)
}

func TotalCost(slots []Slot) int64 {
	var total int64
	for _, slot := range slots {
		total += slot.Price
	}
	return total
}

// SortSlots puts starters first, then orders by position and player id.
func SortSlots(slots []Slot) {
	slices.SortFunc(slots, func(a, b Slot) int {
		if a.IsStarter != b.IsStarter {
			if a.IsStarter {
				return -1
			}
			return 1
		}
		if c := cmp.Compare(a.Position.Rank(), b.Position.Rank()); c != 0 {
			return c
		}
		return cmp.Compare(a.PlayerID, b.PlayerID)
	})
}

func CloneSlots(slots []Slot) []Slot {
	return slices.Clone(slots)
}
