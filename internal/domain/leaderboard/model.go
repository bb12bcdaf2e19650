package leaderboard

import (
	"cmp"
	"slices"
)

// Scope selects which total a leaderboard ranks by.
type Scope string

const (
	ScopeSeason   Scope = "season"
	ScopeGameweek Scope = "gameweek"
)

func (s Scope) Valid() bool {
	return s == ScopeSeason || s == ScopeGameweek
}

// Entry is one manager's row.
type Entry struct {
	Rank             int
	ManagerID        string
	SquadName        string
	GameweekPoints   int
	CumulativePoints int
}

func (e Entry) score(scope Scope) int {
	if scope == ScopeGameweek {
		return e.GameweekPoints
	}
	return e.CumulativePoints
}

// Rank sorts entries by the scope's total descending, breaking ties by
// ascending manager id, and assigns 1-based positions.
func Rank(entries []Entry, scope Scope) []Entry {
	out := slices.Clone(entries)
	slices.SortFunc(out, func(a, b Entry) int {
		if c := cmp.Compare(b.score(scope), a.score(scope)); c != 0 {
			return c
		}
		return cmp.Compare(a.ManagerID, b.ManagerID)
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// Page is one slice of a ranked board.
type Page struct {
	Entries  []Entry
	Page     int
	PageSize int
	Total    int
}

// Paginate returns the 1-based page of ranked entries. Pages past the end are empty.
func Paginate(ranked []Entry, page, pageSize int) Page {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = len(ranked)
	}
	result := Page{Page: page, PageSize: pageSize, Total: len(ranked), Entries: []Entry{}}
	if len(ranked) == 0 {
		return result
	}
	pages := len(ranked) / pageSize
	if len(ranked)%pageSize != 0 {
		pages++
	}
	if page > pages {
		return result
	}
	start := (page - 1) * pageSize
	end := min(start+pageSize, len(ranked))
	result.Entries = slices.Clone(ranked[start:end])
	return result
}
