package leaderboard

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRank(t *testing.T) {
	entries := []Entry{
		{ManagerID: "m3", GameweekPoints: 40, CumulativePoints: 120},
		{ManagerID: "m1", GameweekPoints: 55, CumulativePoints: 120},
		{ManagerID: "m2", GameweekPoints: 55, CumulativePoints: 90},
	}

	season := Rank(entries, ScopeSeason)
	assert.Equal(t, []string{"m1", "m3", "m2"}, ids(season))
	assert.Equal(t, []int{1, 2, 3}, ranks(season))

	weekly := Rank(entries, ScopeGameweek)
	assert.Equal(t, []string{"m1", "m2", "m3"}, ids(weekly))

	assert.Equal(t, "m3", entries[0].ManagerID, "input must not be reordered")
}

func TestPaginate(t *testing.T) {
	ranked := Rank([]Entry{
		{ManagerID: "a", CumulativePoints: 5},
		{ManagerID: "b", CumulativePoints: 4},
		{ManagerID: "c", CumulativePoints: 3},
	}, ScopeSeason)

	p := Paginate(ranked, 2, 2)
	assert.Equal(t, []string{"c"}, ids(p.Entries))
	assert.Equal(t, 3, p.Entries[0].Rank)
	assert.Equal(t, 3, p.Total)

	assert.Empty(t, Paginate(ranked, 5, 2).Entries)
	assert.Len(t, Paginate(ranked, 0, 0).Entries, 3)
}

func TestPaginate_OutOfRange(t *testing.T) {
	ranked := Rank([]Entry{
		{ManagerID: "a", CumulativePoints: 5},
		{ManagerID: "b", CumulativePoints: 4},
	}, ScopeSeason)

	tests := []struct {
		name     string
		entries  []Entry
		page     int
		pageSize int
		wantIDs  []string
	}{
		{name: "page overflows offset", entries: ranked, page: 1 << 62, pageSize: 4, wantIDs: []string{}},
		{name: "max page and size", entries: ranked, page: math.MaxInt, pageSize: math.MaxInt, wantIDs: []string{}},
		{name: "huge page size", entries: ranked, page: 1, pageSize: math.MaxInt, wantIDs: []string{"a", "b"}},
		{name: "empty board", entries: nil, page: 3, pageSize: 0, wantIDs: []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var p Page
			require.NotPanics(t, func() { p = Paginate(tc.entries, tc.page, tc.pageSize) })
			assert.Equal(t, tc.wantIDs, ids(p.Entries))
			assert.Equal(t, len(tc.entries), p.Total)
		})
	}
}

func ids(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ManagerID)
	}
	return out
}

func ranks(entries []Entry) []int {
	out := make([]int, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Rank)
	}
	return out
}
