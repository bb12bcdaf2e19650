package gameweek

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectLatestActive(t *testing.T) {
	tests := []struct {
		name   string
		items  []Gameweek
		wantID string
		wantOK bool
	}{
		{
			name: "highest open wins",
			items: []Gameweek{
				{ID: "gw-1", Number: 1, Status: StatusCompleted},
				{ID: "gw-2", Number: 2, Status: StatusOpen},
				{ID: "gw-3", Number: 3, Status: StatusOpen},
				{ID: "gw-4", Number: 4, Status: StatusScheduled},
			},
			wantID: "gw-3",
			wantOK: true,
		},
		{
			name: "closed beats completed",
			items: []Gameweek{
				{ID: "gw-1", Number: 1, Status: StatusCompleted},
				{ID: "gw-2", Number: 2, Status: StatusClosed},
				{ID: "gw-3", Number: 3, Status: StatusScheduled},
			},
			wantID: "gw-2",
			wantOK: true,
		},
		{
			name: "highest completed when nothing is live",
			items: []Gameweek{
				{ID: "gw-1", Number: 1, Status: StatusCompleted},
				{ID: "gw-2", Number: 2, Status: StatusCompleted},
				{ID: "gw-3", Number: 3, Status: StatusScheduled},
			},
			wantID: "gw-2",
			wantOK: true,
		},
		{
			name: "lowest scheduled before the season starts",
			items: []Gameweek{
				{ID: "gw-2", Number: 2, Status: StatusScheduled},
				{ID: "gw-1", Number: 1, Status: StatusScheduled},
			},
			wantID: "gw-1",
			wantOK: true,
		},
		{
			name:   "empty calendar",
			items:  nil,
			wantOK: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := SelectLatestActive(tc.items)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.wantID, got.ID)
		})
	}
}

func TestGameweekValidate(t *testing.T) {
	assert.NoError(t, Gameweek{ID: "gw-1", Number: 1, Status: StatusOpen}.Validate())
	assert.Error(t, Gameweek{ID: "gw-1", Number: 0, Status: StatusOpen}.Validate())
	assert.Error(t, Gameweek{ID: "gw-1", Number: 1, Status: "paused"}.Validate())
}
