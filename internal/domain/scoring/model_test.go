package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/riskibarqy/fantasy-squad/internal/domain/player"
)

func TestRuleTable_PointsFor(t *testing.T) {
	table := NewRuleTable(DefaultRules())

	assert.Equal(t, 6, table.PointsFor(EventGoal, player.PositionDefender))
	assert.Equal(t, 4, table.PointsFor(EventGoal, player.PositionForward))
	assert.Equal(t, 5, table.PointsFor(EventPenaltySaved, player.PositionGoalkeeper))
	assert.Equal(t, 0, table.PointsFor(EventPenaltySaved, player.PositionForward))
	assert.Equal(t, 0, table.PointsFor("bicycle_kick", player.PositionForward))
}

func TestDefaultRulesAreValid(t *testing.T) {
	rules := DefaultRules()
	assert.Len(t, rules, 36)
	for _, r := range rules {
		assert.NoError(t, r.Validate())
	}
}
