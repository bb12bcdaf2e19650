package usecase

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/fantasy-squad/internal/domain/fantasy"
	"github.com/riskibarqy/fantasy-squad/internal/domain/manager"
	"github.com/riskibarqy/fantasy-squad/internal/domain/scoring"
	"github.com/riskibarqy/fantasy-squad/internal/infrastructure/repository/memory"
	idgen "github.com/riskibarqy/fantasy-squad/internal/platform/id"
	"github.com/riskibarqy/fantasy-squad/internal/platform/logging"
	"github.com/riskibarqy/fantasy-squad/internal/platform/resilience"
)

type testEnv struct {
	gameweeks   *memory.GameweekRepository
	managers    *memory.ManagerRepository
	players     *memory.PlayerRepository
	store       *memory.LedgerStore
	scores      *memory.ScoringRepository
	squads      *SquadService
	transfers   *TransferService
	scoring     *ScoringService
	leaderboard *LeaderboardService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		gameweeks: memory.NewGameweekRepository(memory.SeedGameweeks()),
		managers:  memory.NewManagerRepository(memory.SeedManagers()),
		players:   memory.NewPlayerRepository(memory.SeedPlayers(), memory.SeedGameweekPrices()),
	}
	env.store = memory.NewLedgerStore(env.managers)
	env.scores = memory.NewScoringRepository(scoring.DefaultRules(), memory.SeedEvents(), env.managers)

	clock := NewRepositoryClock(env.gameweeks)
	locks := resilience.NewKeyedMutex()
	logger := logging.NewNop()
	rules := fantasy.DefaultRules()

	env.squads = NewSquadService(clock, env.gameweeks, env.managers, env.players, env.players, env.store, locks,
		SquadServiceConfig{Rules: rules, AllowScheduledWrites: true}, logger)
	env.transfers = NewTransferService(clock, env.managers, env.players, env.players, env.store, locks,
		idgen.NewSequence("tr"), TransferServiceConfig{Rules: rules, PenaltyPoints: 4}, logger)
	env.scoring = NewScoringService(clock, env.gameweeks, env.managers, env.store, env.scores, env.scores, 4, logger)
	env.leaderboard = NewLeaderboardService(clock, env.managers, env.scoring, env.scores, locks,
		LeaderboardServiceConfig{DefaultPageSize: 10, MaxPageSize: 20, Workers: 2}, logger)
	return env
}

// legalRoster is valid in gw-2 and costs 8150 at gw-2 prices.
func legalRoster() []fantasy.SlotInput {
	return []fantasy.SlotInput{
		{PlayerID: "wac-gk-1", IsStarter: true},
		{PlayerID: "mat-gk-1"},
		{PlayerID: "rca-def-1", IsStarter: true},
		{PlayerID: "far-def-1", IsStarter: true},
		{PlayerID: "rsb-def-1", IsStarter: true},
		{PlayerID: "mat-def-1", IsStarter: true},
		{PlayerID: "rsb-def-2"},
		{PlayerID: "wac-mid-2", IsStarter: true},
		{PlayerID: "rca-mid-2", IsStarter: true},
		{PlayerID: "far-mid-2", IsStarter: true, IsViceCaptain: true},
		{PlayerID: "mat-mid-2"},
		{PlayerID: "fus-mid-2"},
		{PlayerID: "rca-fwd-1", IsStarter: true, IsCaptain: true},
		{PlayerID: "far-fwd-1", IsStarter: true},
		{PlayerID: "fus-fwd-1", IsStarter: true},
	}
}

// replacePlayer returns a copy of slots with one player id swapped.
func replacePlayer(slots []fantasy.SlotInput, outID, inID string) []fantasy.SlotInput {
	out := slices.Clone(slots)
	for i := range out {
		if out[i].PlayerID == outID {
			out[i].PlayerID = inID
		}
	}
	return out
}

func (e *testEnv) saveLegalRoster(t *testing.T, managerID string) SquadView {
	t.Helper()
	view, err := e.squads.SaveSquad(t.Context(), SaveSquadInput{ManagerID: managerID, GameweekID: "gw-2", Slots: legalRoster()})
	require.NoError(t, err)
	return view
}

func (e *testEnv) setWallet(t *testing.T, managerID string, wallet int64) {
	t.Helper()
	m := e.manager(t, managerID)
	m.Wallet = wallet
	e.managers.Upsert(m)
}

func (e *testEnv) manager(t *testing.T, managerID string) manager.Manager {
	t.Helper()
	m, ok, err := e.managers.GetByID(t.Context(), managerID)
	require.NoError(t, err)
	require.True(t, ok)
	return m
}

// assertRuleViolation checks that a roster rule failure reaches the caller
// as-is, with its rule name in the message.
func assertRuleViolation(t *testing.T, err error, rule fantasy.Rule) {
	t.Helper()
	var vErr *fantasy.ValidationError
	require.True(t, errors.As(err, &vErr), "got %v", err)
	assert.Equal(t, rule, vErr.Rule)
	assert.NotErrorIs(t, err, ErrInternal)
	var internal *InternalError
	assert.False(t, errors.As(err, &internal), "wrapped as internal: %v", err)
	assert.Contains(t, err.Error(), string(rule))
}
