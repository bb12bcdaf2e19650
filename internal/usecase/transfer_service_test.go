package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/fantasy-squad/internal/domain/fantasy"
	"github.com/riskibarqy/fantasy-squad/internal/domain/gameweek"
	playermock "github.com/riskibarqy/fantasy-squad/internal/mocks/domain/player"
	idgen "github.com/riskibarqy/fantasy-squad/internal/platform/id"
	"github.com/riskibarqy/fantasy-squad/internal/platform/logging"
)

func TestTransferService_MakeTransfer_SettlesAtGameweekPrices(t *testing.T) {
	env := newTestEnv(t)
	env.saveLegalRoster(t, "mgr-atlas")
	env.setWallet(t, "mgr-atlas", 1000)
	env.players.SetGameweekPrice("far-fwd-1", "gw-2", 950)
	env.players.SetGameweekPrice("rsb-fwd-1", "gw-2", 980)

	result, err := env.transfers.MakeTransfer(t.Context(), MakeTransferInput{
		ManagerID:   "mgr-atlas",
		GameweekID:  "gw-2",
		PlayerOutID: "far-fwd-1",
		PlayerInID:  "rsb-fwd-1",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(970), result.Wallet)
	assert.Equal(t, int64(970), env.manager(t, "mgr-atlas").Wallet)
	assert.Equal(t, int64(950), result.Record.PriceOut)
	assert.Equal(t, int64(980), result.Record.PriceIn)
	assert.Equal(t, int64(970), result.Record.WalletAfter)
	assert.False(t, result.Record.PenaltyApplied)
	assert.Equal(t, "tr-1", result.Record.ID)

	_, stillThere := result.Squad.Slot("far-fwd-1")
	assert.False(t, stillThere)
	in, ok := result.Squad.Slot("rsb-fwd-1")
	require.True(t, ok)
	assert.True(t, in.IsStarter)
	assert.Equal(t, int64(980), in.Price)
	assert.Equal(t, result.Squad.TotalCost(), result.State.SquadCost)
}

func TestTransferService_MakeTransfer_PenaltyAfterFreeTransfer(t *testing.T) {
	env := newTestEnv(t)
	env.saveLegalRoster(t, "mgr-atlas")

	first, err := env.transfers.MakeTransfer(t.Context(), MakeTransferInput{ManagerID: "mgr-atlas", PlayerOutID: "far-fwd-1", PlayerInID: "rsb-fwd-1"})
	require.NoError(t, err)
	assert.False(t, first.Record.PenaltyApplied)
	assert.Equal(t, 0, first.State.FreeTransfersRemaining)
	assert.Equal(t, 0, first.State.PenaltyPoints)
	assert.Equal(t, int64(1750), first.Wallet)

	second, err := env.transfers.MakeTransfer(t.Context(), MakeTransferInput{ManagerID: "mgr-atlas", PlayerOutID: "rsb-def-1", PlayerInID: "fus-def-1"})
	require.NoError(t, err)
	assert.True(t, second.Record.PenaltyApplied)
	assert.Equal(t, 2, second.State.TransfersMade)
	assert.Equal(t, 4, second.State.PenaltyPoints)
	assert.Equal(t, 0, second.State.FreeTransfersRemaining)
	assert.Equal(t, int64(1700), second.Wallet)

	history, err := env.transfers.ListTransfers(t.Context(), "mgr-atlas", "gw-2")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "rsb-def-1", history[0].PlayerOutID, "newest first")
	assert.Equal(t, "far-fwd-1", history[1].PlayerOutID)
}

func TestTransferService_MakeTransfer_FreeTransferResetsEachGameweek(t *testing.T) {
	env := newTestEnv(t)
	env.saveLegalRoster(t, "mgr-atlas")
	_, err := env.transfers.MakeTransfer(t.Context(), MakeTransferInput{ManagerID: "mgr-atlas", PlayerOutID: "far-fwd-1", PlayerInID: "rsb-fwd-1"})
	require.NoError(t, err)
	_, err = env.transfers.MakeTransfer(t.Context(), MakeTransferInput{ManagerID: "mgr-atlas", PlayerOutID: "rsb-def-1", PlayerInID: "fus-def-1"})
	require.NoError(t, err)

	env.gameweeks.SetStatus("gw-2", gameweek.StatusCompleted)
	env.gameweeks.SetStatus("gw-3", gameweek.StatusOpen)
	_, err = env.squads.SaveSquad(t.Context(), SaveSquadInput{ManagerID: "mgr-atlas", GameweekID: "gw-3", Slots: legalRoster()})
	require.NoError(t, err)

	result, err := env.transfers.MakeTransfer(t.Context(), MakeTransferInput{ManagerID: "mgr-atlas", PlayerOutID: "far-fwd-1", PlayerInID: "rsb-fwd-1"})
	require.NoError(t, err)
	assert.Equal(t, "gw-3", result.Record.GameweekID)
	assert.False(t, result.Record.PenaltyApplied)
	assert.Equal(t, 0, result.State.PenaltyPoints)

	gw2, ok, err := env.store.GetState(t.Context(), "mgr-atlas", "gw-2")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 4, gw2.PenaltyPoints, "earlier gameweek keeps its penalty")
}

func TestTransferService_MakeTransfer_InsufficientFundsChangesNothing(t *testing.T) {
	env := newTestEnv(t)
	saved := env.saveLegalRoster(t, "mgr-atlas")
	env.setWallet(t, "mgr-atlas", 50)

	_, err := env.transfers.MakeTransfer(t.Context(), MakeTransferInput{ManagerID: "mgr-atlas", PlayerOutID: "far-fwd-1", PlayerInID: "rsb-fwd-1"})
	require.ErrorIs(t, err, ErrInsufficientFunds)
	var funds *InsufficientFundsError
	require.True(t, errors.As(err, &funds))
	assert.Equal(t, int64(50), funds.Wallet)
	assert.Equal(t, int64(100), funds.Required)

	assertLedgerUnchanged(t, env, saved, 50)
}

func TestTransferService_MakeTransfer_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		input    MakeTransferInput
		setup    func(*testEnv)
		wantErr  error
		wantRule fantasy.Rule
	}{
		{name: "missing player ids", input: MakeTransferInput{ManagerID: "mgr-atlas", PlayerOutID: "far-fwd-1"}, wantErr: ErrInvalidInput},
		{name: "outgoing player not owned", input: MakeTransferInput{ManagerID: "mgr-atlas", PlayerOutID: "wac-fwd-1", PlayerInID: "rsb-fwd-1"}, wantErr: fantasy.ErrInvalidSquad, wantRule: fantasy.RuleTransfer},
		{name: "incoming player already owned", input: MakeTransferInput{ManagerID: "mgr-atlas", PlayerOutID: "far-fwd-1", PlayerInID: "fus-fwd-1"}, wantErr: fantasy.ErrInvalidSquad, wantRule: fantasy.RuleTransfer},
		{name: "incoming player inactive", input: MakeTransferInput{ManagerID: "mgr-atlas", PlayerOutID: "rsb-def-2", PlayerInID: "fus-def-2"}, wantErr: fantasy.ErrInvalidSquad, wantRule: fantasy.RulePlayerExistence},
		{name: "fourth player from one team", input: MakeTransferInput{ManagerID: "mgr-atlas", PlayerOutID: "fus-fwd-1", PlayerInID: "mat-fwd-1"}, wantErr: fantasy.ErrInvalidSquad, wantRule: fantasy.RuleTeamLimit},
		{name: "position change", input: MakeTransferInput{ManagerID: "mgr-atlas", PlayerOutID: "fus-fwd-1", PlayerInID: "wac-def-1"}, wantErr: fantasy.ErrInvalidSquad, wantRule: fantasy.RulePositionQuota},
		{name: "unknown gameweek", input: MakeTransferInput{ManagerID: "mgr-atlas", GameweekID: "gw-99", PlayerOutID: "far-fwd-1", PlayerInID: "rsb-fwd-1"}, wantErr: ErrNotFound},
		{name: "scheduled gameweek", input: MakeTransferInput{ManagerID: "mgr-atlas", GameweekID: "gw-3", PlayerOutID: "far-fwd-1", PlayerInID: "rsb-fwd-1"}, wantErr: ErrConflict},
		{
			name:    "closed gameweek",
			input:   MakeTransferInput{ManagerID: "mgr-atlas", GameweekID: "gw-2", PlayerOutID: "far-fwd-1", PlayerInID: "rsb-fwd-1"},
			setup:   func(e *testEnv) { e.gameweeks.SetStatus("gw-2", gameweek.StatusClosed) },
			wantErr: ErrConflict,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)
			saved := env.saveLegalRoster(t, "mgr-atlas")
			if tc.setup != nil {
				tc.setup(env)
			}

			_, err := env.transfers.MakeTransfer(t.Context(), tc.input)
			require.ErrorIs(t, err, tc.wantErr)
			if tc.wantRule != "" {
				assertRuleViolation(t, err, tc.wantRule)
			}
			assertLedgerUnchanged(t, env, saved, saved.Wallet)
		})
	}
}

func TestTransferService_MakeTransfer_ClosedGameweekReportsStatus(t *testing.T) {
	env := newTestEnv(t)
	env.saveLegalRoster(t, "mgr-atlas")
	env.gameweeks.SetStatus("gw-2", gameweek.StatusClosed)

	_, err := env.transfers.MakeTransfer(t.Context(), MakeTransferInput{ManagerID: "mgr-atlas", PlayerOutID: "far-fwd-1", PlayerInID: "rsb-fwd-1"})

	var conflict *ConflictError
	require.True(t, errors.As(err, &conflict), "got %v", err)
	assert.Equal(t, gameweek.StatusClosed, conflict.Status)
}

func TestTransferService_MakeTransfer_UnknownIncomingPlayerIsNamed(t *testing.T) {
	env := newTestEnv(t)
	saved := env.saveLegalRoster(t, "mgr-atlas")

	_, err := env.transfers.MakeTransfer(t.Context(), MakeTransferInput{ManagerID: "mgr-atlas", PlayerOutID: "far-fwd-1", PlayerInID: "ghost-fwd-9"})
	assertRuleViolation(t, err, fantasy.RulePlayerExistence)
	assert.Contains(t, err.Error(), `"ghost-fwd-9"`)
	assertLedgerUnchanged(t, env, saved, saved.Wallet)
}

func TestTransferService_MakeTransfer_ArmbandFollowsSlot(t *testing.T) {
	env := newTestEnv(t)
	env.saveLegalRoster(t, "mgr-atlas")

	result, err := env.transfers.MakeTransfer(t.Context(), MakeTransferInput{ManagerID: "mgr-atlas", PlayerOutID: "rca-fwd-1", PlayerInID: "rsb-fwd-1"})
	require.NoError(t, err)

	in, ok := result.Squad.Slot("rsb-fwd-1")
	require.True(t, ok)
	assert.True(t, in.IsCaptain)
	assert.True(t, in.IsStarter)
	assert.Equal(t, int64(1950), result.Wallet)

	result, err = env.transfers.MakeTransfer(t.Context(), MakeTransferInput{ManagerID: "mgr-atlas", PlayerOutID: "far-mid-2", PlayerInID: "wac-mid-1"})
	require.NoError(t, err)
	in, ok = result.Squad.Slot("wac-mid-1")
	require.True(t, ok)
	assert.True(t, in.IsViceCaptain)
	assert.False(t, in.IsCaptain)
}

func TestTransferService_MakeTransfer_WithoutSquad(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.transfers.MakeTransfer(t.Context(), MakeTransferInput{ManagerID: "mgr-atlas", PlayerOutID: "far-fwd-1", PlayerInID: "rsb-fwd-1"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTransferService_MakeTransfer_ConcurrentSameOutgoingPlayer(t *testing.T) {
	env := newTestEnv(t)
	env.saveLegalRoster(t, "mgr-atlas")

	incoming := []string{"rsb-fwd-1", "wac-fwd-1"}
	errs := make([]error, len(incoming))
	var wg sync.WaitGroup
	for i, in := range incoming {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = env.transfers.MakeTransfer(context.Background(), MakeTransferInput{ManagerID: "mgr-atlas", PlayerOutID: "far-fwd-1", PlayerInID: in})
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assertRuleViolation(t, err, fantasy.RuleTransfer)
	}
	assert.Equal(t, 1, succeeded)

	history, err := env.transfers.ListTransfers(t.Context(), "mgr-atlas", "")
	require.NoError(t, err)
	assert.Len(t, history, 1)
	state, _, err := env.store.GetState(t.Context(), "mgr-atlas", "gw-2")
	require.NoError(t, err)
	assert.Equal(t, 1, state.TransfersMade)
}

func TestTransferService_MakeTransfer_ConcurrentTransfersShareOneWallet(t *testing.T) {
	env := newTestEnv(t)
	env.saveLegalRoster(t, "mgr-atlas")
	// far-fwd-1 (700) -> rsb-fwd-1 (800) costs 100, fus-fwd-1 (700) -> wac-fwd-1 (750) costs 50.
	env.setWallet(t, "mgr-atlas", 100)

	inputs := []MakeTransferInput{
		{ManagerID: "mgr-atlas", PlayerOutID: "far-fwd-1", PlayerInID: "rsb-fwd-1"},
		{ManagerID: "mgr-atlas", PlayerOutID: "fus-fwd-1", PlayerInID: "wac-fwd-1"},
	}
	results := make([]TransferResult, len(inputs))
	errs := make([]error, len(inputs))
	var wg sync.WaitGroup
	for i, input := range inputs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = env.transfers.MakeTransfer(context.Background(), input)
		}()
	}
	wg.Wait()

	committed := -1
	for i, err := range errs {
		if err == nil {
			require.Equal(t, -1, committed, "both transfers committed")
			committed = i
			continue
		}
		assert.True(t, errors.Is(err, ErrInsufficientFunds) || errors.Is(err, ErrConflict), "got %v", err)
		assert.NotErrorIs(t, err, ErrInternal)
	}
	require.NotEqual(t, -1, committed, "no transfer committed")

	wallet := env.manager(t, "mgr-atlas").Wallet
	assert.Equal(t, results[committed].Wallet, wallet)
	assert.GreaterOrEqual(t, wallet, int64(0))

	history, err := env.transfers.ListTransfers(t.Context(), "mgr-atlas", "gw-2")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, inputs[committed].PlayerOutID, history[0].PlayerOutID)
}

func TestTransferService_MakeTransfer_PricingFailureUsingMockery(t *testing.T) {
	env := newTestEnv(t)
	saved := env.saveLegalRoster(t, "mgr-atlas")

	pricing := playermock.NewPricingView(t)
	pricing.
		On("PricesAt", mock.Anything, "gw-2", []string{"far-fwd-1", "rsb-fwd-1"}).
		Return(nil, errors.New("price feed timeout")).
		Once()

	service := NewTransferService(NewRepositoryClock(env.gameweeks), env.managers, env.players, pricing, env.store, nil,
		idgen.NewSequence("tr"), TransferServiceConfig{Rules: fantasy.DefaultRules()}, logging.NewNop())

	_, err := service.MakeTransfer(t.Context(), MakeTransferInput{ManagerID: "mgr-atlas", PlayerOutID: "far-fwd-1", PlayerInID: "rsb-fwd-1"})
	require.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, "internal error", err.Error())
	assertLedgerUnchanged(t, env, saved, saved.Wallet)
}

func TestTransferService_ListTransfers(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.transfers.ListTransfers(t.Context(), "mgr-ghost", "")
	require.ErrorIs(t, err, ErrNotFound)

	records, err := env.transfers.ListTransfers(t.Context(), "mgr-atlas", "")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func assertLedgerUnchanged(t *testing.T, env *testEnv, saved SquadView, wallet int64) {
	t.Helper()

	assert.Equal(t, wallet, env.manager(t, "mgr-atlas").Wallet)
	squad, ok, err := env.store.GetSquad(t.Context(), "mgr-atlas", "gw-2")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, saved.Squad.Slots, squad.Slots)

	state, ok, err := env.store.GetState(t.Context(), "mgr-atlas", "gw-2")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, saved.State.Version, state.Version)
	assert.Equal(t, 0, state.TransfersMade)

	records, err := env.store.ListTransfers(t.Context(), "mgr-atlas", "")
	require.NoError(t, err)
	assert.Empty(t, records)
}
