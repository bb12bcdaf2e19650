package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/fantasy-squad/internal/domain/fantasy"
	"github.com/riskibarqy/fantasy-squad/internal/domain/ledger"
	"github.com/riskibarqy/fantasy-squad/internal/domain/manager"
	"github.com/riskibarqy/fantasy-squad/internal/domain/player"
)

func newTestStore(wallet int64) (*LedgerStore, *ManagerRepository) {
	managers := NewManagerRepository([]manager.Manager{{ID: "m1", SquadName: "One", Wallet: wallet}})
	return NewLedgerStore(managers), managers
}

func TestLedgerStore_CommitAppliesAllWrites(t *testing.T) {
	store, managers := newTestStore(1000)
	ctx := t.Context()

	err := store.WithinTx(ctx, func(ctx context.Context, tx ledger.Tx) error {
		wallet, err := tx.AdjustWallet(ctx, "m1", -300)
		require.NoError(t, err)
		assert.Equal(t, int64(700), wallet)

		require.NoError(t, tx.ReplaceSquad(ctx, fantasy.Squad{ManagerID: "m1", GameweekID: "gw-1", GameweekNumber: 1, Slots: []fantasy.Slot{{PlayerID: "p1", Price: 300}}}))
		st, err := tx.SaveState(ctx, ledger.NewGameweekState("m1", "gw-1", store.now()))
		require.NoError(t, err)
		assert.Equal(t, int64(1), st.Version)
		return tx.AppendTransfer(ctx, ledger.TransferRecord{ID: "t1", ManagerID: "m1", GameweekID: "gw-1"})
	})
	require.NoError(t, err)

	m, _, _ := managers.GetByID(ctx, "m1")
	assert.Equal(t, int64(700), m.Wallet)
	sq, ok, _ := store.GetSquad(ctx, "m1", "gw-1")
	require.True(t, ok)
	assert.Equal(t, int64(300), sq.TotalCost())
	st, ok, _ := store.GetState(ctx, "m1", "gw-1")
	require.True(t, ok)
	assert.Equal(t, int64(1), st.Version)
	transfers, _ := store.ListTransfers(ctx, "m1", "")
	assert.Len(t, transfers, 1)
}

func TestLedgerStore_ErrorDiscardsStagedWrites(t *testing.T) {
	store, managers := newTestStore(1000)
	ctx := t.Context()
	errBoom := errors.New("boom")

	err := store.WithinTx(ctx, func(ctx context.Context, tx ledger.Tx) error {
		_, _ = tx.AdjustWallet(ctx, "m1", -500)
		_ = tx.ReplaceSquad(ctx, fantasy.Squad{ManagerID: "m1", GameweekID: "gw-1"})
		return errBoom
	})
	assert.ErrorIs(t, err, errBoom)

	m, _, _ := managers.GetByID(ctx, "m1")
	assert.Equal(t, int64(1000), m.Wallet)
	_, ok, _ := store.GetSquad(ctx, "m1", "gw-1")
	assert.False(t, ok)
}

func TestLedgerStore_CanceledContextDoesNotCommit(t *testing.T) {
	store, managers := newTestStore(1000)
	ctx, cancel := context.WithCancel(t.Context())

	err := store.WithinTx(ctx, func(ctx context.Context, tx ledger.Tx) error {
		_, err := tx.AdjustWallet(ctx, "m1", -100)
		cancel()
		return err
	})
	assert.ErrorIs(t, err, context.Canceled)

	m, _, _ := managers.GetByID(t.Context(), "m1")
	assert.Equal(t, int64(1000), m.Wallet)
}

func TestLedgerStore_WalletGuard(t *testing.T) {
	store, _ := newTestStore(100)

	err := store.WithinTx(t.Context(), func(ctx context.Context, tx ledger.Tx) error {
		_, err := tx.AdjustWallet(ctx, "m1", -101)
		return err
	})
	assert.ErrorIs(t, err, ledger.ErrInsufficientFunds)
}

func TestLedgerStore_ConcurrentCommitLosesVersionRace(t *testing.T) {
	store, _ := newTestStore(1000)
	ctx := t.Context()
	store.SeedSquad(fantasy.Squad{ManagerID: "m1", GameweekID: "gw-1"}, ledger.NewGameweekState("m1", "gw-1", store.now()))

	inner := make(chan error, 1)
	err := store.WithinTx(ctx, func(ctx context.Context, tx ledger.Tx) error {
		st, _, err := tx.LockState(ctx, "m1", "gw-1")
		require.NoError(t, err)

		inner <- store.WithinTx(ctx, func(ctx context.Context, other ledger.Tx) error {
			otherState, _, _ := other.LockState(ctx, "m1", "gw-1")
			otherState.TransfersMade++
			_, err := other.SaveState(ctx, otherState)
			return err
		})

		st.TransfersMade++
		_, err = tx.SaveState(ctx, st)
		return err
	})
	require.NoError(t, <-inner)
	assert.ErrorIs(t, err, ledger.ErrVersionConflict)

	st, _, _ := store.GetState(ctx, "m1", "gw-1")
	assert.Equal(t, 1, st.TransfersMade)
	assert.Equal(t, int64(2), st.Version)
}

func TestLedgerTx_GetPriorSquad(t *testing.T) {
	store, _ := newTestStore(1000)
	store.SeedSquad(fantasy.Squad{ManagerID: "m1", GameweekID: "gw-1", GameweekNumber: 1, Slots: []fantasy.Slot{{PlayerID: "a", Position: player.PositionForward}}}, ledger.GameweekState{ManagerID: "m1", GameweekID: "gw-1"})
	store.SeedSquad(fantasy.Squad{ManagerID: "m1", GameweekID: "gw-2", GameweekNumber: 2, Slots: []fantasy.Slot{{PlayerID: "b", Position: player.PositionForward}}}, ledger.GameweekState{ManagerID: "m1", GameweekID: "gw-2"})

	err := store.WithinTx(t.Context(), func(ctx context.Context, tx ledger.Tx) error {
		sq, ok, err := tx.GetPriorSquad(ctx, "m1", "gw-2", 2)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "gw-2", sq.GameweekID)

		sq, ok, err = tx.GetPriorSquad(ctx, "m1", "gw-4", 4)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "gw-2", sq.GameweekID)

		_, ok, err = tx.GetPriorSquad(ctx, "m1", "gw-0", 0)
		require.NoError(t, err)
		assert.False(t, ok)
		return nil
	})
	require.NoError(t, err)
}
