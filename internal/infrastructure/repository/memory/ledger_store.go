package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/riskibarqy/fantasy-squad/internal/domain/fantasy"
	"github.com/riskibarqy/fantasy-squad/internal/domain/ledger"
	"github.com/riskibarqy/fantasy-squad/internal/domain/manager"
)

// LedgerStore keeps squads, gameweek states and transfer history in memory.
// Transactions stage their writes and apply them under one lock at commit,
// after re-checking state versions and wallet balances.
type LedgerStore struct {
	mu        sync.RWMutex
	managers  *ManagerRepository
	squads    map[string]fantasy.Squad
	states    map[string]ledger.GameweekState
	transfers []ledger.TransferRecord
	now       func() time.Time
}

func NewLedgerStore(managers *ManagerRepository) *LedgerStore {
	return &LedgerStore{
		managers: managers,
		squads:   make(map[string]fantasy.Squad),
		states:   make(map[string]ledger.GameweekState),
		now:      time.Now,
	}
}

func (s *LedgerStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx ledger.Tx) error) error {
	tx := &memoryTx{
		store:       s,
		walletDelta: make(map[string]int64),
		squads:      make(map[string]fantasy.Squad),
		states:      make(map[string]stagedState),
	}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.commit(tx)
}

func (s *LedgerStore) GetSquad(_ context.Context, managerID, gameweekID string) (fantasy.Squad, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sq, ok := s.squads[ledgerKey(managerID, gameweekID)]
	if !ok {
		return fantasy.Squad{}, false, nil
	}
	return cloneSquad(sq), true, nil
}

func (s *LedgerStore) ListSquadsByGameweek(_ context.Context, gameweekID string) ([]fantasy.Squad, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]fantasy.Squad, 0)
	for _, sq := range s.squads {
		if sq.GameweekID == gameweekID {
			out = append(out, cloneSquad(sq))
		}
	}
	slices.SortFunc(out, func(a, b fantasy.Squad) int { return cmp.Compare(a.ManagerID, b.ManagerID) })
	return out, nil
}

func (s *LedgerStore) GetState(_ context.Context, managerID, gameweekID string) (ledger.GameweekState, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.states[ledgerKey(managerID, gameweekID)]
	return st, ok, nil
}

func (s *LedgerStore) ListStatesByGameweek(_ context.Context, gameweekID string) ([]ledger.GameweekState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ledger.GameweekState, 0)
	for _, st := range s.states {
		if st.GameweekID == gameweekID {
			out = append(out, st)
		}
	}
	slices.SortFunc(out, func(a, b ledger.GameweekState) int { return cmp.Compare(a.ManagerID, b.ManagerID) })
	return out, nil
}

func (s *LedgerStore) ListTransfers(_ context.Context, managerID, gameweekID string) ([]ledger.TransferRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ledger.TransferRecord, 0)
	for _, rec := range s.transfers {
		if rec.ManagerID != managerID {
			continue
		}
		if gameweekID != "" && rec.GameweekID != gameweekID {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *LedgerStore) commit(tx *memoryTx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.managers.mu.Lock()
	defer s.managers.mu.Unlock()

	for key, staged := range tx.states {
		if s.states[key].Version != staged.expected {
			return fmt.Errorf("%w: %s", ledger.ErrVersionConflict, key)
		}
	}
	for managerID, delta := range tx.walletDelta {
		m, ok := s.managers.items[managerID]
		if !ok {
			return fmt.Errorf("manager %s disappeared during transaction", managerID)
		}
		if m.Wallet+delta < 0 {
			return ledger.ErrInsufficientFunds
		}
	}

	now := s.now().UTC()
	for managerID, delta := range tx.walletDelta {
		m := s.managers.items[managerID]
		m.Wallet += delta
		m.UpdatedAt = now
		s.managers.items[managerID] = m
	}
	for key, sq := range tx.squads {
		s.squads[key] = sq
	}
	for key, staged := range tx.states {
		s.states[key] = staged.state
	}
	s.transfers = append(s.transfers, tx.transfers...)
	return nil
}

// SeedSquad stores a roster and its ledger state outside any transaction.
func (s *LedgerStore) SeedSquad(squad fantasy.Squad, state ledger.GameweekState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := ledgerKey(squad.ManagerID, squad.GameweekID)
	s.squads[key] = cloneSquad(squad)
	if state.Version == 0 {
		state.Version = 1
	}
	s.states[key] = state
}

type stagedState struct {
	state    ledger.GameweekState
	expected int64
}

type memoryTx struct {
	store       *LedgerStore
	walletDelta map[string]int64
	squads      map[string]fantasy.Squad
	states      map[string]stagedState
	transfers   []ledger.TransferRecord
}

func (t *memoryTx) GetManager(ctx context.Context, managerID string) (manager.Manager, bool, error) {
	m, ok, err := t.store.managers.GetByID(ctx, managerID)
	if err != nil || !ok {
		return manager.Manager{}, ok, err
	}
	m.Wallet += t.walletDelta[managerID]
	return m, true, nil
}

func (t *memoryTx) GetSquad(ctx context.Context, managerID, gameweekID string) (fantasy.Squad, bool, error) {
	if sq, ok := t.squads[ledgerKey(managerID, gameweekID)]; ok {
		return cloneSquad(sq), true, nil
	}
	return t.store.GetSquad(ctx, managerID, gameweekID)
}

func (t *memoryTx) GetPriorSquad(ctx context.Context, managerID, gameweekID string, gameweekNumber int) (fantasy.Squad, bool, error) {
	if sq, ok, err := t.GetSquad(ctx, managerID, gameweekID); err != nil || ok {
		return sq, ok, err
	}

	t.store.mu.RLock()
	defer t.store.mu.RUnlock()

	var (
		latest fantasy.Squad
		found  bool
	)
	for _, sq := range t.store.squads {
		if sq.ManagerID != managerID || sq.GameweekNumber >= gameweekNumber {
			continue
		}
		if !found || sq.GameweekNumber > latest.GameweekNumber {
			latest, found = sq, true
		}
	}
	if !found {
		return fantasy.Squad{}, false, nil
	}
	return cloneSquad(latest), true, nil
}

func (t *memoryTx) LockState(ctx context.Context, managerID, gameweekID string) (ledger.GameweekState, bool, error) {
	if staged, ok := t.states[ledgerKey(managerID, gameweekID)]; ok {
		return staged.state, true, nil
	}
	return t.store.GetState(ctx, managerID, gameweekID)
}

func (t *memoryTx) ReplaceSquad(_ context.Context, squad fantasy.Squad) error {
	t.squads[ledgerKey(squad.ManagerID, squad.GameweekID)] = cloneSquad(squad)
	return nil
}

func (t *memoryTx) AdjustWallet(ctx context.Context, managerID string, delta int64) (int64, error) {
	m, ok, err := t.GetManager(ctx, managerID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("manager %s not found", managerID)
	}
	if m.Wallet+delta < 0 {
		return 0, ledger.ErrInsufficientFunds
	}
	t.walletDelta[managerID] += delta
	return m.Wallet + delta, nil
}

func (t *memoryTx) SaveState(ctx context.Context, state ledger.GameweekState) (ledger.GameweekState, error) {
	key := ledgerKey(state.ManagerID, state.GameweekID)
	expected := state.Version
	if staged, ok := t.states[key]; ok {
		if staged.state.Version != state.Version {
			return ledger.GameweekState{}, ledger.ErrVersionConflict
		}
		expected = staged.expected
	} else {
		current, _, err := t.store.GetState(ctx, state.ManagerID, state.GameweekID)
		if err != nil {
			return ledger.GameweekState{}, err
		}
		if current.Version != state.Version {
			return ledger.GameweekState{}, ledger.ErrVersionConflict
		}
	}

	state.Version++
	t.states[key] = stagedState{state: state, expected: expected}
	return state, nil
}

func (t *memoryTx) AppendTransfer(_ context.Context, record ledger.TransferRecord) error {
	t.transfers = append(t.transfers, record)
	return nil
}

func ledgerKey(managerID, gameweekID string) string {
	return managerID + "|" + gameweekID
}

func cloneSquad(s fantasy.Squad) fantasy.Squad {
	copied := s
	copied.Slots = fantasy.CloneSlots(s.Slots)
	return copied
}
