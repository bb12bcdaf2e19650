package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fantasy-squad/internal/domain/fantasy"
	"github.com/riskibarqy/fantasy-squad/internal/domain/ledger"
	"github.com/riskibarqy/fantasy-squad/internal/domain/manager"
	"github.com/riskibarqy/fantasy-squad/internal/domain/player"
	qb "github.com/riskibarqy/fantasy-squad/internal/platform/querybuilder"
)

// LedgerStore persists squads, gameweek states and transfers. Writes run in
// one database transaction; the state row is read with FOR UPDATE and saved
// with a version check, and the wallet is moved with a guarded UPDATE.
type LedgerStore struct {
	db *sqlx.DB
}

var (
	squadSelectColumns    = qb.Columns(squadTableModel{})
	slotSelectColumns     = qb.Columns(squadSlotTableModel{})
	stateSelectColumns    = qb.Columns(gameweekStateTableModel{})
	transferSelectColumns = qb.Columns(transferTableModel{})
)

func NewLedgerStore(db *sqlx.DB) *LedgerStore {
	return &LedgerStore{db: db}
}

func (s *LedgerStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx ledger.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("begin ledger tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(ctx, &pgTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return translateError("commit ledger tx", err)
	}
	return nil
}

func (s *LedgerStore) GetSquad(ctx context.Context, managerID, gameweekID string) (fantasy.Squad, bool, error) {
	return selectSquad(ctx, s.db, qb.Eq("manager_public_id", managerID), qb.Eq("gameweek_public_id", gameweekID))
}

func (s *LedgerStore) ListSquadsByGameweek(ctx context.Context, gameweekID string) ([]fantasy.Squad, error) {
	query, args, err := qb.Select(squadSelectColumns...).From("manager_squads").
		Where(qb.Eq("gameweek_public_id", gameweekID)).
		OrderBy("manager_public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list squads query: %w", err)
	}

	var headers []squadTableModel
	if err := s.db.SelectContext(ctx, &headers, query, args...); err != nil {
		return nil, fmt.Errorf("list squads by gameweek: %w", err)
	}
	if len(headers) == 0 {
		return []fantasy.Squad{}, nil
	}

	ids := make([]int64, 0, len(headers))
	for _, h := range headers {
		ids = append(ids, h.ID)
	}
	slots, err := selectSlots(ctx, s.db, ids)
	if err != nil {
		return nil, err
	}

	out := make([]fantasy.Squad, 0, len(headers))
	for _, h := range headers {
		out = append(out, h.toDomain(slots[h.ID]))
	}
	return out, nil
}

func (s *LedgerStore) GetState(ctx context.Context, managerID, gameweekID string) (ledger.GameweekState, bool, error) {
	return selectState(ctx, s.db, managerID, gameweekID, false)
}

func (s *LedgerStore) ListStatesByGameweek(ctx context.Context, gameweekID string) ([]ledger.GameweekState, error) {
	query, args, err := qb.Select(stateSelectColumns...).From("manager_gameweek_states").
		Where(qb.Eq("gameweek_public_id", gameweekID)).
		OrderBy("manager_public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list states query: %w", err)
	}

	var rows []gameweekStateTableModel
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list states by gameweek: %w", err)
	}

	out := make([]ledger.GameweekState, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (s *LedgerStore) ListTransfers(ctx context.Context, managerID, gameweekID string) ([]ledger.TransferRecord, error) {
	conditions := []qb.Condition{qb.Eq("manager_public_id", managerID)}
	if gameweekID != "" {
		conditions = append(conditions, qb.Eq("gameweek_public_id", gameweekID))
	}
	query, args, err := qb.Select(transferSelectColumns...).From("transfers").
		Where(conditions...).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list transfers query: %w", err)
	}

	var rows []transferTableModel
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}

	out := make([]ledger.TransferRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, ledger.TransferRecord{
			ID:             row.PublicID,
			ManagerID:      row.ManagerID,
			GameweekID:     row.GameweekID,
			PlayerOutID:    row.PlayerOutID,
			PlayerInID:     row.PlayerInID,
			PriceOut:       row.PriceOut,
			PriceIn:        row.PriceIn,
			PenaltyApplied: row.PenaltyApplied,
			WalletAfter:    row.WalletAfter,
			CreatedAt:      row.CreatedAt,
		})
	}
	return out, nil
}

type pgTx struct {
	tx *sqlx.Tx
}

// GetManager locks the manager row so wallet reads and writes for one
// manager serialize across gameweeks.
func (t *pgTx) GetManager(ctx context.Context, managerID string) (manager.Manager, bool, error) {
	m, ok, err := getManager(ctx, t.tx, managerID, true)
	if err != nil {
		return manager.Manager{}, false, translateError("lock manager", err)
	}
	return m, ok, nil
}

func (t *pgTx) GetSquad(ctx context.Context, managerID, gameweekID string) (fantasy.Squad, bool, error) {
	return selectSquad(ctx, t.tx, qb.Eq("manager_public_id", managerID), qb.Eq("gameweek_public_id", gameweekID))
}

// priorSquadQuery prefers the squad for the gameweek itself, then the most
// recent earlier one.
const priorSquadQuery = `
SELECT id, manager_public_id, gameweek_public_id, gameweek_number, total_cost, updated_at
FROM manager_squads
WHERE manager_public_id = :manager_id
  AND (gameweek_public_id = :gameweek_id OR gameweek_number < :gameweek_number)
ORDER BY (gameweek_public_id = :gameweek_id) DESC, gameweek_number DESC
LIMIT 1`

func (t *pgTx) GetPriorSquad(ctx context.Context, managerID, gameweekID string, gameweekNumber int) (fantasy.Squad, bool, error) {
	query, args, err := sqlx.Named(priorSquadQuery, map[string]any{
		"manager_id":      managerID,
		"gameweek_id":     gameweekID,
		"gameweek_number": gameweekNumber,
	})
	if err != nil {
		return fantasy.Squad{}, false, fmt.Errorf("bind prior squad query: %w", err)
	}
	query = t.tx.Rebind(query)

	var header squadTableModel
	if err := t.tx.GetContext(ctx, &header, query, args...); err != nil {
		if isNotFound(err) {
			return fantasy.Squad{}, false, nil
		}
		return fantasy.Squad{}, false, translateError("get prior squad", err)
	}
	slots, err := selectSlots(ctx, t.tx, []int64{header.ID})
	if err != nil {
		return fantasy.Squad{}, false, err
	}
	return header.toDomain(slots[header.ID]), true, nil
}

func (t *pgTx) LockState(ctx context.Context, managerID, gameweekID string) (ledger.GameweekState, bool, error) {
	return selectState(ctx, t.tx, managerID, gameweekID, true)
}

const upsertSquadQuery = `
INSERT INTO manager_squads (manager_public_id, gameweek_public_id, gameweek_number, total_cost, updated_at)
VALUES (:manager_public_id, :gameweek_public_id, :gameweek_number, :total_cost, :updated_at)
ON CONFLICT (manager_public_id, gameweek_public_id)
DO UPDATE SET total_cost = EXCLUDED.total_cost, updated_at = EXCLUDED.updated_at
RETURNING id`

// ReplaceSquad upserts the squad header and rewrites every slot row.
func (t *pgTx) ReplaceSquad(ctx context.Context, squad fantasy.Squad) error {
	updatedAt := squad.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	upsertSQL, upsertArgs, err := sqlx.Named(upsertSquadQuery, squadTableModel{
		ManagerID:      squad.ManagerID,
		GameweekID:     squad.GameweekID,
		GameweekNumber: squad.GameweekNumber,
		TotalCost:      squad.TotalCost(),
		UpdatedAt:      updatedAt,
	})
	if err != nil {
		return fmt.Errorf("bind upsert squad query: %w", err)
	}
	upsertSQL = t.tx.Rebind(upsertSQL)

	var squadID int64
	if err := t.tx.GetContext(ctx, &squadID, upsertSQL, upsertArgs...); err != nil {
		return translateError("upsert squad", err)
	}

	clearSQL, clearArgs, err := qb.DeleteFrom("manager_squad_slots").
		Where(qb.Eq("squad_id", squadID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear slots query: %w", err)
	}
	if _, err := t.tx.ExecContext(ctx, clearSQL, clearArgs...); err != nil {
		return translateError("clear squad slots", err)
	}

	if len(squad.Slots) == 0 {
		return nil
	}
	rows := make([]squadSlotTableModel, 0, len(squad.Slots))
	for _, slot := range squad.Slots {
		rows = append(rows, squadSlotTableModel{
			SquadID:       squadID,
			PlayerID:      slot.PlayerID,
			TeamID:        slot.TeamID,
			Position:      string(slot.Position),
			Price:         slot.Price,
			IsStarter:     slot.IsStarter,
			IsCaptain:     slot.IsCaptain,
			IsViceCaptain: slot.IsViceCaptain,
		})
	}
	insertSQL, insertArgs, err := qb.InsertModels("manager_squad_slots", rows...).ToSQL()
	if err != nil {
		return fmt.Errorf("build insert slots query: %w", err)
	}
	if _, err := t.tx.ExecContext(ctx, insertSQL, insertArgs...); err != nil {
		return translateError("insert squad slots", err)
	}
	return nil
}

func (t *pgTx) AdjustWallet(ctx context.Context, managerID string, delta int64) (int64, error) {
	query, args, err := qb.Update("managers").
		SetExpr("wallet", "wallet + ?", delta).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", managerID),
			qb.Expr("wallet + ? >= 0", delta),
		).
		Returning("wallet").
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build adjust wallet query: %w", err)
	}

	var wallet int64
	if err := t.tx.GetContext(ctx, &wallet, query, args...); err != nil {
		if isNotFound(err) {
			return 0, ledger.ErrInsufficientFunds
		}
		return 0, translateError("adjust wallet", err)
	}
	return wallet, nil
}

func (t *pgTx) SaveState(ctx context.Context, state ledger.GameweekState) (ledger.GameweekState, error) {
	now := time.Now().UTC()
	if state.CreatedAt.IsZero() {
		state.CreatedAt = now
	}
	if state.UpdatedAt.IsZero() {
		state.UpdatedAt = now
	}
	expected := state.Version
	state.Version++

	var (
		query string
		args  []any
		err   error
	)
	if expected == 0 {
		query, args, err = qb.InsertModels("manager_gameweek_states", stateToModel(state)).
			OnConflict("manager_public_id", "gameweek_public_id").
			DoNothing().
			ToSQL()
	} else {
		query, args, err = qb.Update("manager_gameweek_states").
			Set("free_transfers_remaining", state.FreeTransfersRemaining).
			Set("transfers_made", state.TransfersMade).
			Set("penalty_points", state.PenaltyPoints).
			Set("squad_cost", state.SquadCost).
			Set("version", state.Version).
			Set("updated_at", state.UpdatedAt).
			Where(
				qb.Eq("manager_public_id", state.ManagerID),
				qb.Eq("gameweek_public_id", state.GameweekID),
				qb.Eq("version", expected),
			).
			ToSQL()
	}
	if err != nil {
		return ledger.GameweekState{}, fmt.Errorf("build save state query: %w", err)
	}

	res, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return ledger.GameweekState{}, translateError("save gameweek state", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return ledger.GameweekState{}, fmt.Errorf("save gameweek state rows affected: %w", err)
	}
	if n == 0 {
		return ledger.GameweekState{}, ledger.ErrVersionConflict
	}
	return state, nil
}

func (t *pgTx) AppendTransfer(ctx context.Context, record ledger.TransferRecord) error {
	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	query, args, err := qb.InsertModels("transfers", transferTableModel{
		PublicID:       record.ID,
		ManagerID:      record.ManagerID,
		GameweekID:     record.GameweekID,
		PlayerOutID:    record.PlayerOutID,
		PlayerInID:     record.PlayerInID,
		PriceOut:       record.PriceOut,
		PriceIn:        record.PriceIn,
		PenaltyApplied: record.PenaltyApplied,
		WalletAfter:    record.WalletAfter,
		CreatedAt:      createdAt,
	}).ToSQL()
	if err != nil {
		return fmt.Errorf("build insert transfer query: %w", err)
	}
	if _, err := t.tx.ExecContext(ctx, query, args...); err != nil {
		return translateError("insert transfer", err)
	}
	return nil
}

func selectSquad(ctx context.Context, q sqlx.QueryerContext, conditions ...qb.Condition) (fantasy.Squad, bool, error) {
	query, args, err := qb.Select(squadSelectColumns...).From("manager_squads").
		Where(conditions...).
		Limit(1).
		ToSQL()
	if err != nil {
		return fantasy.Squad{}, false, fmt.Errorf("build select squad query: %w", err)
	}

	var header squadTableModel
	if err := sqlx.GetContext(ctx, q, &header, query, args...); err != nil {
		if isNotFound(err) {
			return fantasy.Squad{}, false, nil
		}
		return fantasy.Squad{}, false, fmt.Errorf("get squad: %w", err)
	}

	slots, err := selectSlots(ctx, q, []int64{header.ID})
	if err != nil {
		return fantasy.Squad{}, false, err
	}
	return header.toDomain(slots[header.ID]), true, nil
}

func selectSlots(ctx context.Context, q sqlx.QueryerContext, squadIDs []int64) (map[int64][]fantasy.Slot, error) {
	query, args, err := qb.Select(slotSelectColumns...).From("manager_squad_slots").
		Where(qb.In("squad_id", squadIDs)).
		OrderBy("squad_id", "player_public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select slots query: %w", err)
	}

	var rows []squadSlotTableModel
	if err := sqlx.SelectContext(ctx, q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select squad slots: %w", err)
	}

	out := make(map[int64][]fantasy.Slot, len(squadIDs))
	for _, row := range rows {
		out[row.SquadID] = append(out[row.SquadID], fantasy.Slot{
			PlayerID:      row.PlayerID,
			TeamID:        row.TeamID,
			Position:      player.Position(row.Position),
			Price:         row.Price,
			IsStarter:     row.IsStarter,
			IsCaptain:     row.IsCaptain,
			IsViceCaptain: row.IsViceCaptain,
		})
	}
	for id := range out {
		fantasy.SortSlots(out[id])
	}
	return out, nil
}

func selectState(ctx context.Context, q sqlx.QueryerContext, managerID, gameweekID string, forUpdate bool) (ledger.GameweekState, bool, error) {
	b := qb.Select(stateSelectColumns...).From("manager_gameweek_states").
		Where(
			qb.Eq("manager_public_id", managerID),
			qb.Eq("gameweek_public_id", gameweekID),
		).
		Limit(1)
	if forUpdate {
		b = b.ForUpdate()
	}
	query, args, err := b.ToSQL()
	if err != nil {
		return ledger.GameweekState{}, false, fmt.Errorf("build select state query: %w", err)
	}

	var row gameweekStateTableModel
	if err := sqlx.GetContext(ctx, q, &row, query, args...); err != nil {
		if isNotFound(err) {
			return ledger.GameweekState{}, false, nil
		}
		return ledger.GameweekState{}, false, translateError("get gameweek state", err)
	}
	return row.toDomain(), true, nil
}

func (m squadTableModel) toDomain(slots []fantasy.Slot) fantasy.Squad {
	if slots == nil {
		slots = []fantasy.Slot{}
	}
	return fantasy.Squad{
		ManagerID:      m.ManagerID,
		GameweekID:     m.GameweekID,
		GameweekNumber: m.GameweekNumber,
		Slots:          slots,
		UpdatedAt:      m.UpdatedAt,
	}
}

func (m gameweekStateTableModel) toDomain() ledger.GameweekState {
	return ledger.GameweekState{
		ManagerID:              m.ManagerID,
		GameweekID:             m.GameweekID,
		FreeTransfersRemaining: m.FreeTransfersRemaining,
		TransfersMade:          m.TransfersMade,
		PenaltyPoints:          m.PenaltyPoints,
		SquadCost:              m.SquadCost,
		Version:                m.Version,
		CreatedAt:              m.CreatedAt,
		UpdatedAt:              m.UpdatedAt,
	}
}

func stateToModel(s ledger.GameweekState) gameweekStateTableModel {
	return gameweekStateTableModel{
		ManagerID:              s.ManagerID,
		GameweekID:             s.GameweekID,
		FreeTransfersRemaining: s.FreeTransfersRemaining,
		TransfersMade:          s.TransfersMade,
		PenaltyPoints:          s.PenaltyPoints,
		SquadCost:              s.SquadCost,
		Version:                s.Version,
		CreatedAt:              s.CreatedAt,
		UpdatedAt:              s.UpdatedAt,
	}
}
