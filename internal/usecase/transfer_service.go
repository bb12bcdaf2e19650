package usecase

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/fantasy-squad/internal/domain/fantasy"
	"github.com/riskibarqy/fantasy-squad/internal/domain/gameweek"
	"github.com/riskibarqy/fantasy-squad/internal/domain/ledger"
	"github.com/riskibarqy/fantasy-squad/internal/domain/manager"
	"github.com/riskibarqy/fantasy-squad/internal/domain/player"
	idgen "github.com/riskibarqy/fantasy-squad/internal/platform/id"
	"github.com/riskibarqy/fantasy-squad/internal/platform/logging"
	"github.com/riskibarqy/fantasy-squad/internal/platform/resilience"
)

type MakeTransferInput struct {
	ManagerID   string
	GameweekID  string
	PlayerOutID string
	PlayerInID  string
}

// TransferResult is the committed outcome of one transfer.
type TransferResult struct {
	Record ledger.TransferRecord
	Squad  fantasy.Squad
	State  ledger.GameweekState
	Wallet int64
}

type TransferServiceConfig struct {
	Rules         fantasy.Rules
	PenaltyPoints int
}

type TransferService struct {
	gate     gameweekGate
	managers manager.Repository
	catalog  player.Catalog
	pricing  player.PricingView
	store    ledger.Store
	locks    *resilience.KeyedMutex
	rules    fantasy.Rules
	penalty  int
	idGen    idgen.Generator
	logger   *logging.Logger
	now      func() time.Time
}

func NewTransferService(
	clock gameweek.Clock,
	managers manager.Repository,
	catalog player.Catalog,
	pricing player.PricingView,
	store ledger.Store,
	locks *resilience.KeyedMutex,
	idGen idgen.Generator,
	cfg TransferServiceConfig,
	logger *logging.Logger,
) *TransferService {
	if logger == nil {
		logger = logging.Default()
	}
	if locks == nil {
		locks = resilience.NewKeyedMutex()
	}
	if cfg.PenaltyPoints <= 0 {
		cfg.PenaltyPoints = ledger.DefaultTransferPenalty
	}
	s := &TransferService{
		managers: managers,
		catalog:  catalog,
		pricing:  pricing,
		store:    store,
		locks:    locks,
		rules:    cfg.Rules,
		penalty:  cfg.PenaltyPoints,
		idGen:    idGen,
		logger:   logger,
		now:      time.Now,
	}
	s.gate = gameweekGate{clock: clock, now: func() time.Time { return s.now().UTC() }}
	return s
}

// MakeTransfer swaps one rostered player for another at this gameweek's
// prices. Wallet, roster, ledger state and history commit atomically; any
// failure leaves all four untouched.
func (s *TransferService) MakeTransfer(ctx context.Context, input MakeTransferInput) (result TransferResult, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TransferService.MakeTransfer",
		attribute.String("manager_id", input.ManagerID),
		attribute.String("gameweek_id", input.GameweekID),
	)
	defer func() { endSpan(span, err) }()

	managerID := strings.TrimSpace(input.ManagerID)
	outID := strings.TrimSpace(input.PlayerOutID)
	inID := strings.TrimSpace(input.PlayerInID)
	switch {
	case managerID == "":
		return TransferResult{}, invalidInput("manager id is required")
	case outID == "" || inID == "":
		return TransferResult{}, invalidInput("player out and player in are required")
	}

	gameweekID, status, err := s.gate.resolve(ctx, input.GameweekID)
	if err != nil {
		return TransferResult{}, err
	}
	if err := s.gate.checkWritable(ctx, gameweekID, status, writeTransfer); err != nil {
		return TransferResult{}, err
	}

	lookup, err := buildPlayerLookup(ctx, s.catalog, s.pricing, gameweekID, []string{outID, inID})
	if err != nil {
		return TransferResult{}, err
	}
	incoming, known := lookup[inID]
	if !known {
		incoming = fantasy.PlayerInfo{ID: inID}
	}

	transferID, err := s.idGen.NewID()
	if err != nil {
		return TransferResult{}, internalError("generate transfer id", err)
	}

	unlock, err := s.locks.Lock(ctx, lockKey(managerID, gameweekID))
	if err != nil {
		return TransferResult{}, err
	}
	defer unlock()

	now := s.now().UTC()
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx ledger.Tx) error {
		mgr, ok, err := tx.GetManager(ctx, managerID)
		if err != nil {
			return internalError("get manager", err)
		}
		if !ok {
			return &NotFoundError{Entity: "manager", ID: managerID}
		}
		squad, ok, err := tx.GetSquad(ctx, managerID, gameweekID)
		if err != nil {
			return internalError("get squad", err)
		}
		if !ok {
			return &NotFoundError{Entity: "squad", ID: managerID + "/" + gameweekID}
		}

		slots, err := fantasy.ValidateSwap(squad.Slots, outID, incoming, s.rules)
		if err != nil {
			return err
		}

		priceOut := lookup[outID].Price
		if _, known := lookup[outID]; !known {
			outSlot, _ := squad.Slot(outID)
			priceOut = outSlot.Price
		}
		priceIn := incoming.Price
		if mgr.Wallet+priceOut-priceIn < 0 {
			return &InsufficientFundsError{Wallet: mgr.Wallet, Required: priceIn - priceOut}
		}

		state, exists, err := tx.LockState(ctx, managerID, gameweekID)
		if err != nil {
			return internalError("lock gameweek state", err)
		}
		if !exists {
			state = ledger.NewGameweekState(managerID, gameweekID, now)
		}
		penalized := state.ApplyTransfer(s.penalty)

		wallet, err := tx.AdjustWallet(ctx, managerID, priceOut-priceIn)
		if err != nil {
			if errors.Is(err, ledger.ErrInsufficientFunds) {
				return &InsufficientFundsError{Wallet: mgr.Wallet, Required: priceIn - priceOut}
			}
			return internalError("adjust wallet", err)
		}

		squad.Slots = slots
		squad.UpdatedAt = now
		if err := tx.ReplaceSquad(ctx, squad); err != nil {
			return internalError("replace squad", err)
		}

		state.SquadCost = squad.TotalCost()
		state.UpdatedAt = now
		if state, err = tx.SaveState(ctx, state); err != nil {
			return internalError("save gameweek state", err)
		}

		record := ledger.TransferRecord{
			ID:             transferID,
			ManagerID:      managerID,
			GameweekID:     gameweekID,
			PlayerOutID:    outID,
			PlayerInID:     inID,
			PriceOut:       priceOut,
			PriceIn:        priceIn,
			PenaltyApplied: penalized,
			WalletAfter:    wallet,
			CreatedAt:      now,
		}
		if err := tx.AppendTransfer(ctx, record); err != nil {
			return internalError("append transfer", err)
		}

		result = TransferResult{Record: record, Squad: squad, State: state, Wallet: wallet}
		return nil
	})
	if err != nil {
		s.logger.WarnContext(ctx, "transfer rejected",
			"manager_id", managerID,
			"gameweek_id", gameweekID,
			"player_out", outID,
			"player_in", inID,
			"error", err,
		)
		return TransferResult{}, internalError("make transfer", err)
	}

	s.logger.InfoContext(ctx, "transfer made",
		"manager_id", managerID,
		"gameweek_id", gameweekID,
		"transfer_id", result.Record.ID,
		"penalty_applied", result.Record.PenaltyApplied,
		"wallet", result.Wallet,
		"free_transfers_remaining", result.State.FreeTransfersRemaining,
	)
	return result, nil
}

// ListTransfers returns the manager's transfer history, newest first. An empty
// gameweek id lists every gameweek.
func (s *TransferService) ListTransfers(ctx context.Context, managerID, gameweekID string) (records []ledger.TransferRecord, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TransferService.ListTransfers")
	defer func() { endSpan(span, err) }()

	managerID = strings.TrimSpace(managerID)
	if managerID == "" {
		return nil, invalidInput("manager id is required")
	}
	if _, ok, err := s.managers.GetByID(ctx, managerID); err != nil {
		return nil, internalError("get manager", err)
	} else if !ok {
		return nil, &NotFoundError{Entity: "manager", ID: managerID}
	}

	records, err = s.store.ListTransfers(ctx, managerID, strings.TrimSpace(gameweekID))
	if err != nil {
		return nil, internalError("list transfers", err)
	}
	slices.Reverse(records)
	return records, nil
}
