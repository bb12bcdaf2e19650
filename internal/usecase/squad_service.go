package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/fantasy-squad/internal/domain/fantasy"
	"github.com/riskibarqy/fantasy-squad/internal/domain/gameweek"
	"github.com/riskibarqy/fantasy-squad/internal/domain/ledger"
	"github.com/riskibarqy/fantasy-squad/internal/domain/manager"
	"github.com/riskibarqy/fantasy-squad/internal/domain/player"
	"github.com/riskibarqy/fantasy-squad/internal/platform/logging"
	"github.com/riskibarqy/fantasy-squad/internal/platform/resilience"
)

// SaveSquadInput is a full roster submission for one gameweek.
type SaveSquadInput struct {
	ManagerID  string
	GameweekID string
	Slots      []fantasy.SlotInput
}

type SubstituteInput struct {
	ManagerID    string
	GameweekID   string
	StarterOutID string
	BenchInID    string
}

// SquadView is a manager's roster with the ledger state and wallet it sits on.
type SquadView struct {
	Squad  fantasy.Squad
	State  ledger.GameweekState
	Wallet int64
	Status gameweek.Status
}

type SquadServiceConfig struct {
	Rules                fantasy.Rules
	AllowScheduledWrites bool
}

type SquadService struct {
	gate      gameweekGate
	gameweeks gameweek.Repository
	managers  manager.Repository
	catalog   player.Catalog
	pricing   player.PricingView
	store     ledger.Store
	locks     *resilience.KeyedMutex
	rules     fantasy.Rules
	logger    *logging.Logger
	now       func() time.Time
}

func NewSquadService(
	clock gameweek.Clock,
	gameweeks gameweek.Repository,
	managers manager.Repository,
	catalog player.Catalog,
	pricing player.PricingView,
	store ledger.Store,
	locks *resilience.KeyedMutex,
	cfg SquadServiceConfig,
	logger *logging.Logger,
) *SquadService {
	if logger == nil {
		logger = logging.Default()
	}
	if locks == nil {
		locks = resilience.NewKeyedMutex()
	}
	s := &SquadService{
		gameweeks: gameweeks,
		managers:  managers,
		catalog:   catalog,
		pricing:   pricing,
		store:     store,
		locks:     locks,
		rules:     cfg.Rules,
		logger:    logger,
		now:       time.Now,
	}
	s.gate = gameweekGate{clock: clock, scheduledWrites: cfg.AllowScheduledWrites, now: s.clockNow}
	return s
}

func (s *SquadService) clockNow() time.Time { return s.now().UTC() }

// SaveSquad replaces the manager's roster for a gameweek. The prior roster's
// cost is credited back before the new one is charged, so the budget check
// runs against wallet + prior cost. Resubmitting an identical roster is a no-op.
func (s *SquadService) SaveSquad(ctx context.Context, input SaveSquadInput) (view SquadView, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SquadService.SaveSquad",
		attribute.String("manager_id", input.ManagerID),
		attribute.String("gameweek_id", input.GameweekID),
	)
	defer func() { endSpan(span, err) }()

	managerID := strings.TrimSpace(input.ManagerID)
	if managerID == "" {
		return SquadView{}, invalidInput("manager id is required")
	}

	gameweekID, status, err := s.gate.resolve(ctx, input.GameweekID)
	if err != nil {
		return SquadView{}, err
	}
	if err := s.gate.checkWritable(ctx, gameweekID, status, writeSquad); err != nil {
		return SquadView{}, err
	}
	gw, ok, err := s.gameweeks.GetByID(ctx, gameweekID)
	if err != nil {
		return SquadView{}, internalError("get gameweek", err)
	}
	if !ok {
		return SquadView{}, &NotFoundError{Entity: "gameweek", ID: gameweekID}
	}

	candidate := normalizeSlotInputs(input.Slots)
	lookup, err := s.playerLookup(ctx, gameweekID, slotPlayerIDs(candidate))
	if err != nil {
		return SquadView{}, err
	}

	unlock, err := s.locks.Lock(ctx, lockKey(managerID, gameweekID))
	if err != nil {
		return SquadView{}, err
	}
	defer unlock()

	now := s.clockNow()
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx ledger.Tx) error {
		mgr, ok, err := tx.GetManager(ctx, managerID)
		if err != nil {
			return internalError("get manager", err)
		}
		if !ok {
			return &NotFoundError{Entity: "manager", ID: managerID}
		}

		prior, hasPrior, err := tx.GetPriorSquad(ctx, managerID, gameweekID, gw.Number)
		if err != nil {
			return internalError("get prior squad", err)
		}
		var priorCost int64
		if hasPrior {
			priorCost = prior.TotalCost()
		}

		slots, err := fantasy.ValidateRoster(candidate, lookup, mgr.Wallet+priorCost, s.rules)
		if err != nil {
			return err
		}

		state, exists, err := tx.LockState(ctx, managerID, gameweekID)
		if err != nil {
			return internalError("lock gameweek state", err)
		}
		if !exists {
			state = ledger.NewGameweekState(managerID, gameweekID, now)
		}

		if exists && hasPrior && prior.GameweekID == gameweekID && fantasy.SameSlots(prior.Slots, slots) {
			view = SquadView{Squad: prior, State: state, Wallet: mgr.Wallet, Status: status}
			return nil
		}

		newCost := fantasy.TotalCost(slots)
		wallet, err := tx.AdjustWallet(ctx, managerID, priorCost-newCost)
		if err != nil {
			if errors.Is(err, ledger.ErrInsufficientFunds) {
				return &InsufficientFundsError{Wallet: mgr.Wallet + priorCost, Required: newCost}
			}
			return internalError("adjust wallet", err)
		}

		squad := fantasy.Squad{
			ManagerID:      managerID,
			GameweekID:     gameweekID,
			GameweekNumber: gw.Number,
			Slots:          slots,
			UpdatedAt:      now,
		}
		if err := tx.ReplaceSquad(ctx, squad); err != nil {
			return internalError("replace squad", err)
		}

		state.SquadCost = newCost
		state.UpdatedAt = now
		state, err = tx.SaveState(ctx, state)
		if err != nil {
			return internalError("save gameweek state", err)
		}

		view = SquadView{Squad: squad, State: state, Wallet: wallet, Status: status}
		return nil
	})
	if err != nil {
		s.logger.WarnContext(ctx, "save squad rejected", "manager_id", managerID, "gameweek_id", gameweekID, "error", err)
		return SquadView{}, internalError("save squad", err)
	}

	s.logger.InfoContext(ctx, "squad saved",
		"manager_id", managerID,
		"gameweek_id", gameweekID,
		"squad_cost", view.State.SquadCost,
		"wallet", view.Wallet,
		"version", view.State.Version,
	)
	return view, nil
}

// GetSquad reads a roster; an empty gameweek id resolves to the latest active gameweek.
func (s *SquadService) GetSquad(ctx context.Context, managerID, gameweekID string) (view SquadView, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SquadService.GetSquad")
	defer func() { endSpan(span, err) }()

	managerID = strings.TrimSpace(managerID)
	if managerID == "" {
		return SquadView{}, invalidInput("manager id is required")
	}
	gameweekID, status, err := s.gate.resolve(ctx, gameweekID)
	if err != nil {
		return SquadView{}, err
	}

	mgr, ok, err := s.managers.GetByID(ctx, managerID)
	if err != nil {
		return SquadView{}, internalError("get manager", err)
	}
	if !ok {
		return SquadView{}, &NotFoundError{Entity: "manager", ID: managerID}
	}

	squad, ok, err := s.store.GetSquad(ctx, managerID, gameweekID)
	if err != nil {
		return SquadView{}, internalError("get squad", err)
	}
	if !ok {
		return SquadView{}, &NotFoundError{Entity: "squad", ID: managerID + "/" + gameweekID}
	}

	state, ok, err := s.store.GetState(ctx, managerID, gameweekID)
	if err != nil {
		return SquadView{}, internalError("get gameweek state", err)
	}
	if !ok {
		state = ledger.NewGameweekState(managerID, gameweekID, squad.UpdatedAt)
	}

	return SquadView{Squad: squad, State: state, Wallet: mgr.Wallet, Status: status}, nil
}

// Substitute swaps one starter with one bench player. Wallet and transfer
// counters are untouched.
func (s *SquadService) Substitute(ctx context.Context, input SubstituteInput) (view SquadView, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SquadService.Substitute")
	defer func() { endSpan(span, err) }()

	managerID := strings.TrimSpace(input.ManagerID)
	starterOut := strings.TrimSpace(input.StarterOutID)
	benchIn := strings.TrimSpace(input.BenchInID)
	if managerID == "" || starterOut == "" || benchIn == "" {
		return SquadView{}, invalidInput("manager id, starter out and bench in are required")
	}

	gameweekID, status, err := s.gate.resolve(ctx, input.GameweekID)
	if err != nil {
		return SquadView{}, err
	}
	if err := s.gate.checkWritable(ctx, gameweekID, status, writeSubstitution); err != nil {
		return SquadView{}, err
	}

	unlock, err := s.locks.Lock(ctx, lockKey(managerID, gameweekID))
	if err != nil {
		return SquadView{}, err
	}
	defer unlock()

	now := s.clockNow()
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

		slots, err := fantasy.ValidateSubstitution(squad.Slots, starterOut, benchIn, s.rules)
		if err != nil {
			return err
		}

		state, exists, err := tx.LockState(ctx, managerID, gameweekID)
		if err != nil {
			return internalError("lock gameweek state", err)
		}
		if !exists {
			state = ledger.NewGameweekState(managerID, gameweekID, now)
			state.SquadCost = squad.TotalCost()
		}

		squad.Slots = slots
		squad.UpdatedAt = now
		if err := tx.ReplaceSquad(ctx, squad); err != nil {
			return internalError("replace squad", err)
		}
		state.UpdatedAt = now
		if state, err = tx.SaveState(ctx, state); err != nil {
			return internalError("save gameweek state", err)
		}

		view = SquadView{Squad: squad, State: state, Wallet: mgr.Wallet, Status: status}
		return nil
	})
	if err != nil {
		s.logger.WarnContext(ctx, "substitution rejected", "manager_id", managerID, "gameweek_id", gameweekID, "error", err)
		return SquadView{}, internalError("substitute", err)
	}

	s.logger.InfoContext(ctx, "substitution made", "manager_id", managerID, "gameweek_id", gameweekID, "out", starterOut, "in", benchIn)
	return view, nil
}

// playerLookup prices every requested player for the gameweek.
func (s *SquadService) playerLookup(ctx context.Context, gameweekID string, playerIDs []string) (map[string]fantasy.PlayerInfo, error) {
	return buildPlayerLookup(ctx, s.catalog, s.pricing, gameweekID, playerIDs)
}

func buildPlayerLookup(ctx context.Context, catalog player.Catalog, pricing player.PricingView, gameweekID string, playerIDs []string) (map[string]fantasy.PlayerInfo, error) {
	lookup := make(map[string]fantasy.PlayerInfo, len(playerIDs))
	if len(playerIDs) == 0 {
		return lookup, nil
	}

	players, err := catalog.GetByIDs(ctx, playerIDs)
	if err != nil {
		return nil, internalError("get players", err)
	}
	prices, err := pricing.PricesAt(ctx, gameweekID, playerIDs)
	if err != nil {
		return nil, internalError("get player prices", err)
	}

	for _, p := range players {
		price, ok := prices[p.ID]
		if !ok {
			price = p.Price
		}
		lookup[p.ID] = fantasy.PlayerInfo{
			ID:       p.ID,
			TeamID:   p.TeamID,
			Position: p.Position,
			Active:   p.Active,
			Price:    price,
		}
	}
	return lookup, nil
}

func normalizeSlotInputs(slots []fantasy.SlotInput) []fantasy.SlotInput {
	out := make([]fantasy.SlotInput, 0, len(slots))
	for _, slot := range slots {
		slot.PlayerID = strings.TrimSpace(slot.PlayerID)
		out = append(out, slot)
	}
	return out
}

func slotPlayerIDs(slots []fantasy.SlotInput) []string {
	seen := make(map[string]struct{}, len(slots))
	out := make([]string, 0, len(slots))
	for _, slot := range slots {
		id := strings.TrimSpace(slot.PlayerID)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
