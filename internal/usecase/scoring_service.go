package usecase

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/riskibarqy/fantasy-squad/internal/domain/fantasy"
	"github.com/riskibarqy/fantasy-squad/internal/domain/gameweek"
	"github.com/riskibarqy/fantasy-squad/internal/domain/ledger"
	"github.com/riskibarqy/fantasy-squad/internal/domain/manager"
	"github.com/riskibarqy/fantasy-squad/internal/domain/scoring"
	"github.com/riskibarqy/fantasy-squad/internal/platform/logging"
)

// ManagerPoints is a manager's gameweek score: starter points minus transfer penalties.
type ManagerPoints struct {
	ManagerID     string
	GameweekID    string
	Players       []scoring.PlayerPoints
	StarterPoints int
	BenchPoints   int
	Penalty       int
	Total         int
}

// GameweekSummary aggregates every rostered manager in a gameweek.
type GameweekSummary struct {
	GameweekID     string
	Managers       int
	AveragePoints  float64
	HighestPoints  int
	TopManagerID   string
	TotalTransfers int
}

// Overview is the manager dashboard for one gameweek.
type Overview struct {
	Manager  manager.Manager
	Gameweek gameweek.Gameweek
	Squad    SquadView
	Points   ManagerPoints
	Summary  GameweekSummary
}

type ScoringService struct {
	gate       gameweekGate
	gameweeks  gameweek.Repository
	managers   manager.Repository
	store      ledger.Store
	events     scoring.EventStore
	rules      scoring.RuleRepository
	maxWorkers int
	logger     *logging.Logger
}

func NewScoringService(
	clock gameweek.Clock,
	gameweeks gameweek.Repository,
	managers manager.Repository,
	store ledger.Store,
	events scoring.EventStore,
	rules scoring.RuleRepository,
	maxWorkers int,
	logger *logging.Logger,
) *ScoringService {
	if logger == nil {
		logger = logging.Default()
	}
	if maxWorkers < 1 {
		maxWorkers = 8
	}
	return &ScoringService{
		gate:       gameweekGate{clock: clock, now: time.Now},
		gameweeks:  gameweeks,
		managers:   managers,
		store:      store,
		events:     events,
		rules:      rules,
		maxWorkers: maxWorkers,
		logger:     logger,
	}
}

// ManagerGameweekPoints scores a manager's roster for a gameweek. A manager
// without a roster scores zero.
func (s *ScoringService) ManagerGameweekPoints(ctx context.Context, managerID, gameweekID string) (points ManagerPoints, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.ManagerGameweekPoints")
	defer func() { endSpan(span, err) }()

	managerID = strings.TrimSpace(managerID)
	if managerID == "" {
		return ManagerPoints{}, invalidInput("manager id is required")
	}
	gameweekID, _, err = s.gate.resolve(ctx, gameweekID)
	if err != nil {
		return ManagerPoints{}, err
	}
	if _, ok, err := s.managers.GetByID(ctx, managerID); err != nil {
		return ManagerPoints{}, internalError("get manager", err)
	} else if !ok {
		return ManagerPoints{}, &NotFoundError{Entity: "manager", ID: managerID}
	}

	table, err := s.ruleTable(ctx)
	if err != nil {
		return ManagerPoints{}, err
	}
	squad, ok, err := s.store.GetSquad(ctx, managerID, gameweekID)
	if err != nil {
		return ManagerPoints{}, internalError("get squad", err)
	}
	if !ok {
		return ManagerPoints{ManagerID: managerID, GameweekID: gameweekID, Players: []scoring.PlayerPoints{}}, nil
	}
	state, _, err := s.store.GetState(ctx, managerID, gameweekID)
	if err != nil {
		return ManagerPoints{}, internalError("get gameweek state", err)
	}
	return s.score(ctx, table, squad, state.PenaltyPoints)
}

// GameweekSummary scores every rostered manager. Ties for the top score go to
// the lowest manager id.
func (s *ScoringService) GameweekSummary(ctx context.Context, gameweekID string) (summary GameweekSummary, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.GameweekSummary")
	defer func() { endSpan(span, err) }()

	gameweekID, _, err = s.gate.resolve(ctx, gameweekID)
	if err != nil {
		return GameweekSummary{}, err
	}
	all, err := s.scoreGameweek(ctx, gameweekID)
	if err != nil {
		return GameweekSummary{}, err
	}
	states, err := s.store.ListStatesByGameweek(ctx, gameweekID)
	if err != nil {
		return GameweekSummary{}, internalError("list gameweek states", err)
	}

	summary = GameweekSummary{GameweekID: gameweekID, Managers: len(all)}
	for _, st := range states {
		summary.TotalTransfers += st.TransfersMade
	}
	if len(all) == 0 {
		return summary, nil
	}

	total := 0
	for i, p := range all {
		total += p.Total
		if i == 0 || p.Total > summary.HighestPoints || (p.Total == summary.HighestPoints && p.ManagerID < summary.TopManagerID) {
			summary.HighestPoints = p.Total
			summary.TopManagerID = p.ManagerID
		}
	}
	summary.AveragePoints = float64(total) / float64(len(all))
	return summary, nil
}

// GetOverview combines roster, wallet, ledger state and points for one gameweek.
func (s *ScoringService) GetOverview(ctx context.Context, managerID, gameweekID string) (overview Overview, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.GetOverview")
	defer func() { endSpan(span, err) }()

	managerID = strings.TrimSpace(managerID)
	if managerID == "" {
		return Overview{}, invalidInput("manager id is required")
	}
	gameweekID, status, err := s.gate.resolve(ctx, gameweekID)
	if err != nil {
		return Overview{}, err
	}
	gw, ok, err := s.gameweeks.GetByID(ctx, gameweekID)
	if err != nil {
		return Overview{}, internalError("get gameweek", err)
	}
	if !ok {
		gw = gameweek.Gameweek{ID: gameweekID}
	}
	gw.Status = status

	mgr, ok, err := s.managers.GetByID(ctx, managerID)
	if err != nil {
		return Overview{}, internalError("get manager", err)
	}
	if !ok {
		return Overview{}, &NotFoundError{Entity: "manager", ID: managerID}
	}

	squad, hasSquad, err := s.store.GetSquad(ctx, managerID, gameweekID)
	if err != nil {
		return Overview{}, internalError("get squad", err)
	}
	state, hasState, err := s.store.GetState(ctx, managerID, gameweekID)
	if err != nil {
		return Overview{}, internalError("get gameweek state", err)
	}
	if !hasState {
		state = ledger.NewGameweekState(managerID, gameweekID, time.Time{})
	}
	if !hasSquad {
		squad = fantasy.Squad{ManagerID: managerID, GameweekID: gameweekID, GameweekNumber: gw.Number, Slots: []fantasy.Slot{}}
	}

	table, err := s.ruleTable(ctx)
	if err != nil {
		return Overview{}, err
	}
	points, err := s.score(ctx, table, squad, state.PenaltyPoints)
	if err != nil {
		return Overview{}, err
	}
	summary, err := s.GameweekSummary(ctx, gameweekID)
	if err != nil {
		return Overview{}, err
	}

	return Overview{
		Manager:  mgr,
		Gameweek: gw,
		Squad:    SquadView{Squad: squad, State: state, Wallet: mgr.Wallet, Status: status},
		Points:   points,
		Summary:  summary,
	}, nil
}

func (s *ScoringService) ListScoringRules(ctx context.Context) (rules []scoring.Rule, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.ListScoringRules")
	defer func() { endSpan(span, err) }()

	rules, err = s.rules.List(ctx)
	if err != nil {
		return nil, internalError("list scoring rules", err)
	}
	slices.SortFunc(rules, func(a, b scoring.Rule) int {
		if c := cmp.Compare(a.EventType, b.EventType); c != 0 {
			return c
		}
		return cmp.Compare(a.Position.Rank(), b.Position.Rank())
	})
	return rules, nil
}

// scoreGameweek scores every manager holding a roster for the gameweek.
func (s *ScoringService) scoreGameweek(ctx context.Context, gameweekID string) ([]ManagerPoints, error) {
	table, err := s.ruleTable(ctx)
	if err != nil {
		return nil, err
	}
	squads, err := s.store.ListSquadsByGameweek(ctx, gameweekID)
	if err != nil {
		return nil, internalError("list squads", err)
	}
	states, err := s.store.ListStatesByGameweek(ctx, gameweekID)
	if err != nil {
		return nil, internalError("list gameweek states", err)
	}
	penalties := make(map[string]int, len(states))
	for _, st := range states {
		penalties[st.ManagerID] = st.PenaltyPoints
	}

	out := make([]ManagerPoints, 0, len(squads))
	for _, squad := range squads {
		p, err := s.score(ctx, table, squad, penalties[squad.ManagerID])
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b ManagerPoints) int { return cmp.Compare(a.ManagerID, b.ManagerID) })
	return out, nil
}

// score fans event lookups out per player. Only starters count toward the
// total; unknown event types score zero.
func (s *ScoringService) score(ctx context.Context, table scoring.RuleTable, squad fantasy.Squad, penalty int) (ManagerPoints, error) {
	p := pool.NewWithResults[scoring.PlayerPoints]().
		WithMaxGoroutines(s.maxWorkers).
		WithContext(ctx).
		WithCancelOnError()

	for _, slot := range squad.Slots {
		p.Go(func(ctx context.Context) (scoring.PlayerPoints, error) {
			events, err := s.events.EventsFor(ctx, slot.PlayerID, squad.GameweekID)
			if err != nil {
				return scoring.PlayerPoints{}, err
			}
			pts := scoring.PlayerPoints{PlayerID: slot.PlayerID, Position: slot.Position, IsStarter: slot.IsStarter}
			for _, e := range events {
				pts.Points += table.PointsFor(e.Type, slot.Position)
			}
			return pts, nil
		})
	}
	players, err := p.Wait()
	if err != nil {
		return ManagerPoints{}, internalError("load player events", err)
	}
	if players == nil {
		players = []scoring.PlayerPoints{}
	}

	slices.SortFunc(players, func(a, b scoring.PlayerPoints) int { return cmp.Compare(a.PlayerID, b.PlayerID) })
	out := ManagerPoints{
		ManagerID:  squad.ManagerID,
		GameweekID: squad.GameweekID,
		Players:    players,
		Penalty:    penalty,
	}
	for _, pp := range players {
		if pp.IsStarter {
			out.StarterPoints += pp.Points
		} else {
			out.BenchPoints += pp.Points
		}
	}
	out.Total = out.StarterPoints - penalty
	return out, nil
}

func (s *ScoringService) ruleTable(ctx context.Context) (scoring.RuleTable, error) {
	rules, err := s.rules.List(ctx)
	if err != nil {
		return nil, internalError("list scoring rules", err)
	}
	return scoring.NewRuleTable(rules), nil
}
