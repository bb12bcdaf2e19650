package usecase

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/fantasy-squad/internal/domain/gameweek"
	"github.com/riskibarqy/fantasy-squad/internal/domain/leaderboard"
	"github.com/riskibarqy/fantasy-squad/internal/domain/manager"
	"github.com/riskibarqy/fantasy-squad/internal/domain/scoring"
	"github.com/riskibarqy/fantasy-squad/internal/platform/logging"
	"github.com/riskibarqy/fantasy-squad/internal/platform/resilience"
)

type LeaderboardQuery struct {
	GameweekID string
	Scope      leaderboard.Scope
	Page       int
	PageSize   int
}

type LeaderboardResult struct {
	GameweekID string
	Scope      leaderboard.Scope
	leaderboard.Page
}

type FinalizeResult struct {
	GameweekID string
	Managers   int
	Failed     int
}

type LeaderboardServiceConfig struct {
	DefaultPageSize int
	MaxPageSize     int
	Workers         int
}

type LeaderboardService struct {
	gate     gameweekGate
	managers manager.Repository
	scoring  *ScoringService
	points   scoring.PointsRepository
	locks    *resilience.KeyedMutex
	cfg      LeaderboardServiceConfig
	logger   *logging.Logger
	now      func() time.Time
}

func NewLeaderboardService(
	clock gameweek.Clock,
	managers manager.Repository,
	scoringService *ScoringService,
	points scoring.PointsRepository,
	locks *resilience.KeyedMutex,
	cfg LeaderboardServiceConfig,
	logger *logging.Logger,
) *LeaderboardService {
	if logger == nil {
		logger = logging.Default()
	}
	if locks == nil {
		locks = resilience.NewKeyedMutex()
	}
	if cfg.DefaultPageSize < 1 {
		cfg.DefaultPageSize = 50
	}
	if cfg.MaxPageSize < cfg.DefaultPageSize {
		cfg.MaxPageSize = max(cfg.DefaultPageSize, 200)
	}
	if cfg.Workers < 1 {
		cfg.Workers = 8
	}
	return &LeaderboardService{
		gate:     gameweekGate{clock: clock, now: time.Now},
		managers: managers,
		scoring:  scoringService,
		points:   points,
		locks:    locks,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// GetLeaderboard ranks every manager. Season scope ranks by finalized
// cumulative points; gameweek scope ranks by live points for the gameweek.
// Ties go to the lower manager id.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context, query LeaderboardQuery) (result LeaderboardResult, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.GetLeaderboard")
	defer func() { endSpan(span, err) }()

	scope := leaderboard.Scope(strings.ToLower(strings.TrimSpace(string(query.Scope))))
	if scope == "" {
		scope = leaderboard.ScopeSeason
	}
	if !scope.Valid() {
		return LeaderboardResult{}, invalidInput("unknown leaderboard scope %q", query.Scope)
	}
	if query.Page < 0 || query.PageSize < 0 {
		return LeaderboardResult{}, invalidInput("page and page size must not be negative")
	}
	pageSize := query.PageSize
	if pageSize == 0 {
		pageSize = s.cfg.DefaultPageSize
	}
	pageSize = min(pageSize, s.cfg.MaxPageSize)

	gameweekID, _, err := s.gate.resolve(ctx, query.GameweekID)
	if err != nil {
		return LeaderboardResult{}, err
	}

	managers, err := s.managers.List(ctx)
	if err != nil {
		return LeaderboardResult{}, internalError("list managers", err)
	}
	live, err := s.scoring.scoreGameweek(ctx, gameweekID)
	if err != nil {
		return LeaderboardResult{}, err
	}
	liveByManager := make(map[string]int, len(live))
	for _, p := range live {
		liveByManager[p.ManagerID] = p.Total
	}

	entries := make([]leaderboard.Entry, 0, len(managers))
	for _, m := range managers {
		entries = append(entries, leaderboard.Entry{
			ManagerID:        m.ID,
			SquadName:        m.SquadName,
			GameweekPoints:   liveByManager[m.ID],
			CumulativePoints: m.CumulativePoints,
		})
	}

	ranked := leaderboard.Rank(entries, scope)
	return LeaderboardResult{
		GameweekID: gameweekID,
		Scope:      scope,
		Page:       leaderboard.Paginate(ranked, query.Page, pageSize),
	}, nil
}

// FinalizeGameweek persists every rostered manager's score for a completed
// gameweek and recomputes their season totals. Re-running it is safe.
func (s *LeaderboardService) FinalizeGameweek(ctx context.Context, gameweekID string) (result FinalizeResult, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.FinalizeGameweek")
	defer func() { endSpan(span, err) }()

	gameweekID = strings.TrimSpace(gameweekID)
	if gameweekID == "" {
		return FinalizeResult{}, invalidInput("gameweek id is required")
	}
	gameweekID, status, err := s.gate.resolve(ctx, gameweekID)
	if err != nil {
		return FinalizeResult{}, err
	}
	if status != gameweek.StatusCompleted {
		return FinalizeResult{}, &ConflictError{Reason: "only completed gameweeks can be finalized", GameweekID: gameweekID, Status: status}
	}

	scores, err := s.scoring.scoreGameweek(ctx, gameweekID)
	if err != nil {
		return FinalizeResult{}, err
	}
	result = FinalizeResult{GameweekID: gameweekID, Managers: len(scores)}
	if len(scores) == 0 {
		return result, nil
	}

	workerPool, err := ants.NewPool(min(s.cfg.Workers, len(scores)))
	if err != nil {
		return FinalizeResult{}, internalError("create worker pool", err)
	}
	defer workerPool.Release()

	var (
		failed   atomic.Int32
		firstErr error
		errOnce  sync.Once
		workers  sync.WaitGroup
	)
	calculatedAt := s.now().UTC()
	for _, score := range scores {
		workers.Add(1)
		submitErr := workerPool.Submit(func() {
			defer workers.Done()
			if err := s.finalizeManager(ctx, score, calculatedAt); err != nil {
				failed.Add(1)
				errOnce.Do(func() { firstErr = err })
				s.logger.ErrorContext(ctx, "finalize manager points failed", "manager_id", score.ManagerID, "gameweek_id", gameweekID, "error", err)
			}
		})
		if submitErr != nil {
			workers.Done()
			failed.Add(1)
			errOnce.Do(func() { firstErr = submitErr })
		}
	}
	workers.Wait()

	result.Failed = int(failed.Load())
	s.logger.InfoContext(ctx, "gameweek finalized", "gameweek_id", gameweekID, "managers", result.Managers, "failed", result.Failed)
	if firstErr != nil {
		return result, internalError("finalize gameweek", errors.Wrapf(firstErr, "%d of %d managers failed", result.Failed, result.Managers))
	}
	return result, nil
}

func (s *LeaderboardService) finalizeManager(ctx context.Context, score ManagerPoints, calculatedAt time.Time) error {
	unlock, err := s.locks.Lock(ctx, "finalize|"+score.ManagerID)
	if err != nil {
		return err
	}
	defer unlock()

	history, err := s.points.ListByManager(ctx, score.ManagerID)
	if err != nil {
		return errors.Wrap(err, "list manager gameweek points")
	}
	cumulative := score.Total
	for _, h := range history {
		if h.GameweekID != score.GameweekID {
			cumulative += h.Points
		}
	}

	return s.points.SaveGameweekPoints(ctx, scoring.ManagerGameweekPoints{
		ManagerID:    score.ManagerID,
		GameweekID:   score.GameweekID,
		Points:       score.Total,
		CalculatedAt: calculatedAt,
	}, cumulative)
}
