package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/riskibarqy/fantasy-squad/internal/config"
	"github.com/riskibarqy/fantasy-squad/internal/domain/gameweek"
	"github.com/riskibarqy/fantasy-squad/internal/domain/ledger"
	"github.com/riskibarqy/fantasy-squad/internal/domain/manager"
	"github.com/riskibarqy/fantasy-squad/internal/domain/player"
	"github.com/riskibarqy/fantasy-squad/internal/domain/scoring"
	repocache "github.com/riskibarqy/fantasy-squad/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/fantasy-squad/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fantasy-squad/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/fantasy-squad/internal/infrastructure/schedule"
	"github.com/riskibarqy/fantasy-squad/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/fantasy-squad/internal/platform/cache"
	idgen "github.com/riskibarqy/fantasy-squad/internal/platform/id"
	"github.com/riskibarqy/fantasy-squad/internal/platform/logging"
	"github.com/riskibarqy/fantasy-squad/internal/platform/resilience"
	"github.com/riskibarqy/fantasy-squad/internal/usecase"
)

type playerStore interface {
	player.Catalog
	player.PricingView
}

type scoringStore interface {
	scoring.EventStore
	scoring.RuleRepository
	scoring.PointsRepository
}

// repositories is the storage backend selected by STORAGE_DRIVER.
type repositories struct {
	gameweeks gameweek.Repository
	managers  manager.Repository
	players   playerStore
	store     ledger.Store
	scores    scoringStore
	close     func() error
}

// NewHTTPServer wires storage, services and the router. The returned cleanup
// releases the database handle and must run after the server has shut down.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	repos, err := newRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	clock := newGameweekClock(cfg, repos.gameweeks, logger)
	catalog, rules := cachedReferenceData(cfg, repos)
	locks := resilience.NewKeyedMutex()
	squadRules := cfg.SquadRules()

	squadService := usecase.NewSquadService(
		clock,
		repos.gameweeks,
		repos.managers,
		catalog,
		repos.players,
		repos.store,
		locks,
		usecase.SquadServiceConfig{Rules: squadRules, AllowScheduledWrites: cfg.SquadScheduledWritesEnabled},
		logger.Named("squad"),
	)
	transferService := usecase.NewTransferService(
		clock,
		repos.managers,
		catalog,
		repos.players,
		repos.store,
		locks,
		idgen.NewUUIDGenerator(),
		usecase.TransferServiceConfig{Rules: squadRules, PenaltyPoints: cfg.TransferPenaltyPoints},
		logger.Named("transfer"),
	)
	scoringService := usecase.NewScoringService(
		clock,
		repos.gameweeks,
		repos.managers,
		repos.store,
		repos.scores,
		rules,
		cfg.ScoringMaxWorkers,
		logger.Named("scoring"),
	)
	leaderboardService := usecase.NewLeaderboardService(
		clock,
		repos.managers,
		scoringService,
		repos.scores,
		locks,
		usecase.LeaderboardServiceConfig{
			DefaultPageSize: cfg.LeaderboardPageSize,
			MaxPageSize:     cfg.LeaderboardMaxPageSize,
			Workers:         cfg.FinalizeWorkers,
		},
		logger.Named("leaderboard"),
	)

	handler := httpapi.NewHandler(squadService, transferService, scoringService, leaderboardService, logger.Named("httpapi"))
	router := httpapi.NewRouter(handler, httpapi.RouterConfig{
		Logger:             logger.Named("http"),
		SwaggerEnabled:     cfg.SwaggerEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		InternalJobToken:   cfg.InternalJobToken,
		RequestIDs:         idgen.NewUUIDGenerator(),
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return server, repos.close, nil
}

// cachedReferenceData wraps the player catalog and scoring rules in TTL caches.
// Prices, gameweek status and the ledger are always read through.
func cachedReferenceData(cfg config.Config, repos repositories) (player.Catalog, scoring.RuleRepository) {
	if cfg.ReferenceCacheTTL <= 0 {
		return repos.players, repos.scores
	}
	catalog := repocache.NewPlayerCatalog(repos.players, basecache.NewStore[[]player.Player](cfg.ReferenceCacheTTL))
	rules := repocache.NewRuleRepository(repos.scores, basecache.NewStore[[]scoring.Rule](cfg.ReferenceCacheTTL))
	return catalog, rules
}

func newRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, error) {
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		return newPostgresRepositories(ctx, cfg, logger)
	default:
		logger.Info("storage driver selected", "driver", config.StorageMemory)
		managers := memory.NewManagerRepository(memory.SeedManagers())
		players := memory.NewPlayerRepository(memory.SeedPlayers(), memory.SeedGameweekPrices())
		return repositories{
			gameweeks: memory.NewGameweekRepository(memory.SeedGameweeks()),
			managers:  managers,
			players:   players,
			store:     memory.NewLedgerStore(managers),
			scores:    memory.NewScoringRepository(scoring.DefaultRules(), memory.SeedEvents(), managers),
			close:     func() error { return nil },
		}, nil
	}
}

func newPostgresRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, error) {
	db, err := openDB(ctx, cfg.DB)
	if err != nil {
		return repositories{}, err
	}
	logger.Info("storage driver selected", "driver", config.StoragePostgres, "db_name", dbNameFromURL(cfg.DB.URL))

	if cfg.DB.BootstrapSeed {
		if err := postgres.BootstrapSeed(ctx, db); err != nil {
			_ = db.Close()
			return repositories{}, fmt.Errorf("bootstrap seed: %w", err)
		}
		logger.Info("bootstrap seed checked")
	}

	return repositories{
		gameweeks: postgres.NewGameweekRepository(db),
		managers:  postgres.NewManagerRepository(db),
		players:   postgres.NewPlayerRepository(db),
		store:     postgres.NewLedgerStore(db),
		scores:    postgres.NewScoringRepository(db),
		close:     db.Close,
	}, nil
}

// newGameweekClock prefers the remote schedule service when configured and
// falls back to the local gameweek table.
func newGameweekClock(cfg config.Config, gameweeks gameweek.Repository, logger *logging.Logger) gameweek.Clock {
	if !cfg.ScheduleEnabled {
		return usecase.NewRepositoryClock(gameweeks)
	}
	logger.Info("remote gameweek schedule enabled", "base_url", cfg.ScheduleBaseURL)
	return schedule.NewClient(schedule.ClientConfig{
		BaseURL:  cfg.ScheduleBaseURL,
		Timeout:  cfg.ScheduleTimeout,
		CacheTTL: cfg.ScheduleCacheTTL,
		Circuit:  cfg.ScheduleCircuit(),
	}, logger.Named("schedule"))
}
