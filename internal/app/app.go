package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/riskibarqy/season-sim/internal/config"
	"github.com/riskibarqy/season-sim/internal/domain/calendar"
	"github.com/riskibarqy/season-sim/internal/domain/fixture"
	"github.com/riskibarqy/season-sim/internal/domain/lineup"
	"github.com/riskibarqy/season-sim/internal/domain/match"
	"github.com/riskibarqy/season-sim/internal/domain/player"
	"github.com/riskibarqy/season-sim/internal/domain/season"
	"github.com/riskibarqy/season-sim/internal/domain/team"
	"github.com/riskibarqy/season-sim/internal/infrastructure/publisher/redisstream"
	"github.com/riskibarqy/season-sim/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/season-sim/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/season-sim/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/season-sim/internal/interfaces/httpapi"
	idgen "github.com/riskibarqy/season-sim/internal/platform/id"
	"github.com/riskibarqy/season-sim/internal/platform/logging"
	"github.com/riskibarqy/season-sim/internal/platform/resilience"
	"github.com/riskibarqy/season-sim/internal/usecase"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

type repositories struct {
	teams    team.Repository
	players  player.Repository
	fixtures fixture.Repository
	calendar calendar.Repository
	lineups  lineup.Repository
	matches  match.Repository
	state    season.StateRepository
	batch    season.BatchWriter
	inbox    season.Inbox
}

// NewHTTPServer wires storage, services and the router. The returned cleanup
// closes the database and redis clients.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	var closers []func() error
	cleanup := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return errors.Join(errs...)
	}
	fail := func(err error) (*http.Server, func() error, error) {
		_ = cleanup()
		return nil, nil, err
	}

	tuning, err := config.LoadTuning(cfg.SimTuningFile)
	if err != nil {
		return fail(fmt.Errorf("load tuning: %w", err))
	}

	snapshot, err := memory.Seed()
	if err != nil {
		return fail(fmt.Errorf("build seed data: %w", err))
	}

	var repos repositories
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db, err := openDB(ctx, cfg)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, db.Close)

		if cfg.DBSeedOnStart {
			seeded, err := postgres.BootstrapSeed(ctx, db, snapshot)
			if err != nil {
				return fail(fmt.Errorf("seed database: %w", err))
			}
			logger.Info("database seed checked", "seeded", seeded)
		}
		repos = postgresRepositories(db, cfg)
	default:
		repos = memoryRepositories(snapshot)
	}

	var publisher usecase.MatchEventPublisher
	if cfg.RedisEnabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		closers = append(closers, client.Close)

		pingCtx, cancel := context.WithTimeout(ctx, cfg.RedisTimeout)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			// the feed is optional, matches still run without it
			logger.Warn("redis ping failed", "addr", cfg.RedisAddr, "error", err)
		}

		publisher = redisstream.New(client, redisstream.Config{
			StreamPrefix: cfg.RedisStreamPrefix,
			MaxLen:       cfg.RedisStreamMaxLen,
			Timeout:      cfg.RedisTimeout,
			CircuitBreaker: resilience.BreakerConfig{
				Enabled:          cfg.RedisCircuitEnabled,
				FailureThreshold: cfg.RedisCircuitFailures,
				OpenTimeout:      cfg.RedisCircuitOpenTimeout,
				HalfOpenProbes:   cfg.RedisCircuitHalfOpenReq,
			},
		}, logger)
	}

	ids := idgen.NewUUIDGenerator()
	matchSvc := usecase.NewMatchService(
		repos.players,
		repos.lineups,
		repos.fixtures,
		repos.matches,
		repos.state,
		nil,
		publisher,
		ids,
		tuning.Match,
		usecase.MatchConfig{
			SharedClock: cfg.MatchSharedClock,
			Seed:        cfg.SimSeed,
			LiveSpeed:   cfg.MatchLiveSpeed,
		},
		logger,
	)
	seasonSvc := usecase.NewSeasonService(
		repos.teams,
		repos.players,
		repos.fixtures,
		repos.calendar,
		repos.state,
		repos.batch,
		repos.inbox,
		matchSvc,
		ids,
		tuning.Condition,
		usecase.SeasonConfig{
			MaxWindow:      cfg.SeasonMaxWindow,
			WorkerPoolSize: cfg.WorkerPoolSize,
		},
		logger,
	)

	handler := httpapi.NewHandler(seasonSvc, matchSvc, cfg.ManagerTeamID, logger)
	router := httpapi.NewRouter(handler, logger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	logger.Info("app wired",
		"storage", cfg.StorageDriver,
		"redis_enabled", cfg.RedisEnabled,
		"manager_team_id", cfg.ManagerTeamID,
	)
	return server, cleanup, nil
}

func memoryRepositories(snapshot memory.Snapshot) repositories {
	store := memory.NewStore(snapshot)
	seasonRepo := memory.NewSeasonRepository(store)
	return repositories{
		teams:    memory.NewTeamRepository(store),
		players:  memory.NewPlayerRepository(store),
		fixtures: memory.NewFixtureRepository(store),
		calendar: memory.NewCalendarRepository(store),
		lineups:  memory.NewLineupRepository(store),
		matches:  memory.NewMatchRepository(store),
		state:    seasonRepo,
		batch:    seasonRepo,
		inbox:    seasonRepo,
	}
}

func postgresRepositories(db *sqlx.DB, cfg config.Config) repositories {
	seasonRepo := postgres.NewSeasonRepository(db)
	return repositories{
		teams:    cache.NewTeamRepository(postgres.NewTeamRepository(db), cfg.RepoCacheTTL),
		players:  postgres.NewPlayerRepository(db),
		fixtures: postgres.NewFixtureRepository(db),
		calendar: postgres.NewCalendarRepository(db),
		lineups:  cache.NewLineupRepository(postgres.NewLineupRepository(db), cfg.RepoCacheTTL),
		matches:  postgres.NewMatchRepository(db),
		state:    seasonRepo,
		batch:    seasonRepo,
		inbox:    seasonRepo,
	}
}

func openDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := postgres.PoolDSN(cfg.DBURL, cfg.DBDisablePreparedBinary)
	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(postgres.DatabaseName(dsn)),
		otelsql.WithQueryFormatter(postgres.TraceQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping database: %v", usecase.ErrDependencyUnavailable, err)
	}
	return db, nil
}
