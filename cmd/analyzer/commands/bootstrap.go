package commands

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"

	"github.com/wonny/earnings-analyzer/backend/internal/audit"
	"github.com/wonny/earnings-analyzer/backend/internal/brain"
	"github.com/wonny/earnings-analyzer/backend/internal/external/anthropic"
	"github.com/wonny/earnings-analyzer/backend/internal/realtime"
	"github.com/wonny/earnings-analyzer/backend/internal/realtime/cache"
	"github.com/wonny/earnings-analyzer/backend/internal/rulesconfig"
	"github.com/wonny/earnings-analyzer/backend/internal/s0_coordinator"
	"github.com/wonny/earnings-analyzer/backend/internal/s2_sentiment"
	"github.com/wonny/earnings-analyzer/backend/pkg/config"
	"github.com/wonny/earnings-analyzer/backend/pkg/database"
	"github.com/wonny/earnings-analyzer/backend/pkg/httputil"
	"github.com/wonny/earnings-analyzer/backend/pkg/logger"
	"github.com/wonny/earnings-analyzer/backend/pkg/redis"
)

// app holds every long-lived dependency a command needs
type app struct {
	cfg          *config.Config
	log          *logger.Logger
	db           *database.DB // nil = persistence disabled
	store        *audit.Repository
	redis        *redis.Client
	rules        *rulesconfig.Config
	orchestrator *brain.Orchestrator
	runCache     *cache.RunCache
	hub          *realtime.Hub
}

// appOptions selects the optional parts of the runtime
type appOptions struct {
	persistence bool // DB_ENABLED 일 때 결과 저장
	redis       bool // REDIS_ENABLED 일 때 결과 캐시 / 레이트 리밋
	events      bool // websocket hub
	remote      bool // http(s) report_path 허용 (CLI 전용)
}

// loadConfig applies the global flags on top of config.Load
func loadConfig() (*config.Config, error) {
	if configFile != "" {
		if err := godotenv.Load(configFile); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", configFile, err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if env != "" {
		cfg.Env = env
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

// newApp wires config → logger → stores → pipeline → orchestrator
func newApp(ctx context.Context, opts appOptions) (*app, error) {
	// 1. Load config
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	// 2. Initialize logger
	log := logger.New(cfg)
	a := &app{cfg: cfg, log: log}

	// 3. Connect to database (optional)
	if opts.persistence && cfg.Database.Enabled {
		db, err := database.New(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		if err := db.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		a.db = db
		a.store = audit.NewRepository(db.Pool)
		log.Info("Connected to database")
	}

	// 4. Connect to Redis (optional)
	if opts.redis {
		rdb, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		a.redis = rdb
	}

	// 5. Load keyword / threshold rules
	rules, err := rulesconfig.LoadOrDefault(cfg.Analyzer.RulesFile)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("load rules: %w", err)
	}
	a.rules = rules
	for _, w := range rulesconfig.Warn(rules) {
		log.WithFields(map[string]interface{}{
			"code": w.Code,
		}).Warn(w.Message)
	}

	// 6. External classifier (optional)
	var classifier s2_sentiment.Classifier
	if cfg.Anthropic.Enabled() {
		client, err := anthropic.New(cfg.Anthropic, log)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("create anthropic client: %w", err)
		}
		classifier = client
		log.WithField("model", client.Model()).Info("External sentiment classifier enabled")
	}

	// 7. Build pipeline
	var fetcher *httputil.Client
	if opts.remote {
		fetcher = httputil.New(log)
	}
	thresholds := rules.Thresholds()
	registry, err := brain.NewPipeline(brain.PipelineConfig{
		Source:     s0_coordinator.NewFileSource(fetcher),
		Classifier: classifier,
		Heuristic:  rules.Heuristic(),
		Thresholds: &thresholds,
	}, log)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("build pipeline: %w", err)
	}

	// 8. Observers
	a.runCache = cache.NewRunCache(cache.DefaultTTL, log)
	publishers := []realtime.Publisher{a.runCache}
	if opts.events {
		a.hub = realtime.NewHub(log)
		publishers = append(publishers, a.hub)
	}

	// 9. Create orchestrator
	orchOpts := []brain.Option{brain.WithObserver(realtime.Fanout(publishers...))}
	if a.store != nil {
		orchOpts = append(orchOpts, brain.WithStore(a.store))
	}
	a.orchestrator = brain.NewOrchestrator(registry, log, orchOpts...)

	return a, nil
}

// Close releases external connections
func (a *app) Close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
}
