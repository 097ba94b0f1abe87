// Package application assembles the behavior scorecard service: config,
// scorecard calibration, the optional model and stores, the HTTP surface and
// the background refresh queue, all supervised by one errgroup.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"scorecard/internal/config"
	"scorecard/internal/domain/service/scorecard"
	"scorecard/internal/domain/service/scoring"
	"scorecard/internal/infrastructure/model"
	"scorecard/internal/infrastructure/persistence"
	"scorecard/internal/server"
	"scorecard/internal/worker"
	"scorecard/pkg/application/connectors"
	"scorecard/pkg/application/modules"
	"scorecard/pkg/contextx"
	"scorecard/pkg/logx"
	"scorecard/pkg/metrics"
	"scorecard/pkg/middlewarex"
)

const (
	appName = "behavior-scorecard"

	readHeaderTimeout = 5 * time.Second
	logFieldMaxLen    = 2048
	refreshQueue      = "scoring"
)

// appVersion is stamped via -ldflags at build time.
var appVersion = "dev" //nolint:gochecknoglobals // skip

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals // skip

func Run(ctx context.Context) error {
	logger(ctx).Info("starting",
		slog.String(logx.FieldAppName, appName),
		slog.String(logx.FieldAppVersion, appVersion),
	)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config.Load: %w", err)
	}

	sc, err := scorecard.New(cfg.Scoring.ScoreRef, cfg.Scoring.PDO, cfg.Scoring.OddsRef).
		WithThresholds(cfg.Scoring.MediumThreshold, cfg.Scoring.LowThreshold)
	if err != nil {
		return fmt.Errorf("scorecard.WithThresholds: %w", err)
	}

	scoringService := scoring.NewService(sc).
		WithDatasetTTL(cfg.Scoring.DatasetTTL).
		WithMetrics(metrics.NewScoring())

	if cfg.Model.Path != "" {
		classifier, err := loadModel(ctx, cfg.Model)
		if err != nil {
			return err
		}

		scoringService = scoringService.WithModel(classifier)
	}

	var readyChecks []func() bool

	if cfg.Postgres.DSN != "" {
		pg := &connectors.Postgres{
			DSN:             cfg.Postgres.DSN,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
		}
		db := pg.Client(ctx)
		defer pg.Close(ctx)

		scoringService = scoringService.WithRunRepository(persistence.NewRunRepository(db))
		readyChecks = append(readyChecks, func() bool { return db.Ping() == nil })
	}

	srv := server.NewServer(
		server.NewDatasetServer(scoringService, cfg.Scoring.IDColumn),
		server.NewScoreServer(scoringService),
		server.NewRunServer(scoringService),
	)

	var sensitiveDataMasker logx.SensitiveDataMaskerInterface = logx.NewSensitiveDataMasker()
	if !cfg.HTTP.LogMasking {
		sensitiveDataMasker = logx.NewNopSensitiveDataMasker()
	}

	router := chi.NewRouter()
	router.Use(
		middlewarex.TraceID,
		middlewarex.Logger,
		middlewarex.Recovery,
		middlewarex.RequestLogging(sensitiveDataMasker, logFieldMaxLen),
		middlewarex.ResponseLogging(sensitiveDataMasker, logFieldMaxLen),
	)
	srv.RegisterRoutes(router)

	g, ctx := errgroup.WithContext(ctx)

	modules.HTTPServer{
		ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
	}.Run(ctx, g, &http.Server{ //nolint:exhaustruct
		Addr:              cfg.HTTP.ListenAddress,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	})

	modules.MetricServer{
		ListenAddress: cfg.HTTP.MetricsListenAddress,
	}.Run(ctx, g)

	if cfg.Redis.Address != "" && len(cfg.Refresh.Sources) > 0 {
		rd := &connectors.Redis{ //nolint:exhaustruct
			Address:        cfg.Redis.Address,
			Username:       cfg.Redis.Username,
			Password:       cfg.Redis.Password,
			DatabaseNumber: cfg.Redis.DatabaseNumber,
		}
		redisClient := rd.Client(ctx)
		defer rd.Close(ctx)

		readyChecks = append(readyChecks, func() bool {
			return redisClient.Ping(context.WithoutCancel(ctx)).Err() == nil
		})

		runRefresh(ctx, g, cfg, scoringService)
	}

	modules.ProbeServer{
		Name:          appName,
		Version:       appVersion,
		ListenAddress: cfg.HTTP.ProbeListenAddress,
		Ready:         allReady(readyChecks),
	}.Run(ctx, g)

	return g.Wait() //nolint:wrapcheck
}

// loadModel reads the classifier, attaching the standalone scaler when one
// is configured. Either file failing to load is fatal.
func loadModel(ctx context.Context, cfg config.Model) (*model.LogisticModel, error) {
	classifier, err := model.Load(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("model.Load: %w", err)
	}

	if cfg.ScalerPath != "" {
		scaler, err := model.LoadScaler(cfg.ScalerPath)
		if err != nil {
			return nil, fmt.Errorf("model.LoadScaler: %w", err)
		}

		classifier, err = classifier.WithScaler(scaler)
		if err != nil {
			return nil, fmt.Errorf("classifier.WithScaler: %w", err)
		}
	}

	logger(ctx).Info("model loaded",
		slog.String(logx.FieldModelPath, cfg.Path),
		slog.Int("features", len(classifier.Features())),
	)

	return classifier, nil
}

func allReady(checks []func() bool) func() bool {
	return func() bool {
		for _, check := range checks {
			if !check() {
				return false
			}
		}

		return true
	}
}

// runRefresh starts the asynq worker consuming refresh tasks and the ticker
// producing them.
func runRefresh(
	ctx context.Context,
	g *errgroup.Group,
	cfg config.Config,
	scoringService *scoring.Service,
) {
	modules.AsynqServer{
		RedisUsername: cfg.Redis.Username,
		RedisPassword: cfg.Redis.Password,
		RedisAddress:  cfg.Redis.Address,
		RedisDB:       cfg.Redis.DatabaseNumber,
	}.Run(ctx, g,
		modules.AsynqQueues{refreshQueue: 1},
		modules.AsynqHandler{
			Pattern: worker.TaskRefreshDataset,
			Handle:  worker.NewRefreshHandler(scoringService, cfg.Scoring.IDColumn).Handle,
		},
	)

	client := asynq.NewClient(asynq.RedisClientOpt{ //nolint:exhaustruct
		Addr:     cfg.Redis.Address,
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DatabaseNumber,
	})

	refresher := worker.NewRefresher(client, cfg.Refresh.Sources).
		WithInterval(cfg.Refresh.Interval).
		WithQueue(refreshQueue)

	g.Go(func() error {
		if err := refresher.Start(ctx); err != nil {
			return fmt.Errorf("refresher.Start: %w", err)
		}

		<-ctx.Done()

		refresher.Stop()

		if err := client.Close(); err != nil {
			return fmt.Errorf("asynqClient.Close: %w", err)
		}

		return nil
	})
}
