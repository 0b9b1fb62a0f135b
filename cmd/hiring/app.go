package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/example/hiring-portal/internal/analysis"
	"github.com/example/hiring-portal/internal/analysis/gemini"
	"github.com/example/hiring-portal/internal/application"
	"github.com/example/hiring-portal/internal/config"
	httptransport "github.com/example/hiring-portal/internal/http"
	"github.com/example/hiring-portal/internal/notify"
)

// app owns the storage, outbox and services shared by every subcommand.
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	storage store
	outbox  *notify.Outbox

	duplicates *application.DuplicateService
	rankings   *application.RankingService
	screening  *application.ScreeningService
	interviews *application.InterviewService
}

type appOptions struct {
	now         func() time.Time
	idGenerator func() string
	// generator replaces the Gemini client, mainly for tests.
	generator analysis.Generator
}

func newApp(ctx context.Context, cfg config.Config, logger *slog.Logger, opts appOptions) (*app, error) {
	if opts.now == nil {
		opts.now = time.Now
	}
	if opts.idGenerator == nil {
		opts.idGenerator = uuid.NewString
	}

	storage, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("storage ready", "storage", cfg.Storage)

	generator := opts.generator
	if generator == nil && cfg.AnalysisEnabled() {
		client, err := gemini.NewGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			_ = storage.Close()
			return nil, fmt.Errorf("create analysis client: %w", err)
		}
		generator = client
	}

	var (
		analyzer application.ApplicationAnalyzer
		comparer application.CandidateComparer
	)
	if generator != nil {
		gateway := analysis.NewGateway(generator,
			analysis.WithTimeout(cfg.AnalysisTimeout),
			analysis.WithLogger(logger.With("component", "analysis")),
		)
		analyzer, comparer = gateway, gateway
		logger.Info("analysis enabled", "model", cfg.GeminiModel, "timeout", cfg.AnalysisTimeout)
	} else {
		logger.Warn("analysis disabled; applications keep their existing scores")
	}

	outbox := notify.NewOutbox(notify.NewLogDispatcher(logger.With("component", "notify")), cfg.NotifyQueueSize, logger)

	jobs := newJobRepositoryAdapter(storage)
	applications := newApplicationRepositoryAdapter(storage)
	interviews := newInterviewRepositoryAdapter(storage)

	rankings := application.NewRankingService(jobs, applications, cfg.RankingWeights, opts.now, logger)

	return &app{
		cfg:        cfg,
		logger:     logger,
		storage:    storage,
		outbox:     outbox,
		duplicates: application.NewDuplicateService(applications, comparer, cfg.DuplicateCompareLimit, logger),
		rankings:   rankings,
		screening:  application.NewScreeningService(jobs, applications, analyzer, rankings, opts.now, logger),
		interviews: application.NewInterviewService(application.InterviewServiceConfig{
			Interviews:    interviews,
			Applications:  applications,
			Notifications: outbox,
			IDGenerator:   opts.idGenerator,
			Now:           opts.now,
			Location:      cfg.Location,
			Logger:        logger,
		}),
	}, nil
}

func (a *app) handler() http.Handler {
	return httptransport.NewRouter(httptransport.RouterConfig{
		Screening:  httptransport.NewScreeningHandler(a.duplicates, a.rankings, a.screening, a.logger),
		Interviews: httptransport.NewInterviewHandler(a.interviews, a.logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(a.logger),
			httptransport.Recoverer(a.logger),
		},
	})
}

// Close drains pending notifications before closing the storage.
func (a *app) Close(ctx context.Context) error {
	var errs []error
	if err := a.outbox.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("drain notifications: %w", err))
	}
	if err := a.storage.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close storage: %w", err))
	}
	return errors.Join(errs...)
}
