package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/healytics/healytics-client/internal/config"
	"github.com/healytics/healytics-client/internal/core/domain"
	"github.com/healytics/healytics-client/internal/core/usecase"
	"github.com/healytics/healytics-client/internal/infrastructure/backend"
	"github.com/healytics/healytics-client/internal/infrastructure/resilience"
	"github.com/healytics/healytics-client/internal/infrastructure/tokenstore/localfs"
	"github.com/healytics/healytics-client/internal/observability/logging"
	"github.com/healytics/healytics-client/internal/observability/metrics"
)

// App wires the full dependency graph: persisted credentials feed the
// session store, the session store feeds the API client its token, and
// every workflow sits on top of the typed backend services.
type App struct {
	Config  config.Config
	Log     *slog.Logger
	Metrics *metrics.ClientMetrics

	Sessions *usecase.SessionStore
	Gate     *usecase.AccessGate

	Upload    *usecase.UploadJob
	Chat      *usecase.ChatSession
	Dashboard *usecase.Dashboard
	Blogs     *usecase.BlogLibrary
	Contact   *usecase.ContactDesk

	BlogList  *usecase.ListResource[domain.Blog]
	Bookmarks *usecase.ListResource[domain.Bookmark]
	History   *usecase.ListResource[domain.PredictionRecord]

	Health *backend.HealthService
}

func New(cfg config.Config) (*App, error) {
	log := logging.NewJSONLogger("healytics-client", cfg.LogLevel)
	m := metrics.NewClientMetrics("healytics-client")

	creds, err := localfs.New(cfg.CredentialsPath)
	if err != nil {
		return nil, fmt.Errorf("init credential store: %w", err)
	}

	policy := resilience.DefaultPolicy()
	policy.MaxAttempts = cfg.RetryMaxAttempts
	policy.BreakerEnabled = cfg.BreakerEnabled

	// The session store is constructed before the client so the client
	// can pull its bearer token from it, and the auth service the store
	// needs is attached to that same client afterwards.
	sessions := usecase.NewSessionStore(nil, creds, log, m)
	client := backend.New(cfg.BackendURL, sessions, backend.Options{
		Timeout:       cfg.HTTPTimeout,
		RatePerSecond: cfg.RequestRatePerSecond,
		Burst:         cfg.RequestBurst,
		Policy:        policy,
		Metrics:       m,
		Logger:        log,
	})
	sessions.SetAuthAPI(backend.NewAuthService(client))

	predictions := backend.NewPredictionService(client)
	blogAPI := backend.NewBlogService(client)

	app := &App{
		Config:  cfg,
		Log:     log,
		Metrics: m,

		Sessions: sessions,
		Gate:     usecase.NewAccessGate(sessions),

		Upload:    usecase.NewUploadJob(predictions, log, m),
		Chat:      usecase.NewChatSession(backend.NewChatService(client), log, m),
		Dashboard: usecase.NewDashboard(backend.NewStatsService(client), cfg.StatsCacheTTL, log),
		Blogs:     usecase.NewBlogLibrary(blogAPI, cfg.BlogCacheTTL, log),
		Contact:   usecase.NewContactDesk(backend.NewContactService(client), log),

		BlogList:  usecase.NewListResource("blogs", blogAPI.List, log, m),
		Bookmarks: usecase.NewListResource("bookmarks", blogAPI.Bookmarks, log, m),
		History:   usecase.NewListResource("prediction-history", predictions.History, log, m),

		Health: backend.NewHealthService(client),
	}
	return app, nil
}

func (a *App) Close() {
	a.BlogList.Close()
	a.Bookmarks.Close()
	a.History.Close()
}
