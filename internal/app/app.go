package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
	_ "github.com/lib/pq"

	"github.com/riskibarqy/teamflow/internal/config"
	"github.com/riskibarqy/teamflow/internal/infrastructure/account/anubis"
	"github.com/riskibarqy/teamflow/internal/interfaces/httpapi"
	idgen "github.com/riskibarqy/teamflow/internal/platform/id"
	"github.com/riskibarqy/teamflow/internal/platform/logging"
	"github.com/riskibarqy/teamflow/internal/platform/resilience"
	"github.com/riskibarqy/teamflow/internal/usecase"
)

// NewHTTPServer builds the API server and returns a cleanup that releases the
// attendance worker pool and the record store. Call cleanup after the server
// has shut down.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	clock := clockwork.NewRealClock()
	ids := idgen.NewUUIDv7Generator()

	attendance := usecase.NewAttendanceService(st.roster, st.events, clock, cfg.TeamTimezone, cfg.WorkerPoolSize, logger)
	services := httpapi.Services{
		Players:    usecase.NewPlayerService(st.roster, ids, logger),
		Events:     usecase.NewEventService(st.events, st.roster, ids, clock, cfg.TeamTimezone, logger),
		Messages:   usecase.NewMessageService(st.messages, ids, clock, logger),
		Files:      usecase.NewFileService(st.files, ids, clock, cfg.ShareBaseURL, logger),
		Stats:      usecase.NewStatsService(st.stats, logger),
		Attendance: attendance,
		Dashboard:  usecase.NewDashboardService(st.roster, st.events, st.messages, st.stats, clock, cfg.TeamTimezone),
		Readiness:  st.ping,
	}

	var verifier httpapi.TokenVerifier
	if cfg.AuthEnabled {
		verifier = anubis.NewClient(anubis.ClientConfig{
			BaseURL:         cfg.AuthBaseURL,
			IntrospectPath:  cfg.AuthIntrospectPath,
			AdminKey:        cfg.AuthAdminKey,
			Timeout:         cfg.AuthTimeout,
			CacheTTL:        cfg.AuthCacheTTL,
			CacheMaxEntries: cfg.AuthCacheMaxEntries,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.AuthCircuitEnabled,
				FailureThreshold: cfg.AuthCircuitFailureCount,
				OpenTimeout:      cfg.AuthCircuitOpenTimeout,
				HalfOpenProbes:   cfg.AuthCircuitProbes,
			},
			Clock:  clock,
			Logger: logger,
		})
		logger.Info("auth enabled", "base_url", cfg.AuthBaseURL)
	} else {
		logger.Warn("auth disabled; team routes are open", "reason", "AUTH_ENABLED=false")
	}

	handler := httpapi.NewHandler(services, logger)
	router := httpapi.NewRouter(handler, verifier, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
	}

	cleanup := func() error {
		attendance.Close()
		return st.close()
	}
	return server, cleanup, nil
}
