package observability

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/grafana/pyroscope-go"

	"github.com/riskibarqy/teamflow/internal/config"
	"github.com/riskibarqy/teamflow/internal/platform/logging"
)

// DebugServer exposes net/http/pprof on its own listener, away from the
// public API address.
type DebugServer struct {
	srv    *http.Server
	logger *logging.Logger
}

var namedProfiles = []string{"allocs", "block", "goroutine", "heap", "mutex", "threadcreate"}

func newDebugMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /debug/pprof/", pprof.Index)
	mux.HandleFunc("GET /debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("GET /debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("GET /debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("POST /debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("GET /debug/pprof/trace", pprof.Trace)
	for _, name := range namedProfiles {
		mux.Handle("GET /debug/pprof/"+name, pprof.Handler(name))
	}
	return mux
}

// StartDebugServer returns nil when PPROF_ENABLED is off.
func StartDebugServer(cfg config.Config, logger *logging.Logger) *DebugServer {
	if logger == nil {
		logger = logging.Default()
	}
	if !cfg.PprofEnabled {
		logger.Info("pprof disabled", "reason", "PPROF_ENABLED=false")
		return nil
	}

	d := &DebugServer{
		srv: &http.Server{
			Addr:              cfg.PprofAddr,
			Handler:           newDebugMux(),
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger.Named("pprof"),
	}
	go d.serve()
	return d
}

func (d *DebugServer) serve() {
	d.logger.Info("pprof server starting", "addr", d.srv.Addr)
	if err := d.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		d.logger.Error("pprof server failed", "error", err)
	}
}

// Close shuts the listener down. Safe on a nil server.
func (d *DebugServer) Close(ctx context.Context) error {
	if d == nil {
		return nil
	}
	if err := d.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown pprof server: %w", err)
	}
	d.logger.Info("pprof server stopped")
	return nil
}

// InitPyroscope starts continuous profiling when enabled and returns its stop
// function.
func InitPyroscope(cfg config.Config, logger *logging.Logger) (func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if !cfg.PyroscopeEnabled {
		logger.Info("pyroscope disabled", "reason", "PYROSCOPE_ENABLED=false")
		return func() error { return nil }, nil
	}

	profiler, err := pyroscope.Start(pyroscopeConfig(cfg, logger.Named("pyroscope")))
	if err != nil {
		return nil, fmt.Errorf("start pyroscope: %w", err)
	}

	logger.Info("pyroscope enabled",
		"server_address", cfg.PyroscopeServerAddress,
		"application", cfg.PyroscopeAppName,
	)
	return profiler.Stop, nil
}

func pyroscopeConfig(cfg config.Config, logger *logging.Logger) pyroscope.Config {
	types := []pyroscope.ProfileType{
		pyroscope.ProfileCPU,
		pyroscope.ProfileAllocObjects,
		pyroscope.ProfileAllocSpace,
		pyroscope.ProfileInuseObjects,
		pyroscope.ProfileInuseSpace,
		pyroscope.ProfileGoroutines,
	}
	// Lock profiles are noisy; only collect them outside production.
	if cfg.AppEnv != config.EnvProd {
		types = append(types, pyroscope.ProfileMutexCount, pyroscope.ProfileBlockCount)
	}

	return pyroscope.Config{
		ApplicationName: cfg.PyroscopeAppName,
		ServerAddress:   cfg.PyroscopeServerAddress,
		AuthToken:       cfg.PyroscopeAuthToken,
		UploadRate:      cfg.PyroscopeUploadRate,
		Logger:          pyroscopeLogger{logger: logger},
		Tags: map[string]string{
			"env":           cfg.AppEnv,
			"service":       cfg.ServiceName,
			"store_backend": cfg.StoreBackend,
			"timezone":      cfg.TeamTimezone.String(),
		},
		ProfileTypes: types,
	}
}

// pyroscopeLogger adapts the agent's printf logger onto structured logging.
type pyroscopeLogger struct {
	logger *logging.Logger
}

func (l pyroscopeLogger) Infof(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l pyroscopeLogger) Debugf(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l pyroscopeLogger) Errorf(format string, args ...any) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}
