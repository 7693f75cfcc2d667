package observability

import (
	"context"
	"strings"

	"github.com/uptrace/uptrace-go/uptrace"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/riskibarqy/teamflow/internal/config"
	"github.com/riskibarqy/teamflow/internal/platform/logging"
)

// uptraceInactiveReason returns why export is off, or "" when it is on.
func uptraceInactiveReason(cfg config.Config) string {
	switch {
	case !cfg.UptraceEnabled:
		return "UPTRACE_ENABLED=false"
	case strings.TrimSpace(cfg.UptraceDSN) == "":
		return "UPTRACE_DSN empty"
	default:
		return ""
	}
}

// InitUptrace installs the global OpenTelemetry providers. The returned
// function flushes and shuts them down.
func InitUptrace(cfg config.Config, logger *logging.Logger) (func(context.Context) error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if reason := uptraceInactiveReason(cfg); reason != "" {
		logger.Info("uptrace disabled", "reason", reason)
		return func(context.Context) error { return nil }, nil
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(cfg.UptraceDSN),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
		uptrace.WithResourceAttributes(teamResourceAttributes(cfg)...),
		uptrace.WithLoggingEnabled(cfg.UptraceLogsEnabled),
	)

	logger.Info("uptrace enabled",
		"service_name", cfg.ServiceName,
		"service_version", cfg.ServiceVersion,
		"environment", cfg.AppEnv,
		"logs_enabled", cfg.UptraceLogsEnabled,
	)
	return uptrace.Shutdown, nil
}

func teamResourceAttributes(cfg config.Config) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("teamflow.store_backend", cfg.StoreBackend),
		attribute.String("teamflow.timezone", cfg.TeamTimezone.String()),
		attribute.Bool("teamflow.auth_enabled", cfg.AuthEnabled),
	}
}

// WithUptraceLogs tees logger output into the OpenTelemetry log pipeline when
// Uptrace log export is on. Otherwise logger is returned unchanged.
func WithUptraceLogs(cfg config.Config, logger *logging.Logger) *logging.Logger {
	if logger == nil {
		logger = logging.Default()
	}
	if uptraceInactiveReason(cfg) != "" || !cfg.UptraceLogsEnabled {
		return logger
	}

	otelCore := newOTelLogCore(cfg.ServiceVersion, cfg.LogLevel)
	return logging.FromZap(logger.Zap().WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, otelCore)
	})))
}
