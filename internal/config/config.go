package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/teamflow/internal/platform/logging"
)

const (
	StoreBackendMemory   = "memory"
	StoreBackendPostgres = "postgres"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                  string
	ServiceName             string
	ServiceVersion          string
	HTTPAddr                string
	ReadTimeout             time.Duration
	WriteTimeout            time.Duration
	CORSAllowedOrigins      []string
	LogLevel                logging.Level
	TeamTimezone            *time.Location
	ShareBaseURL            string
	StoreBackend            string
	StoreSeedFile           string
	DBURL                   string
	DBMaxOpenConns          int
	DBMaxIdleConns          int
	DBPgBouncer             bool
	CacheEnabled            bool
	CacheTTL                time.Duration
	WorkerPoolSize          int
	AuthEnabled             bool
	AuthBaseURL             string
	AuthIntrospectPath      string
	AuthAdminKey            string
	AuthTimeout             time.Duration
	AuthCacheTTL            time.Duration
	AuthCacheMaxEntries     int
	AuthCircuitEnabled      bool
	AuthCircuitFailureCount int
	AuthCircuitOpenTimeout  time.Duration
	AuthCircuitProbes       int
	PprofEnabled            bool
	PprofAddr               string
	UptraceEnabled          bool
	UptraceDSN              string
	UptraceLogsEnabled      bool
	LogShipEnabled          bool
	LogShipEndpoint         string
	LogShipToken            string
	LogShipTimeout          time.Duration
	LogShipMinLevel         logging.Level
	LogShipBatchSize        int
	PyroscopeEnabled        bool
	PyroscopeServerAddress  string
	PyroscopeAppName        string
	PyroscopeAuthToken      string
	PyroscopeUploadRate     time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	logLevel, err := logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_LOG_LEVEL: %w", err)
	}

	readTimeout, err := getEnvAsDuration("APP_READ_TIMEOUT", "10s")
	if err != nil {
		return Config{}, err
	}
	writeTimeout, err := getEnvAsDuration("APP_WRITE_TIMEOUT", "15s")
	if err != nil {
		return Config{}, err
	}

	tzName := strings.TrimSpace(getEnv("TEAM_TIMEZONE", "UTC"))
	teamTimezone, err := time.LoadLocation(tzName)
	if err != nil {
		return Config{}, fmt.Errorf("parse TEAM_TIMEZONE: %w", err)
	}

	shareBaseURL := strings.TrimSpace(getEnv("SHARE_BASE_URL", "http://localhost:8080/"))
	if parsed, err := url.Parse(shareBaseURL); err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return Config{}, fmt.Errorf("SHARE_BASE_URL must be an absolute url, got %q", shareBaseURL)
	}

	storeBackend := strings.ToLower(strings.TrimSpace(getEnv("STORE_BACKEND", StoreBackendMemory)))
	switch storeBackend {
	case StoreBackendMemory, StoreBackendPostgres:
	default:
		return Config{}, fmt.Errorf("invalid STORE_BACKEND %q: valid values are %s, %s", storeBackend, StoreBackendMemory, StoreBackendPostgres)
	}

	dbURL := strings.TrimSpace(getEnv("DB_URL", ""))
	if storeBackend == StoreBackendPostgres && dbURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required when STORE_BACKEND=postgres")
	}
	dbMaxOpenConns, err := getEnvAsInt("DB_MAX_OPEN_CONNS", 10)
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_MAX_OPEN_CONNS: %w", err)
	}
	if dbMaxOpenConns <= 0 {
		return Config{}, fmt.Errorf("DB_MAX_OPEN_CONNS must be > 0")
	}
	dbMaxIdleConns, err := getEnvAsInt("DB_MAX_IDLE_CONNS", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_MAX_IDLE_CONNS: %w", err)
	}
	if dbMaxIdleConns < 0 {
		return Config{}, fmt.Errorf("DB_MAX_IDLE_CONNS must be >= 0")
	}
	dbPgBouncer, err := getEnvAsBool("DB_PGBOUNCER", "false")
	if err != nil {
		return Config{}, err
	}

	cacheEnabled, err := getEnvAsBool("CACHE_ENABLED", "false")
	if err != nil {
		return Config{}, err
	}
	cacheTTL, err := getEnvAsDuration("CACHE_TTL", "30s")
	if err != nil {
		return Config{}, err
	}

	workerPoolSize, err := getEnvAsInt("WORKER_POOL_SIZE", 8)
	if err != nil {
		return Config{}, fmt.Errorf("parse WORKER_POOL_SIZE: %w", err)
	}
	if workerPoolSize <= 0 {
		return Config{}, fmt.Errorf("WORKER_POOL_SIZE must be > 0")
	}

	authEnabled, err := getEnvAsBool("AUTH_ENABLED", "false")
	if err != nil {
		return Config{}, err
	}
	authBaseURL := strings.TrimSpace(getEnv("AUTH_BASE_URL", ""))
	if authEnabled && authBaseURL == "" {
		return Config{}, fmt.Errorf("AUTH_BASE_URL is required when AUTH_ENABLED=true")
	}
	authTimeout, err := getEnvAsDuration("AUTH_TIMEOUT", "3s")
	if err != nil {
		return Config{}, err
	}
	authCacheTTL, err := getEnvAsDuration("AUTH_CACHE_TTL", "30s")
	if err != nil {
		return Config{}, err
	}
	authCacheMaxEntries, err := getEnvAsInt("AUTH_CACHE_MAX_ENTRIES", 10000)
	if err != nil {
		return Config{}, fmt.Errorf("parse AUTH_CACHE_MAX_ENTRIES: %w", err)
	}
	if authCacheMaxEntries < 0 {
		return Config{}, fmt.Errorf("AUTH_CACHE_MAX_ENTRIES must be >= 0")
	}
	authCircuitEnabled, err := getEnvAsBool("AUTH_CIRCUIT_ENABLED", "true")
	if err != nil {
		return Config{}, err
	}
	authCircuitFailureCount, err := getEnvAsInt("AUTH_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse AUTH_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if authCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("AUTH_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	authCircuitOpenTimeout, err := getEnvAsDuration("AUTH_CIRCUIT_OPEN_TIMEOUT", "15s")
	if err != nil {
		return Config{}, err
	}
	authCircuitHalfOpenMax, err := getEnvAsInt("AUTH_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse AUTH_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if authCircuitHalfOpenMax < 1 {
		return Config{}, fmt.Errorf("AUTH_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	pprofEnabled, err := getEnvAsBool("PPROF_ENABLED", "false")
	if err != nil {
		return Config{}, err
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	uptraceEnabled, err := getEnvAsBool("UPTRACE_ENABLED", "false")
	if err != nil {
		return Config{}, err
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	uptraceLogsEnabled, err := getEnvAsBool("UPTRACE_LOGS_ENABLED", "true")
	if err != nil {
		return Config{}, err
	}

	logShipEnabled, err := getEnvAsBool("LOG_SHIP_ENABLED", "false")
	if err != nil {
		return Config{}, err
	}
	logShipEndpoint := strings.TrimSpace(getEnv("LOG_SHIP_ENDPOINT", ""))
	if logShipEnabled && logShipEndpoint == "" {
		return Config{}, fmt.Errorf("LOG_SHIP_ENDPOINT is required when LOG_SHIP_ENABLED=true")
	}
	logShipTimeout, err := getEnvAsDuration("LOG_SHIP_TIMEOUT", "3s")
	if err != nil {
		return Config{}, err
	}
	logShipMinLevel, err := logging.ParseLevel(getEnv("LOG_SHIP_MIN_LEVEL", "warn"))
	if err != nil {
		return Config{}, fmt.Errorf("parse LOG_SHIP_MIN_LEVEL: %w", err)
	}
	logShipBatchSize, err := getEnvAsInt("LOG_SHIP_BATCH_SIZE", 50)
	if err != nil {
		return Config{}, fmt.Errorf("parse LOG_SHIP_BATCH_SIZE: %w", err)
	}
	if logShipBatchSize <= 0 {
		return Config{}, fmt.Errorf("LOG_SHIP_BATCH_SIZE must be > 0")
	}

	pyroscopeEnabled, err := getEnvAsBool("PYROSCOPE_ENABLED", "false")
	if err != nil {
		return Config{}, err
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := getEnvAsDuration("PYROSCOPE_UPLOAD_RATE", "15s")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:                  appEnv,
		ServiceName:             getEnv("APP_SERVICE_NAME", "teamflow-api"),
		ServiceVersion:          getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                getEnv("APP_HTTP_ADDR", ":8080"),
		ReadTimeout:             readTimeout,
		WriteTimeout:            writeTimeout,
		CORSAllowedOrigins:      splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		LogLevel:                logLevel,
		TeamTimezone:            teamTimezone,
		ShareBaseURL:            shareBaseURL,
		StoreBackend:            storeBackend,
		StoreSeedFile:           strings.TrimSpace(getEnv("STORE_SEED_FILE", "")),
		DBURL:                   dbURL,
		DBMaxOpenConns:          dbMaxOpenConns,
		DBMaxIdleConns:          dbMaxIdleConns,
		DBPgBouncer:             dbPgBouncer,
		CacheEnabled:            cacheEnabled,
		CacheTTL:                cacheTTL,
		WorkerPoolSize:          workerPoolSize,
		AuthEnabled:             authEnabled,
		AuthBaseURL:             authBaseURL,
		AuthIntrospectPath:      getEnv("AUTH_INTROSPECT_PATH", "/v1/auth/introspect"),
		AuthAdminKey:            strings.TrimSpace(getEnv("AUTH_ADMIN_KEY", "")),
		AuthTimeout:             authTimeout,
		AuthCacheTTL:            authCacheTTL,
		AuthCacheMaxEntries:     authCacheMaxEntries,
		AuthCircuitEnabled:      authCircuitEnabled,
		AuthCircuitFailureCount: authCircuitFailureCount,
		AuthCircuitOpenTimeout:  authCircuitOpenTimeout,
		AuthCircuitProbes:       authCircuitHalfOpenMax,
		PprofEnabled:            pprofEnabled,
		PprofAddr:               pprofAddr,
		UptraceEnabled:          uptraceEnabled,
		UptraceDSN:              uptraceDSN,
		UptraceLogsEnabled:      uptraceLogsEnabled,
		LogShipEnabled:          logShipEnabled,
		LogShipEndpoint:         logShipEndpoint,
		LogShipToken:            strings.TrimSpace(getEnv("LOG_SHIP_TOKEN", "")),
		LogShipTimeout:          logShipTimeout,
		LogShipMinLevel:         logShipMinLevel,
		LogShipBatchSize:        logShipBatchSize,
		PyroscopeEnabled:        pyroscopeEnabled,
		PyroscopeServerAddress:  pyroscopeServerAddress,
		PyroscopeAuthToken:      strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeUploadRate:     pyroscopeUploadRate,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func getEnvAsBool(key, fallback string) (bool, error) {
	out, err := strconv.ParseBool(strings.TrimSpace(getEnv(key, fallback)))
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return out, nil
}

// getEnvAsDuration rejects non-positive durations.
func getEnvAsDuration(key, fallback string) (time.Duration, error) {
	out, err := time.ParseDuration(strings.TrimSpace(getEnv(key, fallback)))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if out <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	for _, item := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			return strings.Trim(strings.TrimSpace(parts[1]), "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
