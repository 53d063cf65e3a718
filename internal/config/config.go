package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/season-sim/internal/platform/logging"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
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
	SwaggerEnabled          bool
	StorageDriver           string
	DBURL                   string
	DBDisablePreparedBinary bool
	DBSeedOnStart           bool
	RepoCacheTTL            time.Duration
	ManagerTeamID           string
	SeasonMaxWindow         time.Duration
	WorkerPoolSize          int
	MatchSharedClock        bool
	MatchLiveSpeed          time.Duration
	SimSeed                 uint64
	SimTuningFile           string
	RedisEnabled            bool
	RedisAddr               string
	RedisPassword           string
	RedisDB                 int
	RedisStreamPrefix       string
	RedisStreamMaxLen       int64
	RedisTimeout            time.Duration
	RedisCircuitEnabled     bool
	RedisCircuitFailures    int
	RedisCircuitOpenTimeout time.Duration
	RedisCircuitHalfOpenReq int
	UptraceEnabled          bool
	UptraceDSN              string
	UptraceLogsEnabled      bool
	PyroscopeEnabled        bool
	PyroscopeServerAddress  string
	PyroscopeAppName        string
	PyroscopeAuthToken      string
	PyroscopeUploadRate     time.Duration
	PprofEnabled            bool
	PprofAddr               string
	LogLevel                logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:             appEnv,
		ServiceName:        strings.TrimSpace(getEnv("SERVICE_NAME", "season-sim-api")),
		ServiceVersion:     strings.TrimSpace(getEnv("SERVICE_VERSION", "dev")),
		HTTPAddr:           strings.TrimSpace(getEnv("APP_HTTP_ADDR", ":8080")),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		ManagerTeamID:      strings.TrimSpace(getEnv("SEASON_MANAGER_TEAM_ID", "idn-persija")),
		SimTuningFile:      strings.TrimSpace(getEnv("SIM_TUNING_FILE", "")),
		LogLevel:           logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info")),
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}
	if cfg.ManagerTeamID == "" {
		return Config{}, fmt.Errorf("SEASON_MANAGER_TEAM_ID cannot be empty")
	}

	if cfg.SwaggerEnabled, err = strconv.ParseBool(getEnv("SWAGGER_ENABLED", strconv.FormatBool(appEnv != EnvProd))); err != nil {
		return Config{}, fmt.Errorf("parse SWAGGER_ENABLED: %w", err)
	}
	if cfg.ReadTimeout, err = time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s")); err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}
	// advancing a season can take a while on a large league
	if cfg.WriteTimeout, err = time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "60s")); err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	if err := loadStorage(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadSimulation(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadRedis(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadObservability(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func loadStorage(cfg *Config) error {
	cfg.StorageDriver = strings.ToLower(strings.TrimSpace(getEnv("STORAGE_DRIVER", StorageMemory)))
	switch cfg.StorageDriver {
	case StorageMemory, StoragePostgres:
	default:
		return fmt.Errorf("invalid STORAGE_DRIVER %q: valid values are %s, %s", cfg.StorageDriver, StorageMemory, StoragePostgres)
	}

	cfg.DBURL = strings.TrimSpace(getEnv("DB_URL", ""))
	if cfg.StorageDriver == StoragePostgres && cfg.DBURL == "" {
		return fmt.Errorf("DB_URL is required when STORAGE_DRIVER=%s", StoragePostgres)
	}

	var err error
	if cfg.DBDisablePreparedBinary, err = strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true")); err != nil {
		return fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}
	if cfg.DBSeedOnStart, err = strconv.ParseBool(getEnv("DB_SEED_ON_START", "true")); err != nil {
		return fmt.Errorf("parse DB_SEED_ON_START: %w", err)
	}
	if cfg.RepoCacheTTL, err = time.ParseDuration(getEnv("REPO_CACHE_TTL", "5m")); err != nil {
		return fmt.Errorf("parse REPO_CACHE_TTL: %w", err)
	}
	return nil
}

func loadSimulation(cfg *Config) error {
	var err error
	if cfg.SeasonMaxWindow, err = time.ParseDuration(getEnv("SEASON_MAX_WINDOW", "168h")); err != nil {
		return fmt.Errorf("parse SEASON_MAX_WINDOW: %w", err)
	}
	if cfg.SeasonMaxWindow <= 0 {
		return fmt.Errorf("SEASON_MAX_WINDOW must be > 0")
	}

	if cfg.WorkerPoolSize, err = getEnvAsInt("SEASON_WORKER_POOL_SIZE", 0); err != nil {
		return fmt.Errorf("parse SEASON_WORKER_POOL_SIZE: %w", err)
	}
	if cfg.WorkerPoolSize < 0 {
		return fmt.Errorf("SEASON_WORKER_POOL_SIZE must be >= 0")
	}

	if cfg.MatchSharedClock, err = strconv.ParseBool(getEnv("MATCH_SHARED_CLOCK", "false")); err != nil {
		return fmt.Errorf("parse MATCH_SHARED_CLOCK: %w", err)
	}
	if cfg.MatchLiveSpeed, err = time.ParseDuration(getEnv("MATCH_LIVE_SPEED", "1s")); err != nil {
		return fmt.Errorf("parse MATCH_LIVE_SPEED: %w", err)
	}
	if cfg.MatchLiveSpeed <= 0 {
		return fmt.Errorf("MATCH_LIVE_SPEED must be > 0")
	}

	if raw := strings.TrimSpace(getEnv("SIM_SEED", "")); raw != "" {
		if cfg.SimSeed, err = strconv.ParseUint(raw, 10, 64); err != nil {
			return fmt.Errorf("parse SIM_SEED: %w", err)
		}
	}
	return nil
}

func loadRedis(cfg *Config) error {
	var err error
	if cfg.RedisEnabled, err = strconv.ParseBool(getEnv("REDIS_ENABLED", "false")); err != nil {
		return fmt.Errorf("parse REDIS_ENABLED: %w", err)
	}
	cfg.RedisAddr = strings.TrimSpace(getEnv("REDIS_ADDR", "localhost:6379"))
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	cfg.RedisStreamPrefix = strings.TrimSpace(getEnv("REDIS_STREAM_PREFIX", "season-sim:match"))

	if cfg.RedisDB, err = getEnvAsInt("REDIS_DB", 0); err != nil {
		return fmt.Errorf("parse REDIS_DB: %w", err)
	}
	maxLen, err := getEnvAsInt("REDIS_STREAM_MAX_LEN", 5000)
	if err != nil {
		return fmt.Errorf("parse REDIS_STREAM_MAX_LEN: %w", err)
	}
	if maxLen < 0 {
		return fmt.Errorf("REDIS_STREAM_MAX_LEN must be >= 0")
	}
	cfg.RedisStreamMaxLen = int64(maxLen)

	if cfg.RedisTimeout, err = time.ParseDuration(getEnv("REDIS_TIMEOUT", "2s")); err != nil {
		return fmt.Errorf("parse REDIS_TIMEOUT: %w", err)
	}
	if cfg.RedisTimeout <= 0 {
		return fmt.Errorf("REDIS_TIMEOUT must be > 0")
	}

	if cfg.RedisCircuitEnabled, err = strconv.ParseBool(getEnv("REDIS_CIRCUIT_ENABLED", "true")); err != nil {
		return fmt.Errorf("parse REDIS_CIRCUIT_ENABLED: %w", err)
	}
	if cfg.RedisCircuitFailures, err = getEnvAsInt("REDIS_CIRCUIT_FAILURE_COUNT", 5); err != nil {
		return fmt.Errorf("parse REDIS_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if cfg.RedisCircuitFailures < 1 {
		return fmt.Errorf("REDIS_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	if cfg.RedisCircuitOpenTimeout, err = time.ParseDuration(getEnv("REDIS_CIRCUIT_OPEN_TIMEOUT", "15s")); err != nil {
		return fmt.Errorf("parse REDIS_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if cfg.RedisCircuitOpenTimeout <= 0 {
		return fmt.Errorf("REDIS_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	if cfg.RedisCircuitHalfOpenReq, err = getEnvAsInt("REDIS_CIRCUIT_HALF_OPEN_MAX_REQ", 2); err != nil {
		return fmt.Errorf("parse REDIS_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if cfg.RedisCircuitHalfOpenReq < 1 {
		return fmt.Errorf("REDIS_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}
	return nil
}

func loadObservability(cfg *Config) error {
	var err error
	if cfg.UptraceEnabled, err = strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false")); err != nil {
		return fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	cfg.UptraceDSN = strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	if cfg.UptraceLogsEnabled, err = strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "false")); err != nil {
		return fmt.Errorf("parse UPTRACE_LOGS_ENABLED: %w", err)
	}

	if cfg.PyroscopeEnabled, err = strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false")); err != nil {
		return fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	cfg.PyroscopeServerAddress = strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	cfg.PyroscopeAuthToken = strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", ""))
	if cfg.PyroscopeUploadRate, err = time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s")); err != nil {
		return fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if cfg.PyroscopeUploadRate <= 0 {
		return fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	if cfg.PprofEnabled, err = strconv.ParseBool(getEnv("PPROF_ENABLED", "false")); err != nil {
		return fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	cfg.PprofAddr = strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if cfg.PprofEnabled && cfg.PprofAddr == "" {
		return fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}
	return nil
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

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
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
