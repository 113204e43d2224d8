package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/riskibarqy/league-history/internal/platform/logging"
)

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// dotEnvFiles are loaded in order; a variable already set is never overridden.
var dotEnvFiles = []string{".env.local", ".env"}

// Config stores runtime configuration for the service and the CLI.
type Config struct {
	AppEnv             string
	ServiceName        string
	ServiceVersion     string
	HTTPAddr           string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	CORSAllowedOrigins []string
	SwaggerEnabled     bool
	LogLevel           logging.Level

	LeagueID                  string
	ESPNS2                    string
	SWID                      string
	ESPNBaseURL               string
	ESPNTimeout               time.Duration
	ESPNMaxRetries            int
	ESPNRetryBackoff          time.Duration
	ESPNRateLimitRPS          float64
	ESPNCircuitEnabled        bool
	ESPNCircuitFailureCount   int
	ESPNCircuitOpenTimeout    time.Duration
	ESPNCircuitHalfOpenMaxReq int

	HistoricalDataDir  string
	MemberNamesFile    string
	DefaultStartYear   int
	SeasonFetchWorkers int

	CacheEnabled bool
	CacheTTL     time.Duration
	CacheBackend string
	RedisURL     string

	ArchiveEnabled          bool
	DBURL                   string
	DBDisablePreparedBinary bool

	UptraceEnabled     bool
	UptraceDSN         string
	UptraceLogsEnabled bool

	BetterStackEnabled  bool
	BetterStackEndpoint string
	BetterStackToken    string
	BetterStackTimeout  time.Duration
	BetterStackMinLevel logging.Level

	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration

	PprofEnabled bool
	PprofAddr    string
}

// LoadDotEnv loads .env.local and .env from the working directory when present.
func LoadDotEnv() error {
	for _, file := range dotEnvFiles {
		if _, err := os.Stat(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("stat %s: %w", file, err)
		}
		if err := godotenv.Load(file); err != nil {
			return fmt.Errorf("load %s: %w", file, err)
		}
	}
	return nil
}

func Load() (Config, error) {
	if err := LoadDotEnv(); err != nil {
		return Config{}, err
	}

	var cfg Config
	var err error

	if cfg.AppEnv, err = parseAppEnv(getEnv("APP_ENV", EnvDev)); err != nil {
		return Config{}, err
	}
	cfg.ServiceName = strings.TrimSpace(getEnv("APP_SERVICE_NAME", "league-history-api"))
	cfg.ServiceVersion = strings.TrimSpace(getEnv("APP_SERVICE_VERSION", "dev"))
	cfg.HTTPAddr = strings.TrimSpace(getEnv("APP_HTTP_ADDR", ":8080"))
	cfg.CORSAllowedOrigins = splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*"))
	cfg.LogLevel = logging.ParseLevel(getEnv("APP_LOG_LEVEL", "info"))

	if cfg.ReadTimeout, err = getEnvAsPositiveDuration("APP_READ_TIMEOUT", "10s"); err != nil {
		return Config{}, err
	}
	if cfg.WriteTimeout, err = getEnvAsPositiveDuration("APP_WRITE_TIMEOUT", "60s"); err != nil {
		return Config{}, err
	}

	swaggerDefault := "true"
	if cfg.AppEnv == EnvProd {
		swaggerDefault = "false"
	}
	if cfg.SwaggerEnabled, err = getEnvAsBool("SWAGGER_ENABLED", swaggerDefault); err != nil {
		return Config{}, err
	}

	if err := loadESPN(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadHistory(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadStorage(&cfg); err != nil {
		return Config{}, err
	}
	if err := loadObservability(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func loadESPN(cfg *Config) error {
	var err error

	cfg.LeagueID = strings.TrimSpace(getEnv("LEAGUE_ID", ""))
	cfg.ESPNS2 = strings.TrimSpace(getEnv("ESPN_S2", ""))
	cfg.SWID = strings.TrimSpace(getEnv("SWID", ""))
	cfg.ESPNBaseURL = strings.TrimSpace(getEnv("ESPN_BASE_URL", "https://lm-api-reads.fantasy.espn.com/apis/v3/games/ffl"))

	if cfg.ESPNTimeout, err = getEnvAsPositiveDuration("ESPN_TIMEOUT", "20s"); err != nil {
		return err
	}
	if cfg.ESPNRetryBackoff, err = getEnvAsPositiveDuration("ESPN_RETRY_BACKOFF", "1s"); err != nil {
		return err
	}

	if cfg.ESPNMaxRetries, err = getEnvAsInt("ESPN_MAX_RETRIES", 2); err != nil {
		return fmt.Errorf("parse ESPN_MAX_RETRIES: %w", err)
	}
	if cfg.ESPNMaxRetries < 0 {
		return fmt.Errorf("ESPN_MAX_RETRIES must be >= 0")
	}

	if cfg.ESPNRateLimitRPS, err = strconv.ParseFloat(getEnv("ESPN_RATE_LIMIT_RPS", "2"), 64); err != nil {
		return fmt.Errorf("parse ESPN_RATE_LIMIT_RPS: %w", err)
	}
	if cfg.ESPNRateLimitRPS <= 0 {
		return fmt.Errorf("ESPN_RATE_LIMIT_RPS must be > 0")
	}

	if cfg.ESPNCircuitEnabled, err = getEnvAsBool("ESPN_CIRCUIT_ENABLED", "true"); err != nil {
		return err
	}
	if cfg.ESPNCircuitFailureCount, err = getEnvAsInt("ESPN_CIRCUIT_FAILURE_COUNT", 5); err != nil {
		return fmt.Errorf("parse ESPN_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if cfg.ESPNCircuitFailureCount < 1 {
		return fmt.Errorf("ESPN_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	if cfg.ESPNCircuitOpenTimeout, err = getEnvAsPositiveDuration("ESPN_CIRCUIT_OPEN_TIMEOUT", "30s"); err != nil {
		return err
	}
	if cfg.ESPNCircuitHalfOpenMaxReq, err = getEnvAsInt("ESPN_CIRCUIT_HALF_OPEN_MAX_REQ", 1); err != nil {
		return fmt.Errorf("parse ESPN_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if cfg.ESPNCircuitHalfOpenMaxReq < 1 {
		return fmt.Errorf("ESPN_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	return nil
}

func loadHistory(cfg *Config) error {
	var err error

	cfg.HistoricalDataDir = strings.TrimSpace(getEnv("HISTORICAL_DATA_DIR", "historical-data"))
	cfg.MemberNamesFile = strings.TrimSpace(getEnv("MEMBER_NAMES_FILE", "member-names.json"))

	if cfg.DefaultStartYear, err = getEnvAsInt("DEFAULT_START_YEAR", 2012); err != nil {
		return fmt.Errorf("parse DEFAULT_START_YEAR: %w", err)
	}
	if cfg.DefaultStartYear < 1990 || cfg.DefaultStartYear > 2100 {
		return fmt.Errorf("DEFAULT_START_YEAR must be between 1990 and 2100")
	}

	if cfg.SeasonFetchWorkers, err = getEnvAsInt("SEASON_FETCH_WORKERS", 1); err != nil {
		return fmt.Errorf("parse SEASON_FETCH_WORKERS: %w", err)
	}
	if cfg.SeasonFetchWorkers < 1 {
		return fmt.Errorf("SEASON_FETCH_WORKERS must be >= 1")
	}

	return nil
}

func loadStorage(cfg *Config) error {
	var err error

	if cfg.CacheEnabled, err = getEnvAsBool("CACHE_ENABLED", "true"); err != nil {
		return err
	}
	if cfg.CacheTTL, err = getEnvAsPositiveDuration("CACHE_TTL", "10m"); err != nil {
		return err
	}
	cfg.CacheBackend = strings.ToLower(strings.TrimSpace(getEnv("CACHE_BACKEND", CacheBackendMemory)))
	switch cfg.CacheBackend {
	case CacheBackendMemory, CacheBackendRedis:
	default:
		return fmt.Errorf("invalid CACHE_BACKEND %q: valid values are %s, %s", cfg.CacheBackend, CacheBackendMemory, CacheBackendRedis)
	}
	cfg.RedisURL = strings.TrimSpace(getEnv("REDIS_URL", ""))
	if cfg.CacheEnabled && cfg.CacheBackend == CacheBackendRedis && cfg.RedisURL == "" {
		return fmt.Errorf("REDIS_URL is required when CACHE_BACKEND=redis")
	}

	if cfg.ArchiveEnabled, err = getEnvAsBool("ARCHIVE_ENABLED", "false"); err != nil {
		return err
	}
	cfg.DBURL = strings.TrimSpace(getEnv("DB_URL", ""))
	if cfg.ArchiveEnabled && cfg.DBURL == "" {
		return fmt.Errorf("DB_URL is required when ARCHIVE_ENABLED=true")
	}
	if cfg.DBDisablePreparedBinary, err = getEnvAsBool("DB_DISABLE_PREPARED_BINARY_RESULT", "false"); err != nil {
		return err
	}

	return nil
}

func loadObservability(cfg *Config) error {
	var err error

	if cfg.UptraceEnabled, err = getEnvAsBool("UPTRACE_ENABLED", "false"); err != nil {
		return err
	}
	cfg.UptraceDSN = strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	if cfg.UptraceLogsEnabled, err = getEnvAsBool("UPTRACE_LOGS_ENABLED", "true"); err != nil {
		return err
	}

	if cfg.BetterStackEnabled, err = getEnvAsBool("BETTERSTACK_ENABLED", "false"); err != nil {
		return err
	}
	cfg.BetterStackEndpoint = strings.TrimSpace(getEnv("BETTERSTACK_ENDPOINT", ""))
	if cfg.BetterStackEnabled && cfg.BetterStackEndpoint == "" {
		return fmt.Errorf("BETTERSTACK_ENDPOINT is required when BETTERSTACK_ENABLED=true")
	}
	cfg.BetterStackToken = strings.TrimSpace(getEnv("BETTERSTACK_TOKEN", ""))
	if cfg.BetterStackTimeout, err = getEnvAsPositiveDuration("BETTERSTACK_TIMEOUT", "3s"); err != nil {
		return err
	}
	cfg.BetterStackMinLevel = logging.ParseLevel(getEnv("BETTERSTACK_MIN_LEVEL", "error"))

	if cfg.PyroscopeEnabled, err = getEnvAsBool("PYROSCOPE_ENABLED", "false"); err != nil {
		return err
	}
	cfg.PyroscopeServerAddress = strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	cfg.PyroscopeAuthToken = strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", ""))
	cfg.PyroscopeBasicAuthUser = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", ""))
	cfg.PyroscopeBasicAuthPassword = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", ""))
	if cfg.PyroscopeUploadRate, err = getEnvAsPositiveDuration("PYROSCOPE_UPLOAD_RATE", "15s"); err != nil {
		return err
	}

	if cfg.PprofEnabled, err = getEnvAsBool("PPROF_ENABLED", "false"); err != nil {
		return err
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

func getEnvAsBool(key, fallback string) (bool, error) {
	out, err := strconv.ParseBool(strings.TrimSpace(getEnv(key, fallback)))
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return out, nil
}

func getEnvAsPositiveDuration(key, fallback string) (time.Duration, error) {
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

	items := strings.Split(raw, ",")
	for _, item := range items {
		key, value, ok := strings.Cut(strings.TrimSpace(item), "=")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(key), "uptrace-dsn") {
			return strings.Trim(strings.TrimSpace(value), "\"'")
		}
	}

	return ""
}

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
