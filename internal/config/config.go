package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/hoopstats/internal/domain/milestone"
	"github.com/riskibarqy/hoopstats/internal/platform/logging"
	"github.com/riskibarqy/hoopstats/internal/platform/resilience"
)

const defaultSeasonEndpoints = "/players?league=nba2k26s1,/players?league=nba2k25s6,/players?league=nba2k25s5," +
	"/players?league=nba2k25s4,/players?league=nba2k25s3,/players?league=nba2k25s2,/players?league=nba2k25s1," +
	"/players?league=nba2k24s2,/players?league=nba2k24s1"

// Config stores runtime configuration for the engine.
type Config struct {
	AppEnv         string `validate:"required,oneof=dev stage prod"`
	ServiceName    string `validate:"required"`
	ServiceVersion string `validate:"required"`
	LogLevel       logging.Level
	LogFormat      logging.Format
	ConfigFile     string

	SportsPressBaseURL     string        `validate:"required,url"`
	SiteBaseURL            string        `validate:"required,url"`
	SportsPressTimeout     time.Duration `validate:"gt=0"`
	SportsPressMaxAttempts int           `validate:"min=1"`
	SportsPressRetryMin    time.Duration `validate:"gt=0"`
	SportsPressRetryMax    time.Duration `validate:"gtefield=SportsPressRetryMin"`
	SportsPressConcurrency int           `validate:"min=1"`
	SportsPressPageSize    int           `validate:"min=1,max=100"`
	SportsPressPageDelay   time.Duration `validate:"gte=0"`
	EventsMaxPages         int           `validate:"gte=0"`
	SportsPressCircuit     resilience.CircuitBreakerConfig

	SeasonEndpoints []string `validate:"required,min=1,dive,required"`
	LeadersEndpoint string   `validate:"required"`
	CurrentSeason   string
	AllTimeListID   int64 `validate:"gt=0"`
	LeadersTopN     int   `validate:"min=1"`
	MinFGA          int   `validate:"gte=0"`
	Min3PA          int   `validate:"gte=0"`

	MilestoneThresholds         milestone.Thresholds
	MilestoneBaselineOnFirstRun bool

	StatePath           string        `validate:"required"`
	RecordsSeedPath     string        `validate:"required"`
	PollInterval        time.Duration `validate:"gt=0"`
	RecordsPollInterval time.Duration `validate:"gt=0"`

	NotifyRedisEnabled  bool
	NotifyRedisAddr     string `validate:"required_if=NotifyRedisEnabled true"`
	NotifyRedisPassword string
	NotifyRedisDB       int    `validate:"gte=0"`
	NotifyRedisStream   string `validate:"required_if=NotifyRedisEnabled true"`
	NotifyRedisMaxLen   int64  `validate:"gte=0"`

	UptraceEnabled         bool
	UptraceDSN             string `validate:"required_if=UptraceEnabled true"`
	UptraceLogsEnabled     bool
	PyroscopeEnabled       bool
	PyroscopeServerAddress string `validate:"required_if=PyroscopeEnabled true"`
	PyroscopeAppName       string
	PyroscopeAuthToken     string
	PyroscopeUploadRate    time.Duration `validate:"gt=0"`
}

// Load reads the environment, applies the optional CONFIG_FILE overlay and
// validates the result.
func Load() (Config, error) {
	cfg, err := fromEnv()
	if err != nil {
		return Config{}, err
	}

	if cfg.ConfigFile != "" {
		file, err := LoadFile(cfg.ConfigFile)
		if err != nil {
			return Config{}, err
		}
		if err := file.Apply(&cfg); err != nil {
			return Config{}, err
		}
	}

	if cfg.CurrentSeason == "" {
		cfg.CurrentSeason = SeasonKey(cfg.LeadersEndpoint)
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate runs the struct tag rules over cfg.
func Validate(cfg Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func fromEnv() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:              appEnv,
		ServiceName:         strings.TrimSpace(getEnv("APP_SERVICE_NAME", "hoopstats")),
		ServiceVersion:      strings.TrimSpace(getEnv("APP_SERVICE_VERSION", "dev")),
		LogLevel:            parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
		LogFormat:           logging.ParseFormat(getEnv("APP_LOG_FORMAT", "json")),
		ConfigFile:          strings.TrimSpace(getEnv("CONFIG_FILE", "")),
		SportsPressBaseURL:  strings.TrimRight(strings.TrimSpace(getEnv("SPORTSPRESS_BASE_URL", "https://2kcompleague.com/wp-json/sportspress/v2")), "/"),
		SiteBaseURL:         strings.TrimRight(strings.TrimSpace(getEnv("SITE_BASE_URL", "https://2kcompleague.com")), "/"),
		SeasonEndpoints:     splitCSV(getEnv("SEASON_ENDPOINTS", defaultSeasonEndpoints)),
		CurrentSeason:       strings.TrimSpace(getEnv("CURRENT_SEASON", "")),
		StatePath:           strings.TrimSpace(getEnv("STATE_PATH", "/tmp/data/state.json")),
		RecordsSeedPath:     strings.TrimSpace(getEnv("RECORDS_SEED_PATH", "/tmp/data/records_seed.json")),
		NotifyRedisAddr:     strings.TrimSpace(getEnv("NOTIFY_REDIS_ADDR", "localhost:6379")),
		NotifyRedisPassword: getEnv("NOTIFY_REDIS_PASSWORD", ""),
		NotifyRedisStream:   strings.TrimSpace(getEnv("NOTIFY_REDIS_STREAM", "hoopstats:announcements")),
		PyroscopeAppName:    strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", "")),
		PyroscopeAuthToken:  strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
	}

	if cfg.PyroscopeAppName == "" {
		cfg.PyroscopeAppName = cfg.ServiceName
	}

	cfg.LeadersEndpoint = strings.TrimSpace(getEnv("LEADERS_ENDPOINT", ""))
	if cfg.LeadersEndpoint == "" && len(cfg.SeasonEndpoints) > 0 {
		cfg.LeadersEndpoint = cfg.SeasonEndpoints[0]
	}

	if cfg.SportsPressTimeout, err = getEnvAsDuration("SPORTSPRESS_TIMEOUT", "30s"); err != nil {
		return Config{}, err
	}
	if cfg.SportsPressMaxAttempts, err = getEnvAsInt("SPORTSPRESS_MAX_RETRIES", 3); err != nil {
		return Config{}, fmt.Errorf("parse SPORTSPRESS_MAX_RETRIES: %w", err)
	}
	if cfg.SportsPressMaxAttempts < 1 {
		return Config{}, fmt.Errorf("SPORTSPRESS_MAX_RETRIES must be >= 1")
	}
	if cfg.SportsPressRetryMin, err = getEnvAsDuration("SPORTSPRESS_RETRY_MIN_WAIT", "4s"); err != nil {
		return Config{}, err
	}
	if cfg.SportsPressRetryMax, err = getEnvAsDuration("SPORTSPRESS_RETRY_MAX_WAIT", "10s"); err != nil {
		return Config{}, err
	}
	if cfg.SportsPressConcurrency, err = getEnvAsInt("SPORTSPRESS_CONCURRENCY", 10); err != nil {
		return Config{}, fmt.Errorf("parse SPORTSPRESS_CONCURRENCY: %w", err)
	}
	if cfg.SportsPressPageSize, err = getEnvAsInt("SPORTSPRESS_PAGE_SIZE", 100); err != nil {
		return Config{}, fmt.Errorf("parse SPORTSPRESS_PAGE_SIZE: %w", err)
	}
	pageDelay, err := time.ParseDuration(getEnv("SPORTSPRESS_PAGE_DELAY", "100ms"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SPORTSPRESS_PAGE_DELAY: %w", err)
	}
	cfg.SportsPressPageDelay = pageDelay
	if cfg.EventsMaxPages, err = getEnvAsInt("SPORTSPRESS_EVENTS_MAX_PAGES", 50); err != nil {
		return Config{}, fmt.Errorf("parse SPORTSPRESS_EVENTS_MAX_PAGES: %w", err)
	}

	circuitEnabled, err := strconv.ParseBool(getEnv("SPORTSPRESS_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SPORTSPRESS_CIRCUIT_ENABLED: %w", err)
	}
	circuitFailureCount, err := getEnvAsInt("SPORTSPRESS_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse SPORTSPRESS_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if circuitFailureCount < 1 {
		return Config{}, fmt.Errorf("SPORTSPRESS_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	circuitOpenTimeout, err := getEnvAsDuration("SPORTSPRESS_CIRCUIT_OPEN_TIMEOUT", "30s")
	if err != nil {
		return Config{}, err
	}
	circuitHalfOpenMaxReq, err := getEnvAsInt("SPORTSPRESS_CIRCUIT_HALF_OPEN_MAX_REQ", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse SPORTSPRESS_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if circuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("SPORTSPRESS_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}
	cfg.SportsPressCircuit = resilience.CircuitBreakerConfig{
		Enabled:          circuitEnabled,
		FailureThreshold: circuitFailureCount,
		OpenTimeout:      circuitOpenTimeout,
		HalfOpenMaxReq:   circuitHalfOpenMaxReq,
	}

	allTimeListID, err := strconv.ParseInt(getEnv("ALL_TIME_LIST_ID", "2347"), 10, 64)
	if err != nil {
		return Config{}, fmt.Errorf("parse ALL_TIME_LIST_ID: %w", err)
	}
	cfg.AllTimeListID = allTimeListID
	if cfg.LeadersTopN, err = getEnvAsInt("LEADERS_TOP_N", 10); err != nil {
		return Config{}, fmt.Errorf("parse LEADERS_TOP_N: %w", err)
	}
	if cfg.MinFGA, err = getEnvAsInt("MIN_FGA_FOR_FG_PERCENT", 10); err != nil {
		return Config{}, fmt.Errorf("parse MIN_FGA_FOR_FG_PERCENT: %w", err)
	}
	if cfg.Min3PA, err = getEnvAsInt("MIN_3PA_FOR_3P_PERCENT", 6); err != nil {
		return Config{}, fmt.Errorf("parse MIN_3PA_FOR_3P_PERCENT: %w", err)
	}
	if cfg.MilestoneBaselineOnFirstRun, err = strconv.ParseBool(getEnv("MILESTONE_BASELINE_ON_FIRST_RUN", "false")); err != nil {
		return Config{}, fmt.Errorf("parse MILESTONE_BASELINE_ON_FIRST_RUN: %w", err)
	}

	if cfg.PollInterval, err = getEnvAsDuration("POLL_INTERVAL", "180s"); err != nil {
		return Config{}, err
	}
	if cfg.RecordsPollInterval, err = getEnvAsDuration("RECORDS_POLL_INTERVAL", "1h"); err != nil {
		return Config{}, err
	}

	if cfg.NotifyRedisEnabled, err = strconv.ParseBool(getEnv("NOTIFY_REDIS_ENABLED", "false")); err != nil {
		return Config{}, fmt.Errorf("parse NOTIFY_REDIS_ENABLED: %w", err)
	}
	if cfg.NotifyRedisDB, err = getEnvAsInt("NOTIFY_REDIS_DB", 0); err != nil {
		return Config{}, fmt.Errorf("parse NOTIFY_REDIS_DB: %w", err)
	}
	maxLen, err := getEnvAsInt("NOTIFY_REDIS_MAXLEN", 1000)
	if err != nil {
		return Config{}, fmt.Errorf("parse NOTIFY_REDIS_MAXLEN: %w", err)
	}
	cfg.NotifyRedisMaxLen = int64(maxLen)

	if cfg.UptraceEnabled, err = strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false")); err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	cfg.UptraceDSN = strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	if cfg.UptraceLogsEnabled, err = strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "true")); err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_LOGS_ENABLED: %w", err)
	}

	if cfg.PyroscopeEnabled, err = strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false")); err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	cfg.PyroscopeServerAddress = strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	if cfg.PyroscopeUploadRate, err = getEnvAsDuration("PYROSCOPE_UPLOAD_RATE", "15s"); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// SeasonKey extracts the league query value from a season endpoint, e.g.
// "/players?league=nba2k26s1" -> "nba2k26s1".
func SeasonKey(endpoint string) string {
	_, rawQuery, ok := strings.Cut(endpoint, "?")
	if !ok {
		return ""
	}
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(values.Get("league"))
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
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

// getEnvAsDuration accepts Go durations ("90s") and bare seconds ("180").
func getEnvAsDuration(key, fallback string) (time.Duration, error) {
	raw := strings.TrimSpace(getEnv(key, fallback))
	if seconds, err := strconv.Atoi(raw); err == nil {
		raw = strconv.Itoa(seconds) + "s"
	}
	out, err := time.ParseDuration(raw)
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
