package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Cache        CacheConfig
	Logging      LoggingConfig
	Points       PointsConfig
	Gamification GamificationConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	Environment     string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	GracefulTimeout time.Duration
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL                 string
	MaxOpenConns        int
	MaxIdleConns        int
	ConnMaxLifetime     time.Duration
	ConnMaxIdleTime     time.Duration
	ConnectTimeout      time.Duration
	SlowQueryThreshold  time.Duration
	HealthCheckInterval time.Duration
	MigrationsPath      string
	MaxConnectRetries   int
}

// CacheConfig holds cache configuration
type CacheConfig struct {
	Provider        string // "memory" or "redis"
	RedisURL        string
	RedisDB         int
	RedisPassword   string
	PoolSize        int
	DefaultTTL      time.Duration
	MaxKeys         int
	CleanupInterval time.Duration
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string // "json" or "console"
}

// PointsConfig is the immutable table of point values per recognized action.
// Every valid action is a named field so the set of keys is enumerable and
// type-checked; there is no free-form map of point values anywhere.
type PointsConfig struct {
	SessionComplete   int64
	SessionMinutes    int64 // per-minute accrual, capped by SessionMinutesCap
	SessionMinutesCap int64
	QuizComplete      int64
	QuizPerfectScore  int64
	QuizPassBonus     int64
	AssignmentSubmit  int64
	AssignmentOnTime  int64
	AssignmentPerfect int64
	TopicMastered     int64
	SubjectComplete   int64
	StreakDaily       int64
	StreakWeekly      int64
	StreakMonthly     int64
}

// GamificationConfig holds tunables for the gamification services
type GamificationConfig struct {
	StreakMilestones    []int
	LeaderboardCacheTTL time.Duration
	LeaderboardLimit    int
	FeedPageSize        int
	FeedMaxPageSize     int
}

// Load reads configuration from the environment, applying defaults
func Load() (*Config, error) {
	// Load .env file if it exists (development convenience)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnv("PORT", "8080"),
			Environment:     getEnv("ENVIRONMENT", "development"),
			ReadTimeout:     getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:     getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			GracefulTimeout: getEnvDuration("SERVER_GRACEFUL_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			URL:                 getEnv("DATABASE_URL", ""),
			MaxOpenConns:        getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:        getEnvInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetime:     getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime:     getEnvDuration("DB_CONN_MAX_IDLE_TIME", 10*time.Minute),
			ConnectTimeout:      getEnvDuration("DB_CONNECT_TIMEOUT", 10*time.Second),
			SlowQueryThreshold:  getEnvDuration("DB_SLOW_QUERY_THRESHOLD", 100*time.Millisecond),
			HealthCheckInterval: getEnvDuration("DB_HEALTH_CHECK_INTERVAL", 30*time.Second),
			MigrationsPath:      getEnv("DB_MIGRATIONS_PATH", "migrations"),
			MaxConnectRetries:   getEnvInt("DB_MAX_CONNECT_RETRIES", 5),
		},
		Cache: CacheConfig{
			Provider:        getEnv("CACHE_PROVIDER", "memory"),
			RedisURL:        getEnv("REDIS_URL", ""),
			RedisDB:         getEnvInt("REDIS_DB", 0),
			RedisPassword:   getEnv("REDIS_PASSWORD", ""),
			PoolSize:        getEnvInt("REDIS_POOL_SIZE", 10),
			DefaultTTL:      getEnvDuration("CACHE_DEFAULT_TTL", 15*time.Minute),
			MaxKeys:         getEnvInt("CACHE_MAX_KEYS", 10000),
			CleanupInterval: getEnvDuration("CACHE_CLEANUP_INTERVAL", 5*time.Minute),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Points:       DefaultPointsConfig(),
		Gamification: DefaultGamificationConfig(),
	}

	// Point values may be overridden per deployment without a rebuild
	loadPointsOverrides(&cfg.Points)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// DefaultPointsConfig returns the stock point value table
func DefaultPointsConfig() PointsConfig {
	return PointsConfig{
		SessionComplete:   10,
		SessionMinutes:    1,
		SessionMinutesCap: 30,
		QuizComplete:      5,
		QuizPerfectScore:  20,
		QuizPassBonus:     10,
		AssignmentSubmit:  10,
		AssignmentOnTime:  5,
		AssignmentPerfect: 15,
		TopicMastered:     25,
		SubjectComplete:   100,
		StreakDaily:       5,
		StreakWeekly:      25,
		StreakMonthly:     100,
	}
}

// DefaultGamificationConfig returns the stock gamification tunables
func DefaultGamificationConfig() GamificationConfig {
	return GamificationConfig{
		StreakMilestones:    []int{7, 30, 100},
		LeaderboardCacheTTL: getEnvDuration("LEADERBOARD_CACHE_TTL", 5*time.Minute),
		LeaderboardLimit:    getEnvInt("LEADERBOARD_LIMIT", 100),
		FeedPageSize:        getEnvInt("FEED_PAGE_SIZE", 20),
		FeedMaxPageSize:     getEnvInt("FEED_MAX_PAGE_SIZE", 100),
	}
}

// loadPointsOverrides applies POINTS_* environment overrides to the table
func loadPointsOverrides(p *PointsConfig) {
	p.SessionComplete = getEnvInt64("POINTS_SESSION_COMPLETE", p.SessionComplete)
	p.SessionMinutes = getEnvInt64("POINTS_SESSION_MINUTES", p.SessionMinutes)
	p.SessionMinutesCap = getEnvInt64("POINTS_SESSION_MINUTES_CAP", p.SessionMinutesCap)
	p.QuizComplete = getEnvInt64("POINTS_QUIZ_COMPLETE", p.QuizComplete)
	p.QuizPerfectScore = getEnvInt64("POINTS_QUIZ_PERFECT_SCORE", p.QuizPerfectScore)
	p.QuizPassBonus = getEnvInt64("POINTS_QUIZ_PASS_BONUS", p.QuizPassBonus)
	p.AssignmentSubmit = getEnvInt64("POINTS_ASSIGNMENT_SUBMIT", p.AssignmentSubmit)
	p.AssignmentOnTime = getEnvInt64("POINTS_ASSIGNMENT_ON_TIME", p.AssignmentOnTime)
	p.AssignmentPerfect = getEnvInt64("POINTS_ASSIGNMENT_PERFECT", p.AssignmentPerfect)
	p.TopicMastered = getEnvInt64("POINTS_TOPIC_MASTERED", p.TopicMastered)
	p.SubjectComplete = getEnvInt64("POINTS_SUBJECT_COMPLETE", p.SubjectComplete)
	p.StreakDaily = getEnvInt64("POINTS_STREAK_DAILY", p.StreakDaily)
	p.StreakWeekly = getEnvInt64("POINTS_STREAK_WEEKLY", p.StreakWeekly)
	p.StreakMonthly = getEnvInt64("POINTS_STREAK_MONTHLY", p.StreakMonthly)
}

// AmountFor maps a recognized action name to its configured point value.
// The second return is false for unrecognized actions.
func (p PointsConfig) AmountFor(action string) (int64, bool) {
	switch action {
	case "session_complete":
		return p.SessionComplete, true
	case "quiz_complete":
		return p.QuizComplete, true
	case "quiz_perfect_score":
		return p.QuizPerfectScore, true
	case "quiz_pass_bonus":
		return p.QuizPassBonus, true
	case "assignment_submit":
		return p.AssignmentSubmit, true
	case "assignment_on_time":
		return p.AssignmentOnTime, true
	case "assignment_perfect":
		return p.AssignmentPerfect, true
	case "topic_mastered":
		return p.TopicMastered, true
	case "subject_complete":
		return p.SubjectComplete, true
	case "streak_daily":
		return p.StreakDaily, true
	case "streak_weekly":
		return p.StreakWeekly, true
	case "streak_monthly":
		return p.StreakMonthly, true
	default:
		return 0, false
	}
}

// SessionPoints computes the earn amount for a completed session of the
// given duration: flat completion value plus per-minute accrual up to the cap.
func (p PointsConfig) SessionPoints(minutes int64) int64 {
	if minutes < 0 {
		minutes = 0
	}
	if minutes > p.SessionMinutesCap {
		minutes = p.SessionMinutesCap
	}
	return p.SessionComplete + minutes*p.SessionMinutes
}

// Validate checks configuration invariants at load time
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Server.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	switch strings.ToLower(c.Cache.Provider) {
	case "memory", "redis":
	default:
		return fmt.Errorf("unsupported cache provider: %s", c.Cache.Provider)
	}
	if strings.ToLower(c.Cache.Provider) == "redis" && c.Cache.RedisURL == "" {
		return fmt.Errorf("REDIS_URL is required when CACHE_PROVIDER=redis")
	}
	if err := validatePointValues(c.Points); err != nil {
		return err
	}
	for i := 1; i < len(c.Gamification.StreakMilestones); i++ {
		if c.Gamification.StreakMilestones[i] <= c.Gamification.StreakMilestones[i-1] {
			return fmt.Errorf("streak milestones must be strictly increasing")
		}
	}
	return nil
}

func validatePointValues(p PointsConfig) error {
	values := map[string]int64{
		"POINTS_SESSION_COMPLETE":   p.SessionComplete,
		"POINTS_SESSION_MINUTES":    p.SessionMinutes,
		"POINTS_QUIZ_COMPLETE":      p.QuizComplete,
		"POINTS_QUIZ_PERFECT_SCORE": p.QuizPerfectScore,
		"POINTS_QUIZ_PASS_BONUS":    p.QuizPassBonus,
		"POINTS_ASSIGNMENT_SUBMIT":  p.AssignmentSubmit,
		"POINTS_ASSIGNMENT_ON_TIME": p.AssignmentOnTime,
		"POINTS_ASSIGNMENT_PERFECT": p.AssignmentPerfect,
		"POINTS_TOPIC_MASTERED":     p.TopicMastered,
		"POINTS_SUBJECT_COMPLETE":   p.SubjectComplete,
		"POINTS_STREAK_DAILY":       p.StreakDaily,
		"POINTS_STREAK_WEEKLY":      p.StreakWeekly,
		"POINTS_STREAK_MONTHLY":     p.StreakMonthly,
	}
	for name, v := range values {
		if v < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	return nil
}

// IsDevelopment returns true when running in development mode
func (c *Config) IsDevelopment() bool {
	return strings.ToLower(c.Server.Environment) == "development"
}

// IsProduction returns true when running in production mode
func (c *Config) IsProduction() bool {
	return strings.ToLower(c.Server.Environment) == "production"
}

// ===============================
// ENV HELPERS
// ===============================

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
