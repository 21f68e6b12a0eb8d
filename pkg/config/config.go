package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/noah-isme/cgpa-planner-api/pkg/gpa"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database    DatabaseConfig
	Redis       RedisConfig
	CORS        CORSConfig
	Log         LogConfig
	GPA         GPAConfig
	Records     RecordsConfig
	Summary     SummaryConfig
	Transcripts TranscriptsConfig
	Metrics     MetricsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// GPAConfig holds calculation defaults applied when a request leaves them out.
type GPAConfig struct {
	DefaultScale     gpa.Scale
	DisplayPrecision int
}

// RecordsConfig gates the saved semester record endpoints.
type RecordsConfig struct {
	Enabled bool
}

// SummaryConfig controls CGPA summary caching and background refresh.
type SummaryConfig struct {
	CacheEnabled      bool
	CacheTTL          time.Duration
	WorkerConcurrency int
	WorkerRetries     int
}

// TranscriptsConfig gates transcript export.
type TranscriptsConfig struct {
	Enabled bool
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.GPA = GPAConfig{
		DefaultScale:     parseScale(v.GetString("GPA_DEFAULT_SCALE"), gpa.ScaleFivePoint),
		DisplayPrecision: parsePrecision(v.GetInt("GPA_DISPLAY_PRECISION")),
	}

	cfg.Records = RecordsConfig{
		Enabled: v.GetBool("ENABLE_RECORDS"),
	}

	cfg.Summary = SummaryConfig{
		CacheEnabled:      v.GetBool("ENABLE_SUMMARY_CACHE"),
		CacheTTL:          parseDuration(v.GetString("SUMMARY_CACHE_TTL"), 10*time.Minute),
		WorkerConcurrency: v.GetInt("SUMMARY_WORKER_CONCURRENCY"),
		WorkerRetries:     v.GetInt("SUMMARY_WORKER_RETRIES"),
	}

	cfg.Transcripts = TranscriptsConfig{
		Enabled: v.GetBool("ENABLE_TRANSCRIPTS"),
	}

	cfg.Metrics = MetricsConfig{
		Enabled: v.GetBool("ENABLE_METRICS"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "cgpa_planner")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("GPA_DEFAULT_SCALE", string(gpa.ScaleFivePoint))
	v.SetDefault("GPA_DISPLAY_PRECISION", 2)

	v.SetDefault("ENABLE_RECORDS", false)
	v.SetDefault("ENABLE_SUMMARY_CACHE", false)
	v.SetDefault("SUMMARY_CACHE_TTL", "10m")
	v.SetDefault("SUMMARY_WORKER_CONCURRENCY", 1)
	v.SetDefault("SUMMARY_WORKER_RETRIES", 3)
	v.SetDefault("ENABLE_TRANSCRIPTS", false)
	v.SetDefault("ENABLE_METRICS", true)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func parseScale(raw string, fallback gpa.Scale) gpa.Scale {
	if raw == "" {
		return fallback
	}
	scale, err := gpa.ParseScale(raw)
	if err != nil {
		return fallback
	}
	return scale
}

// parsePrecision allows 2 or 3 decimal places only.
func parsePrecision(raw int) int {
	if raw == 3 {
		return 3
	}
	return 2
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
