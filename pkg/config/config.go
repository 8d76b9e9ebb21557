package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

const (
	MailDriverSMTP     = "smtp"
	MailDriverSendgrid = "sendgrid"
	MailDriverConsole  = "console"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Log      LogConfig
	Calendar CalendarConfig
	Mail     MailConfig
	Digest   DigestConfig
	Syllabus SyllabusConfig
	Notifier NotifierConfig
}

type DatabaseConfig struct {
	Host          string
	Port          int
	User          string
	Password      string
	Name          string
	SSLMode       string
	MaxOpenConns  int
	MaxIdleConns  int
	RunMigrations bool
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// CalendarConfig points the provider adapter at Google Calendar.
type CalendarConfig struct {
	CredentialsFile string
	TimeZone        string
	Summary         string
	Fake            bool
}

// MailConfig selects and configures the outbound mail transport.
type MailConfig struct {
	Driver         string
	SMTPHost       string
	SMTPPort       int
	Username       string
	Password       string
	From           string
	Subject        string
	SendgridAPIKey string
}

// DigestConfig drives the notifier's polling loop.
type DigestConfig struct {
	At             string
	TimeZone       string
	DrainInterval  time.Duration
	PollInterval   time.Duration
	TransientPause time.Duration
	FaultBackoff   time.Duration
}

// SyllabusConfig sizes the syllabus import worker pool.
type SyllabusConfig struct {
	Workers    int
	MaxRetries int
	RetryDelay time.Duration
}

// NotifierConfig configures the side listener of the notifier process.
type NotifierConfig struct {
	MetricsPort int
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
		Host:          v.GetString("DB_HOST"),
		Port:          v.GetInt("DB_PORT"),
		User:          v.GetString("DB_USER"),
		Password:      v.GetString("DB_PASSWORD"),
		Name:          v.GetString("DB_NAME"),
		SSLMode:       v.GetString("DB_SSL_MODE"),
		MaxOpenConns:  v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns:  v.GetInt("DB_MAX_IDLE_CONNS"),
		RunMigrations: v.GetBool("DB_RUN_MIGRATIONS"),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("REDIS_ENABLED"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{Secret: v.GetString("JWT_SECRET")}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Calendar = CalendarConfig{
		CredentialsFile: v.GetString("GOOGLE_CREDENTIALS_FILE"),
		TimeZone:        v.GetString("GOOGLE_CALENDAR_TIMEZONE"),
		Summary:         v.GetString("GOOGLE_CALENDAR_SUMMARY"),
		Fake:            v.GetBool("CALENDAR_FAKE"),
	}

	cfg.Mail = MailConfig{
		Driver:         strings.ToLower(v.GetString("MAIL_DRIVER")),
		SMTPHost:       v.GetString("SMTP_HOST"),
		SMTPPort:       v.GetInt("SMTP_PORT"),
		Username:       v.GetString("SMTP_USERNAME"),
		Password:       v.GetString("SMTP_PASSWORD"),
		From:           v.GetString("MAIL_FROM"),
		Subject:        v.GetString("MAIL_SUBJECT"),
		SendgridAPIKey: v.GetString("SENDGRID_API_KEY"),
	}

	cfg.Digest = DigestConfig{
		At:             v.GetString("DIGEST_AT"),
		TimeZone:       v.GetString("DIGEST_TIMEZONE"),
		DrainInterval:  parseDuration(v.GetString("DRAIN_INTERVAL"), 10*time.Minute),
		PollInterval:   parseDuration(v.GetString("POLL_INTERVAL"), 10*time.Second),
		TransientPause: parseDuration(v.GetString("TRANSIENT_PAUSE"), 5*time.Second),
		FaultBackoff:   parseDuration(v.GetString("FAULT_BACKOFF"), 30*time.Second),
	}

	cfg.Syllabus = SyllabusConfig{
		Workers:    v.GetInt("SYLLABUS_WORKERS"),
		MaxRetries: v.GetInt("SYLLABUS_RETRIES"),
		RetryDelay: parseDuration(v.GetString("SYLLABUS_RETRY_DELAY"), 2*time.Second),
	}

	cfg.Notifier = NotifierConfig{MetricsPort: v.GetInt("NOTIFIER_METRICS_PORT")}

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
	v.SetDefault("DB_NAME", "assignment_organizer")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_RUN_MIGRATIONS", true)

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("GOOGLE_CREDENTIALS_FILE", "client_secret.json")
	v.SetDefault("GOOGLE_CALENDAR_TIMEZONE", "America/New_York")
	v.SetDefault("GOOGLE_CALENDAR_SUMMARY", "assignment organizer")
	v.SetDefault("CALENDAR_FAKE", false)

	v.SetDefault("MAIL_DRIVER", MailDriverConsole)
	v.SetDefault("SMTP_HOST", "smtp.gmail.com")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USERNAME", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("MAIL_FROM", "no-reply@assignment-organizer.local")
	v.SetDefault("MAIL_SUBJECT", "Assignment Organizer")
	v.SetDefault("SENDGRID_API_KEY", "")

	v.SetDefault("DIGEST_AT", "01:00")
	v.SetDefault("DIGEST_TIMEZONE", "UTC")
	v.SetDefault("DRAIN_INTERVAL", "10m")
	v.SetDefault("POLL_INTERVAL", "10s")
	v.SetDefault("TRANSIENT_PAUSE", "5s")
	v.SetDefault("FAULT_BACKOFF", "30s")

	v.SetDefault("SYLLABUS_WORKERS", 1)
	v.SetDefault("SYLLABUS_RETRIES", 3)
	v.SetDefault("SYLLABUS_RETRY_DELAY", "2s")

	v.SetDefault("NOTIFIER_METRICS_PORT", 9091)
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
