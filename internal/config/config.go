package config

import "time"

// Database driver names accepted in DatabaseConfig.Driver.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Log      LogConfig      `yaml:"log"`
	Study    StudyConfig    `yaml:"study"`
	Reminder ReminderConfig `yaml:"reminder"`
	CORS     CORSConfig     `yaml:"cors"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	// Per-IP request budget enforced by the rate limit middleware.
	RateLimitPerMinute int `yaml:"rate_limit_per_minute" env:"SERVER_RATE_LIMIT_PER_MINUTE" env-default:"120"`
}

// DatabaseConfig holds storage settings. Driver selects the adapter:
// "postgres" uses DSN and the pool settings, "sqlite" uses Path.
type DatabaseConfig struct {
	Driver          string        `yaml:"driver"             env:"DATABASE_DRIVER"             env-default:"postgres"`
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	Path            string        `yaml:"path"               env:"DATABASE_PATH"               env-default:"./data/vocabtutor.db"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// AuthConfig holds JWT settings.
type AuthConfig struct {
	JWTSecret      string        `yaml:"jwt_secret"       env:"AUTH_JWT_SECRET"       env-required:"true"`
	JWTIssuer      string        `yaml:"jwt_issuer"       env:"AUTH_JWT_ISSUER"       env-default:"vocabtutor"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl" env:"AUTH_ACCESS_TOKEN_TTL" env-default:"24h"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// StudyConfig holds study service limits and the tracked-word cache tuning.
type StudyConfig struct {
	DefaultQueueLimit int           `yaml:"default_queue_limit" env:"STUDY_DEFAULT_QUEUE_LIMIT" env-default:"20"`
	MaxQueueLimit     int           `yaml:"max_queue_limit"     env:"STUDY_MAX_QUEUE_LIMIT"     env-default:"200"`
	TrackCacheSize    int           `yaml:"track_cache_size"    env:"STUDY_TRACK_CACHE_SIZE"    env-default:"4096"`
	TrackCacheTTL     time.Duration `yaml:"track_cache_ttl"     env:"STUDY_TRACK_CACHE_TTL"     env-default:"10m"`
}

// ReminderConfig holds the due-item reminder scheduler settings.
type ReminderConfig struct {
	Enabled  bool          `yaml:"enabled"    env:"REMINDER_ENABLED"    env-default:"false"`
	Interval time.Duration `yaml:"interval"   env:"REMINDER_INTERVAL"   env-default:"1h"`
	// Reminders fire only when the current UTC hour falls inside
	// [StartHour, EndHour].
	StartHour int `yaml:"start_hour" env:"REMINDER_START_HOUR" env-default:"8"`
	EndHour   int `yaml:"end_hour"   env:"REMINDER_END_HOUR"   env-default:"22"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PATCH,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}
