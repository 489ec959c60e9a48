package config

import "fmt"

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.RateLimitPerMinute <= 0 {
		return fmt.Errorf("server.rate_limit_per_minute must be > 0 (got %d)", c.Server.RateLimitPerMinute)
	}

	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for the postgres driver")
		}
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("database.driver must be %q or %q (got %q)", DriverPostgres, DriverSQLite, c.Database.Driver)
	}

	if err := c.Study.validate(); err != nil {
		return fmt.Errorf("study: %w", err)
	}

	if c.Reminder.Enabled {
		if c.Reminder.Interval <= 0 {
			return fmt.Errorf("reminder.interval must be > 0 when the reminder is enabled")
		}
		if c.Reminder.StartHour < 0 || c.Reminder.StartHour > 23 ||
			c.Reminder.EndHour < 0 || c.Reminder.EndHour > 23 {
			return fmt.Errorf("reminder hours must be within 0..23 (got %d..%d)", c.Reminder.StartHour, c.Reminder.EndHour)
		}
		if c.Reminder.EndHour < c.Reminder.StartHour {
			return fmt.Errorf("reminder.end_hour must be >= reminder.start_hour (got %d < %d)", c.Reminder.EndHour, c.Reminder.StartHour)
		}
	}

	return nil
}

func (s *StudyConfig) validate() error {
	if s.DefaultQueueLimit <= 0 {
		return fmt.Errorf("default_queue_limit must be > 0 (got %d)", s.DefaultQueueLimit)
	}
	if s.MaxQueueLimit < s.DefaultQueueLimit {
		return fmt.Errorf("max_queue_limit must be >= default_queue_limit (got %d < %d)", s.MaxQueueLimit, s.DefaultQueueLimit)
	}
	if s.TrackCacheSize <= 0 {
		return fmt.Errorf("track_cache_size must be > 0 (got %d)", s.TrackCacheSize)
	}
	if s.TrackCacheTTL <= 0 {
		return fmt.Errorf("track_cache_ttl must be > 0 (got %v)", s.TrackCacheTTL)
	}
	return nil
}
