package config

import (
	"github.com/conveyorhq/conveyor/internal/redis"
	"go.uber.org/zap"
)

// LogConfigurationSummary returns zap fields with a configuration summary,
// masking sensitive data. Secrets and URL credentials must never appear in
// the output; URLs go through redis.RedactURL.
func (c *Config) LogConfigurationSummary() []zap.Field {
	return []zap.Field{
		// General
		zap.String("config_file_path", func() string {
			if c.configPath != "" {
				return c.configPath
			}
			return "none (using defaults and environment variables)"
		}()),
		zap.String("log_level", c.LogLevel),

		// Redis profile
		zap.String("deployment_mode", redis.DeploymentModeFrom(c).String()),
		zap.String("redis_url_public", maskOptionalURL(c.RedisURLPublic)),
		zap.String("redis_url_private", maskOptionalURL(c.RedisURLPrivate)),

		// Queue worker
		zap.String("queue", c.Queue),
		zap.Int("concurrency", c.Concurrency),
		zap.Int("shutdown_timeout_seconds", c.ShutdownTimeoutSeconds),
	}
}

func maskOptionalURL(url OptionalString) string {
	if !url.Set {
		return "not configured"
	}
	return redis.RedactURL(url.Value)
}
