package config

import "time"

const (
	// DefaultQueryTimeout bounds every single-row store operation.
	DefaultQueryTimeout = 5 * time.Second

	// BatchQueryTimeout bounds multi-row operations (migration imports, clears).
	BatchQueryTimeout = 30 * time.Second

	// PlatformCallTimeout bounds each Discord REST attempt made by the
	// moderation executor. A call that does not finish in time counts as a
	// failed attempt and is not retried.
	PlatformCallTimeout = 5 * time.Second

	// DefaultTimeoutDuration is applied for guilds with no stored config.
	DefaultTimeoutDuration = 300 * time.Second

	// MaxTimeoutDuration is the platform ceiling for member timeouts (28 days).
	MaxTimeoutDuration = 28 * 24 * time.Hour

	// TimeoutCooldown is the minimum gap between two timeouts applied to the
	// same member in the same guild.
	TimeoutCooldown = time.Minute
)
