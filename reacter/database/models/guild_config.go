package models

import (
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/uptrace/bun"
)

// GuildConfig holds the per-guild moderation settings. A guild with no row
// behaves exactly as one with defaults stored; rows are only materialized by
// an explicit settings change, never by a read.
type GuildConfig struct {
	bun.BaseModel `bun:"table:guild_configs,alias:gc"`

	GuildID        snowflake.ID  `bun:"guild_id,pk"`
	LogChannelID   *snowflake.ID `bun:"log_channel_id"`
	TimeoutSeconds int           `bun:"timeout_seconds,notnull,default:300"`
	DMOnTimeout    bool          `bun:"dm_on_timeout,notnull,default:false"`
	CreatedAt      time.Time     `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt      time.Time     `bun:"updated_at,notnull,default:current_timestamp"`
}

const DefaultTimeoutSeconds = 300

// DefaultGuildConfig is the lazy-materialized view of an unconfigured guild.
func DefaultGuildConfig(guildID snowflake.ID) *GuildConfig {
	return &GuildConfig{
		GuildID:        guildID,
		TimeoutSeconds: DefaultTimeoutSeconds,
	}
}

// TimeoutDuration returns the configured timeout as a duration. A zero value
// means violations are logged and the reaction removed, but no timeout is
// applied.
func (c *GuildConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}
