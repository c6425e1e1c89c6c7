package models

import (
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/uptrace/bun"
)

// MigrationRecord marks the one-time import of the legacy flat-file
// blacklist into a guild's partition. A present row means the migration ran
// to completion; re-runs are no-ops that report the stored counts.
type MigrationRecord struct {
	bun.BaseModel `bun:"table:guild_migrations,alias:gm"`

	GuildID       snowflake.ID `bun:"guild_id,pk"`
	SourceCount   int          `bun:"source_count,notnull"`
	ImportedCount int          `bun:"imported_count,notnull"`
	SkippedCount  int          `bun:"skipped_count,notnull"`
	MigratedAt    time.Time    `bun:"migrated_at,notnull,default:current_timestamp"`
}
