package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/uptrace/bun"
	"github.com/vohk/reacter/reacter/database/models"
)

// ConfigPatch carries the subset of guild settings to change. Nil fields are
// left untouched. A LogChannelID pointing at the zero snowflake clears the
// log channel.
type ConfigPatch struct {
	TimeoutSeconds *int
	LogChannelID   *snowflake.ID
	DMOnTimeout    *bool
}

func (p ConfigPatch) isEmpty() bool {
	return p.TimeoutSeconds == nil && p.LogChannelID == nil && p.DMOnTimeout == nil
}

type ConfigRepository interface {
	// Get returns the guild's settings, falling back to defaults for guilds
	// that never changed anything. Reading never writes a row.
	Get(ctx context.Context, guildID snowflake.ID) (*models.GuildConfig, error)
	Upsert(ctx context.Context, guildID snowflake.ID, patch ConfigPatch) (*models.GuildConfig, error)
	Reset(ctx context.Context, guildID snowflake.ID) error
}

type configRepository struct {
	*BaseRepository
	db *bun.DB
}

func NewConfigRepository(db *bun.DB) ConfigRepository {
	return &configRepository{
		BaseRepository: NewBaseRepository(db),
		db:             db,
	}
}

func (r *configRepository) Get(ctx context.Context, guildID snowflake.ID) (*models.GuildConfig, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	cfg := new(models.GuildConfig)
	err := r.db.NewSelect().
		Model(cfg).
		Where("guild_id = ?", guildID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DefaultGuildConfig(guildID), nil
	}
	if err != nil {
		return nil, r.HandleErrorWithID("get", "guild config", guildID, err)
	}
	return cfg, nil
}

func (r *configRepository) Upsert(ctx context.Context, guildID snowflake.ID, patch ConfigPatch) (*models.GuildConfig, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	cfg := models.DefaultGuildConfig(guildID)
	cfg.CreatedAt = time.Now()
	cfg.UpdatedAt = cfg.CreatedAt

	q := r.db.NewInsert().
		Model(cfg).
		On("CONFLICT (guild_id) DO UPDATE").
		Set("updated_at = EXCLUDED.updated_at")

	if patch.TimeoutSeconds != nil {
		cfg.TimeoutSeconds = *patch.TimeoutSeconds
		q = q.Set("timeout_seconds = EXCLUDED.timeout_seconds")
	}
	if patch.LogChannelID != nil {
		if *patch.LogChannelID == 0 {
			cfg.LogChannelID = nil
		} else {
			cfg.LogChannelID = patch.LogChannelID
		}
		q = q.Set("log_channel_id = EXCLUDED.log_channel_id")
	}
	if patch.DMOnTimeout != nil {
		cfg.DMOnTimeout = *patch.DMOnTimeout
		q = q.Set("dm_on_timeout = EXCLUDED.dm_on_timeout")
	}

	if _, err := q.Exec(ctx); err != nil {
		return nil, r.HandleErrorWithID("upsert", "guild config", guildID, err)
	}

	// An empty patch still ensures the row exists, but the stored values of
	// an existing row win over the defaults we just tried to insert.
	if patch.isEmpty() {
		return r.Get(ctx, guildID)
	}

	stored := new(models.GuildConfig)
	err := r.db.NewSelect().
		Model(stored).
		Where("guild_id = ?", guildID).
		Scan(ctx)
	if err != nil {
		return nil, r.HandleErrorWithID("reload", "guild config", guildID, err)
	}
	return stored, nil
}

func (r *configRepository) Reset(ctx context.Context, guildID snowflake.ID) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err := r.db.NewDelete().
		Model((*models.GuildConfig)(nil)).
		Where("guild_id = ?", guildID).
		Exec(ctx)
	if err != nil {
		return r.HandleErrorWithID("reset", "guild config", guildID, err)
	}
	return nil
}
