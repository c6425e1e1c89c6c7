package repositories

import (
	"context"

	"github.com/disgoorg/snowflake/v2"
	"github.com/uptrace/bun"
	"github.com/vohk/reacter/reacter/database/models"
)

type MigrationRepository interface {
	// Get returns the guild's migration record, or a NotFoundError if the
	// guild has never been migrated.
	Get(ctx context.Context, guildID snowflake.ID) (*models.MigrationRecord, error)
	Create(ctx context.Context, record *models.MigrationRecord) error
}

type migrationRepository struct {
	*BaseRepository
	db *bun.DB
}

func NewMigrationRepository(db *bun.DB) MigrationRepository {
	return &migrationRepository{
		BaseRepository: NewBaseRepository(db),
		db:             db,
	}
}

func (r *migrationRepository) Get(ctx context.Context, guildID snowflake.ID) (*models.MigrationRecord, error) {
	record := new(models.MigrationRecord)
	err := r.SelectOneWithTimeout(ctx, "get", "migration record", guildID, func(ctx context.Context) error {
		return r.db.NewSelect().
			Model(record).
			Where("guild_id = ?", guildID).
			Scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *migrationRepository) Create(ctx context.Context, record *models.MigrationRecord) error {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	_, err := r.db.NewInsert().
		Model(record).
		On("CONFLICT (guild_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return r.HandleErrorWithID("create", "migration record", record.GuildID, err)
	}
	return nil
}
