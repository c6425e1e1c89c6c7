package migration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"log/slog"

	"github.com/disgoorg/snowflake/v2"
	"github.com/vohk/reacter/reacter/database/models"
	"github.com/vohk/reacter/reacter/database/repositories"
	"github.com/vohk/reacter/reacter/emoji"
	"golang.org/x/sync/errgroup"
)

const maxParallelMigrations = 4

// Store is the slice of BlacklistRepository the migrator writes through.
type Store interface {
	Add(ctx context.Context, guildID snowflake.ID, key emoji.Key) (bool, error)
}

// SnapshotUploader pushes a backup copy of the legacy file to remote storage.
// A nil uploader disables remote backups.
type SnapshotUploader interface {
	UploadSnapshot(ctx context.Context, name string, data []byte) (string, error)
}

// Options configures where the legacy file lives and where backups go.
type Options struct {
	LegacyFile string
	BackupDir  string
}

// MigrationResult summarizes one guild's import.
type MigrationResult struct {
	GuildID     snowflake.ID
	SourceCount int
	Imported    int
	Skipped     int
	AlreadyDone bool
}

// Migrator imports the legacy global blacklist file into per-guild rows.
// Each guild is migrated at most once; the record row is the durable marker
// and the memo map just saves the lookup on the hot path.
type Migrator struct {
	store    Store
	records  repositories.MigrationRepository
	uploader SnapshotUploader
	opts     Options

	mu       sync.Mutex
	done     map[snowflake.ID]struct{}
	backupMu sync.Mutex
	backedUp bool
}

func NewMigrator(store Store, records repositories.MigrationRepository, uploader SnapshotUploader, opts Options) *Migrator {
	return &Migrator{
		store:    store,
		records:  records,
		uploader: uploader,
		opts:     opts,
		done:     make(map[snowflake.ID]struct{}),
	}
}

// EnsureMigrated runs the guild's migration if it has not happened yet.
// Safe to call on every lookup.
func (m *Migrator) EnsureMigrated(ctx context.Context, guildID snowflake.ID) error {
	m.mu.Lock()
	_, ok := m.done[guildID]
	m.mu.Unlock()
	if ok {
		return nil
	}

	_, err := m.MigrateGuild(ctx, guildID)
	return err
}

// MigrateGuild imports the legacy file into the guild's blacklist. The
// migration record is written only after every entry landed, so a failed run
// retries from scratch and the per-entry conflict handling absorbs the
// partial first attempt.
func (m *Migrator) MigrateGuild(ctx context.Context, guildID snowflake.ID) (*MigrationResult, error) {
	if record, err := m.records.Get(ctx, guildID); err == nil {
		m.markDone(guildID)
		// A repeat run imports nothing; the original totals survive only in
		// SourceCount and the stored record.
		return &MigrationResult{
			GuildID:     guildID,
			SourceCount: record.SourceCount,
			AlreadyDone: true,
		}, nil
	} else if !repositories.IsNotFound(err) {
		return nil, err
	}

	data, err := os.ReadFile(m.opts.LegacyFile)
	if os.IsNotExist(err) {
		// Nothing to import. Still record the migration so the guild is not
		// re-checked forever.
		result := &MigrationResult{GuildID: guildID}
		if err := m.writeRecord(ctx, result); err != nil {
			return nil, err
		}
		m.markDone(guildID)
		return result, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read legacy blacklist: %w", err)
	}

	if err := m.backupOnce(ctx, data); err != nil {
		return nil, err
	}

	snap, err := ParseLegacy(data)
	if err != nil {
		return nil, err
	}

	result := &MigrationResult{
		GuildID:     guildID,
		SourceCount: snap.SourceCount,
		Skipped:     snap.Skipped,
	}

	for _, key := range snap.Keys {
		added, err := m.store.Add(ctx, guildID, key)
		if err != nil {
			return nil, fmt.Errorf("failed to import %s for guild %s: %w", key, guildID, err)
		}
		if added {
			result.Imported++
		} else {
			result.Skipped++
		}
	}

	if err := m.writeRecord(ctx, result); err != nil {
		return nil, err
	}
	m.markDone(guildID)

	slog.Info("Migrated legacy blacklist",
		slog.String("type", "sys"),
		slog.String("guild_id", guildID.String()),
		slog.Int("imported", result.Imported),
		slog.Int("skipped", result.Skipped),
	)
	return result, nil
}

// MigrateAll runs migrations for a set of guilds with bounded parallelism.
// Used by the startup sweep over joined guilds.
func (m *Migrator) MigrateAll(ctx context.Context, guildIDs []snowflake.ID) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelMigrations)

	for _, guildID := range guildIDs {
		guildID := guildID
		g.Go(func() error {
			if _, err := m.MigrateGuild(ctx, guildID); err != nil {
				slog.Error("Guild migration failed",
					slog.String("type", "sys"),
					slog.String("guild_id", guildID.String()),
					slog.Any("error", err),
				)
				return err
			}
			return nil
		})
	}

	return g.Wait()
}

func (m *Migrator) markDone(guildID snowflake.ID) {
	m.mu.Lock()
	m.done[guildID] = struct{}{}
	m.mu.Unlock()
}

func (m *Migrator) writeRecord(ctx context.Context, result *MigrationResult) error {
	return m.records.Create(ctx, &models.MigrationRecord{
		GuildID:       result.GuildID,
		SourceCount:   result.SourceCount,
		ImportedCount: result.Imported,
		SkippedCount:  result.Skipped,
		MigratedAt:    time.Now(),
	})
}

// backupOnce snapshots the legacy file before the first import of this
// process. The file is global, so one copy per run is enough.
func (m *Migrator) backupOnce(ctx context.Context, data []byte) error {
	m.backupMu.Lock()
	defer m.backupMu.Unlock()
	if m.backedUp {
		return nil
	}

	name := fmt.Sprintf("blacklist_backup_%s.json", time.Now().UTC().Format("20060102_150405"))

	if m.opts.BackupDir != "" {
		if err := os.MkdirAll(m.opts.BackupDir, 0o755); err != nil {
			return fmt.Errorf("failed to create backup dir: %w", err)
		}
		path := filepath.Join(m.opts.BackupDir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("failed to write backup: %w", err)
		}
		slog.Info("Legacy blacklist backed up",
			slog.String("type", "sys"),
			slog.String("path", path),
		)
	}

	if m.uploader != nil {
		url, err := m.uploader.UploadSnapshot(ctx, name, data)
		if err != nil {
			// Remote backup is best effort once the local copy exists.
			slog.Warn("Remote backup upload failed",
				slog.String("type", "sys"),
				slog.Any("error", err),
			)
		} else {
			slog.Info("Legacy blacklist uploaded",
				slog.String("type", "sys"),
				slog.String("url", url),
			)
		}
	}

	m.backedUp = true
	return nil
}
