package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
	lru "github.com/hashicorp/golang-lru"
	"github.com/uptrace/bun"
	"github.com/vohk/reacter/reacter/config"
	"github.com/vohk/reacter/reacter/database/models"
	"github.com/vohk/reacter/reacter/emoji"
)

const blacklistCacheSize = 1024

type BlacklistRepository interface {
	// IsBlacklisted is the hot-path check, served from the per-guild cache
	// when possible.
	IsBlacklisted(ctx context.Context, guildID snowflake.ID, key emoji.Key) (bool, error)
	List(ctx context.Context, guildID snowflake.ID) ([]*models.BlacklistEntry, error)
	// Add inserts the entry and reports whether it was new.
	Add(ctx context.Context, guildID snowflake.ID, key emoji.Key) (bool, error)
	// Remove deletes the entry and reports whether it existed.
	Remove(ctx context.Context, guildID snowflake.ID, key emoji.Key) (bool, error)
	// Clear drops every entry for the guild, returning how many were removed.
	Clear(ctx context.Context, guildID snowflake.ID) (int64, error)
}

type blacklistRepository struct {
	*BaseRepository
	db *bun.DB

	// cache maps guild ID to the guild's full blacklist key set. Whole-guild
	// invalidation after every write keeps it trivially consistent.
	cache *guildSetCache
}

type keySet map[string]struct{}

// guildSetCache is an LRU of per-guild key sets with a generation counter
// per guild. A fill carries the generation observed before the load; a
// mutation in between bumps the generation and the stale set is discarded
// instead of cached.
type guildSetCache struct {
	mu   sync.Mutex
	gens map[snowflake.ID]uint64
	sets *lru.Cache
}

func newGuildSetCache(size int) *guildSetCache {
	sets, _ := lru.New(size)
	return &guildSetCache{
		gens: make(map[snowflake.ID]uint64),
		sets: sets,
	}
}

func (c *guildSetCache) get(guildID snowflake.ID) (keySet, bool) {
	cached, ok := c.sets.Get(guildID)
	if !ok {
		return nil, false
	}
	return cached.(keySet), true
}

func (c *guildSetCache) generation(guildID snowflake.ID) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[guildID]
}

func (c *guildSetCache) fill(guildID snowflake.ID, gen uint64, set keySet) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[guildID] != gen {
		return
	}
	c.sets.Add(guildID, set)
}

func (c *guildSetCache) invalidate(guildID snowflake.ID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[guildID]++
	c.sets.Remove(guildID)
}

func NewBlacklistRepository(db *bun.DB) BlacklistRepository {
	return &blacklistRepository{
		BaseRepository: NewBaseRepository(db),
		db:             db,
		cache:          newGuildSetCache(blacklistCacheSize),
	}
}

func (r *blacklistRepository) IsBlacklisted(ctx context.Context, guildID snowflake.ID, key emoji.Key) (bool, error) {
	if set, ok := r.cache.get(guildID); ok {
		_, blocked := set[key.String()]
		return blocked, nil
	}

	gen := r.cache.generation(guildID)
	set, err := r.loadGuildSet(ctx, guildID)
	if err != nil {
		return false, err
	}
	r.cache.fill(guildID, gen, set)

	_, blocked := set[key.String()]
	return blocked, nil
}

func (r *blacklistRepository) loadGuildSet(ctx context.Context, guildID snowflake.ID) (keySet, error) {
	entries, err := r.List(ctx, guildID)
	if err != nil {
		return nil, err
	}
	set := make(keySet, len(entries))
	for _, entry := range entries {
		set[entry.Key().String()] = struct{}{}
	}
	return set, nil
}

func (r *blacklistRepository) List(ctx context.Context, guildID snowflake.ID) ([]*models.BlacklistEntry, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	var entries []*models.BlacklistEntry
	err := r.db.NewSelect().
		Model(&entries).
		Where("guild_id = ?", guildID).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, r.HandleErrorWithID("list", "blacklist", guildID, err)
	}
	return entries, nil
}

func (r *blacklistRepository) Add(ctx context.Context, guildID snowflake.ID, key emoji.Key) (bool, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	entry := models.NewBlacklistEntry(guildID, key)
	entry.CreatedAt = time.Now()
	res, err := r.db.NewInsert().
		Model(entry).
		On("CONFLICT (guild_id, emoji_type, emoji_value) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return false, r.HandleErrorWithID("add", "blacklist entry", guildID, err)
	}

	// Invalidate only after the write is durable so the next read rebuilds
	// from the committed rows.
	r.cache.invalidate(guildID)

	affected, err := res.RowsAffected()
	if err != nil {
		return false, r.HandleErrorWithID("add", "blacklist entry", guildID, err)
	}
	return affected > 0, nil
}

func (r *blacklistRepository) Remove(ctx context.Context, guildID snowflake.ID, key emoji.Key) (bool, error) {
	ctx, cancel := r.WithTimeout(ctx)
	defer cancel()

	res, err := r.db.NewDelete().
		Model((*models.BlacklistEntry)(nil)).
		Where("guild_id = ?", guildID).
		Where("emoji_type = ?", string(key.Type)).
		Where("emoji_value = ?", key.Value).
		Exec(ctx)
	if err != nil {
		return false, r.HandleErrorWithID("remove", "blacklist entry", guildID, err)
	}

	r.cache.invalidate(guildID)

	affected, err := res.RowsAffected()
	if err != nil {
		return false, r.HandleErrorWithID("remove", "blacklist entry", guildID, err)
	}
	return affected > 0, nil
}

func (r *blacklistRepository) Clear(ctx context.Context, guildID snowflake.ID) (int64, error) {
	// A whole-guild wipe can outlive the per-query budget.
	ctx, cancel := r.WithCustomTimeout(ctx, config.BatchQueryTimeout)
	defer cancel()

	res, err := r.db.NewDelete().
		Model((*models.BlacklistEntry)(nil)).
		Where("guild_id = ?", guildID).
		Exec(ctx)
	if err != nil {
		return 0, r.HandleErrorWithID("clear", "blacklist", guildID, err)
	}

	r.cache.invalidate(guildID)

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, r.HandleErrorWithID("clear", "blacklist", guildID, err)
	}
	return affected, nil
}
