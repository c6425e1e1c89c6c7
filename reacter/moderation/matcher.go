package moderation

import (
	"context"
	"errors"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/vohk/reacter/reacter/emoji"
)

// Store answers blacklist membership queries.
type Store interface {
	IsBlacklisted(ctx context.Context, guildID snowflake.ID, key emoji.Key) (bool, error)
}

// Migrations lazily imports a guild's legacy blacklist before its first
// lookup.
type Migrations interface {
	EnsureMigrated(ctx context.Context, guildID snowflake.ID) error
}

// Decision is the outcome of matching one reaction against a guild's
// blacklist.
type Decision struct {
	Blocked bool
	Key     emoji.Key
}

// Matcher checks incoming reactions against per-guild blacklists.
type Matcher struct {
	store      Store
	migrations Migrations
}

func NewMatcher(store Store, migrations Migrations) *Matcher {
	return &Matcher{store: store, migrations: migrations}
}

// Check normalizes the reaction emoji and looks it up. Emoji the normalizer
// cannot make sense of are never blocked.
func (m *Matcher) Check(ctx context.Context, guildID snowflake.ID, partial discord.PartialEmoji) (Decision, error) {
	key, err := emoji.FromPartial(partial)
	if errors.Is(err, emoji.ErrMalformed) {
		return Decision{}, nil
	}
	if err != nil {
		return Decision{}, err
	}

	if m.migrations != nil {
		if err := m.migrations.EnsureMigrated(ctx, guildID); err != nil {
			return Decision{Key: key}, err
		}
	}

	blocked, err := m.store.IsBlacklisted(ctx, guildID, key)
	if err != nil {
		return Decision{Key: key}, err
	}
	return Decision{Blocked: blocked, Key: key}, nil
}
