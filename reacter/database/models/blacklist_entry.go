package models

import (
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/uptrace/bun"
	"github.com/vohk/reacter/reacter/emoji"
)

// BlacklistEntry is one blacklisted emoji identity scoped to one guild.
// (guild_id, emoji_type, emoji_value) is unique; membership is the only
// semantic, there is no ordering.
type BlacklistEntry struct {
	bun.BaseModel `bun:"table:guild_blacklists,alias:gb"`

	ID         int64        `bun:"id,pk,autoincrement"`
	GuildID    snowflake.ID `bun:"guild_id,notnull,unique:guild_emoji"`
	EmojiType  string       `bun:"emoji_type,notnull,unique:guild_emoji"`
	EmojiValue string       `bun:"emoji_value,notnull,unique:guild_emoji"`
	EmojiName  string       `bun:"emoji_name,nullzero"`
	CreatedAt  time.Time    `bun:"created_at,notnull,default:current_timestamp"`
}

// Key reconstructs the normalized identity of the entry.
func (e *BlacklistEntry) Key() emoji.Key {
	return emoji.Key{
		Type:  emoji.Type(e.EmojiType),
		Value: e.EmojiValue,
		Name:  e.EmojiName,
	}
}

// NewBlacklistEntry builds a row from a normalized key.
func NewBlacklistEntry(guildID snowflake.ID, key emoji.Key) *BlacklistEntry {
	return &BlacklistEntry{
		GuildID:    guildID,
		EmojiType:  string(key.Type),
		EmojiValue: key.Value,
		EmojiName:  key.Name,
	}
}
