package moderation

import (
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/vohk/reacter/reacter/emoji"
)

// Event is one reaction-add under moderation. The listener fills Raw from
// the gateway payload; Emoji is set once the blacklist match happens inside
// the guild's worker.
type Event struct {
	GuildID    snowflake.ID
	ChannelID  snowflake.ID
	MessageID  snowflake.ID
	UserID     snowflake.ID
	Raw        discord.PartialEmoji
	Emoji      emoji.Key
	ReceivedAt time.Time
}
