package handlers

import (
	"context"
	"time"

	"log/slog"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/vohk/reacter/reacter"
	"github.com/vohk/reacter/reacter/config"
	"github.com/vohk/reacter/reacter/moderation"
)

// ReactionHandler watches reaction adds and hands them to the dispatcher.
// Only the cached permission check runs here; the blacklist lookup happens
// inside the guild's worker so the gateway goroutine never waits on the
// store.
func ReactionHandler(b *reacter.Bot) bot.EventListener {
	return bot.NewListenerFunc(func(e *events.GuildMessageReactionAdd) {
		if e.Member.User.Bot {
			return
		}

		// Moderators keep their reactions.
		perms := b.Client.Caches().MemberPermissions(e.Member)
		if perms.Has(discord.PermissionManageMessages) {
			return
		}

		b.Dispatcher.Enqueue(moderation.Event{
			GuildID:    e.GuildID,
			ChannelID:  e.ChannelID,
			MessageID:  e.MessageID,
			UserID:     e.UserID,
			Raw:        e.Emoji,
			ReceivedAt: time.Now(),
		})
	})
}

// GuildReadyHandler imports the guild's legacy blacklist the first time it
// shows up after startup.
func GuildReadyHandler(b *reacter.Bot) bot.EventListener {
	return bot.NewListenerFunc(func(e *events.GuildReady) {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), config.BatchQueryTimeout)
			defer cancel()

			if err := b.Migrator.EnsureMigrated(ctx, e.GuildID); err != nil {
				slog.Error("Guild migration failed",
					slog.String("type", "sys"),
					slog.String("guild_id", e.GuildID.String()),
					slog.Any("error", err),
				)
			}
		}()
	})
}
