package reacter

import (
	"context"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/cache"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/paginator"
	"github.com/disgoorg/snowflake/v2"
	"github.com/vohk/reacter/reacter/config"
	"github.com/vohk/reacter/reacter/database"
	"github.com/vohk/reacter/reacter/database/models"
	"github.com/vohk/reacter/reacter/database/repositories"
	"github.com/vohk/reacter/reacter/migration"
	"github.com/vohk/reacter/reacter/moderation"
	"github.com/vohk/reacter/reacter/services"
)

func New(cfg Config, version string, commit string) *Bot {
	return &Bot{
		Cfg:       cfg,
		Paginator: paginator.New(),
		Version:   version,
		Commit:    commit,
	}
}

type Bot struct {
	Cfg                 Config
	Client              bot.Client
	Paginator           *paginator.Manager
	Version             string
	Commit              string
	DB                  *database.DB
	ConfigRepository    repositories.ConfigRepository
	BlacklistRepository repositories.BlacklistRepository
	MigrationRepository repositories.MigrationRepository
	BackupService       *services.BackupService
	Migrator            *migration.Migrator
	Matcher             *moderation.Matcher
	Executor            *moderation.Executor
	Dispatcher          *moderation.Dispatcher
}

func (b *Bot) SetupBot(listeners ...bot.EventListener) error {
	client, err := disgo.New(b.Cfg.Bot.Token,
		bot.WithGatewayConfigOpts(gateway.WithIntents(gateway.IntentGuilds, gateway.IntentGuildMembers, gateway.IntentGuildMessageReactions)),
		bot.WithCacheConfigOpts(cache.WithCaches(cache.FlagGuilds, cache.FlagMembers, cache.FlagRoles, cache.FlagChannels)),
		bot.WithEventListeners(b.Paginator),
		bot.WithEventListeners(listeners...),
	)
	if err != nil {
		return err
	}

	b.Client = client
	return nil
}

func (b *Bot) OnReady(e *events.Ready) {
	slog.Info("Reacter is now ready",
		slog.String("version", b.Version),
		slog.String("commit", b.Commit))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := b.Client.SetPresence(ctx,
		gateway.WithWatchingActivity("your reactions"),
		gateway.WithOnlineStatus(discord.OnlineStatusOnline)); err != nil {
		slog.Error("Failed to set presence", slog.Any("error", err))
	}

	guildIDs := make([]snowflake.ID, 0, len(e.Guilds))
	for _, guild := range e.Guilds {
		guildIDs = append(guildIDs, guild.ID)
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), config.BatchQueryTimeout)
		defer cancel()
		if err := b.Migrator.MigrateAll(ctx, guildIDs); err != nil {
			slog.Error("Legacy blacklist sweep failed",
				slog.String("type", "sys"),
				slog.Any("error", err))
		}
	}()
}

// GuildName resolves a guild's name from the cache for DM wording.
func (b *Bot) GuildName(event moderation.Event) string {
	if guild, ok := b.Client.Caches().Guild(event.GuildID); ok {
		return guild.Name
	}
	return ""
}

// HandleViolation is the dispatcher's handler: match the reaction against
// the guild's blacklist, load the guild's settings, and run enforcement.
// Settings failures fall back to defaults rather than dropping the
// violation.
func (b *Bot) HandleViolation(ctx context.Context, event moderation.Event) {
	decision, err := b.Matcher.Check(ctx, event.GuildID, event.Raw)
	if err != nil {
		// Fail open on store errors.
		slog.Error("Blacklist check failed",
			slog.String("type", "moderation"),
			slog.String("guild_id", event.GuildID.String()),
			slog.Any("error", err),
		)
		return
	}
	if !decision.Blocked {
		return
	}
	event.Emoji = decision.Key

	cfg, err := b.ConfigRepository.Get(ctx, event.GuildID)
	if err != nil {
		slog.Error("Failed to load guild settings, using defaults",
			slog.String("type", "moderation"),
			slog.String("guild_id", event.GuildID.String()),
			slog.Any("error", err),
		)
		cfg = models.DefaultGuildConfig(event.GuildID)
	}

	b.Executor.HandleViolation(ctx, event, cfg)
}
