package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/vohk/reacter/reacter"
	"github.com/vohk/reacter/reacter/config"
	"github.com/vohk/reacter/reacter/database/repositories"
	"github.com/vohk/reacter/reacter/emoji"
)

const dumpEntryLimit = 20

func DebugHandler(b *reacter.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		data := e.SlashCommandInteractionData()

		switch *data.SubCommandName {
		case "check":
			return handleDebugCheck(ctx, b, e, data.String("emoji"))
		case "dump":
			return handleDebugDump(ctx, b, e)
		case "perms":
			return handleDebugPerms(b, e)
		default:
			return respondError(e, "Unknown subcommand.")
		}
	}
}

func handleDebugCheck(ctx context.Context, b *reacter.Bot, e *handler.CommandEvent, raw string) error {
	key, err := emoji.Parse(raw)
	if err != nil {
		return respondError(e, fmt.Sprintf("%q does not parse as an emoji: %v", raw, err))
	}

	blocked, err := b.BlacklistRepository.IsBlacklisted(ctx, *e.GuildID(), key)
	if err != nil {
		return respondError(e, "Blacklist lookup failed.")
	}

	status := "not blacklisted"
	color := 0x57F287
	if blocked {
		status = "blacklisted"
		color = 0xED4245
	}

	return e.CreateMessage(discord.NewMessageCreateBuilder().
		SetEmbeds(discord.NewEmbedBuilder().
			SetTitle("Emoji Check").
			SetColor(color).
			AddField("Input", fmt.Sprintf("`%s`", raw), true).
			AddField("Parsed", fmt.Sprintf("`%s`", key), true).
			AddField("Status", status, true).
			Build()).
		Build())
}

func handleDebugDump(ctx context.Context, b *reacter.Bot, e *handler.CommandEvent) error {
	guildID := *e.GuildID()

	cfg, err := b.ConfigRepository.Get(ctx, guildID)
	if err != nil {
		return respondError(e, "Failed to load the guild config.")
	}
	entries, err := b.BlacklistRepository.List(ctx, guildID)
	if err != nil {
		return respondError(e, "Failed to load the blacklist.")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "timeout_seconds: %d\n", cfg.TimeoutSeconds)
	fmt.Fprintf(&sb, "dm_on_timeout: %t\n", cfg.DMOnTimeout)
	if cfg.LogChannelID != nil {
		fmt.Fprintf(&sb, "log_channel_id: %s\n", cfg.LogChannelID)
	} else {
		sb.WriteString("log_channel_id: null\n")
	}

	record, err := b.MigrationRepository.Get(ctx, guildID)
	switch {
	case err == nil:
		fmt.Fprintf(&sb, "migrated: %s (imported %d, skipped %d)\n",
			record.MigratedAt.Format("2006-01-02"), record.ImportedCount, record.SkippedCount)
	case repositories.IsNotFound(err):
		sb.WriteString("migrated: no\n")
	default:
		return respondError(e, "Failed to load the migration record.")
	}

	fmt.Fprintf(&sb, "blacklist entries: %d\n", len(entries))
	for i, entry := range entries {
		if i == dumpEntryLimit {
			fmt.Fprintf(&sb, "... and %d more\n", len(entries)-dumpEntryLimit)
			break
		}
		fmt.Fprintf(&sb, "  %s\n", entry.Key())
	}

	stat := b.DB.GetPool().Stat()
	fmt.Fprintf(&sb, "db pool: %d/%d connections, %d acquired\n",
		stat.TotalConns(), stat.MaxConns(), stat.AcquiredConns())

	return e.CreateMessage(discord.NewMessageCreateBuilder().
		SetEmbeds(discord.NewEmbedBuilder().
			SetTitle("Guild State").
			SetDescription(fmt.Sprintf("```\n%s```", sb.String())).
			SetColor(0x2B2D31).
			Build()).
		Build())
}

func handleDebugPerms(b *reacter.Bot, e *handler.CommandEvent) error {
	guildID := *e.GuildID()

	selfUser, ok := b.Client.Caches().SelfUser()
	if !ok {
		return respondError(e, "Self user not cached yet.")
	}
	member, ok := b.Client.Caches().Member(guildID, selfUser.ID)
	if !ok {
		return respondError(e, "Bot member not cached for this guild.")
	}
	perms := b.Client.Caches().MemberPermissions(member)

	check := func(p discord.Permissions) string {
		if perms.Has(p) {
			return "✅"
		}
		return "❌"
	}

	return e.CreateMessage(discord.NewMessageCreateBuilder().
		SetEmbeds(discord.NewEmbedBuilder().
			SetTitle("Bot Permissions").
			SetColor(0x2B2D31).
			AddField("Manage Messages", check(discord.PermissionManageMessages), true).
			AddField("Moderate Members", check(discord.PermissionModerateMembers), true).
			AddField("Send Messages", check(discord.PermissionSendMessages), true).
			AddField("Embed Links", check(discord.PermissionEmbedLinks), true).
			Build()).
		Build())
}
