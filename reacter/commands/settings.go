package commands

import (
	"context"
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"
	"github.com/vohk/reacter/reacter"
	"github.com/vohk/reacter/reacter/config"
	"github.com/vohk/reacter/reacter/database/models"
	"github.com/vohk/reacter/reacter/database/repositories"
	"github.com/vohk/reacter/reacter/utils"
)

func SettingsHandler(b *reacter.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		guildID := *e.GuildID()
		data := e.SlashCommandInteractionData()

		switch *data.SubCommandName {
		case "show":
			return handleSettingsShow(ctx, b, e)

		case "timeout":
			duration, err := utils.ParseDuration(data.String("duration"))
			if err != nil {
				return respondError(e, "Could not parse that duration. Use forms like `300`, `5m`, `1h30m` or `2d`.")
			}
			if duration > config.MaxTimeoutDuration {
				return respondError(e, fmt.Sprintf("Timeouts cannot exceed %s.", utils.FormatDuration(config.MaxTimeoutDuration)))
			}

			seconds := int(duration.Seconds())
			if _, err := b.ConfigRepository.Upsert(ctx, guildID, repositories.ConfigPatch{TimeoutSeconds: &seconds}); err != nil {
				return respondError(e, "Failed to save the setting.")
			}
			if seconds == 0 {
				return respondSuccess(e, "Timeouts disabled. Blacklisted reactions are still removed.")
			}
			return respondSuccess(e, fmt.Sprintf("Violators are now timed out for %s.", utils.FormatDuration(duration)))

		case "logchannel":
			patch := repositories.ConfigPatch{}
			channel, ok := data.OptChannel("channel")
			if ok {
				patch.LogChannelID = &channel.ID
			} else {
				// Zero snowflake clears the stored channel.
				cleared := snowflake.ID(0)
				patch.LogChannelID = &cleared
			}
			if _, err := b.ConfigRepository.Upsert(ctx, guildID, patch); err != nil {
				return respondError(e, "Failed to save the setting.")
			}
			if ok {
				return respondSuccess(e, fmt.Sprintf("Moderation actions will be logged to <#%s>.", channel.ID))
			}
			return respondSuccess(e, "Moderation logging disabled.")

		case "dm":
			enabled := data.Bool("enabled")
			if _, err := b.ConfigRepository.Upsert(ctx, guildID, repositories.ConfigPatch{DMOnTimeout: &enabled}); err != nil {
				return respondError(e, "Failed to save the setting.")
			}
			if enabled {
				return respondSuccess(e, "Members will be DMed when they are timed out.")
			}
			return respondSuccess(e, "Timeout DMs disabled.")

		case "reset":
			if !data.Bool("confirm") {
				return respondError(e, "Pass `confirm: True` to reset all settings.")
			}
			if err := b.ConfigRepository.Reset(ctx, guildID); err != nil {
				return respondError(e, "Failed to reset the settings.")
			}
			return respondSuccess(e, "Settings reset to defaults.")

		default:
			return respondError(e, "Unknown subcommand.")
		}
	}
}

func handleSettingsShow(ctx context.Context, b *reacter.Bot, e *handler.CommandEvent) error {
	cfg, err := b.ConfigRepository.Get(ctx, *e.GuildID())
	if err != nil {
		return respondError(e, "Failed to load the settings.")
	}

	timeoutValue := "disabled"
	if cfg.TimeoutSeconds > 0 {
		timeoutValue = utils.FormatDuration(cfg.TimeoutDuration())
	}
	if cfg.TimeoutSeconds == models.DefaultTimeoutSeconds {
		timeoutValue += " (default)"
	}

	dmValue := "No"
	if cfg.DMOnTimeout {
		dmValue = "Yes"
	}

	logValue := "not set"
	if cfg.LogChannelID != nil {
		logValue = fmt.Sprintf("<#%s>", cfg.LogChannelID)
	}

	return e.CreateMessage(discord.NewMessageCreateBuilder().
		SetEmbeds(discord.NewEmbedBuilder().
			SetTitle("Reaction Moderation Settings").
			SetColor(0x2B2D31).
			AddField("Timeout Duration", timeoutValue, true).
			AddField("DM on Timeout", dmValue, true).
			AddField("Log Channel", logValue, true).
			Build()).
		Build())
}
