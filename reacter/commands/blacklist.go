package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/paginator"
	"github.com/sahilm/fuzzy"
	"github.com/vohk/reacter/reacter"
	"github.com/vohk/reacter/reacter/config"
	"github.com/vohk/reacter/reacter/database/models"
	"github.com/vohk/reacter/reacter/emoji"
)

const entriesPerPage = 15

func BlacklistHandler(b *reacter.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.DefaultQueryTimeout)
		defer cancel()

		guildID := *e.GuildID()
		data := e.SlashCommandInteractionData()

		switch *data.SubCommandName {
		case "show":
			return handleBlacklistShow(ctx, b, e)
		case "add":
			return handleBlacklistAdd(ctx, b, e, data.String("emoji"))
		case "remove":
			return handleBlacklistRemove(ctx, b, e, data.String("emoji"))
		case "search":
			return handleBlacklistSearch(ctx, b, e, data.String("query"))
		case "clear":
			if !data.Bool("confirm") {
				return respondError(e, "Pass `confirm: True` to wipe the blacklist.")
			}
			removed, err := b.BlacklistRepository.Clear(ctx, guildID)
			if err != nil {
				return respondError(e, "Failed to clear the blacklist.")
			}
			return respondSuccess(e, fmt.Sprintf("Cleared the blacklist. %d entries removed.", removed))
		default:
			return respondError(e, "Unknown subcommand.")
		}
	}
}

func handleBlacklistShow(ctx context.Context, b *reacter.Bot, e *handler.CommandEvent) error {
	entries, err := b.BlacklistRepository.List(ctx, *e.GuildID())
	if err != nil {
		return respondError(e, "Failed to load the blacklist.")
	}
	if len(entries) == 0 {
		return respondInfo(e, "No emoji are blacklisted in this server.")
	}

	totalPages := (len(entries) + entriesPerPage - 1) / entriesPerPage

	return b.Paginator.Create(e.Respond, paginator.Pages{
		ID:      e.ID().String(),
		Creator: e.User().ID,
		PageFunc: func(page int, embed *discord.EmbedBuilder) {
			start := page * entriesPerPage
			end := min(start+entriesPerPage, len(entries))

			var description strings.Builder
			for _, entry := range entries[start:end] {
				description.WriteString(formatEntry(entry))
				description.WriteString("\n")
			}

			embed.
				SetTitle("Blacklisted Emoji").
				SetDescription(description.String()).
				SetColor(0x2B2D31).
				SetFooter(fmt.Sprintf("Page %d/%d • Total: %d", page+1, totalPages, len(entries)), "")
		},
		Pages:      totalPages,
		ExpireMode: paginator.ExpireModeAfterLastUsage,
	}, false)
}

func handleBlacklistAdd(ctx context.Context, b *reacter.Bot, e *handler.CommandEvent, raw string) error {
	key, err := emoji.Parse(raw)
	if err != nil {
		return respondError(e, fmt.Sprintf("Could not understand %q as an emoji.", raw))
	}

	added, err := b.BlacklistRepository.Add(ctx, *e.GuildID(), key)
	if err != nil {
		return respondError(e, "Failed to update the blacklist.")
	}
	if !added {
		return respondInfo(e, fmt.Sprintf("%s is already blacklisted.", key.Display()))
	}
	return respondSuccess(e, fmt.Sprintf("Blacklisted %s. Reacting with it now removes the reaction and times the member out.", key.Display()))
}

func handleBlacklistRemove(ctx context.Context, b *reacter.Bot, e *handler.CommandEvent, raw string) error {
	key, err := emoji.Parse(raw)
	if err != nil {
		return respondError(e, fmt.Sprintf("Could not understand %q as an emoji.", raw))
	}

	removed, err := b.BlacklistRepository.Remove(ctx, *e.GuildID(), key)
	if err != nil {
		return respondError(e, "Failed to update the blacklist.")
	}
	if !removed {
		return respondInfo(e, fmt.Sprintf("%s was not blacklisted.", key.Display()))
	}
	return respondSuccess(e, fmt.Sprintf("Removed %s from the blacklist.", key.Display()))
}

func handleBlacklistSearch(ctx context.Context, b *reacter.Bot, e *handler.CommandEvent, query string) error {
	entries, err := b.BlacklistRepository.List(ctx, *e.GuildID())
	if err != nil {
		return respondError(e, "Failed to load the blacklist.")
	}
	if len(entries) == 0 {
		return respondInfo(e, "No emoji are blacklisted in this server.")
	}

	names := make([]string, len(entries))
	for i, entry := range entries {
		if entry.EmojiType == string(emoji.TypeCustom) && entry.EmojiName != "" {
			names[i] = entry.EmojiName
		} else {
			names[i] = entry.EmojiValue
		}
	}

	matches := fuzzy.Find(query, names)
	if len(matches) == 0 {
		return respondInfo(e, fmt.Sprintf("No blacklisted emoji match %q.", query))
	}
	if len(matches) > 10 {
		matches = matches[:10]
	}

	var description strings.Builder
	for _, match := range matches {
		description.WriteString(formatEntry(entries[match.Index]))
		description.WriteString("\n")
	}

	return e.CreateMessage(discord.NewMessageCreateBuilder().
		SetEmbeds(discord.NewEmbedBuilder().
			SetTitle(fmt.Sprintf("Matches for %q", query)).
			SetDescription(description.String()).
			SetColor(0x2B2D31).
			Build()).
		Build())
}

func formatEntry(entry *models.BlacklistEntry) string {
	key := entry.Key()
	if key.Type == emoji.TypeCustom {
		return fmt.Sprintf("%s `%s` (id %s)", key.Display(), key.Name, key.Value)
	}
	return fmt.Sprintf("%s `%s`", key.Display(), key.Value)
}

func respondSuccess(e *handler.CommandEvent, message string) error {
	return respond(e, message, 0x57F287)
}

func respondInfo(e *handler.CommandEvent, message string) error {
	return respond(e, message, 0x2B2D31)
}

func respondError(e *handler.CommandEvent, message string) error {
	return respond(e, message, 0xED4245)
}

func respond(e *handler.CommandEvent, message string, color int) error {
	return e.CreateMessage(discord.NewMessageCreateBuilder().
		SetEmbeds(discord.NewEmbedBuilder().
			SetDescription(message).
			SetColor(color).
			Build()).
		Build())
}
