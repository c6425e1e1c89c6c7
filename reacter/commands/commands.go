package commands

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/json"
)

var Commands = []discord.ApplicationCommandCreate{
	Blacklist,
	Settings,
	Debug,
}

var Blacklist = discord.SlashCommandCreate{
	Name:                     "blacklist",
	Description:              "Manage this server's blacklisted reaction emoji",
	DefaultMemberPermissions: json.NewNullablePtr(discord.PermissionManageMessages),
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionSubCommand{
			Name:        "show",
			Description: "List all blacklisted emoji",
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "add",
			Description: "Blacklist an emoji",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "emoji",
					Description: "Unicode emoji, custom emoji, or a custom emoji ID",
					Required:    true,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "remove",
			Description: "Remove an emoji from the blacklist",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "emoji",
					Description: "Unicode emoji, custom emoji, or a custom emoji ID",
					Required:    true,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "search",
			Description: "Fuzzy-search blacklisted emoji by name",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "query",
					Description: "Part of the emoji name",
					Required:    true,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "clear",
			Description: "Remove every blacklisted emoji",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionBool{
					Name:        "confirm",
					Description: "Set to True to confirm wiping the blacklist",
					Required:    true,
				},
			},
		},
	},
}

var Settings = discord.SlashCommandCreate{
	Name:                     "settings",
	Description:              "Configure reaction moderation for this server",
	DefaultMemberPermissions: json.NewNullablePtr(discord.PermissionManageGuild),
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionSubCommand{
			Name:        "show",
			Description: "Show the current settings",
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "timeout",
			Description: "Set the timeout duration for violations",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "duration",
					Description: "e.g. 300, 5m, 1h30m, 2d. 0 disables timeouts",
					Required:    true,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "logchannel",
			Description: "Set or clear the moderation log channel",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionChannel{
					Name:        "channel",
					Description: "Channel for audit messages. Omit to disable logging",
					Required:    false,
					ChannelTypes: []discord.ChannelType{
						discord.ChannelTypeGuildText,
					},
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "dm",
			Description: "Toggle DM notifications for timed out members",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionBool{
					Name:        "enabled",
					Description: "Whether to DM members when they are timed out",
					Required:    true,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "reset",
			Description: "Reset all settings to their defaults",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionBool{
					Name:        "confirm",
					Description: "Set to True to confirm the reset",
					Required:    true,
				},
			},
		},
	},
}

var Debug = discord.SlashCommandCreate{
	Name:                     "debug",
	Description:              "Inspect reaction moderation state",
	DefaultMemberPermissions: json.NewNullablePtr(discord.PermissionAdministrator),
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionSubCommand{
			Name:        "check",
			Description: "Check how an emoji is parsed and whether it is blacklisted",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "emoji",
					Description: "Emoji to check",
					Required:    true,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "dump",
			Description: "Dump this guild's stored moderation state",
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "perms",
			Description: "Check the bot's own permissions in this guild",
		},
	},
}
