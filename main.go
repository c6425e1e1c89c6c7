package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/handler"
	"github.com/vohk/reacter/reacter"
	"github.com/vohk/reacter/reacter/commands"
	"github.com/vohk/reacter/reacter/config"
	"github.com/vohk/reacter/reacter/database"
	"github.com/vohk/reacter/reacter/database/repositories"
	"github.com/vohk/reacter/reacter/handlers"
	"github.com/vohk/reacter/reacter/logger"
	"github.com/vohk/reacter/reacter/migration"
	"github.com/vohk/reacter/reacter/moderation"
	"github.com/vohk/reacter/reacter/services"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	slog.SetDefault(slog.New(logger.NewHandler(slog.LevelInfo)))

	slog.Info("Starting Reacter",
		slog.String("version", version),
		slog.String("commit", commit))

	shouldSyncCommands := flag.Bool("sync-commands", false, "Whether to sync commands to discord")
	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	cfg, err := reacter.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}
	// Re-init logging at the configured level now that we know it.
	slog.SetDefault(slog.New(logger.NewHandler(cfg.Log.Level)))
	slog.Info("Configuration loaded successfully")

	slog.Info("Initializing database connection...")
	dbStartTime := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := database.New(ctx, database.DBConfig{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Database,
		PoolSize: cfg.DB.PoolSize,
	})
	if err != nil {
		slog.Error("Database connection failed",
			slog.String("error", err.Error()),
			slog.Duration("attempted_for", time.Since(dbStartTime)))
		os.Exit(-1)
	}

	slog.Info("Database connected successfully",
		slog.String("database", cfg.DB.Database),
		slog.Duration("took", time.Since(dbStartTime)))

	if err := db.InitializeSchema(ctx); err != nil {
		slog.Error("Failed to initialize database schema",
			slog.String("error", err.Error()))
		os.Exit(-1)
	}
	if err := db.Ping(ctx); err != nil {
		slog.Error("Database health check failed",
			slog.String("error", err.Error()))
		os.Exit(-1)
	}
	slog.Info("Database schema initialized successfully")

	defer db.Close()

	b := reacter.New(*cfg, version, commit)
	b.DB = db
	b.ConfigRepository = repositories.NewConfigRepository(db.BunDB())
	b.BlacklistRepository = repositories.NewBlacklistRepository(db.BunDB())
	b.MigrationRepository = repositories.NewMigrationRepository(db.BunDB())

	var uploader migration.SnapshotUploader
	if cfg.Spaces.Enabled {
		b.BackupService = services.NewBackupService(
			cfg.Spaces.Key,
			cfg.Spaces.Secret,
			cfg.Spaces.Region,
			cfg.Spaces.Bucket,
			cfg.Spaces.BackupRoot,
		)
		uploader = b.BackupService
	}

	b.Migrator = migration.NewMigrator(b.BlacklistRepository, b.MigrationRepository, uploader, migration.Options{
		LegacyFile: cfg.Migration.LegacyFile,
		BackupDir:  cfg.Migration.BackupDir,
	})
	b.Matcher = moderation.NewMatcher(b.BlacklistRepository, b.Migrator)
	b.Dispatcher = moderation.NewDispatcher(b.HandleViolation, 16)
	defer b.Dispatcher.Close()

	h := handler.New()
	h.Command("/blacklist", handlers.WrapWithLogging("blacklist", commands.BlacklistHandler(b)))
	h.Command("/settings", handlers.WrapWithLogging("settings", commands.SettingsHandler(b)))
	h.Command("/debug", handlers.WrapWithLogging("debug", commands.DebugHandler(b)))

	if err = b.SetupBot(h, bot.NewListenerFunc(b.OnReady), handlers.ReactionHandler(b), handlers.GuildReadyHandler(b)); err != nil {
		slog.Error("Failed to setup bot",
			slog.String("type", "sys"),
			slog.Any("error", err),
			slog.String("component", "bot_setup"),
			slog.String("status", "failed"),
		)
		os.Exit(-1)
	}

	// Enforcement needs the client, which only exists after SetupBot.
	b.Executor = moderation.NewExecutor(
		moderation.NewDiscordPlatform(b.Client),
		moderation.NewCooldownGate(config.TimeoutCooldown),
		b.GuildName,
	)

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		b.Client.Close(ctx)
	}()

	if *shouldSyncCommands {
		slog.Info("Syncing commands",
			slog.String("type", "sys"),
			slog.Any("guild_ids", cfg.Bot.DevGuilds),
		)
		if err = handler.SyncCommands(b.Client, commands.Commands, cfg.Bot.DevGuilds); err != nil {
			slog.Error("Failed to sync commands",
				slog.String("type", "sys"),
				slog.Any("error", err),
				slog.String("error_details", fmt.Sprintf("%+v", err)),
				slog.String("component", "command_sync"),
				slog.String("status", "failed"),
			)
		}
	}

	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = b.Client.OpenGateway(ctx); err != nil {
		slog.Error("Failed to open gateway",
			slog.String("type", "sys"),
			slog.Any("error", err),
			slog.String("component", "gateway"),
			slog.String("status", "failed"),
		)
		os.Exit(-1)
	}

	slog.Info("Bot is running. Press CTRL-C to exit.")
	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
	<-s
	slog.Info("Shutting down bot...")
}
