package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	taskpayroot "github.com/taskpay-bot/taskpay"
	"github.com/taskpay-bot/taskpay/internal/config"
	"github.com/taskpay-bot/taskpay/internal/dispatcher"
	"github.com/taskpay-bot/taskpay/internal/middleware"
	"github.com/taskpay-bot/taskpay/internal/repository"
	"github.com/taskpay-bot/taskpay/internal/service"
	"github.com/taskpay-bot/taskpay/internal/telegram"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open the ledger store: Postgres when configured, flat files otherwise
	var store repository.Store
	if cfg.DatabaseURL != "" {
		pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		migrationsFS, err := fs.Sub(taskpayroot.MigrationsFS, "migrations")
		if err != nil {
			slog.Error("failed to load embedded migrations", "error", err)
			os.Exit(1)
		}
		if err := repository.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}

		store, err = repository.NewPostgresStore(ctx, pool)
		if err != nil {
			slog.Error("failed to load ledger from database", "error", err)
			os.Exit(1)
		}
	} else {
		store, err = repository.NewFileStore(cfg.DataDir)
		if err != nil {
			slog.Error("failed to open file store", "error", err)
			os.Exit(1)
		}
	}

	scratch, err := repository.NewScratch(cfg.TempDir())
	if err != nil {
		slog.Error("failed to create scratch dir", "error", err)
		os.Exit(1)
	}

	// Initialize services
	userService := service.NewUserService(store)
	accrualService := service.NewAccrualService(store, cfg.CreditAmount, cfg.MaxCreditDays)
	withdrawalService := service.NewWithdrawalService(store, cfg.MinWithdraw)
	previewService := service.NewPreviewService(config.PreviewTimeout)

	// Adapter pointer for use in default handler closure
	var adapter *telegram.Adapter

	// Create bot
	opts := []bot.Option{
		bot.WithMiddlewares(
			middleware.Recover(),
			middleware.Logging(),
		),
		bot.WithDefaultHandler(func(ctx context.Context, b *bot.Bot, update *models.Update) {
			if adapter != nil {
				adapter.HandleUpdate(ctx, b, update)
			}
		}),
	}

	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		slog.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	// Get bot info
	me, err := b.GetMe(ctx)
	if err != nil {
		slog.Error("failed to get bot info", "error", err)
		os.Exit(1)
	}
	slog.Info("bot info retrieved", "id", me.ID, "username", me.Username)

	// Initialize dispatcher and adapter
	d := dispatcher.New(dispatcher.Deps{
		Cfg:         cfg,
		Store:       store,
		Users:       userService,
		Accrual:     accrualService,
		Withdrawals: withdrawalService,
		Preview:     previewService,
		Scratch:     scratch,
		Sender:      telegram.NewSender(b),
		FetchMedia: func(ctx context.Context, ref string) ([]byte, error) {
			return telegram.DownloadFile(ctx, b, ref)
		},
	})
	adapter = telegram.NewAdapter(d)

	// Start bot
	slog.Info("starting bot", "username", me.Username, "id", me.ID)
	b.Start(ctx)

	slog.Info("bot stopped gracefully")
}
