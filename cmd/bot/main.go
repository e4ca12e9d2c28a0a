package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // TIMEZONE must resolve in minimal containers

	"nt_reading_bot/internal/app"
	"nt_reading_bot/internal/domain/plan"
	"nt_reading_bot/internal/infra/config"
	idb "nt_reading_bot/internal/infra/database"
	"nt_reading_bot/internal/infra/logger"
	"nt_reading_bot/internal/infra/scheduler"
	"nt_reading_bot/internal/infra/telegram"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("FATAL: Could not load application configuration: %v", err)
	}
	logger.Init(cfg)
	mainLogger := logger.Component("main")

	mainLogger.WithFields(logrus.Fields{
		"environment": cfg.Environment,
		"timezone":    cfg.Location.String(),
		"plan_start":  cfg.PlanStartDate.Format("2006-01-02"),
		"admin_id":    cfg.AdminTelegramID,
	}).Info("Configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		mainLogger.Fatalf("Could not connect to database: %v", err)
	}
	defer db.Close()
	mainLogger.Info("Database connection established successfully.")

	if cfg.ApplySchemaOnStart {
		if err := idb.ApplySchema(ctx, db); err != nil {
			mainLogger.Fatalf("Could not apply database schema: %v", err)
		}
		mainLogger.Info("Database schema is up to date.")
	}

	readerRepo := idb.NewPostgresReaderRepository(db)
	checkinRepo := idb.NewPostgresCheckInRepository(db)
	schedule := plan.NewSchedule(cfg.PlanStartDate)

	pref := telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) {
			entry := logger.Component("telebot").WithError(err)
			if c != nil && c.Sender() != nil {
				entry = entry.WithField("sender_id", c.Sender().ID)
			}
			entry.Error("Unhandled bot error")
		},
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		mainLogger.Fatalf("Could not create Telegram bot: %v", err)
	}

	readingService := app.NewReadingService(
		readerRepo,
		checkinRepo,
		telegram.NewTelebotAdapter(bot),
		schedule,
		cfg.Location,
		logger.Component("reading_service"),
	)
	adminService := app.NewAdminService(readerRepo, checkinRepo, schedule, cfg.AdminTelegramID)

	handlerLogger := logger.Component("telegram")
	telegram.RegisterBotCommands(ctx, bot, readingService, adminService, handlerLogger)
	telegram.RegisterCheckInHandlers(ctx, bot, readingService, cfg.Location, handlerLogger)
	telegram.RegisterAdminHandlers(ctx, bot, adminService, readingService, handlerLogger)
	mainLogger.Info("Bot handlers registered.")

	readingScheduler := scheduler.NewReadingScheduler(
		readingService,
		logger.Component("scheduler"),
		cfg.Location,
		cfg.CronSpecDailyReading,
		cfg.CronSpecEveningReminder,
	)
	if err := readingScheduler.Start(); err != nil {
		mainLogger.Fatalf("Could not start scheduler: %v", err)
	}

	go bot.Start()
	mainLogger.Info("Application setup complete. Bot and scheduler are running.")

	<-ctx.Done()

	mainLogger.Info("Shutting down application...")
	bot.Stop()
	readingScheduler.Stop()
	mainLogger.Info("Application shut down gracefully.")
}
