// cmd/server/main.go
// This is the entry point for the HobbyHokej API server.
// The cmd/ folder holds executable binaries, and internal/ holds the packages they wire together.
package main

import (
	"context"
	"os"
	// signal lets us catch Ctrl+C and SIGTERM (sent by Docker or the host on stop)
	"os/signal"
	"syscall"
	"time"

	// fiber is the web framework: routing, request parsing, JSON responses
	"github.com/gofiber/fiber/v2"
	// cors lets the web client talk to the API from a different origin
	"github.com/gofiber/fiber/v2/middleware/cors"
	// logger prints request details (method, path, status, duration) to stdout
	"github.com/gofiber/fiber/v2/middleware/logger"
	// zerolog is the structured logger every package receives from here
	"github.com/rs/zerolog"

	// Internal packages: our own code, imported by module path
	"github.com/PetrH630/hobbyhokej/internal/config"
	"github.com/PetrH630/hobbyhokej/internal/database"
	"github.com/PetrH630/hobbyhokej/internal/handlers"
	"github.com/PetrH630/hobbyhokej/internal/live"
	"github.com/PetrH630/hobbyhokej/internal/middleware"
	"github.com/PetrH630/hobbyhokej/internal/notify"
	"github.com/PetrH630/hobbyhokej/internal/notify/transport"
	"github.com/PetrH630/hobbyhokej/internal/registration"
	"github.com/PetrH630/hobbyhokej/internal/reminders"
	"github.com/PetrH630/hobbyhokej/internal/settings"
)

func main() {
	// JSON logs with a timestamp on every line; swapped for a readable console
	// writer below when we are not in production.
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	// Load configuration from environment variables (and .env in development).
	// Stop immediately if something required, like DATABASE_URL, is missing.
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if !cfg.IsProduction() {
		log = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	}
	log = log.Level(cfg.Level())

	// Open the connection pool. The *gorm.DB is shared by every store below.
	// At LOG_LEVEL=debug gorm also prints each SQL statement.
	db, err := database.Connect(cfg.DatabaseURL, cfg.Level() <= zerolog.DebugLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	// Keep the schema in sync with migrations/ on every start.
	if err := database.RunMigrations(cfg.DatabaseURL, "migrations"); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}
	// The raw *sql.DB backs the readiness check's ping.
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to access connection pool")
	}

	// ctx is cancelled on Ctrl+C or SIGTERM; background work watches it to stop cleanly.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The hub fans inbox items out to open notification streams.
	hub := live.NewHub()
	go hub.Run(ctx)
	inbox := live.NewInbox(db, hub, log)

	// --- Notifications ---
	// In demo mode outgoing emails and SMS are captured in memory instead of sent.
	var demo *notify.DemoStore
	if cfg.DemoMode {
		demo = notify.NewDemoStore()
		log.Warn().Msg("demo mode: emails and SMS are captured, not sent")
	}
	dispatcher := notify.NewDispatcher(notify.DispatcherOptions{
		Email:    transport.NewMailer(cfg.MailDSN, cfg.MailFrom, log),
		SMS:      transport.NewSMS(cfg.SMSGatewayURL, cfg.SMSGatewayToken, log),
		Demo:     demo,
		Inbox:    inbox,
		Language: cfg.Tag(),
		BaseURL:  cfg.AppBaseURL,
		Location: cfg.Location(),
		Logger:   log.With().Str("component", "notify").Logger(),
	})
	// notifications finds the recipients of an event and applies their preferences.
	notifications := notify.NewService(notify.NewGormDirectory(db), dispatcher, log)

	// --- Registrations ---
	// The state machine behind every register, excuse, lineup and capacity change.
	regs := registration.NewService(
		registration.NewGormStore(db),
		notifications,
		log.With().Str("component", "registration").Logger(),
	)

	// --- Reminders ---
	// A cron job that reminds registered players before their match.
	job := reminders.NewJob(reminders.NewGormStore(db), notifications, log)
	scheduler, err := reminders.NewScheduler(job, cfg.ReminderSchedule, log.With().Str("component", "reminders").Logger())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to schedule reminders")
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Create the Fiber app. AppName shows up in the startup banner.
	app := fiber.New(fiber.Config{
		AppName: "HobbyHokej API",
	})

	// --- Global middleware ---
	// app.Use runs these on every request, in the order they are registered.
	app.Use(logger.New())
	app.Use(cors.New())
	// Hand the request-scoped logger to handlers through the user context.
	app.Use(func(c *fiber.Ctx) error {
		c.SetUserContext(log.WithContext(c.UserContext()))
		return c.Next()
	})

	// --- Public routes ---
	app.Get("/health", handlers.HealthCheck)
	app.Get("/ready", handlers.ReadinessCheck(sqlDB, cfg.DemoMode))

	// --- Authenticated API routes ---
	// Passing middleware.Auth to Group applies it to every route in the group,
	// so no route has to repeat it.
	api := app.Group("/api/v1", middleware.Auth(cfg, db))
	handlers.Mount(api, handlers.Deps{
		Registrations: regs,
		Settings:      settings.NewStore(db),
		Inbox:         inbox,
		Decider:       notifications,
		Hub:           hub,
		Demo:          demo,
	})

	// Listen blocks, so it runs in its own goroutine while main waits for a signal.
	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting server")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	// Wait for Ctrl+C or SIGTERM, then give in-flight requests up to 10s to finish.
	<-ctx.Done()
	log.Info().Msg("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
}
