package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"

	"office_manager_notifier/internal/app"
	"office_manager_notifier/internal/infra/config"
	idb "office_manager_notifier/internal/infra/database"
	"office_manager_notifier/internal/infra/email"
	"office_manager_notifier/internal/infra/httpapi"
	"office_manager_notifier/internal/infra/logger"
	"office_manager_notifier/internal/infra/metrics"
	"office_manager_notifier/internal/infra/scheduler"
	"office_manager_notifier/internal/infra/sms"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: could not load application configuration: %v", err)
	}

	appLogger := logger.New(cfg)
	appLogger.WithField("environment", cfg.Environment).Info("office manager notifier starting")

	db, err := idb.NewPostgresConnection(cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		appLogger.Fatalf("could not connect to database: %v", err)
	}
	defer db.Close()

	if err := idb.RunMigrations(db); err != nil {
		appLogger.Fatalf("could not apply database migrations: %v", err)
	}
	appLogger.Info("database ready")

	companyRepo := idb.NewPostgresCompanyRepository(db)
	paymentRepo := idb.NewPostgresPaymentRepository(db)
	expenseRepo := idb.NewPostgresExpenseRepository(db)
	settingsRepo := idb.NewPostgresSettingsRepository(db)
	logRepo := idb.NewPostgresLogRepository(db)

	m := metrics.New(prometheus.DefaultRegisterer)

	smsSender := sms.NewAligoClient(cfg.SendTimeout)
	emailSender := email.NewSmtpClient()

	dispatcher := app.NewDispatcher(logRepo, smsSender, emailSender, m, appLogger, cfg.SendTimeout, cfg.DispatchWorkers)
	notifService := app.NewNotificationService(companyRepo, paymentRepo, settingsRepo, dispatcher, m, appLogger)
	settingsService := app.NewSettingsService(settingsRepo)

	trigger := scheduler.NewTrigger(notifService, appLogger, cfg.CronSpec)
	if err := trigger.Start(); err != nil {
		appLogger.Fatalf("could not start notification trigger: %v", err)
	}

	fiberApp := fiber.New(fiber.Config{
		AppName:               "office-manager-notifier",
		DisableStartupMessage: true,
	})
	httpapi.Router(fiberApp, httpapi.RouterDeps{
		Companies: companyRepo,
		Payments:  paymentRepo,
		Expenses:  expenseRepo,
		Logs:      logRepo,
		Settings:  settingsService,
		Notifier:  notifService,
	})

	go func() {
		appLogger.WithField("addr", cfg.ListenAddr).Info("admin API listening")
		if err := fiberApp.Listen(cfg.ListenAddr); err != nil {
			appLogger.Fatalf("admin API stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("shutting down")
	trigger.Stop()
	if err := fiberApp.Shutdown(); err != nil {
		appLogger.Errorf("admin API shutdown: %v", err)
	}
	appLogger.Info("shut down gracefully")
}
