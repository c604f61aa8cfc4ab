package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"pdpi_backend/internals/configs"
	database "pdpi_backend/internals/databases"
	"pdpi_backend/internals/deps"
	duesScheduler "pdpi_backend/internals/features/dues/scheduler"
	authScheduler "pdpi_backend/internals/features/users/auth/scheduler"
	middlewares "pdpi_backend/internals/middlewares"
	routes "pdpi_backend/internals/route"
)

func main() {
	configs.LoadEnv()
	log := configs.NewLoggerFromEnv("pdpi-api")
	defer func() { _ = log.Sync() }()

	app := fiber.New(fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		BodyLimit:               (configs.GetEnvInt("IMPORT_MAX_MB", 10) + 2) << 20,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"}, // sesuaikan dengan CIDR proxy
	})

	// ⚙️ middleware dasar + performa
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())
	middlewares.SetupMiddlewares(app, log)

	// 🔌 DB connect + pool + warm-up
	database.ConnectDB(log)
	database.TunePool(log)
	if configs.GetEnvBool("DB_AUTO_MIGRATE", true) {
		if err := database.AutoMigrate(database.DB, log); err != nil {
			log.Fatal("migrasi gagal", zap.Error(err))
		}
	}
	database.WarmUpQueries(log)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	d := deps.FromEnv(ctx, database.DB, log)

	if email := configs.GetEnv("SUPERADMIN_EMAIL"); email != "" {
		created, err := d.Auth.EnsureSuperAdmin(ctx, email, configs.GetEnv("SUPERADMIN_PASSWORD"))
		if err != nil {
			log.Error("super admin awal gagal dibuat", zap.Error(err))
		} else if created {
			log.Info("super admin awal dibuat", zap.String("email", email))
		}
	}

	// ⏱ scheduler setelah DB siap
	jobs := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	if err := authScheduler.RegisterBlacklistCleanup(jobs, database.DB, log); err != nil {
		log.Fatal("cron blacklist", zap.Error(err))
	}
	if err := duesScheduler.RegisterPaymentExpiry(jobs, d.Dues, log); err != nil {
		log.Fatal("cron iuran", zap.Error(err))
	}
	jobs.Start()

	// file upload lokal (tanpa OSS)
	if configs.GetEnv("ALI_OSS_BUCKET") == "" {
		app.Static(configs.GetEnv("UPLOAD_PUBLIC_BASE", "/uploads"), configs.GetEnv("UPLOAD_DIR", "./uploads"), fiber.Static{
			MaxAge: 3600,
		})
	}

	routes.SetupRoutes(app, d)

	// 🔒 Keep-Alive & timeout koneksi server
	app.Server().ReadTimeout = 30 * time.Second
	app.Server().WriteTimeout = 60 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := configs.GetEnv("PORT", "3000")

	go func() {
		log.Info(fmt.Sprintf("✅ Listening on :%s", port))
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	// graceful shutdown + tutup pool DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down...")

	cronCtx := jobs.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(shutdownCtx)
	select {
	case <-cronCtx.Done():
	case <-shutdownCtx.Done():
		log.Warn("cron job belum selesai saat shutdown")
	}
	stop()
	database.Close()
}
