package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"

	"attendance_backend/internals/configs"
	database "attendance_backend/internals/databases"
	"attendance_backend/internals/features/reports/scheduler"
	helper "attendance_backend/internals/helpers"
	"attendance_backend/internals/helpers/dbtime"
	"attendance_backend/internals/helpers/oss"
	middlewares "attendance_backend/internals/middlewares"
	routes "attendance_backend/internals/route"
)

func main() {
	configs.LoadEnv()

	cfg, err := configs.Load()
	if err != nil {
		log.Fatalf("❌ Config tidak valid: %v", err)
	}

	app := fiber.New(fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return helper.FromFiberError(c, err)
		},
	})

	// ⚙️ middleware dasar + performa
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault})) // gzip
	app.Use(etag.New())                                                  // 304 caching

	// 🔎 Request-ID + timing
	app.Use(middlewares.RequestIDMiddleware())
	app.Use(func(c *fiber.Ctx) error {
		start := time.Now()
		// HTTP timeout guard (selaras dengan statement_timeout di DB)
		ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
		defer cancel()
		c.SetUserContext(ctx)
		err := c.Next()
		log.Printf("[REQ] id=%v %s %s status=%d dur=%s", c.Locals("requestid"), c.Method(), c.OriginalURL(), c.Response().StatusCode(), time.Since(start))
		return err
	})

	middlewares.SetupMiddlewares(app, cfg)

	// 🔌 DB connect + pool + migrate
	db, err := database.ConnectDB(cfg.DB)
	if err != nil {
		log.Fatalf("❌ Gagal konek database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("❌ Gagal migrasi: %v", err)
	}

	// ✅ Routes
	svcs := routes.BuildServices(db, cfg, nil)
	routes.SetupRoutes(app, db, cfg, svcs)

	// ⏱ snapshot workbook harian (+ backup OSS kalau ALI_OSS_* lengkap)
	job := &scheduler.SnapshotJob{Svc: svcs.Attendance}
	if up, err := oss.NewBucketUploader(cfg.Snapshot); err != nil {
		log.Printf("⚠️ OSS backup dimatikan: %v", err)
	} else if up != nil {
		job.Uploader = up
	}
	snap, err := scheduler.Start(cfg.Snapshot.Cron, dbtime.LoadLocation(cfg.Timezone), job)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	// 🔒 Keep-Alive & timeout koneksi server
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	// Start server non-blocking
	go func() {
		log.Printf("✅ Listening on :%s (tz=%s, workbook=%s)", cfg.Port, cfg.Timezone, cfg.WorkbookPath)
		if err := app.Listen("0.0.0.0:" + cfg.Port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown + tutup pool DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)
	if snap != nil {
		<-snap.Stop().Done()
	}

	database.Close(db)
	log.Println("👋 Server berhenti")
}
