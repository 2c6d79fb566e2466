package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lodge-desk/config"
	"lodge-desk/controllers"
	"lodge-desk/filestore"
	"lodge-desk/models"
	"lodge-desk/routes"
	"lodge-desk/services"
	"lodge-desk/store"
)

func main() {
	dotenv := config.LoadDotEnv()
	cfg := config.Load()

	logger, err := config.NewLogger(cfg.LogLevel, cfg.LogFormat, "lodge-desk")
	if err != nil {
		log.Fatalf("❌ init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	if !dotenv {
		logger.Info("⚠️  .env not found or couldn't load it; continuing with environment variables")
	}
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	snapStore, closeStore, err := store.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("❌ open store", zap.Error(err))
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("close store", zap.Error(err))
		}
	}()

	photos, err := filestore.Open(cfg)
	if err != nil {
		logger.Fatal("❌ open file store", zap.Error(err))
	}

	defaultRooms := cfg.DefaultRooms
	if len(defaultRooms) == 0 {
		defaultRooms = models.DefaultRoomNumbers()
	}
	ledgerOpts := []services.Option{services.WithPhotoStore(photos)}
	snap, err := services.Bootstrap(ctx, snapStore, defaultRooms, logger)
	if err != nil {
		// ข้อมูลเดิมอ่านไม่ได้: ห้ามเขียนทับ ให้แก้ไฟล์ก่อนแล้วรีสตาร์ท
		logger.Error("⚠️  existing ledger data unreadable, changes will NOT be saved", zap.Error(err))
		ledgerOpts = append(ledgerOpts, services.WithSavesSuspended(err))
	}
	ledger := services.NewLedgerService(snap, snapStore, logger, ledgerOpts...)
	logger.Info("✅ ledger ready", zap.String("store", cfg.StoreDriver))

	roomController := controllers.NewRoomController(ledger, logger)
	bookingController := controllers.NewBookingController(ledger, logger)
	reportController := controllers.NewReportController(ledger, logger)

	uploadDir := ""
	if local, ok := photos.(*filestore.Local); ok {
		uploadDir = local.Dir()
	}
	router := routes.SetupRouter(roomController, bookingController, reportController, routes.Options{
		CORSOrigins: cfg.CORSOrigins,
		UploadDir:   uploadDir,
		Logger:      logger,
	})

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("🚀 Server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("❌ ListenAndServe()", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("⚠️  Shutdown signal received, shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("❌ Server forced to shutdown", zap.Error(err))
		return
	}
	logger.Info("✅ Server stopped gracefully")
}
