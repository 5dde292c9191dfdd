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

	"github.com/Freeeeeet/tutor_connect/internal/app"
	"github.com/Freeeeeet/tutor_connect/internal/config"
	"github.com/Freeeeeet/tutor_connect/internal/controller"
	"github.com/Freeeeeet/tutor_connect/internal/controller/handlers"
	"github.com/Freeeeeet/tutor_connect/internal/metrics"
	"github.com/Freeeeeet/tutor_connect/internal/service"
	"github.com/Freeeeeet/tutor_connect/internal/session"
	"github.com/go-telegram/bot"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := app.NewLogger(cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Starting tutor connect bot",
		zap.String("store", cfg.StoreDriver),
		zap.String("cache", cfg.CacheDriver),
		zap.String("timezone", cfg.Timezone))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dir, closeDir, err := app.OpenDirectory(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open directory", zap.Error(err))
	}
	defer closeDir()

	cacheStore, err := app.OpenCache(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open bookings cache", zap.Error(err))
	}
	defer cacheStore.Close()

	authService := service.NewAuthService(dir, logger)
	userService := service.NewUserService(dir, logger)
	slotService := service.NewSlotService(dir, logger)
	bookingService := service.NewBookingService(dir, logger)

	scheduler := app.NewScheduler(slotService, cfg.SlotPruneInterval, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	metricsServer := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           metrics.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("Metrics server listening", zap.String("addr", cfg.MetricsAddr))
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", zap.Error(err))
		}
	}()

	b, err := bot.New(cfg.TelegramToken)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	h := handlers.NewHandlers(
		authService,
		userService,
		slotService,
		bookingService,
		cacheStore,
		session.NewManager(),
		cfg.Location(),
		logger,
	)
	defer h.Close()

	botController := controller.NewBotController(b, h, logger)
	if err := botController.RegisterHandlers(ctx); err != nil {
		logger.Warn("Bot commands menu is not set", zap.Error(err))
	}

	// Блокируется до сигнала остановки
	if err := botController.Start(ctx); err != nil {
		logger.Error("Bot stopped with error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Failed to stop metrics server", zap.Error(err))
	}

	logger.Info("Bot stopped")
}
