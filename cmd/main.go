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

	"smartalert/backend/internal/api/handler"
	"smartalert/backend/internal/complaint"
	"smartalert/backend/internal/config"
	"smartalert/backend/internal/eventhub"
	"smartalert/backend/internal/localization"
	"smartalert/backend/internal/session"
	"smartalert/backend/internal/storage"
	"smartalert/backend/internal/telegram"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func setupDependencies(ctx context.Context, cfg config.Config) (*gorm.DB, *redis.Client) {
	// 1. База даних
	db, err := storage.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatalf("Failed to connect %s: %v", cfg.DBDriver, err)
	}

	// 2. Міграції (Створення таблиць)
	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// 3. Redis (необов'язковий)
	if cfg.RedisAddr == "" {
		log.Println("INFO: REDIS_ADDR not set, using in-memory sessions and cache")
		return db, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func main() {
	log.Println("Starting SmartAlert Backend...")

	configPath := os.Getenv("SMARTALERT_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Ініціалізація залежностей
	db, rdb := setupDependencies(ctx, cfg)

	var kv storage.KV = storage.NewMemoryKV()
	if rdb != nil {
		kv = storage.NewRedisKV(rdb)
	}

	loc, err := localization.NewLocalizer(cfg.LocalizationDir, cfg.DefaultLanguage)
	if err != nil {
		log.Fatalf("Failed to load translations: %v", err)
	}

	s := storage.NewStorageService(db, kv, rdb, cfg.CacheTTL)

	// 2. Хаб подій для WebSocket-клієнтів
	hub := eventhub.NewManagerService(rdb)
	if rdb == nil {
		s.LocalEvents = hub.Dispatch
	}
	go hub.Run(ctx) // subscribes to Redis itself when rdb is set

	sessions := session.NewManager(kv, s, cfg.JWTSecret, cfg.SessionTTL)
	complaints := complaint.NewService(s, kv, loc, cfg.StrictStatusTransitions)
	complaints.Language = cfg.DefaultLanguage

	// 3. Telegram (необов'язковий)
	if cfg.TelegramBotToken != "" {
		botService, err := telegram.NewBotService(cfg.TelegramBotToken, s, loc)
		if err != nil {
			log.Fatalf("Не вдалося запустити Telegram-бота: %v", err)
		}
		complaints.Notifier = telegram.NewNotifier(botService.Bot, loc)
		go botService.Run(ctx)
	} else {
		log.Println("INFO: TELEGRAM_BOT_TOKEN not set, status notifications are disabled")
	}

	// 4. Налаштування Gin та роутингу
	h := handler.NewHandler(sessions, complaints, s, hub, loc)
	h.Language = cfg.DefaultLanguage

	server := &http.Server{
		Addr:           cfg.HTTPAddr,
		Handler:        handler.NewRouter(h),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Printf("INFO: Listening on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("INFO: Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: Graceful shutdown failed: %v", err)
	}
	if rdb != nil {
		_ = rdb.Close()
	}
}
