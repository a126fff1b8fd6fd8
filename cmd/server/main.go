package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"college-schedule/backend/config"
	"college-schedule/backend/internal/api/handler"
	"college-schedule/backend/internal/api/middleware"
	"college-schedule/backend/internal/api/router"
	"college-schedule/backend/internal/repository"
	"college-schedule/backend/internal/service"
	"college-schedule/backend/pkg/cache"
	"college-schedule/backend/pkg/database"
	applogger "college-schedule/backend/pkg/logger"
	"college-schedule/backend/pkg/redis"
	"college-schedule/backend/pkg/storage"
)

func main() {
	configPath := flag.String("config", "", "путь к файлу конфигурации")
	flag.Parse()

	// 1. Переменные окружения из .env, если файл есть
	_ = godotenv.Load()

	// 2. Конфигурация
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "загрузка конфигурации: %v\n", err)
		os.Exit(1)
	}

	// 3. Логгер
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "инициализация логгера: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info("запуск сервиса расписаний",
		zap.Int("port", cfg.Server.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("storage", cfg.Storage.Backend),
	)

	// 4. База данных и миграции
	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("подключение к БД", zap.Error(err))
	}
	if err := database.Migrate(db, cfg.Database.Driver, logger); err != nil {
		logger.Fatal("миграции БД", zap.Error(err))
	}

	// 5. Redis необязателен: без него блокировка, лимиты и версия кэша действуют в пределах процесса
	var (
		rdb     *redis.Client
		dist    service.DistributedLock
		limiter middleware.Limiter
		gen     cache.Generation = cache.NewLocalGeneration()
	)
	if cfg.Redis.Enabled {
		rdb, err = redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("Redis недоступен, работа без распределённой блокировки", zap.Error(err))
			rdb = nil
		} else {
			dist, limiter = rdb, rdb
			gen = rdb.Generation("groups")
		}
	}

	// 6. Хранилище документов
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.New(ctx, &cfg.Storage, logger)
	if err != nil {
		logger.Fatal("инициализация хранилища", zap.Error(err))
	}

	// 7. Зависимости: Repository → Service → Handler
	repo := repository.NewRepository(db)
	locker := service.NewLocker(dist, cfg.Ingest.LockTTL, logger)
	svc := service.NewService(cfg, repo, store, cache.NewVersioned(cache.New(cfg.Cache.TTL), gen), locker, logger)
	h := handler.NewHandler(svc)

	// 8. Периодическое перечитывание сохранённого документа
	refresher := service.NewRefresher(svc.Ingest, cfg.Ingest.RefreshInterval, logger)
	go refresher.Run(ctx)

	// 9. HTTP-сервер
	engine := router.Setup(cfg, h, limiter, logger)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("HTTP-сервер запущен", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("ошибка HTTP-сервера", zap.Error(err))
		}
	}()

	// 10. Ожидание сигнала и плавная остановка
	<-ctx.Done()
	logger.Info("получен сигнал остановки")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("остановка HTTP-сервера", zap.Error(err))
	}

	if sqlDB, _ := db.DB(); sqlDB != nil {
		sqlDB.Close()
	}
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("сервис остановлен")
}
