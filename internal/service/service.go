package service

import (
	"context"

	"go.uber.org/zap"

	"college-schedule/backend/config"
	"college-schedule/backend/internal/repository"
	"college-schedule/backend/pkg/cache"
	"college-schedule/backend/pkg/storage"
)

// Service все сервисы приложения
type Service struct {
	Ingest   IngestService
	Bell     BellService
	Schedule ScheduleService
	Export   ExportService
}

// NewService собирает сервисы. Загрузка документа и пересчёт звонков
// делят один Locker.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	store storage.ObjectStore,
	c *cache.Versioned,
	locker *Locker,
	logger *zap.Logger,
) *Service {
	schedule := NewScheduleService(cfg, repo, c, logger)
	return &Service{
		Ingest:   NewIngestService(cfg, repo, store, c, locker, logger),
		Bell:     NewBellService(cfg, repo, store, c, locker, logger),
		Schedule: schedule,
		Export:   NewExportService(cfg, schedule, logger),
	}
}

// invalidateCache новая версия кэша после каждой записи в БД
func invalidateCache(ctx context.Context, c *cache.Versioned, logger *zap.Logger) {
	if err := c.Invalidate(ctx); err != nil {
		logger.Warn("версия кэша не обновлена, другие реплики увидят изменения после ttl", zap.Error(err))
	}
}
