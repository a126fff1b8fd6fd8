package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"college-schedule/backend/config"
	"college-schedule/backend/internal/dto"
	"college-schedule/backend/internal/repository"
	"college-schedule/backend/internal/timetable"
	"college-schedule/backend/pkg/cache"
	pkgerrors "college-schedule/backend/pkg/errors"
	"college-schedule/backend/pkg/storage"
)

// ErrBellTableNotFound таблица звонков ещё не загружалась
var ErrBellTableNotFound = fmt.Errorf("%w: таблица звонков не загружена", pkgerrors.ErrNotFound)

// BellService загрузка таблиц звонков и пересчёт времени занятий
type BellService interface {
	// UploadMain полная таблица: пересчитываются все дни всех групп
	UploadMain(ctx context.Context, data []byte) (*dto.BellMergeResult, error)
	// UploadOverride таблица особых дней: пересчитываются только дни из её ключей
	UploadOverride(ctx context.Context, data []byte) (*dto.BellMergeResult, error)
	// Current сохранённые таблицы
	Current(ctx context.Context) (*dto.BellTablesResponse, error)
}

type bellService struct {
	cfg    *config.Config
	repo   *repository.Repository
	store  storage.ObjectStore
	cache  *cache.Versioned
	locker *Locker
	logger *zap.Logger
}

// NewBellService создаёт BellService
func NewBellService(
	cfg *config.Config,
	repo *repository.Repository,
	store storage.ObjectStore,
	c *cache.Versioned,
	locker *Locker,
	logger *zap.Logger,
) BellService {
	return &bellService{cfg: cfg, repo: repo, store: store, cache: c, locker: locker, logger: logger}
}

func (s *bellService) UploadMain(ctx context.Context, data []byte) (*dto.BellMergeResult, error) {
	table, err := timetable.ParseBellTable(data)
	if err != nil {
		return nil, err
	}
	return s.upload(ctx, s.cfg.Storage.Bells, data, table, nil)
}

func (s *bellService) UploadOverride(ctx context.Context, data []byte) (*dto.BellMergeResult, error) {
	table, err := timetable.ParseBellTable(data)
	if err != nil {
		return nil, err
	}
	return s.upload(ctx, s.cfg.Storage.Overrides, data, table, table.Days())
}

func (s *bellService) upload(ctx context.Context, key string, data []byte, table timetable.BellTable, onlyDays []string) (*dto.BellMergeResult, error) {
	release, err := s.locker.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := s.store.Put(ctx, key, data, "application/json"); err != nil {
		s.logger.Error("сохранение таблицы звонков", zap.String("key", key), zap.Error(err))
		return nil, err
	}

	records, err := s.repo.GroupSchedule.List(ctx)
	if err != nil {
		s.logger.Error("чтение расписаний", zap.Error(err))
		return nil, err
	}

	result := &dto.BellMergeResult{TotalRecords: len(records), Days: onlyDays}
	for i := range records {
		if !timetable.ApplyBellTimes(&records[i], table, onlyDays) {
			continue
		}
		if err := s.repo.GroupSchedule.UpdateSchedule(ctx, &records[i]); err != nil {
			s.logger.Error("сохранение времени занятий",
				zap.String("group", records[i].GroupName),
				zap.Error(err),
			)
			if result.ModifiedRecords > 0 {
				invalidateCache(ctx, s.cache, s.logger)
			}
			return nil, err
		}
		result.ModifiedRecords++
	}
	if result.ModifiedRecords > 0 {
		invalidateCache(ctx, s.cache, s.logger)
	}

	s.logger.Info("таблица звонков применена",
		zap.String("key", key),
		zap.Int("modified", result.ModifiedRecords),
		zap.Int("total", result.TotalRecords),
	)
	return result, nil
}

func (s *bellService) Current(ctx context.Context) (*dto.BellTablesResponse, error) {
	full, err := loadBellTable(ctx, s.store, s.cfg.Storage.Bells)
	if err != nil {
		return nil, err
	}
	if full == nil {
		return nil, ErrBellTableNotFound
	}
	overrides, err := loadBellTable(ctx, s.store, s.cfg.Storage.Overrides)
	if err != nil {
		return nil, err
	}
	return &dto.BellTablesResponse{Main: full, Overrides: overrides}, nil
}
