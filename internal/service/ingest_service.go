package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"college-schedule/backend/config"
	"college-schedule/backend/internal/docreader"
	"college-schedule/backend/internal/dto"
	"college-schedule/backend/internal/model"
	"college-schedule/backend/internal/repository"
	"college-schedule/backend/internal/timetable"
	"college-schedule/backend/pkg/cache"
	pkgerrors "college-schedule/backend/pkg/errors"
	"college-schedule/backend/pkg/storage"
)

// ── Ошибки модуля загрузки ──

var (
	ErrNoSourceDocument = fmt.Errorf("%w: исходный документ ещё не загружен", pkgerrors.ErrNotFound)
	ErrEmptyDocument    = fmt.Errorf("%w: пустой файл расписания", pkgerrors.ErrMalformedInput)
)

// ── IngestService ───────────────────────────────────────────
//
//   - документ и файл смен полностью разбираются до любых записей,
//     ошибка разбора не меняет сохранённых данных
//   - набор записей заменяется целиком в одной транзакции
//   - Upload и Refresh выполняются под общей блокировкой Locker
// ─────────────────────────────────────────────────────────────

// UploadInput загружаемые файлы; Shifts == nil: использовать сохранённый файл смен
type UploadInput struct {
	Filename string
	Document []byte
	Shifts   []byte
}

// IngestService загрузка документа с расписанием
type IngestService interface {
	// Upload принимает новый документ (и, возможно, файл смен) и заменяет все записи
	Upload(ctx context.Context, in UploadInput) (*dto.IngestResult, error)
	// Refresh повторно разбирает сохранённый документ
	Refresh(ctx context.Context) (*dto.IngestResult, error)
}

type ingestService struct {
	cfg    *config.Config
	repo   *repository.Repository
	store  storage.ObjectStore
	cache  *cache.Versioned
	locker *Locker
	logger *zap.Logger
}

// NewIngestService создаёт IngestService
func NewIngestService(
	cfg *config.Config,
	repo *repository.Repository,
	store storage.ObjectStore,
	c *cache.Versioned,
	locker *Locker,
	logger *zap.Logger,
) IngestService {
	return &ingestService{cfg: cfg, repo: repo, store: store, cache: c, locker: locker, logger: logger}
}

func (s *ingestService) Upload(ctx context.Context, in UploadInput) (*dto.IngestResult, error) {
	if len(in.Document) == 0 {
		return nil, ErrEmptyDocument
	}
	doc, err := docreader.Read(in.Filename, in.Document)
	if err != nil {
		return nil, err
	}

	var shifts timetable.ShiftTable
	if in.Shifts != nil {
		if shifts, err = timetable.ParseShiftTable(in.Shifts); err != nil {
			return nil, err
		}
	} else if shifts, err = s.loadShifts(ctx); err != nil {
		return nil, err
	}

	records, err := s.build(doc, shifts)
	if err != nil {
		return nil, err
	}

	release, err := s.locker.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := s.store.Put(ctx, s.cfg.Storage.Document, in.Document, contentType(in.Filename)); err != nil {
		s.logger.Error("сохранение документа", zap.Error(err))
		return nil, err
	}
	if in.Shifts != nil {
		if err := s.store.Put(ctx, s.cfg.Storage.Shifts, in.Shifts, "application/json"); err != nil {
			s.logger.Error("сохранение файла смен", zap.Error(err))
			return nil, err
		}
	}

	result, err := s.replace(ctx, records)
	if err != nil {
		return nil, err
	}
	s.logger.Info("расписание загружено",
		zap.String("file", in.Filename),
		zap.Int("groups", result.TotalGroups),
	)
	return result, nil
}

func (s *ingestService) Refresh(ctx context.Context) (*dto.IngestResult, error) {
	data, err := s.store.Get(ctx, s.cfg.Storage.Document)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, ErrNoSourceDocument
		}
		return nil, err
	}
	doc, err := docreader.ReadAny(data)
	if err != nil {
		return nil, err
	}
	shifts, err := s.loadShifts(ctx)
	if err != nil {
		return nil, err
	}
	records, err := s.build(doc, shifts)
	if err != nil {
		return nil, err
	}

	release, err := s.locker.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	return s.replace(ctx, records)
}

// build разбирает документ и проставляет смены и кабинеты
func (s *ingestService) build(doc timetable.Document, shifts timetable.ShiftTable) ([]model.GroupSchedule, error) {
	groups, err := timetable.Parse(doc, timetable.ParseOptions{AllowTruncation: s.cfg.Ingest.AllowTruncation})
	if err != nil {
		return nil, err
	}

	records := make([]model.GroupSchedule, 0, len(groups))
	for _, g := range groups {
		info := shifts.Lookup(g.Name)
		records = append(records, model.GroupSchedule{
			GroupName: g.Name,
			Schedule:  timetable.ApplyRoom(g.Schedule, info.Room),
			ShiftInfo: info,
		})
	}
	return records, nil
}

func (s *ingestService) replace(ctx context.Context, records []model.GroupSchedule) (*dto.IngestResult, error) {
	result := &dto.IngestResult{Groups: make([]string, 0, len(records))}

	if s.cfg.Ingest.ApplyBells {
		applied, err := s.applyStoredBells(ctx, records)
		if err != nil {
			return nil, err
		}
		result.BellsApplied = applied
	}

	started := time.Now()
	if err := s.repo.GroupSchedule.ReplaceAll(ctx, records); err != nil {
		s.logger.Error("замена расписаний", zap.Error(err))
		return nil, err
	}
	invalidateCache(ctx, s.cache, s.logger)

	for _, r := range records {
		result.Groups = append(result.Groups, r.GroupName)
		switch r.ShiftInfo.Value() {
		case 1:
			result.FirstShift++
		case 2:
			result.SecondShift++
		}
	}
	result.TotalGroups = len(records)

	s.logger.Debug("набор расписаний заменён",
		zap.Int("records", len(records)),
		zap.Duration("elapsed", time.Since(started)),
	)
	return result, nil
}

// applyStoredBells основная таблица, затем особые дни поверх неё
func (s *ingestService) applyStoredBells(ctx context.Context, records []model.GroupSchedule) (int, error) {
	full, err := loadBellTable(ctx, s.store, s.cfg.Storage.Bells)
	if err != nil {
		return 0, err
	}
	overrides, err := loadBellTable(ctx, s.store, s.cfg.Storage.Overrides)
	if err != nil {
		return 0, err
	}

	applied := 0
	for i := range records {
		modified := false
		if full != nil && timetable.ApplyBellTimes(&records[i], full, nil) {
			modified = true
		}
		if overrides != nil && timetable.ApplyBellTimes(&records[i], overrides, overrides.Days()) {
			modified = true
		}
		if modified {
			applied++
		}
	}
	return applied, nil
}

func (s *ingestService) loadShifts(ctx context.Context) (timetable.ShiftTable, error) {
	data, err := s.store.Get(ctx, s.cfg.Storage.Shifts)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return timetable.ShiftTable{}, nil
	}
	if err != nil {
		return nil, err
	}
	return timetable.ParseShiftTable(data)
}

// loadBellTable nil без ошибки, если файла нет
func loadBellTable(ctx context.Context, store storage.ObjectStore, key string) (timetable.BellTable, error) {
	data, err := store.Get(ctx, key)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return timetable.ParseBellTable(data)
}

func contentType(filename string) string {
	if strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
}
