package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"college-schedule/backend/config"
	"college-schedule/backend/internal/dto"
	"college-schedule/backend/internal/model"
	"college-schedule/backend/internal/repository"
	"college-schedule/backend/internal/timetable"
	"college-schedule/backend/pkg/cache"
	pkgerrors "college-schedule/backend/pkg/errors"
)

// ── Ошибки модуля расписаний ──

var (
	ErrGroupNotFound    = fmt.Errorf("%w: группа не найдена", pkgerrors.ErrNotFound)
	ErrInvalidGroupName = fmt.Errorf("%w: не указано название группы", pkgerrors.ErrMalformedInput)
	ErrInvalidSlot      = fmt.Errorf("%w: номер урока в days должен быть больше 0", pkgerrors.ErrMalformedInput)
)

// ScheduleService чтение и ручное редактирование расписаний групп,
// расписание преподавателя. Чтение идёт без блокировки.
type ScheduleService interface {
	List(ctx context.Context) ([]dto.GroupSummary, error)
	// GetByGroup day пустой: вся неделя
	GetByGroup(ctx context.Context, group, day string) (*dto.GroupScheduleResponse, error)
	Upsert(ctx context.Context, req *dto.UpsertGroupRequest) (*model.GroupSchedule, error)
	Delete(ctx context.Context, group string) error
	TeacherSchedule(ctx context.Context, fio, day string) (*model.TeacherScheduleView, error)
}

type scheduleService struct {
	repo    *repository.Repository
	cache   *cache.Versioned
	matcher timetable.Matcher
	logger  *zap.Logger
}

// NewScheduleService создаёт ScheduleService
func NewScheduleService(cfg *config.Config, repo *repository.Repository, c *cache.Versioned, logger *zap.Logger) ScheduleService {
	return &scheduleService{
		repo:    repo,
		cache:   c,
		matcher: timetable.NewMatcher(cfg.Query.TeacherMatch),
		logger:  logger,
	}
}

func groupCacheKey(group string) string { return "group:" + group }

func (s *scheduleService) List(ctx context.Context) ([]dto.GroupSummary, error) {
	records, err := s.repo.GroupSchedule.List(ctx)
	if err != nil {
		s.logger.Error("список групп", zap.Error(err))
		return nil, err
	}
	out := make([]dto.GroupSummary, 0, len(records))
	for _, r := range records {
		out = append(out, dto.GroupSummary{
			GroupName:   r.GroupName,
			ShiftInfo:   r.ShiftInfo,
			LessonCount: r.Schedule.LessonCount(),
			UpdatedAt:   r.UpdatedAt,
		})
	}
	return out, nil
}

func (s *scheduleService) GetByGroup(ctx context.Context, group, day string) (*dto.GroupScheduleResponse, error) {
	rec, err := s.getRecord(ctx, strings.TrimSpace(group))
	if err != nil {
		return nil, err
	}

	resp := &dto.GroupScheduleResponse{
		GroupName: rec.GroupName,
		ShiftInfo: rec.ShiftInfo,
		UpdatedAt: rec.UpdatedAt,
	}
	if strings.TrimSpace(day) == "" {
		resp.Schedule = &rec.Schedule
		return resp, nil
	}

	d, err := timetable.FilterDay(rec.Schedule, day)
	if err != nil {
		return nil, err
	}
	resp.Day = &d
	return resp, nil
}

// getRecord запись из кэша или БД; кэшированные значения не изменяются.
// Версия берётся до чтения из БД, поэтому чтение, пересёкшееся с записью,
// не вернёт старую запись в кэш под новой версией.
func (s *scheduleService) getRecord(ctx context.Context, group string) (*model.GroupSchedule, error) {
	if group == "" {
		return nil, ErrGroupNotFound
	}
	key := groupCacheKey(group)
	version, verr := s.cache.Version(ctx)
	if verr != nil {
		s.logger.Warn("версия кэша недоступна, чтение из БД", zap.Error(verr))
	} else if v, ok := s.cache.Get(version, key); ok {
		return v.(*model.GroupSchedule), nil
	}

	rec, err := s.repo.GroupSchedule.GetByGroup(ctx, group)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		s.logger.Error("чтение расписания группы", zap.String("group", group), zap.Error(err))
		return nil, err
	}
	if verr == nil {
		s.cache.Set(version, key, rec)
	}
	return rec, nil
}

func (s *scheduleService) Upsert(ctx context.Context, req *dto.UpsertGroupRequest) (*model.GroupSchedule, error) {
	name := strings.TrimSpace(req.GroupName)
	if name == "" {
		return nil, ErrInvalidGroupName
	}

	schedule := normalizeSchedule(req.Schedule)
	for _, slots := range schedule.Days {
		for n := range slots {
			if n < 1 {
				return nil, ErrInvalidSlot
			}
		}
	}

	info := model.NewShiftInfo(1, "")
	if req.ShiftInfo != nil {
		info = *req.ShiftInfo
	}

	rec := &model.GroupSchedule{
		GroupName: name,
		Schedule:  timetable.ApplyRoom(schedule, info.Room),
		ShiftInfo: info,
	}
	if err := s.repo.GroupSchedule.Upsert(ctx, rec); err != nil {
		s.logger.Error("сохранение группы", zap.String("group", name), zap.Error(err))
		return nil, err
	}
	invalidateCache(ctx, s.cache, s.logger)

	s.logger.Info("расписание группы сохранено", zap.String("group", name))
	return rec, nil
}

// normalizeSchedule дни с произвольным написанием приводятся к каноническим,
// все шесть дней присутствуют
func normalizeSchedule(in model.WeeklySchedule) model.WeeklySchedule {
	out := model.NewWeeklySchedule()
	for day, l := range in.ZeroLesson {
		if d, ok := timetable.ParseDay(string(day)); ok && l != nil {
			copied := *l
			out.ZeroLesson[d] = &copied
		}
	}
	for day, slots := range in.Days {
		d, ok := timetable.ParseDay(string(day))
		if !ok {
			continue
		}
		for n, l := range slots {
			out.Days[d][n] = l
		}
	}
	return out
}

func (s *scheduleService) Delete(ctx context.Context, group string) error {
	group = strings.TrimSpace(group)
	deleted, err := s.repo.GroupSchedule.DeleteByGroup(ctx, group)
	if err != nil {
		s.logger.Error("удаление группы", zap.String("group", group), zap.Error(err))
		return err
	}
	if !deleted {
		return ErrGroupNotFound
	}
	invalidateCache(ctx, s.cache, s.logger)
	return nil
}

func (s *scheduleService) TeacherSchedule(ctx context.Context, fio, day string) (*model.TeacherScheduleView, error) {
	if timetable.CanonicalQuery(fio) == "" {
		return nil, timetable.ErrEmptyTeacherQuery
	}
	records, err := s.repo.GroupSchedule.List(ctx)
	if err != nil {
		s.logger.Error("чтение расписаний", zap.Error(err))
		return nil, err
	}
	return timetable.ResolveTeacher(records, fio, day, s.matcher)
}
