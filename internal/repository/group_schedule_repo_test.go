package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"college-schedule/backend/internal/model"
	"college-schedule/backend/internal/repository"
)

// ── Тестовая БД ──

func setupRepo(t *testing.T) repository.GroupScheduleRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("не удалось открыть sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db.DB: %v", err)
	}
	// одна in-memory база на соединение
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(&model.GroupSchedule{}); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	return repository.NewRepository(db).GroupSchedule
}

func record(name string, subject string) model.GroupSchedule {
	s := model.NewWeeklySchedule()
	s.Days[model.Monday][1] = model.Lesson{Subject: subject, Teacher: "Иванов И.И."}
	return model.GroupSchedule{GroupName: name, Schedule: s, ShiftInfo: model.NewShiftInfo(1, "204")}
}

// ── ReplaceAll / List ──

func TestGroupScheduleRepo_ReplaceAll(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	if err := repo.ReplaceAll(ctx, []model.GroupSchedule{record("102", "Физика"), record("101", "Математика")}); err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}
	if err := repo.ReplaceAll(ctx, []model.GroupSchedule{record("201", "Химия")}); err != nil {
		t.Fatalf("повторный ReplaceAll: %v", err)
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].GroupName != "201" {
		t.Fatalf("ожидалась только группа 201, получено %+v", list)
	}
	if list[0].ID == "" {
		t.Error("запись должна получить идентификатор")
	}
	if got := list[0].Schedule.Days[model.Monday][1].Subject; got != "Химия" {
		t.Errorf("расписание не сохранилось: %q", got)
	}
	if list[0].ShiftInfo.Value() != 1 || list[0].ShiftInfo.Room != "204" {
		t.Errorf("смена не сохранилась: %+v", list[0].ShiftInfo)
	}
}

func TestGroupScheduleRepo_ListOrdered(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	_ = repo.ReplaceAll(ctx, []model.GroupSchedule{record("103", "a"), record("101", "b"), record("102", "c")})

	list, _ := repo.List(ctx)
	for i, want := range []string{"101", "102", "103"} {
		if list[i].GroupName != want {
			t.Errorf("позиция %d: %s, ожидалось %s", i, list[i].GroupName, want)
		}
	}
}

// ── GetByGroup / UpdateSchedule ──

func TestGroupScheduleRepo_GetByGroup(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	_ = repo.ReplaceAll(ctx, []model.GroupSchedule{record("101", "Математика")})

	if _, err := repo.GetByGroup(ctx, "999"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("ожидалось ErrRecordNotFound, получено %v", err)
	}

	rec, err := repo.GetByGroup(ctx, "101")
	if err != nil {
		t.Fatalf("GetByGroup: %v", err)
	}
	l := rec.Schedule.Days[model.Monday][1]
	l.Time = "08:30-09:15"
	rec.Schedule.Days[model.Monday][1] = l
	if err := repo.UpdateSchedule(ctx, rec); err != nil {
		t.Fatalf("UpdateSchedule: %v", err)
	}

	again, _ := repo.GetByGroup(ctx, "101")
	if got := again.Schedule.Days[model.Monday][1].Time; got != "08:30-09:15" {
		t.Errorf("время не сохранилось: %q", got)
	}
}

// ── Upsert / DeleteByGroup ──

func TestGroupScheduleRepo_Upsert(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	first := record("101", "Математика")
	if err := repo.Upsert(ctx, &first); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	second := record("101", "Физика")
	if err := repo.Upsert(ctx, &second); err != nil {
		t.Fatalf("повторный Upsert: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("идентификатор должен сохраниться: %s != %s", second.ID, first.ID)
	}

	list, _ := repo.List(ctx)
	if len(list) != 1 || list[0].Schedule.Days[model.Monday][1].Subject != "Физика" {
		t.Errorf("ожидалась одна обновлённая запись, получено %+v", list)
	}
}

func TestGroupScheduleRepo_DeleteByGroup(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	_ = repo.ReplaceAll(ctx, []model.GroupSchedule{record("101", "Математика")})

	deleted, err := repo.DeleteByGroup(ctx, "101")
	if err != nil || !deleted {
		t.Fatalf("DeleteByGroup: (%v, %v)", deleted, err)
	}
	deleted, err = repo.DeleteByGroup(ctx, "101")
	if err != nil || deleted {
		t.Errorf("повторное удаление: (%v, %v)", deleted, err)
	}
}
