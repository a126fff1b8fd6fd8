package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"college-schedule/backend/internal/model"
)

// GroupScheduleRepository доступ к расписаниям групп
type GroupScheduleRepository interface {
	List(ctx context.Context) ([]model.GroupSchedule, error)
	GetByGroup(ctx context.Context, groupName string) (*model.GroupSchedule, error)
	// ReplaceAll удаляет все записи и сохраняет новый набор в одной транзакции
	ReplaceAll(ctx context.Context, records []model.GroupSchedule) error
	// UpdateSchedule перезаписывает только расписание записи
	UpdateSchedule(ctx context.Context, rec *model.GroupSchedule) error
	Upsert(ctx context.Context, rec *model.GroupSchedule) error
	DeleteByGroup(ctx context.Context, groupName string) (bool, error)
}

type groupScheduleRepo struct {
	db *gorm.DB
}

// NewGroupScheduleRepo создаёт GroupScheduleRepository
func NewGroupScheduleRepo(db *gorm.DB) GroupScheduleRepository {
	return &groupScheduleRepo{db: db}
}

func (r *groupScheduleRepo) List(ctx context.Context) ([]model.GroupSchedule, error) {
	var records []model.GroupSchedule
	err := r.db.WithContext(ctx).
		Order("group_name ASC").
		Find(&records).Error
	return records, err
}

func (r *groupScheduleRepo) GetByGroup(ctx context.Context, groupName string) (*model.GroupSchedule, error) {
	var rec model.GroupSchedule
	err := r.db.WithContext(ctx).
		Where("group_name = ?", groupName).
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *groupScheduleRepo) ReplaceAll(ctx context.Context, records []model.GroupSchedule) error {
	now := time.Now()
	for i := range records {
		records[i].UpdatedAt = now
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// полная замена набора, история не хранится
		if err := tx.Where("1 = 1").Delete(&model.GroupSchedule{}).Error; err != nil {
			return err
		}
		if len(records) > 0 {
			if err := tx.CreateInBatches(&records, 100).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *groupScheduleRepo) UpdateSchedule(ctx context.Context, rec *model.GroupSchedule) error {
	rec.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).
		Model(rec).
		Select("schedule", "updated_at").
		Updates(rec).Error
}

func (r *groupScheduleRepo) Upsert(ctx context.Context, rec *model.GroupSchedule) error {
	rec.UpdatedAt = time.Now()
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "group_name"}},
			DoUpdates: clause.AssignmentColumns([]string{"schedule", "shift_info", "updated_at"}),
		}).
		Create(rec).Error
	if err != nil {
		return err
	}
	// при конфликте остаётся идентификатор существующей записи
	stored, err := r.GetByGroup(ctx, rec.GroupName)
	if err != nil {
		return err
	}
	*rec = *stored
	return nil
}

func (r *groupScheduleRepo) DeleteByGroup(ctx context.Context, groupName string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("group_name = ?", groupName).
		Delete(&model.GroupSchedule{})
	return res.RowsAffected > 0, res.Error
}
