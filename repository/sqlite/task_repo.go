package sqlite

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fastygo/tasklist/domain"
	sqliteInfra "github.com/fastygo/tasklist/internal/infrastructure/sqlite"
	"github.com/fastygo/tasklist/repository"
)

type taskRepository struct {
	db   *gorm.DB
	slot string
}

// NewTaskRepository returns a SQLite-backed implementation of TaskRepository.
func NewTaskRepository(db *gorm.DB, slot string) repository.TaskRepository {
	if slot == "" {
		slot = repository.DefaultSlot
	}
	return &taskRepository{db: db, slot: slot}
}

func (r *taskRepository) Load(ctx context.Context) ([]domain.Task, error) {
	var row sqliteInfra.Slot
	err := r.db.WithContext(ctx).First(&row, "name = ?", r.slot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []domain.Task{}, nil
		}
		return []domain.Task{}, domain.WrapError(domain.ErrCodePersistence, "read task slot", err)
	}
	return repository.DecodeTasks(row.Value)
}

func (r *taskRepository) Save(ctx context.Context, tasks []domain.Task) error {
	payload, err := repository.EncodeTasks(tasks)
	if err != nil {
		return domain.WrapError(domain.ErrCodePersistence, "encode tasks", err)
	}

	row := sqliteInfra.Slot{Name: r.slot, Value: payload}
	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return domain.WrapError(domain.ErrCodePersistence, "write task slot", err)
	}
	return nil
}

func (r *taskRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
