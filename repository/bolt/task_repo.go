package bolt

import (
	"context"

	"github.com/fastygo/tasklist/domain"
	"github.com/fastygo/tasklist/internal/infrastructure/boltdb"
	"github.com/fastygo/tasklist/repository"
)

type taskRepository struct {
	store *boltdb.Store
	slot  string
}

// NewTaskRepository returns a BoltDB-backed implementation of TaskRepository.
func NewTaskRepository(store *boltdb.Store, slot string) repository.TaskRepository {
	if slot == "" {
		slot = repository.DefaultSlot
	}
	return &taskRepository{store: store, slot: slot}
}

func (r *taskRepository) Load(ctx context.Context) ([]domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return []domain.Task{}, err
	}
	payload, err := r.store.Get(r.slot)
	if err != nil {
		return []domain.Task{}, domain.WrapError(domain.ErrCodePersistence, "read task slot", err)
	}
	return repository.DecodeTasks(payload)
}

func (r *taskRepository) Save(ctx context.Context, tasks []domain.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := repository.EncodeTasks(tasks)
	if err != nil {
		return domain.WrapError(domain.ErrCodePersistence, "encode tasks", err)
	}
	if err := r.store.Put(r.slot, payload); err != nil {
		return domain.WrapError(domain.ErrCodePersistence, "write task slot", err)
	}
	return nil
}

func (r *taskRepository) Ping(context.Context) error {
	_, err := r.store.Size()
	return err
}

// StorageStats reports slot count and Bolt transaction counters.
func (r *taskRepository) StorageStats() repository.StorageStats {
	stats := r.store.Stats()
	slots, _ := r.store.Size()
	return repository.StorageStats{
		Slots:     slots,
		OpenTx:    stats.OpenTxN,
		ReadTx:    stats.TxN,
		FreePages: stats.FreePageN,
	}
}
