package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/fastygo/tasklist/domain"
	"github.com/fastygo/tasklist/repository"
)

// ErrWriteRejected is returned by Save while writes are disabled.
var ErrWriteRejected = errors.New("memory slot: write rejected")

// TaskRepository keeps the serialized slot in process memory. It stores the encoded
// payload rather than the tasks so it behaves like the durable backends.
type TaskRepository struct {
	mu         sync.Mutex
	payload    []byte
	failWrites bool
	saves      int
}

// NewTaskRepository returns an empty in-memory slot.
func NewTaskRepository() *TaskRepository {
	return &TaskRepository{}
}

// NewTaskRepositoryWithPayload seeds the slot with raw content.
func NewTaskRepositoryWithPayload(payload []byte) *TaskRepository {
	return &TaskRepository{payload: append([]byte(nil), payload...)}
}

func (r *TaskRepository) Load(ctx context.Context) ([]domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return []domain.Task{}, err
	}
	r.mu.Lock()
	payload := append([]byte(nil), r.payload...)
	r.mu.Unlock()
	return repository.DecodeTasks(payload)
}

func (r *TaskRepository) Save(ctx context.Context, tasks []domain.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWrites {
		return domain.WrapError(domain.ErrCodePersistence, "write task slot", ErrWriteRejected)
	}
	payload, err := repository.EncodeTasks(tasks)
	if err != nil {
		return domain.WrapError(domain.ErrCodePersistence, "encode tasks", err)
	}
	r.payload = payload
	r.saves++
	return nil
}

func (r *TaskRepository) Ping(context.Context) error {
	return nil
}

// FailWrites toggles simulated write failures.
func (r *TaskRepository) FailWrites(fail bool) {
	r.mu.Lock()
	r.failWrites = fail
	r.mu.Unlock()
}

// Payload returns a copy of the raw slot content.
func (r *TaskRepository) Payload() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]byte(nil), r.payload...)
}

// Saves returns the number of successful writes.
func (r *TaskRepository) Saves() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}

var _ repository.TaskRepository = (*TaskRepository)(nil)
