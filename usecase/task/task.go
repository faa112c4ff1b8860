package task

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fastygo/tasklist/domain"
	"github.com/fastygo/tasklist/repository"
	"github.com/fastygo/tasklist/usecase"
)

// stampPrecision matches the precision of stored timestamps.
const stampPrecision = time.Millisecond

// PersistenceStatus describes the outcome of the most recent save.
type PersistenceStatus struct {
	Degraded  bool      `json:"degraded"`
	LastError string    `json:"last_error,omitempty"`
	LastSave  time.Time `json:"last_save,omitempty"`
}

// UseCase owns the canonical task collection, newest first.
type UseCase struct {
	tasks  repository.TaskRepository
	clock  usecase.Clock
	logger *zap.Logger
	newID  func() string

	mu     sync.Mutex
	items  []domain.Task
	status PersistenceStatus
}

// Option customizes a UseCase.
type Option func(*UseCase)

// WithClock injects the time source.
func WithClock(clock usecase.Clock) Option {
	return func(uc *UseCase) {
		if clock != nil {
			uc.clock = clock
		}
	}
}

// WithIDGenerator overrides id generation.
func WithIDGenerator(fn func() string) Option {
	return func(uc *UseCase) {
		if fn != nil {
			uc.newID = fn
		}
	}
}

func New(tasks repository.TaskRepository, logger *zap.Logger, opts ...Option) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	uc := &UseCase{
		tasks:  tasks,
		clock:  usecase.SystemClock{},
		logger: logger,
		newID:  uuid.NewString,
		items:  []domain.Task{},
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Load replaces the collection with the persisted one. On any error the store
// starts empty and the error is returned for the caller to report.
func (uc *UseCase) Load(ctx context.Context) error {
	if uc.tasks == nil {
		uc.mu.Lock()
		uc.items = []domain.Task{}
		uc.mu.Unlock()
		return nil
	}

	loaded, err := uc.tasks.Load(ctx)

	uc.mu.Lock()
	defer uc.mu.Unlock()

	if err != nil {
		uc.items = []domain.Task{}
		if domain.IsDomainError(err, domain.ErrCodeMalformedData) {
			uc.logger.Warn("persisted tasks are malformed, starting empty", zap.Error(err))
		} else {
			uc.logger.Error("failed to load tasks, starting empty", zap.Error(err))
		}
		return err
	}
	uc.items = loaded
	uc.logger.Info("tasks loaded", zap.Int("count", len(loaded)))
	return nil
}

// List returns a copy of the collection in display order.
func (uc *UseCase) List() []domain.Task {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return append([]domain.Task(nil), uc.items...)
}

// Get returns a copy of the task with id.
func (uc *UseCase) Get(id string) (*domain.Task, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	idx := uc.indexOf(id)
	if idx < 0 {
		return nil, domain.ErrTaskNotFound
	}
	task := uc.items[idx]
	return &task, nil
}

// Add creates a task at the front of the collection. A persistence error is
// returned together with the created task; the task stays in memory.
func (uc *UseCase) Add(ctx context.Context, title, description string) (*domain.Task, error) {
	title = domain.NormalizeText(title)
	if title == "" {
		return nil, domain.ErrEmptyTitle
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	now := uc.now()
	task := domain.Task{
		ID:          uc.uniqueID(),
		Title:       title,
		Description: domain.NormalizeText(description),
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	items := make([]domain.Task, 0, len(uc.items)+1)
	items = append(items, task)
	uc.items = append(items, uc.items...)

	return &task, uc.persist(ctx, "create", task.ID)
}

// Edit replaces title and description of an existing task.
func (uc *UseCase) Edit(ctx context.Context, id, title, description string) (*domain.Task, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	idx := uc.indexOf(id)
	if idx < 0 {
		return nil, domain.ErrTaskNotFound
	}
	title = domain.NormalizeText(title)
	if title == "" {
		return nil, domain.ErrEmptyTitle
	}

	task := &uc.items[idx]
	task.Title = title
	task.Description = domain.NormalizeText(description)
	task.UpdatedAt = uc.touch(task.UpdatedAt)

	updated := *task
	return &updated, uc.persist(ctx, "update", id)
}

// ToggleComplete flips the completion flag.
func (uc *UseCase) ToggleComplete(ctx context.Context, id string) (*domain.Task, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	idx := uc.indexOf(id)
	if idx < 0 {
		return nil, domain.ErrTaskNotFound
	}

	task := &uc.items[idx]
	task.Completed = !task.Completed
	task.UpdatedAt = uc.touch(task.UpdatedAt)

	updated := *task
	return &updated, uc.persist(ctx, "toggle", id)
}

// Remove deletes the task permanently.
func (uc *UseCase) Remove(ctx context.Context, id string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	idx := uc.indexOf(id)
	if idx < 0 {
		return domain.ErrTaskNotFound
	}

	items := make([]domain.Task, 0, len(uc.items)-1)
	items = append(items, uc.items[:idx]...)
	uc.items = append(items, uc.items[idx+1:]...)

	return uc.persist(ctx, "delete", id)
}

// Counts summarizes the collection.
func (uc *UseCase) Counts() domain.Counts {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return domain.CountTasks(uc.items)
}

// Status reports whether the store is currently running without durable saves.
func (uc *UseCase) Status() PersistenceStatus {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.status
}

// persist must be called with mu held.
func (uc *UseCase) persist(ctx context.Context, operation, id string) error {
	if uc.tasks == nil {
		return nil
	}
	if err := uc.tasks.Save(ctx, uc.items); err != nil {
		uc.status.Degraded = true
		uc.status.LastError = err.Error()
		uc.logger.Warn("task save failed, keeping changes in memory",
			zap.String("operation", operation),
			zap.String("task_id", id),
			zap.Error(err))
		if domain.IsDomainError(err, domain.ErrCodePersistence) {
			return err
		}
		return domain.WrapError(domain.ErrCodePersistence, "save tasks", err)
	}
	if uc.status.Degraded {
		uc.logger.Info("task saves recovered", zap.String("operation", operation))
	}
	uc.status = PersistenceStatus{LastSave: uc.clock.Now()}
	return nil
}

func (uc *UseCase) indexOf(id string) int {
	for i := range uc.items {
		if uc.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (uc *UseCase) uniqueID() string {
	for {
		id := uc.newID()
		if id != "" && uc.indexOf(id) < 0 {
			return id
		}
	}
}

func (uc *UseCase) now() time.Time {
	return uc.clock.Now().UTC().Truncate(stampPrecision)
}

// touch returns a refresh timestamp strictly after previous.
func (uc *UseCase) touch(previous time.Time) time.Time {
	now := uc.now()
	if !now.After(previous) {
		now = previous.Add(stampPrecision)
	}
	return now
}
