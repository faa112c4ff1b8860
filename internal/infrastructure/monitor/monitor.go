package monitor

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/tasklist/repository"
	taskUC "github.com/fastygo/tasklist/usecase/task"
)

// Monitor reports storage health on demand.
type Monitor struct {
	driver string
	probe  repository.Pinger
	store  *taskUC.UseCase
	logger *zap.Logger
}

func New(driver string, probe repository.Pinger, store *taskUC.UseCase, logger *zap.Logger) *Monitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		driver: driver,
		probe:  probe,
		store:  store,
		logger: logger,
	}
}

// Check pings storage and combines the result with the task store's save status.
func (m *Monitor) Check(ctx context.Context) Status {
	status := Status{
		Driver:    m.driver,
		Storage:   m.checkStorage(ctx),
		LastCheck: time.Now().UTC(),
	}
	if reporter, ok := m.probe.(repository.StatsReporter); ok && status.Storage {
		stats := reporter.StorageStats()
		status.Stats = &stats
	}
	if m.store != nil {
		persistence := m.store.Status()
		status.Degraded = persistence.Degraded
		status.LastError = persistence.LastError
		status.Tasks = m.store.Counts().Total
	}
	return status
}

func (m *Monitor) checkStorage(ctx context.Context) bool {
	if m.probe == nil {
		return false
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := m.probe.Ping(pingCtx); err != nil {
		m.logger.Warn("storage ping failed", zap.String("driver", m.driver), zap.Error(err))
		return false
	}
	return true
}
