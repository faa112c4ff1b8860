package monitor

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/tasklist/internal/infrastructure/boltdb"
	"github.com/fastygo/tasklist/repository"
	boltRepo "github.com/fastygo/tasklist/repository/bolt"
	"github.com/fastygo/tasklist/repository/memory"
	taskUC "github.com/fastygo/tasklist/usecase/task"
)

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("disk gone") }

func TestCheck(t *testing.T) {
	repo := memory.NewTaskRepository()
	uc := taskUC.New(repo, nil)
	ctx := context.Background()
	_, _ = uc.Add(ctx, "one", "")

	status := New("memory", repo, uc, nil).Check(ctx)
	assert.True(t, status.Healthy())
	assert.Equal(t, "memory", status.Driver)
	assert.Equal(t, 1, status.Tasks)
	assert.False(t, status.LastCheck.IsZero())
	assert.Nil(t, status.Stats)

	repo.FailWrites(true)
	_, _ = uc.Add(ctx, "two", "")
	status = New("memory", repo, uc, nil).Check(ctx)
	assert.True(t, status.Storage)
	assert.True(t, status.Degraded)
	assert.NotEmpty(t, status.LastError)
	assert.False(t, status.Healthy())
}

func TestCheck_PingFailure(t *testing.T) {
	status := New("bolt", failingPinger{}, nil, nil).Check(context.Background())
	assert.False(t, status.Storage)
	assert.False(t, status.Healthy())

	status = New("bolt", nil, nil, nil).Check(context.Background())
	assert.False(t, status.Storage)
}

func TestCheck_BoltReportsStorageStats(t *testing.T) {
	store, err := boltdb.Open(filepath.Join(t.TempDir(), "tasks.db"), "tasklist")
	require.NoError(t, err)
	defer store.Close()

	repo := boltRepo.NewTaskRepository(store, "")
	uc := taskUC.New(repo, nil)
	ctx := context.Background()
	_, err = uc.Add(ctx, "one", "")
	require.NoError(t, err)

	probe, ok := repo.(repository.Pinger)
	require.True(t, ok)

	status := New("bolt", probe, uc, nil).Check(ctx)
	assert.True(t, status.Healthy())
	require.NotNil(t, status.Stats)
	assert.Equal(t, 1, status.Stats.Slots)
	assert.Zero(t, status.Stats.OpenTx)
	assert.Positive(t, status.Stats.ReadTx)
}
