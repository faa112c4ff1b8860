package repository

import (
	"context"

	"github.com/fastygo/tasklist/domain"
)

// DefaultSlot is the storage key holding the serialized task collection.
const DefaultSlot = "todos"

// TaskRepository mirrors the whole task collection into a single durable slot.
//
// Load returns an empty collection and a nil error when the slot does not exist yet.
// A slot that cannot be decoded yields an empty collection together with
// domain.ErrMalformedData. Save always overwrites the slot with the full collection.
type TaskRepository interface {
	Load(ctx context.Context) ([]domain.Task, error)
	Save(ctx context.Context, tasks []domain.Task) error
}

// Pinger is implemented by repositories that can report storage health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StorageStats carries backend counters surfaced on the health endpoint.
type StorageStats struct {
	Slots     int `json:"slots"`
	OpenTx    int `json:"open_tx"`
	ReadTx    int `json:"read_tx"`
	FreePages int `json:"free_pages"`
}

// StatsReporter is implemented by repositories that expose storage counters.
type StatsReporter interface {
	StorageStats() StorageStats
}
