package monitor

import (
	"time"

	"github.com/fastygo/tasklist/repository"
)

type Status struct {
	Driver    string                   `json:"driver"`
	Storage   bool                     `json:"storage"`
	Degraded  bool                     `json:"degraded"`
	LastError string                   `json:"last_error,omitempty"`
	Tasks     int                      `json:"tasks"`
	Stats     *repository.StorageStats `json:"stats,omitempty"`
	LastCheck time.Time                `json:"last_check"`
}

// Healthy reports whether storage is reachable and the last save succeeded.
func (s Status) Healthy() bool {
	return s.Storage && !s.Degraded
}
