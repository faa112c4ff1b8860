package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCountTasks(t *testing.T) {
	assert.Equal(t, Counts{}, CountTasks(nil))

	tasks := []Task{{Completed: true}, {}, {Completed: true}, {}}
	assert.Equal(t, Counts{Total: 4, Completed: 2, Pending: 2}, CountTasks(tasks))
}

func TestWasEdited(t *testing.T) {
	now := time.Now()
	assert.False(t, (&Task{CreatedAt: now, UpdatedAt: now}).WasEdited())
	assert.True(t, (&Task{CreatedAt: now, UpdatedAt: now.Add(time.Millisecond)}).WasEdited())
	var nilTask *Task
	assert.False(t, nilTask.WasEdited())
}

func TestErrors(t *testing.T) {
	cause := errors.New("disk full")
	wrapped := fmt.Errorf("saving: %w", WrapError(ErrCodePersistence, "write task slot", cause))

	assert.True(t, IsDomainError(wrapped, ErrCodePersistence))
	assert.False(t, IsDomainError(wrapped, ErrCodeNotFound))
	assert.ErrorIs(t, wrapped, cause)
	assert.EqualError(t, WrapError(ErrCodePersistence, "write task slot", cause), "write task slot: disk full")

	malformed := WrapError(ErrCodeMalformedData, ErrMalformedData.Message, cause)
	assert.ErrorIs(t, malformed, ErrMalformedData)
	assert.NotErrorIs(t, malformed, ErrTaskNotFound)
	assert.False(t, IsDomainError(nil, ErrCodeInternal))
}
