package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/tasklist/domain"
)

func sampleTasks(n int) []domain.Task {
	base := time.Date(2024, 12, 31, 23, 59, 58, 123_000_000, time.UTC)
	tasks := make([]domain.Task, 0, n)
	for i := 0; i < n; i++ {
		created := base.Add(time.Duration(i) * time.Minute)
		tasks = append(tasks, domain.Task{
			ID:          fmt.Sprintf("id-%d", i),
			Title:       fmt.Sprintf("task %d", i),
			Description: fmt.Sprintf("description %d", i),
			Completed:   i%2 == 0,
			CreatedAt:   created,
			UpdatedAt:   created.Add(1500 * time.Millisecond),
		})
	}
	return tasks
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 25} {
		t.Run(fmt.Sprintf("%d tasks", n), func(t *testing.T) {
			original := sampleTasks(n)

			payload, err := EncodeTasks(original)
			require.NoError(t, err)

			decoded, err := DecodeTasks(payload)
			require.NoError(t, err)
			assert.Equal(t, original, decoded)
		})
	}
}

func TestEncodeTasks_WireFormat(t *testing.T) {
	payload, err := EncodeTasks(sampleTasks(1))
	require.NoError(t, err)

	assert.JSONEq(t, `[{
		"id": "id-0",
		"title": "task 0",
		"description": "description 0",
		"completed": true,
		"createdAt": "2024-12-31T23:59:58.123Z",
		"updatedAt": "2024-12-31T23:59:59.623Z"
	}]`, string(payload))
}

func TestEncodeTasks_EmptyIsArray(t *testing.T) {
	payload, err := EncodeTasks(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(payload))
}

func TestDecodeTasks_AcceptsOffsetsAndNormalizesToUTC(t *testing.T) {
	decoded, err := DecodeTasks([]byte(`[{"id":"x","title":"t","description":"","completed":false,
		"createdAt":"2025-01-02T09:00:00+09:00","updatedAt":"2025-01-02T00:00:01Z"}]`))
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	assert.Equal(t, time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), decoded[0].CreatedAt)
}

func TestDecodeTasks_Malformed(t *testing.T) {
	cases := map[string]string{
		"not json":          `{{{`,
		"object":            `{"id":"x"}`,
		"bad timestamp":     `[{"id":"x","title":"t","createdAt":"yesterday","updatedAt":"2025-01-01T00:00:00Z"}]`,
		"missing timestamp": `[{"id":"x","title":"t","createdAt":"2025-01-01T00:00:00Z"}]`,
		"missing id":        `[{"title":"t","createdAt":"2025-01-01T00:00:00Z","updatedAt":"2025-01-01T00:00:00Z"}]`,
		"duplicate id": `[{"id":"x","title":"a","createdAt":"2025-01-01T00:00:00Z","updatedAt":"2025-01-01T00:00:00Z"},
			{"id":"x","title":"b","createdAt":"2025-01-01T00:00:00Z","updatedAt":"2025-01-01T00:00:00Z"}]`,
		"blank title":            `[{"id":"x","title":"   ","createdAt":"2025-01-01T00:00:00Z","updatedAt":"2025-01-01T00:00:00Z"}]`,
		"updated before created": `[{"id":"x","title":"t","createdAt":"2025-01-02T00:00:00Z","updatedAt":"2025-01-01T00:00:00Z"}]`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			decoded, err := DecodeTasks([]byte(payload))
			assert.Empty(t, decoded)
			assert.ErrorIs(t, err, domain.ErrMalformedData)
			assert.True(t, domain.IsDomainError(err, domain.ErrCodeMalformedData))
		})
	}
}

func TestDecodeTasks_EmptyPayload(t *testing.T) {
	decoded, err := DecodeTasks(nil)
	require.NoError(t, err)
	assert.Empty(t, decoded)

	decoded, err = DecodeTasks([]byte("null"))
	require.NoError(t, err)
	assert.Empty(t, decoded)
}
