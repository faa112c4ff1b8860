package repository

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fastygo/tasklist/domain"
)

// TimestampLayout is the ISO-8601 form used for stored timestamps (UTC, milliseconds).
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

type taskRecord struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// EncodeTasks serializes the collection in slot format, preserving order.
func EncodeTasks(tasks []domain.Task) ([]byte, error) {
	records := make([]taskRecord, 0, len(tasks))
	for _, task := range tasks {
		records = append(records, taskRecord{
			ID:          task.ID,
			Title:       task.Title,
			Description: task.Description,
			Completed:   task.Completed,
			CreatedAt:   FormatTimestamp(task.CreatedAt),
			UpdatedAt:   FormatTimestamp(task.UpdatedAt),
		})
	}
	return json.Marshal(records)
}

// DecodeTasks parses a slot payload. Empty input is an empty collection; anything
// that cannot be decoded is reported as domain.ErrMalformedData.
func DecodeTasks(payload []byte) ([]domain.Task, error) {
	if len(payload) == 0 {
		return []domain.Task{}, nil
	}

	var records []taskRecord
	if err := json.Unmarshal(payload, &records); err != nil {
		return []domain.Task{}, malformed(err)
	}

	tasks := make([]domain.Task, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for i, rec := range records {
		if rec.ID == "" {
			return []domain.Task{}, malformed(fmt.Errorf("record %d: missing id", i))
		}
		if _, dup := seen[rec.ID]; dup {
			return []domain.Task{}, malformed(fmt.Errorf("record %d: duplicate id %s", i, rec.ID))
		}
		seen[rec.ID] = struct{}{}

		if strings.TrimSpace(rec.Title) == "" {
			return []domain.Task{}, malformed(fmt.Errorf("record %d: blank title", i))
		}

		createdAt, err := ParseTimestamp(rec.CreatedAt)
		if err != nil {
			return []domain.Task{}, malformed(fmt.Errorf("record %d: createdAt: %w", i, err))
		}
		updatedAt, err := ParseTimestamp(rec.UpdatedAt)
		if err != nil {
			return []domain.Task{}, malformed(fmt.Errorf("record %d: updatedAt: %w", i, err))
		}
		if updatedAt.Before(createdAt) {
			return []domain.Task{}, malformed(fmt.Errorf("record %d: updatedAt precedes createdAt", i))
		}

		tasks = append(tasks, domain.Task{
			ID:          rec.ID,
			Title:       rec.Title,
			Description: rec.Description,
			Completed:   rec.Completed,
			CreatedAt:   createdAt,
			UpdatedAt:   updatedAt,
		})
	}
	return tasks, nil
}

// FormatTimestamp renders t in stored form.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp accepts any RFC 3339 timestamp and normalizes it to UTC.
func ParseTimestamp(value string) (time.Time, error) {
	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, err
	}
	return parsed.UTC(), nil
}

func malformed(err error) error {
	return domain.WrapError(domain.ErrCodeMalformedData, domain.ErrMalformedData.Message, err)
}
