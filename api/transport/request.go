package transport

// TaskRequest carries raw user input; the task store trims and validates it.
type TaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type LocaleRequest struct {
	Locale string `json:"locale"`
}
