package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/tasklist/api/handler"
	"github.com/fastygo/tasklist/internal/infrastructure/monitor"
	"github.com/fastygo/tasklist/internal/router"
	"github.com/fastygo/tasklist/pkg/httpcontext"
	"github.com/fastygo/tasklist/pkg/i18n"
	"github.com/fastygo/tasklist/repository/memory"
	"github.com/fastygo/tasklist/usecase"
	taskUC "github.com/fastygo/tasklist/usecase/task"
)

type envelope struct {
	Status string          `json:"status"`
	Code   string          `json:"code"`
	Data   json.RawMessage `json:"data"`
	Error  json.RawMessage `json:"error"`
	Meta   json.RawMessage `json:"meta"`
}

type taskView struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	Completed        bool   `json:"completed"`
	CreatedAt        string `json:"createdAt"`
	UpdatedAt        string `json:"updatedAt"`
	CreatedAtDisplay string `json:"createdAtDisplay"`
	UpdatedAtDisplay string `json:"updatedAtDisplay"`
}

type testServer struct {
	handler fasthttp.RequestHandler
	repo    *memory.TaskRepository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	repo := memory.NewTaskRepository()
	clockAt := time.Date(2025, 3, 7, 10, 0, 0, 0, time.UTC)
	clock := usecase.ClockFunc(func() time.Time {
		clockAt = clockAt.Add(time.Hour)
		return clockAt
	})
	uc := taskUC.New(repo, nil, taskUC.WithClock(clock))

	messages, err := i18n.New("en", i18n.WithLocation(time.UTC))
	require.NoError(t, err)

	adapter := httpcontext.NewAdapter(time.Second)
	r := router.New(router.Handlers{
		Task:   apiHandler.NewTaskHandler(uc, messages, adapter, nil),
		Locale: apiHandler.NewLocaleHandler(messages, adapter, nil),
		Health: apiHandler.NewHealthHandler(monitor.New("memory", repo, uc, nil), adapter, nil),
	})
	return &testServer{handler: r.Handler, repo: repo}
}

func (s *testServer) do(t *testing.T, method, uri, body string) (int, envelope) {
	t.Helper()
	var req fasthttp.Request
	req.Header.SetMethod(method)
	req.SetRequestURI(uri)
	if body != "" {
		req.Header.SetContentType("application/json")
		req.SetBodyString(body)
	}

	var ctx fasthttp.RequestCtx
	ctx.Init(&req, nil, nil)
	s.handler(&ctx)

	var env envelope
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &env), string(ctx.Response.Body()))
	return ctx.Response.StatusCode(), env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestTaskLifecycle(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(t, http.MethodPost, "/api/v1/tasks", `{"title":"  Buy milk  ","description":" 2L "}`)
	require.Equal(t, http.StatusCreated, status)
	created := decode[taskView](t, env.Data)
	assert.Equal(t, "Buy milk", created.Title)
	assert.Equal(t, "2L", created.Description)
	assert.Equal(t, "3/7/2025", created.CreatedAtDisplay)
	assert.Empty(t, created.UpdatedAtDisplay)

	status, env = s.do(t, http.MethodPost, "/api/v1/tasks/"+created.ID+"/toggle", "")
	require.Equal(t, http.StatusOK, status)
	toggled := decode[taskView](t, env.Data)
	assert.True(t, toggled.Completed)
	assert.NotEmpty(t, toggled.UpdatedAtDisplay)

	status, env = s.do(t, http.MethodPut, "/api/v1/tasks/"+created.ID, `{"title":"Buy oat milk","description":""}`)
	require.Equal(t, http.StatusOK, status)
	edited := decode[taskView](t, env.Data)
	assert.Equal(t, "Buy oat milk", edited.Title)
	assert.True(t, edited.Completed)

	status, env = s.do(t, http.MethodGet, "/api/v1/tasks/"+created.ID, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, edited, decode[taskView](t, env.Data))

	status, env = s.do(t, http.MethodGet, "/api/v1/counts", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"total":1,"completed":1,"pending":0}`, string(env.Data))

	status, env = s.do(t, http.MethodDelete, "/api/v1/tasks/"+created.ID, "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"total":0,"completed":0,"pending":0}`, string(env.Data))

	status, env = s.do(t, http.MethodDelete, "/api/v1/tasks/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", env.Code)
	assert.JSONEq(t, `"Task not found"`, string(env.Error))
}

func TestListTasks_NewestFirst(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/api/v1/tasks", `{"title":"Task A"}`)
	s.do(t, http.MethodPost, "/api/v1/tasks", `{"title":"Task B","description":"desc"}`)

	status, env := s.do(t, http.MethodGet, "/api/v1/tasks", "")
	require.Equal(t, http.StatusOK, status)

	list := decode[struct {
		Tasks  []taskView     `json:"tasks"`
		Counts map[string]int `json:"counts"`
	}](t, env.Data)
	require.Len(t, list.Tasks, 2)
	assert.Equal(t, "Task B", list.Tasks[0].Title)
	assert.Equal(t, "Task A", list.Tasks[1].Title)
	assert.Equal(t, 2, list.Counts["pending"])
}

func TestCreateTask_Rejections(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(t, http.MethodPost, "/api/v1/tasks", `{"title":"   "}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "EMPTY_TITLE", env.Code)
	assert.JSONEq(t, `"Please enter a task title"`, string(env.Error))

	status, env = s.do(t, http.MethodPost, "/api/v1/tasks", `not json`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID", env.Code)
	assert.JSONEq(t, `"invalid payload"`, string(env.Error))

	assert.Zero(t, s.repo.Saves())
}

func TestMutation_PersistenceFailureIsWarning(t *testing.T) {
	s := newTestServer(t)
	s.repo.FailWrites(true)

	status, env := s.do(t, http.MethodPost, "/api/v1/tasks", `{"title":"unsaved"}`)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "success", env.Status)
	assert.Equal(t, "unsaved", decode[taskView](t, env.Data).Title)

	meta := decode[map[string]map[string]string](t, env.Meta)
	assert.Equal(t, "PERSISTENCE", meta["warning"]["code"])

	status, env = s.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "DEGRADED", env.Code)

	s.repo.FailWrites(false)
	s.do(t, http.MethodPost, "/api/v1/tasks", `{"title":"saved"}`)
	status, _ = s.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, status)
}

func TestLocaleEndpoints(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(t, http.MethodGet, "/api/v1/locale", "")
	require.Equal(t, http.StatusOK, status)
	view := decode[struct {
		Locale    string            `json:"locale"`
		Supported []map[string]any  `json:"supported"`
		Messages  map[string]string `json:"messages"`
	}](t, env.Data)
	assert.Equal(t, "en", view.Locale)
	assert.Len(t, view.Supported, 4)
	assert.Equal(t, "Task Manager", view.Messages["app.title"])

	status, env = s.do(t, http.MethodPut, "/api/v1/locale", `{"locale":"ja-JP"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"locale":"ja"`)

	status, env = s.do(t, http.MethodPost, "/api/v1/tasks", `{"title":""}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.JSONEq(t, `"タスクタイトルを入力してください"`, string(env.Error))

	status, env = s.do(t, http.MethodPut, "/api/v1/locale", `{"locale":"fr"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID", env.Code)

	status, env = s.do(t, http.MethodPut, "/api/v1/locale", `{locale}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID", env.Code)
	assert.JSONEq(t, `"invalid payload"`, string(env.Error))
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t)
	status, env := s.do(t, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", env.Code)
}
