package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/tasklist/api/transport"
	"github.com/fastygo/tasklist/domain"
	"github.com/fastygo/tasklist/pkg/httpcontext"
	"github.com/fastygo/tasklist/pkg/i18n"
	taskUC "github.com/fastygo/tasklist/usecase/task"
)

type TaskHandler struct {
	baseHandler
	uc *taskUC.UseCase
}

func NewTaskHandler(uc *taskUC.UseCase, messages *i18n.Provider, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, messages, logger),
		uc:          uc,
	}
}

// @Summary List tasks
// @Tags tasks
// @Router /api/v1/tasks [get]
func (h *TaskHandler) GetTasks(ctx *fasthttp.RequestCtx) {
	h.respondSuccess(ctx, http.StatusOK, transport.NewTaskListView(h.uc.List(), h.dateFormatter()))
}

// @Summary Get task
// @Tags tasks
// @Router /api/v1/tasks/{id} [get]
func (h *TaskHandler) GetTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.Get(taskID(ctx))
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.NewTaskView(*task, h.dateFormatter()))
}

// @Summary Task counts
// @Tags tasks
// @Router /api/v1/counts [get]
func (h *TaskHandler) GetCounts(ctx *fasthttp.RequestCtx) {
	h.respondSuccess(ctx, http.StatusOK, h.uc.Counts())
}

// @Summary Create task
// @Tags tasks
// @Router /api/v1/tasks [post]
func (h *TaskHandler) CreateTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	req, ok := h.parseTask(stdCtx, ctx)
	if !ok {
		return
	}

	created, err := h.uc.Add(stdCtx, req.Title, req.Description)
	h.respondMutation(stdCtx, ctx, http.StatusCreated, h.view(created), err)
}

// @Summary Edit task
// @Tags tasks
// @Router /api/v1/tasks/{id} [put]
func (h *TaskHandler) UpdateTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	req, ok := h.parseTask(stdCtx, ctx)
	if !ok {
		return
	}

	updated, err := h.uc.Edit(stdCtx, taskID(ctx), req.Title, req.Description)
	h.respondMutation(stdCtx, ctx, http.StatusOK, h.view(updated), err)
}

// @Summary Toggle task completion
// @Tags tasks
// @Router /api/v1/tasks/{id}/toggle [post]
func (h *TaskHandler) ToggleTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.ToggleComplete(stdCtx, taskID(ctx))
	h.respondMutation(stdCtx, ctx, http.StatusOK, h.view(updated), err)
}

// @Summary Delete task
// @Tags tasks
// @Router /api/v1/tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	err := h.uc.Remove(stdCtx, taskID(ctx))
	h.respondMutation(stdCtx, ctx, http.StatusOK, h.uc.Counts(), err)
}

func (h *TaskHandler) parseTask(stdCtx context.Context, ctx *fasthttp.RequestCtx) (*transport.TaskRequest, bool) {
	var req transport.TaskRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondError(stdCtx, ctx, domain.ErrInvalidPayload)
		return nil, false
	}
	return &req, true
}

// view returns nil for a nil task so failed mutations carry no data.
func (h *TaskHandler) view(task *domain.Task) interface{} {
	if task == nil {
		return nil
	}
	return transport.NewTaskView(*task, h.dateFormatter())
}

func taskID(ctx *fasthttp.RequestCtx) string {
	id, _ := ctx.UserValue("id").(string)
	return id
}
