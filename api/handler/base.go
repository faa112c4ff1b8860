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
	"github.com/fastygo/tasklist/pkg/logger"
)

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
	i18n    *i18n.Provider
}

func newBaseHandler(adapter *httpcontext.Adapter, messages *i18n.Provider, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{adapter: adapter, logger: logger, i18n: messages}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload transport.Envelope) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}

func (h baseHandler) respondSuccess(ctx *fasthttp.RequestCtx, status int, data interface{}) {
	h.respondJSON(ctx, status, transport.NewSuccess(data, nil))
}

// respondMutation reports a mutation result. A persistence failure still returns the
// data because the change is kept in memory; the failure travels as a warning.
func (h baseHandler) respondMutation(stdCtx context.Context, ctx *fasthttp.RequestCtx, status int, data interface{}, err error) {
	if err != nil && domain.IsDomainError(err, domain.ErrCodePersistence) {
		logger.WithRequestID(stdCtx, h.logger).Warn("mutation kept in memory only", zap.Error(err))
		warning := transport.Warning{
			Code:    string(domain.ErrCodePersistence),
			Message: h.translate("error.persistence", err.Error()),
		}
		h.respondJSON(ctx, status, transport.NewSuccess(data, map[string]interface{}{"warning": warning}))
		return
	}
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, status, data)
}

func (h baseHandler) respondError(stdCtx context.Context, ctx *fasthttp.RequestCtx, err error) {
	status, code := mapError(err)
	message := err.Error()
	switch code {
	case string(domain.ErrCodeEmptyTitle):
		message = h.translate("error.emptyTitle", message)
	case string(domain.ErrCodeNotFound):
		message = h.translate("error.notFound", message)
	case string(domain.ErrCodeInternal):
		logger.WithRequestID(stdCtx, h.logger).Error("request failed", zap.Error(err))
	}
	h.respondJSON(ctx, status, transport.NewError(code, message, nil))
}

func (h baseHandler) translate(key, fallback string) string {
	if h.i18n == nil {
		return fallback
	}
	return h.i18n.T(key, nil)
}

func (h baseHandler) dateFormatter() transport.DateFormatter {
	if h.i18n == nil {
		return nil
	}
	return h.i18n.FormatDate
}

func mapError(err error) (int, string) {
	switch {
	case domain.IsDomainError(err, domain.ErrCodeEmptyTitle):
		return http.StatusBadRequest, string(domain.ErrCodeEmptyTitle)
	case domain.IsDomainError(err, domain.ErrCodeInvalid):
		return http.StatusBadRequest, string(domain.ErrCodeInvalid)
	case domain.IsDomainError(err, domain.ErrCodeNotFound):
		return http.StatusNotFound, string(domain.ErrCodeNotFound)
	default:
		return http.StatusInternalServerError, string(domain.ErrCodeInternal)
	}
}
