package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/tasklist/api/transport"
	"github.com/fastygo/tasklist/domain"
	"github.com/fastygo/tasklist/pkg/httpcontext"
	"github.com/fastygo/tasklist/pkg/i18n"
	"github.com/fastygo/tasklist/pkg/logger"
)

type LocaleHandler struct {
	baseHandler
}

func NewLocaleHandler(messages *i18n.Provider, adapter *httpcontext.Adapter, logger *zap.Logger) *LocaleHandler {
	return &LocaleHandler{baseHandler: newBaseHandler(adapter, messages, logger)}
}

// @Summary Current locale and message bundle
// @Tags locale
// @Router /api/v1/locale [get]
func (h *LocaleHandler) GetLocale(ctx *fasthttp.RequestCtx) {
	h.respondSuccess(ctx, http.StatusOK, h.localeView())
}

// @Summary Switch locale
// @Tags locale
// @Router /api/v1/locale [put]
func (h *LocaleHandler) SetLocale(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	var req transport.LocaleRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondError(stdCtx, ctx, domain.ErrInvalidPayload)
		return
	}

	if err := h.i18n.SetLocale(req.Locale); err != nil {
		if errors.Is(err, i18n.ErrUnsupportedLocale) {
			err = domain.WrapError(domain.ErrCodeInvalid, "unsupported locale", err)
		}
		h.respondError(stdCtx, ctx, err)
		return
	}
	logger.WithRequestID(stdCtx, h.logger).Info("locale changed", zap.String("locale", string(h.i18n.CurrentLocale())))
	h.respondSuccess(ctx, http.StatusOK, h.localeView())
}

func (h *LocaleHandler) localeView() transport.LocaleView {
	current := h.i18n.CurrentLocale()
	options := make([]transport.LanguageOption, 0, len(h.i18n.Locales()))
	for _, loc := range h.i18n.Locales() {
		options = append(options, transport.LanguageOption{Code: string(loc), Name: h.i18n.LanguageName(loc)})
	}
	return transport.LocaleView{
		Locale:    string(current),
		Name:      h.i18n.LanguageName(current),
		Supported: options,
		Messages:  h.i18n.Messages(),
	}
}
