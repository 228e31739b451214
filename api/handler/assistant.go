package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/slotwise/backend/api/transport"
	"github.com/slotwise/backend/domain"
	"github.com/slotwise/backend/pkg/httpcontext"
	assistantUC "github.com/slotwise/backend/usecase/assistant"
)

type AssistantHandler struct {
	baseHandler
	uc *assistantUC.UseCase
}

func NewAssistantHandler(uc *assistantUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *AssistantHandler {
	return &AssistantHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Interpret an utterance into a scheduled task
// @Tags assistant
// @Router /api/v1/assistant/interpret [post]
func (h *AssistantHandler) Interpret(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	var req transport.InterpretRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.Utterance == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	ref := time.Now()
	if req.ReferenceDate != "" {
		parsed, err := time.Parse(time.RFC3339, req.ReferenceDate)
		if err != nil {
			h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid reference_date", nil))
			return
		}
		ref = parsed
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	result, err := h.uc.Interpret(stdCtx, userID, req.Utterance, ref)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	// Clarifications and conflicts are valid outcomes, not transport errors.
	h.respondSuccess(ctx, http.StatusOK, result)
}
