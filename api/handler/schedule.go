package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/slotwise/backend/api/transport"
	"github.com/slotwise/backend/domain"
	"github.com/slotwise/backend/pkg/httpcontext"
	taskUC "github.com/slotwise/backend/usecase/task"
)

// ScheduleHandler serves the read-only schedule queries: free slots and
// day summaries.
type ScheduleHandler struct {
	baseHandler
	uc *taskUC.UseCase
}

func NewScheduleHandler(uc *taskUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Free slots for a day
// @Tags schedule
// @Router /api/v1/schedule/free-slots [get]
func (h *ScheduleHandler) FreeSlots(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	day, ok := h.parseDay(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	slots, err := h.uc.FreeSlots(stdCtx, userID, day)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, slots)
}

// @Summary Day summary
// @Tags schedule
// @Router /api/v1/schedule/summary [get]
func (h *ScheduleHandler) Summary(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	day, ok := h.parseDay(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	summary, err := h.uc.DaySummary(stdCtx, userID, day)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, summary)
}

func (h *ScheduleHandler) parseDay(ctx *fasthttp.RequestCtx) (time.Time, bool) {
	raw := string(ctx.QueryArgs().Peek("date"))
	if raw == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), true
	}
	day, err := time.Parse("2006-01-02", raw)
	if err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid date, want YYYY-MM-DD", nil))
		return time.Time{}, false
	}
	return day, true
}
