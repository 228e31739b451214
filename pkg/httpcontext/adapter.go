// Package httpcontext bridges fasthttp requests to stdlib contexts so use
// cases stay transport-agnostic.
package httpcontext

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	appLogger "github.com/slotwise/backend/pkg/logger"
)

// Key identifies request metadata stored in the derived context.
type Key string

const (
	KeyRemoteAddr Key = "remote_addr"
	KeyUserAgent  Key = "user_agent"
)

// Adapter derives a deadline-bound context from a fasthttp request and
// carries over the request ID and client metadata. The request ID is echoed
// back in the response header so clients can correlate logs.
type Adapter struct {
	timeout time.Duration
}

func NewAdapter(timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Adapter{timeout: timeout}
}

// Attach returns the derived context; the caller owns the cancel func.
func (a *Adapter) Attach(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	stdCtx, cancel := context.WithTimeout(context.Background(), a.timeout)

	requestID := requestIDFrom(ctx)
	stdCtx = appLogger.ContextWithRequestID(stdCtx, requestID)
	ctx.Response.Header.Set("X-Request-ID", requestID)

	if addr := ctx.RemoteAddr(); addr != nil {
		stdCtx = context.WithValue(stdCtx, KeyRemoteAddr, addr.String())
	}
	if agent := string(ctx.Request.Header.UserAgent()); agent != "" {
		stdCtx = context.WithValue(stdCtx, KeyUserAgent, agent)
	}
	return stdCtx, cancel
}

// requestIDFrom honors a client-supplied X-Request-ID and mints one otherwise.
func requestIDFrom(ctx *fasthttp.RequestCtx) string {
	if ctx != nil {
		if header := strings.TrimSpace(string(ctx.Request.Header.Peek("X-Request-ID"))); header != "" {
			return header
		}
	}
	return uuid.NewString()
}
