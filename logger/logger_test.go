package logger

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestGet(t *testing.T) {
	logger := Get()
	assert.NotNil(t, logger)
	assert.Same(t, logger, Get(), "Get should return the same instance")
}

func TestFromCtx(t *testing.T) {
	ctx := context.Background()
	assert.NotNil(t, FromCtx(ctx))
}

func TestWithCtx(t *testing.T) {
	ctx := context.Background()
	l := zap.NewNop()
	ctxWithLogger := WithCtx(ctx, l)

	assert.Same(t, l, FromCtx(ctxWithLogger))
	assert.Equal(t, ctxWithLogger, WithCtx(ctxWithLogger, l), "same logger should not be stored twice")
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	l := New(zapcore.AddSync(&buf), zap.WarnLevel)

	l.Info("dropped")
	l.Warn("kept", zap.Int("sides", 20))

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "kept")
	assert.Contains(t, buf.String(), `"sides"`)
}

func TestMiddleware(t *testing.T) {
	var got *zap.Logger
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromCtx(r.Context())
	})

	rr := httptest.NewRecorder()
	Middleware(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.NotNil(t, got)
	assert.NotSame(t, Get(), got, "request logger should be scoped")
	assert.NotEmpty(t, rr.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rr = httptest.NewRecorder()
	Middleware(next).ServeHTTP(rr, req)
	assert.Equal(t, "abc-123", rr.Header().Get(RequestIDHeader))
}
