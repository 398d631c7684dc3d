package tracing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

var (
	recorderOnce sync.Once
	recorder     *tracetest.SpanRecorder
)

// spans 全局 provider 只能委托一次，整个包共用一个记录器
func spans(t *testing.T, name string) []sdktrace.ReadOnlySpan {
	t.Helper()
	var out []sdktrace.ReadOnlySpan
	for _, s := range recorder.Ended() {
		if s.Name() == name {
			out = append(out, s)
		}
	}
	return out
}

func setup() {
	recorderOnce.Do(func() {
		recorder = tracetest.NewSpanRecorder()
		otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	})
}

func attr(s sdktrace.ReadOnlySpan, key attribute.Key) (attribute.Value, bool) {
	for _, kv := range s.Attributes() {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestGinMiddlewareNamesSpanByRoute(t *testing.T) {
	setup()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinMiddleware())
	r.GET("/api/workouts/:id", func(c *gin.Context) { c.Status(http.StatusServiceUnavailable) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/workouts/42", nil))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	got := spans(t, "GET /api/workouts/:id")
	require.Len(t, got, 1)
	assert.Equal(t, codes.Error, got[0].Status().Code)
	status, ok := attr(got[0], "http.status_code")
	require.True(t, ok)
	assert.Equal(t, int64(http.StatusServiceUnavailable), status.AsInt64())
	route, ok := attr(got[0], "http.route")
	require.True(t, ok)
	assert.Equal(t, "/api/workouts/:id", route.AsString())
}

func TestStartStepAndFail(t *testing.T) {
	setup()
	ctx, parent := Tracer.Start(context.Background(), "workout_session.finish")
	_, step := StartStep(ctx, "workout_session.finish", "stats")
	Fail(step, "stats", errors.New("db down"))
	step.End()
	parent.End()

	got := spans(t, "workout_session.finish.stats")
	require.Len(t, got, 1)
	assert.Equal(t, codes.Error, got[0].Status().Code)
	assert.Equal(t, parent.SpanContext().SpanID(), got[0].Parent().SpanID())
	v, ok := attr(got[0], StepKey)
	require.True(t, ok)
	assert.Equal(t, "stats", v.AsString())
	require.Len(t, got[0].Events(), 1)
	assert.Equal(t, "exception", got[0].Events()[0].Name)
}
