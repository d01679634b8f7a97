package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestMiddlewareRecordsSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	handler := Middleware("printshop", tp, "/health")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	for _, path := range []string{"/inventory", "/health"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusTeapot, rec.Code)
	}

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "HTTP GET /inventory", spans[0].Name())
}

func TestSetup(t *testing.T) {
	ctx := context.Background()

	p, err := Setup(ctx, Options{ServiceName: "printshop"})
	require.NoError(t, err)
	assert.False(t, p.Enabled())
	assert.Nil(t, p.TracerProvider())
	assert.NoError(t, p.Shutdown(ctx))

	_, err = Setup(ctx, Options{ServiceName: "printshop", Exporter: "zipkin"})
	assert.Error(t, err)

	_, err = Setup(ctx, Options{ServiceName: "printshop", Exporter: ExporterOTLP})
	assert.Error(t, err)

	p, err = Setup(ctx, Options{ServiceName: "printshop", Version: "test", Exporter: ExporterStdout})
	require.NoError(t, err)
	assert.True(t, p.Enabled())
	assert.NoError(t, p.Shutdown(ctx))
}
