package bwlwa

import (
	"context"
	"net/http"

	"github.com/advdv/bhttp"
	"go.uber.org/zap"
)

// Mux is an alias for bhttp.ServeMux with standard context.
type Mux = bhttp.ServeMux[context.Context]

// NewMux creates a Mux. Handler errors that are not a bhttp.Error are logged to
// logger and answered with 500.
func NewMux(logger *zap.Logger) *Mux {
	return bhttp.NewCustomServeMux(
		bhttp.StdContextInit,
		-1, // unlimited buffer
		bhttp.NewStdLogger(zap.NewStdLog(logger.Named("mux"))),
		http.NewServeMux(),
		bhttp.NewReverser(),
	)
}

// HealthHandler answers the LWA readiness check.
type HealthHandler = func(ctx context.Context, w bhttp.ResponseWriter, r *http.Request) error

func defaultHealth(_ context.Context, w bhttp.ResponseWriter, _ *http.Request) error {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, err := w.Write([]byte("ok"))
	return err
}

func registerHealth(m *Mux, env Environment, h HealthHandler) {
	m.HandleFunc("GET "+env.readinessCheckPath(), h, "health")
}
