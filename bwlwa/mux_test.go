package bwlwa_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/advdv/bhttp"
	"github.com/basewarphq/morador/bwlwa"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMux_HandlerErrorIsServerError(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	mux := bwlwa.NewMux(zap.New(core))
	mux.HandleFunc("GET /fail", func(context.Context, bhttp.ResponseWriter, *http.Request) error {
		return errors.New("table unavailable")
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/fail", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if logs.FilterLoggerName("mux").Len() == 0 {
		t.Errorf("expected the error to be logged, logs: %v", logs.All())
	}
}
