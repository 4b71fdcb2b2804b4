package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	_ "github.com/DenisKhanov/CandleArticles/internal/articles/metrics"
	"github.com/stretchr/testify/assert"
)

func TestOpsRouter(t *testing.T) {
	tests := map[string]struct {
		path       string
		ready      error
		wantStatus int
		wantBody   string
	}{
		"health":    {path: "/healthz", wantStatus: http.StatusOK, wantBody: "ok"},
		"ready":     {path: "/readyz", wantStatus: http.StatusOK, wantBody: "ready"},
		"not ready": {path: "/readyz", ready: errors.New("database: refused"), wantStatus: http.StatusServiceUnavailable, wantBody: "database: refused"},
		"metrics":   {path: "/metrics", wantStatus: http.StatusOK, wantBody: "candle_articles_classification_fallbacks_total"},
		"unknown":   {path: "/nope", wantStatus: http.StatusNotFound},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			router := newOpsRouter(func(context.Context) error { return tc.ready })
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))

			assert.Equal(t, tc.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tc.wantBody)
		})
	}
}

func TestServiceProvider_ReadyWithoutStore(t *testing.T) {
	sp := NewServiceProvider(nil)
	assert.NoError(t, sp.Ready(context.Background()))
	sp.Close()
}
