package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantState  string
	}{
		{"up", nil, http.StatusOK, "ok"},
		{"down", errors.New("database not initialized"), http.StatusServiceUnavailable, "unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(pingerFunc(func(context.Context) error { return tt.err }))
			r := gin.New()
			r.GET("/api/health", h.Health)

			rec := doRequest(r, "GET", "/api/health", "")
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			if parseJSON(t, rec)["status"] != tt.wantState {
				t.Errorf("unexpected body %s", rec.Body.String())
			}
		})
	}
}
