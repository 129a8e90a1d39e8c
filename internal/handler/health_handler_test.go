package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name    string
		checker *mockPinger
		status  int
		want    string
	}{
		{"no checker", nil, http.StatusOK, "ok"},
		{"ping ok", &mockPinger{}, http.StatusOK, "ok"},
		{"ping failed", &mockPinger{err: errors.New("connection refused")}, http.StatusServiceUnavailable, "unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(nil)
			if tt.checker != nil {
				h = NewHealthHandler(tt.checker)
			}

			w := httptest.NewRecorder()
			h.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			if w.Code != tt.status {
				t.Errorf("status = %d, want %d", w.Code, tt.status)
			}
			if body := decodeJSON[map[string]string](t, w); body["status"] != tt.want {
				t.Errorf("status body = %q, want %q", body["status"], tt.want)
			}
		})
	}
}
