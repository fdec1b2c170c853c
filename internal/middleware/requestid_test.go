package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequestIDMiddleware_GeneratesID(t *testing.T) {
	mw := NewRequestIDMiddleware()

	var ctxID string
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxID = RequestIDFromContext(r.Context())
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if ctxID == "" {
		t.Error("リクエストIDが生成されていない")
	}
	if got := w.Header().Get("X-Request-ID"); got != ctxID {
		t.Errorf("レスポンスヘッダーのID = %q, コンテキストのID = %q", got, ctxID)
	}
}

func TestRequestIDMiddleware_PreservesIncomingID(t *testing.T) {
	mw := NewRequestIDMiddleware()

	var ctxID string
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxID = RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "incoming-id")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if ctxID != "incoming-id" {
		t.Errorf("リクエストID = %q, want %q", ctxID, "incoming-id")
	}
}

func TestSecurityHeadersMiddleware_SetsHeaders(t *testing.T) {
	mw := NewSecurityHeadersMiddleware()
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	tests := []struct {
		header string
		want   string
	}{
		{"X-Content-Type-Options", "nosniff"},
		{"X-Frame-Options", "DENY"},
		{"Referrer-Policy", "strict-origin-when-cross-origin"},
	}
	for _, tt := range tests {
		if got := w.Header().Get(tt.header); got != tt.want {
			t.Errorf("%s = %q, want %q", tt.header, got, tt.want)
		}
	}
	if w.Header().Get("Content-Security-Policy") == "" {
		t.Error("Content-Security-Policyが設定されていない")
	}
}
