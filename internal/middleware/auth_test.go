package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/syncdesk/internal/model"
	"github.com/hitoshi/syncdesk/internal/session"
	"github.com/hitoshi/syncdesk/internal/token"
)

// mockResolver はテスト用のResolver実装。
type mockResolver struct {
	user  *model.Session
	err   error
	calls int
}

func (m *mockResolver) FetchMe(_ context.Context, _ string) (*model.Session, error) {
	m.calls++
	return m.user, m.err
}

func TestAuthMiddleware_NoToken_InjectsUnauthenticatedContext(t *testing.T) {
	store := token.NewStore("", false, 3600)
	resolver := &mockResolver{}
	mw := NewAuthMiddleware(store, resolver)

	var gotState session.State
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotState = AuthFromContext(r.Context()).State()
	}))

	req := httptest.NewRequest(http.MethodGet, "/tickets", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if gotState != session.StateUnauthenticated {
		t.Errorf("state = %v, want %v", gotState, session.StateUnauthenticated)
	}
	if resolver.calls != 0 {
		t.Errorf("resolver.calls = %d, want 0（トークンなしではバックエンドを呼ばない）", resolver.calls)
	}
}

func TestAuthMiddleware_ValidToken_InjectsAuthenticatedContext(t *testing.T) {
	store := token.NewStore("", false, 3600)
	resolver := &mockResolver{
		user: &model.Session{UserID: "42", Phone: "09012345678", Role: model.RoleParent},
	}
	mw := NewAuthMiddleware(store, resolver)

	var gotUser *model.Session
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = AuthFromContext(r.Context()).User()
	}))

	req := httptest.NewRequest(http.MethodGet, "/tickets", nil)
	req.AddCookie(&http.Cookie{Name: token.CookieName, Value: "valid-token"})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if gotUser == nil {
		t.Fatal("ユーザーが注入されていない")
	}
	if gotUser.UserID != "42" {
		t.Errorf("UserID = %q, want %q", gotUser.UserID, "42")
	}
	if resolver.calls != 1 {
		t.Errorf("resolver.calls = %d, want 1", resolver.calls)
	}
}

func TestAuthFromContext_WithoutMiddleware_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("ミドルウェア外からの取得でpanicしなかった")
		}
	}()

	AuthFromContext(context.Background())
}

func TestContextWithAuth_RoundTrip(t *testing.T) {
	store := token.NewStore("", false, 3600)
	ac := session.NewContext(store, &mockResolver{})

	ctx := ContextWithAuth(context.Background(), ac)

	if got := AuthFromContext(ctx); got != ac {
		t.Errorf("AuthFromContext() = %p, want %p", got, ac)
	}
}
