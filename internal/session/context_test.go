package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/syncdesk/internal/model"
	"github.com/hitoshi/syncdesk/internal/token"
)

// --- モック定義 ---

type mockResolver struct {
	fetchMeFn func(ctx context.Context, tok string) (*model.Session, error)
	calls     int
}

func (m *mockResolver) FetchMe(ctx context.Context, tok string) (*model.Session, error) {
	m.calls++
	if m.fetchMeFn != nil {
		return m.fetchMeFn(ctx, tok)
	}
	return nil, model.ErrSessionInvalid
}

func requestWithToken(tok string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if tok != "" {
		r.AddCookie(&http.Cookie{Name: token.CookieName, Value: tok})
	}
	return r
}

// --- テスト ---

func TestResolve_NoToken_GoesUnauthenticatedWithoutBackendCall(t *testing.T) {
	resolver := &mockResolver{}
	c := NewContext(token.NewStore("", false, 3600), resolver)

	if c.State() != StateResolving {
		t.Fatalf("initial state = %v, want resolving", c.State())
	}

	w := httptest.NewRecorder()
	c.Resolve(context.Background(), requestWithToken(""), w)

	if c.State() != StateUnauthenticated {
		t.Errorf("state = %v, want unauthenticated", c.State())
	}
	if resolver.calls != 0 {
		t.Errorf("FetchMe calls = %d, want 0 when no token is stored", resolver.calls)
	}
}

func TestResolve_Success_GoesAuthenticated(t *testing.T) {
	resolver := &mockResolver{
		fetchMeFn: func(ctx context.Context, tok string) (*model.Session, error) {
			return &model.Session{UserID: "1", Phone: "+15550000001", Role: model.RoleParent}, nil
		},
	}
	c := NewContext(token.NewStore("", false, 3600), resolver)

	w := httptest.NewRecorder()
	c.Resolve(context.Background(), requestWithToken("tok-ok"), w)

	if c.State() != StateAuthenticated {
		t.Errorf("state = %v, want authenticated", c.State())
	}
	if c.User() == nil || c.User().UserID != "1" {
		t.Errorf("user = %+v, want resolved session", c.User())
	}
	if c.Token() != "tok-ok" {
		t.Errorf("token = %q, want %q", c.Token(), "tok-ok")
	}
}

func TestResolve_Failure_ClearsTokenAndGoesUnauthenticated(t *testing.T) {
	resolver := &mockResolver{}
	c := NewContext(token.NewStore("", false, 3600), resolver)

	w := httptest.NewRecorder()
	c.Resolve(context.Background(), requestWithToken("stale"), w)

	if c.State() != StateUnauthenticated {
		t.Errorf("state = %v, want unauthenticated", c.State())
	}
	// トークン削除のCookieが同一レスポンスに書き込まれていること
	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge != -1 {
		t.Errorf("expected a clearing cookie, got %+v", cookies)
	}
}

func TestResolve_RunsOnlyOnce(t *testing.T) {
	resolver := &mockResolver{
		fetchMeFn: func(ctx context.Context, tok string) (*model.Session, error) {
			return &model.Session{UserID: "1"}, nil
		},
	}
	c := NewContext(token.NewStore("", false, 3600), resolver)

	w := httptest.NewRecorder()
	r := requestWithToken("tok")
	c.Resolve(context.Background(), r, w)
	c.Resolve(context.Background(), r, w)

	if resolver.calls != 1 {
		t.Errorf("FetchMe calls = %d, want 1 (resolution runs once)", resolver.calls)
	}
}

func TestLogin_PersistsTokenAndOverwritesSession(t *testing.T) {
	c := NewContext(token.NewStore("", false, 3600), &mockResolver{})

	w := httptest.NewRecorder()
	c.Resolve(context.Background(), requestWithToken(""), w)

	w2 := httptest.NewRecorder()
	user := &model.Session{UserID: "2", Phone: "+15550000001", Role: model.RoleParent}
	c.Login(w2, user, "tok-new")

	if c.State() != StateAuthenticated {
		t.Errorf("state = %v, want authenticated", c.State())
	}
	cookies := w2.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value != "tok-new" {
		t.Fatalf("token cookie should be written before navigation, got %+v", cookies)
	}

	// 既存セッションの上書き
	w3 := httptest.NewRecorder()
	c.Login(w3, &model.Session{UserID: "3"}, "tok-newer")
	if c.User().UserID != "3" {
		t.Errorf("user = %q, want overwritten session 3", c.User().UserID)
	}
	if c.Token() != "tok-newer" {
		t.Errorf("token = %q, want tok-newer", c.Token())
	}
}

func TestLogout_ClearsTokenBeforeRedirect(t *testing.T) {
	resolver := &mockResolver{
		fetchMeFn: func(ctx context.Context, tok string) (*model.Session, error) {
			return &model.Session{UserID: "1"}, nil
		},
	}
	store := token.NewStore("", false, 3600)
	c := NewContext(store, resolver)

	w := httptest.NewRecorder()
	c.Resolve(context.Background(), requestWithToken("tok"), w)

	w2 := httptest.NewRecorder()
	c.Logout(w2)

	if c.State() != StateUnauthenticated {
		t.Errorf("state = %v, want unauthenticated", c.State())
	}
	if c.User() != nil {
		t.Errorf("user should be nil after logout")
	}
	cookies := w2.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge != -1 {
		t.Fatalf("expected clearing cookie, got %+v", cookies)
	}

	// 削除後のGetは空を返す
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := store.Get(r); got != "" {
		t.Errorf("Get after logout = %q, want empty", got)
	}
}
