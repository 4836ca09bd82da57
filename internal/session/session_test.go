package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{"sub": "user1", "exp": expiresAt.Unix()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestTokenPresence(t *testing.T) {
	s := New("dev1")
	if s.Authenticated() {
		t.Fatal("new session must be anonymous")
	}

	s.SetToken(signedToken(t, time.Now().Add(time.Hour)))
	if !s.Authenticated() {
		t.Fatal("expected authenticated after SetToken")
	}

	s.ClearToken()
	if _, ok := s.Token(); ok {
		t.Fatal("expected anonymous after ClearToken")
	}
}

func TestExpiredTokenCountsAsAbsent(t *testing.T) {
	s := New("dev1")
	s.SetToken(signedToken(t, time.Now().Add(-time.Minute)))

	if s.Authenticated() {
		t.Fatal("expired token must flip the session back to anonymous")
	}
}

func TestOpaqueTokenPassesThrough(t *testing.T) {
	s := New("dev1")
	s.SetToken("not-a-jwt")

	token, ok := s.Token()
	if !ok || token != "not-a-jwt" {
		t.Fatalf("opaque token must be usable, got %q ok=%v", token, ok)
	}
}

func TestMiddlewareMintsDeviceCookie(t *testing.T) {
	var gotDevice string
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotDevice = DeviceID(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cart", nil))

	if gotDevice == "" {
		t.Fatal("expected a minted device id")
	}
	cookies := rec.Result().Cookies()
	found := false
	for _, c := range cookies {
		if c.Name == DeviceCookie && c.Value == gotDevice {
			found = true
		}
	}
	if !found {
		t.Fatalf("device cookie not set: %+v", cookies)
	}
}

func TestMiddlewareReusesDeviceCookie(t *testing.T) {
	var gotDevice string
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotDevice = DeviceID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.AddCookie(&http.Cookie{Name: DeviceCookie, Value: "dev-abc"})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if gotDevice != "dev-abc" {
		t.Fatalf("expected dev-abc, got %q", gotDevice)
	}
}

func TestMiddlewareExtractsBearerToken(t *testing.T) {
	var gotToken string
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = BearerToken(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("Authorization", "Bearer tok123")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if gotToken != "tok123" {
		t.Fatalf("expected tok123, got %q", gotToken)
	}
}

func TestAccessorsOnBareContext(t *testing.T) {
	if DeviceID(context.Background()) != "" {
		t.Fatal("expected empty device id on bare context")
	}
	if BearerToken(context.Background()) != "" {
		t.Fatal("expected empty token on bare context")
	}
}
