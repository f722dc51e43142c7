package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/csrf"
	"golang.org/x/crypto/bcrypt"
)

var testCSRFKey = []byte("0123456789abcdef0123456789abcdef")

func TestRateLimiter_Allow(t *testing.T) {
	now := time.Date(2026, 5, 16, 9, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Second)
	rl.now = func() time.Time { return now }

	if !rl.Allow("10.0.0.1") || !rl.Allow("10.0.0.1") {
		t.Fatal("first two requests should pass")
	}
	if rl.Allow("10.0.0.1") {
		t.Error("third request within the interval should be limited")
	}
	if !rl.Allow("10.0.0.2") {
		t.Error("another IP has its own bucket")
	}

	now = now.Add(time.Second)
	if !rl.Allow("10.0.0.1") {
		t.Error("bucket should refill after the interval")
	}
}

func TestRateLimiter_Evict(t *testing.T) {
	now := time.Date(2026, 5, 16, 9, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, time.Second)
	rl.now = func() time.Time { return now }
	rl.Allow("10.0.0.1")

	now = now.Add(10 * time.Minute)
	rl.evict(5 * time.Minute)
	if len(rl.visitors) != 0 {
		t.Errorf("visitors = %d, want 0 after eviction", len(rl.visitors))
	}
}

func TestRateLimiter_RunStops(t *testing.T) {
	rl := NewRateLimiter(1, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		rl.Run(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRateLimit_Returns429(t *testing.T) {
	rl := NewRateLimiter(1, time.Hour)
	h := RateLimit(rl)(http.HandlerFunc(okHandler))

	for i, want := range []int{http.StatusOK, http.StatusTooManyRequests} {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = "192.0.2.7:5123"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != want {
			t.Errorf("request %d: status = %d, want %d", i, rr.Code, want)
		}
	}
}

func TestSecurityHeaders(t *testing.T) {
	rr := httptest.NewRecorder()
	SecurityHeaders(http.HandlerFunc(okHandler)).ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	csp := rr.Header().Get("Content-Security-Policy")
	for _, want := range []string{"frame-src https://streamable.com", "connect-src 'self' ws: wss:"} {
		if !strings.Contains(csp, want) {
			t.Errorf("CSP %q missing %q", csp, want)
		}
	}
	if rr.Header().Get("X-Frame-Options") != "DENY" {
		t.Errorf("X-Frame-Options = %q", rr.Header().Get("X-Frame-Options"))
	}
}

// csrfForm renders the token for GET and echoes "ok" for accepted posts.
func csrfForm() http.Handler {
	return CSRF(testCSRFKey, CSRFOptions{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			_, _ = io.WriteString(w, csrf.Token(r))
			return
		}
		_, _ = io.WriteString(w, "ok")
	}))
}

func TestCSRF_FormPostNeedsToken(t *testing.T) {
	h := csrfForm()

	req := httptest.NewRequest("POST", "/contact", strings.NewReader("naam=Anna"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Errorf("status without token = %d, want 403", rr.Code)
	}
}

func TestCSRF_FormPostWithToken(t *testing.T) {
	h := csrfForm()

	get := httptest.NewRecorder()
	h.ServeHTTP(get, httptest.NewRequest("GET", "/", nil))
	token := get.Body.String()
	cookies := get.Result().Cookies()
	if token == "" || len(cookies) == 0 {
		t.Fatalf("GET gave token %q and %d cookies", token, len(cookies))
	}

	form := url.Values{"naam": {"Anna"}, "gorilla.csrf.Token": {token}}
	req := httptest.NewRequest("POST", "/contact", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK || rr.Body.String() != "ok" {
		t.Errorf("status = %d body = %q, want 200 ok", rr.Code, rr.Body.String())
	}
}

func TestCSRF_ForeignOriginRejected(t *testing.T) {
	h := csrfForm()

	get := httptest.NewRecorder()
	h.ServeHTTP(get, httptest.NewRequest("GET", "/", nil))

	form := url.Values{"gorilla.csrf.Token": {get.Body.String()}}
	req := httptest.NewRequest("POST", "/contact", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Origin", "http://evil.example")
	for _, c := range get.Result().Cookies() {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403 for foreign origin", rr.Code)
	}
}

func TestCSRF_JSONExempt(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/contact", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	rr := httptest.NewRecorder()
	csrfForm().ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 for JSON", rr.Code)
	}
}

func TestCSRF_AuthorizationExempt(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/admin/outbox/o1/retry", nil)
	req.Header.Set("Authorization", "Bearer beheer")
	rr := httptest.NewRecorder()
	csrfForm().ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 for bearer requests", rr.Code)
	}
}

func TestChain_Order(t *testing.T) {
	var order []string
	tag := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := Chain(http.HandlerFunc(okHandler), tag("inner"), tag("outer"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	if strings.Join(order, ",") != "outer,inner" {
		t.Errorf("order = %v, want outer then inner", order)
	}
}

func TestBearerToken(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("teller-geheim"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	h := BearerToken(string(hash), "steps")(http.HandlerFunc(okHandler))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid", "Bearer teller-geheim", http.StatusOK},
		{"lowercase scheme", "bearer teller-geheim", http.StatusOK},
		{"wrong token", "Bearer raden", http.StatusUnauthorized},
		{"missing", "", http.StatusUnauthorized},
		{"basic scheme", "Basic dGVsbGVy", http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/steps", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			if rr.Code != tt.want {
				t.Errorf("status = %d, want %d", rr.Code, tt.want)
			}
			if tt.want == http.StatusUnauthorized && rr.Header().Get("WWW-Authenticate") == "" {
				t.Error("missing WWW-Authenticate header")
			}
		})
	}
}

func TestBearerToken_Disabled(t *testing.T) {
	h := BearerToken("", "admin")(http.HandlerFunc(okHandler))
	req := httptest.NewRequest("GET", "/api/admin/outbox", nil)
	req.Header.Set("Authorization", "Bearer anything")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 when no hash is configured", rr.Code)
	}
}

func TestRecover_HTMLFallback(t *testing.T) {
	h := Recover(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(errors.New("template exploded"))
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/media?photo=3", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "Pagina herladen") || !strings.Contains(body, `href="/media?photo=3"`) {
		t.Errorf("fallback body = %q", body)
	}
}

func TestRecover_JSONFallback(t *testing.T) {
	h := Recover(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("nil map")
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/api/partners", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
}

func TestRecover_AbortHandlerPropagates(t *testing.T) {
	h := Recover(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))
	defer func() {
		if r := recover(); r != http.ErrAbortHandler {
			t.Errorf("recovered %v, want http.ErrAbortHandler", r)
		}
	}()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
}

func TestRecover_PassThrough(t *testing.T) {
	called := false
	h := Recover(func(w http.ResponseWriter, r *http.Request) { called = true })(http.HandlerFunc(okHandler))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
	if called || rr.Code != http.StatusOK {
		t.Errorf("fallback called = %v, status = %d", called, rr.Code)
	}
}
