package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bryanwahyu/legalynx/internal/domain/user"
)

func echoIdentity() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident, _ := IdentityFromContext(r.Context())
		_, _ = w.Write([]byte(ident.ID + "|" + ident.Email + "|" + ident.Name))
	})
}

func TestProxyIdentity(t *testing.T) {
	h := ProxyIdentity("s3cret")(echoIdentity())
	cases := []struct {
		name   string
		header map[string]string
		status int
		body   string
	}{
		{"no secret", map[string]string{HeaderUserID: "user_1"}, http.StatusUnauthorized, ""},
		{"wrong secret", map[string]string{HeaderProxySecret: "nope", HeaderUserID: "user_1"}, http.StatusUnauthorized, ""},
		{"no user", map[string]string{HeaderProxySecret: "s3cret"}, http.StatusUnauthorized, ""},
		{"bad user", map[string]string{HeaderProxySecret: "s3cret", HeaderUserID: "a b"}, http.StatusBadRequest, ""},
		{"ok", map[string]string{HeaderProxySecret: "s3cret", HeaderUserID: "user_1", HeaderUserEmail: "ana@example.com", HeaderUserName: " Ana\x00 "}, http.StatusOK, "user_1|ana@example.com|Ana"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
			for k, v := range tc.header {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d", rec.Code, tc.status)
			}
			if tc.body != "" && rec.Body.String() != tc.body {
				t.Fatalf("body = %q", rec.Body.String())
			}
		})
	}
}

func TestProxyIdentityWithoutSecret(t *testing.T) {
	h := ProxyIdentity("")(echoIdentity())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderUserID, "auth0|42")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !strings.HasPrefix(rec.Body.String(), "auth0|42") {
		t.Fatalf("got %d %q", rec.Code, rec.Body.String())
	}
}

type ensurerFunc func(context.Context, user.Identity) (*user.User, error)

func (f ensurerFunc) EnsureUser(ctx context.Context, ident user.Identity) (*user.User, error) {
	return f(ctx, ident)
}

func TestEnsureUser(t *testing.T) {
	var seen string
	ok := ensurerFunc(func(_ context.Context, ident user.Identity) (*user.User, error) {
		seen = ident.ID
		return &user.User{ID: ident.ID}, nil
	})
	failing := ensurerFunc(func(context.Context, user.Identity) (*user.User, error) {
		return nil, errors.New("db down")
	})
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithIdentity(req.Context(), user.Identity{ID: "user_9"}))

	rec := httptest.NewRecorder()
	EnsureUser(ok, logger)(next).ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent || seen != "user_9" {
		t.Fatalf("ok path: %d %q", rec.Code, seen)
	}

	rec = httptest.NewRecorder()
	EnsureUser(failing, logger)(next).ServeHTTP(rec, req)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("failing path: %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	EnsureUser(ok, logger)(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous path: %d", rec.Code)
	}
}

func TestRateLimitPerUser(t *testing.T) {
	rl := NewRateLimiter(2, 1)
	defer rl.Stop()
	h := RateLimit(rl)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	call := func(uid string) int {
		req := httptest.NewRequest(http.MethodPost, "/dashboard/analyses", nil)
		req = req.WithContext(WithIdentity(req.Context(), user.Identity{ID: uid}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}
	if call("a") != 200 || call("a") != 200 {
		t.Fatal("burst should be allowed")
	}
	if code := call("a"); code != http.StatusTooManyRequests {
		t.Fatalf("third call = %d", code)
	}
	if call("b") != 200 {
		t.Fatal("other users have their own bucket")
	}
}

func TestLoggingWritesRequestLine(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	h := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("abc"))
	}))
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set(HeaderUserID, "user_1")
	h.ServeHTTP(httptest.NewRecorder(), req)

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line: %v (%s)", err, buf.String())
	}
	if line["status"] != float64(418) || line["bytes"] != float64(3) || line["user_id"] != "user_1" || line["path"] != "/dashboard" {
		t.Fatalf("unexpected log line: %v", line)
	}
}

func TestHealthHandler(t *testing.T) {
	up := CheckFunc(func(context.Context) error { return nil })
	down := CheckFunc(func(context.Context) error { return errors.New("refused") })

	rec := httptest.NewRecorder()
	HealthHandler(map[string]HealthChecker{"db": up, "analysis": Degraded{down}})(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	var hs HealthStatus
	_ = json.NewDecoder(rec.Body).Decode(&hs)
	if rec.Code != http.StatusOK || hs.Status != "healthy" || hs.Checks["analysis"].Status != "degraded" {
		t.Fatalf("degraded check: %d %+v", rec.Code, hs)
	}

	rec = httptest.NewRecorder()
	HealthHandler(map[string]HealthChecker{"db": down})(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("failing check: %d", rec.Code)
	}
}

func TestMetricsCounters(t *testing.T) {
	before := GetMetrics()
	done := AnalysisStarted()
	done(errors.New("timeout"))
	IncrementFallbacks(nil)
	after := GetMetrics()

	for key, want := range map[string]uint64{"analyses_total": 1, "analyses_failed": 1, "analyses_fallback": 1, "analyses_running": 0} {
		if got := after[key].(uint64) - before[key].(uint64); got != want {
			t.Errorf("%s delta = %d, want %d", key, got, want)
		}
	}
}

func TestValidators(t *testing.T) {
	if err := ValidateAnalysisID("0b8f3c1e-2a54-4a47-9b59-5d1f8c0e7a11"); err != nil {
		t.Errorf("valid uuid rejected: %v", err)
	}
	for _, bad := range []string{"", "123", "0b8f3c1e2a544a479b595d1f8c0e7a11", "../etc/passwd"} {
		if ValidateAnalysisID(bad) == nil {
			t.Errorf("accepted %q", bad)
		}
	}
	if got := ValidateTitle(" Service\nAgreement\x07 "); got != "Service Agreement" {
		t.Errorf("title = %q", got)
	}
	if got := ValidateTitle(strings.Repeat("x", 300)); len(got) != 255 {
		t.Errorf("title len = %d", len(got))
	}
}
