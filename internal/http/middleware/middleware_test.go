package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/go-social-platform/internal/config"
)

// capHandler — тестовый slog.Handler: копит attrs последней записи.
type capHandler struct {
	base    []slog.Attr
	lastMsg string
	attrs   map[string]any
	count   int
}

func (h *capHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *capHandler) Handle(_ context.Context, r slog.Record) error {
	out := make(map[string]any, len(h.base)+8)

	for _, a := range h.base {
		out[a.Key] = a.Value.Any()
	}

	r.Attrs(func(a slog.Attr) bool {
		out[a.Key] = a.Value.Any()
		return true
	})

	h.count++
	h.lastMsg = r.Message
	h.attrs = out

	return nil
}

func (h *capHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) > 0 {
		h.base = append(h.base, attrs...)
	}

	return h
}

func (h *capHandler) WithGroup(string) slog.Handler { return h }

func makeReq(target string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.RemoteAddr = (&net.TCPAddr{IP: net.ParseIP("127.0.0.1"), Port: 12345}).String()
	return req
}

type errEnvelope struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id,omitempty"`
	} `json:"error"`
}

var testAuth = config.AuthConfig{
	JWTSecret: "test-secret",
	Issuer:    "auth-service",
	Audience:  []string{"social-service"},
}

func signToken(t *testing.T, secret string, claims Claims) string {
	t.Helper()

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	return tok
}

func validClaims(username string) Claims {
	now := time.Now()
	return Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    testAuth.Issuer,
			Audience:  jwt.ClaimStrings(testAuth.Audience),
		},
	}
}

func TestChain_Order(t *testing.T) {
	order := []string{}

	m1 := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "m1-begin")
			next.ServeHTTP(w, r)
			order = append(order, "m1-end")
		})
	}

	m2 := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "m2-begin")
			next.ServeHTTP(w, r)
			order = append(order, "m2-end")
		})
	}

	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
		w.WriteHeader(http.StatusTeapot)
	})

	rr := httptest.NewRecorder()
	Chain(final, m1, m2).ServeHTTP(rr, makeReq("/chain"))

	require.Equal(t, []string{"m1-begin", "m2-begin", "handler", "m2-end", "m1-end"}, order)
	require.Equal(t, http.StatusTeapot, rr.Code)
}

func TestRequestID_GenerateAndPropagate(t *testing.T) {
	var seenID, seenCtxID string

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = r.Header.Get("X-Request-Id")
		seenCtxID = RequestIDFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	Chain(h, RequestID()).ServeHTTP(rr, makeReq("/rid"))

	respID := rr.Header().Get("X-Request-Id")
	require.Len(t, respID, 32) // 16 байт -> 32 hex-символа
	require.Equal(t, respID, seenID)
	require.Equal(t, respID, seenCtxID)
}

func TestRequestID_UseExisting(t *testing.T) {
	const given = "abc123-existing-id"
	var seenCtxID string

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenCtxID = RequestIDFrom(r.Context())
	})

	rr := httptest.NewRecorder()
	req := makeReq("/rid2")
	req.Header.Set("X-Request-Id", given)
	Chain(h, RequestID()).ServeHTTP(rr, req)

	require.Equal(t, given, rr.Header().Get("X-Request-Id"))
	require.Equal(t, given, seenCtxID)
}

func TestAuthBearer_ValidToken(t *testing.T) {
	var viewer string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		viewer = Viewer(r.Context())
	})

	req := makeReq("/auth")
	req.Header.Set("Authorization", "Bearer "+signToken(t, testAuth.JWTSecret, validClaims("alice")))
	rr := httptest.NewRecorder()
	Chain(h, AuthBearer(testAuth)).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "alice", viewer)
}

func TestAuthBearer_SubjectFallback(t *testing.T) {
	claims := validClaims("")
	claims.Subject = "bob"

	username, err := ParseToken(testAuth, signToken(t, testAuth.JWTSecret, claims))
	require.NoError(t, err)
	require.Equal(t, "bob", username)
}

func TestAuthBearer_NoHeader_Guest(t *testing.T) {
	called := false
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		require.Empty(t, Viewer(r.Context()))
	})

	rr := httptest.NewRecorder()
	Chain(h, AuthBearer(testAuth)).ServeHTTP(rr, makeReq("/auth"))

	require.True(t, called)
}

func TestAuthBearer_Rejects(t *testing.T) {
	expired := validClaims("alice")
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

	wrongAud := validClaims("alice")
	wrongAud.Audience = jwt.ClaimStrings{"other"}

	tcs := map[string]string{
		"basic":     "Basic aaa",
		"garbage":   "Bearer not-a-jwt",
		"bad_sign":  "Bearer " + signToken(t, "other-secret", validClaims("alice")),
		"expired":   "Bearer " + signToken(t, testAuth.JWTSecret, expired),
		"audience":  "Bearer " + signToken(t, testAuth.JWTSecret, wrongAud),
		"anonymous": "Bearer " + signToken(t, testAuth.JWTSecret, validClaims("")),
	}

	for name, header := range tcs {
		t.Run(name, func(t *testing.T) {
			h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("handler must not be called")
			})

			req := makeReq("/auth")
			req.Header.Set("Authorization", header)
			rr := httptest.NewRecorder()
			Chain(h, AuthBearer(testAuth)).ServeHTTP(rr, req)

			require.Equal(t, http.StatusUnauthorized, rr.Code)

			var env errEnvelope
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
			require.Equal(t, "unauthenticated", env.Error.Code)
		})
	}
}

func TestTimeout_SetsDeadline_WhenAbsent(t *testing.T) {
	var hasDeadline bool

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasDeadline = r.Context().Deadline()
	})

	rr := httptest.NewRecorder()
	Chain(h, Timeout(50*time.Millisecond)).ServeHTTP(rr, makeReq("/timeout"))

	require.True(t, hasDeadline)
}

func TestTimeout_DoesNotOverrideExistingDeadline(t *testing.T) {
	var childDL time.Time

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		childDL, _ = r.Context().Deadline()
	})

	parent, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	rr := httptest.NewRecorder()
	Chain(h, Timeout(time.Second)).ServeHTTP(rr, makeReq("/timeout2").WithContext(parent))

	parentDL, _ := parent.Deadline()
	require.WithinDuration(t, parentDL, childDL, time.Millisecond)
}

func TestRecover_ConvertsPanicTo500(t *testing.T) {
	panicHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rr := httptest.NewRecorder()
	Chain(panicHandler, Recover()).ServeHTTP(rr, makeReq("/panic"))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var env errEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	require.Equal(t, "internal", env.Error.Code)
	require.NotContains(t, env.Error.Message, "boom")
}

func TestLogging_WritesRecord_WithRoutePattern(t *testing.T) {
	h := &capHandler{}
	logger := slog.New(h)

	const rid = "rid-456"
	r := chi.NewRouter()
	r.Use(RequestID(), Logging(logger))
	r.Get("/posts/{id}", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("0123456789")) // 10 байт, статус 200 по умолчанию
	})

	req := makeReq("/posts/p1")
	req.Header.Set("X-Request-Id", rid)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, 1, h.count)
	require.Equal(t, "http", h.lastMsg)

	require.Equal(t, http.MethodGet, h.attrs["method"])
	require.Equal(t, "/posts/p1", h.attrs["path"])
	require.Equal(t, "/posts/{id}", h.attrs["route"])
	require.EqualValues(t, http.StatusOK, h.attrs["status"])
	require.EqualValues(t, 10, h.attrs["bytes"])
	require.Equal(t, rid, h.attrs["request_id"])

	_, hasDur := h.attrs["dur"]
	require.True(t, hasDur)
}

func TestStatusWriter_CountsBytes_AndDefaultStatus200(t *testing.T) {
	sw := newStatusWriter(httptest.NewRecorder())

	_, _ = sw.Write([]byte("abcd"))

	require.Equal(t, http.StatusOK, sw.code())
	require.Equal(t, 4, sw.count)
}
