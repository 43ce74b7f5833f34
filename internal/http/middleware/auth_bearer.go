package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pribylovaa/go-social-platform/internal/config"
	apierrors "github.com/pribylovaa/go-social-platform/internal/errors"
	"github.com/pribylovaa/go-social-platform/internal/service"
	logctx "github.com/pribylovaa/go-social-platform/pkg/log"
)

type viewerKey struct{}

var errInvalidToken = errors.New("invalid token")

// Claims — полезная нагрузка access-токена, выпущенного сервисом авторизации.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// AuthBearer проверяет Bearer-токен (HS256, issuer, audience) и кладёт имя
// пользователя в контекст. Запрос без Authorization проходит как гостевой;
// неверный или просроченный токен отклоняется с 401.
func AuthBearer(cfg config.AuthConfig) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				next.ServeHTTP(w, r)
				return
			}

			const prefix = "Bearer "
			if !strings.HasPrefix(auth, prefix) {
				apierrors.WriteError(w, r, service.ErrUnauthenticated)
				return
			}

			username, err := ParseToken(cfg, strings.TrimSpace(auth[len(prefix):]))
			if err != nil {
				logctx.From(r.Context()).Warn("auth_token_rejected", "err", err.Error())
				apierrors.WriteError(w, r, service.ErrUnauthenticated)
				return
			}

			ctx := WithViewer(r.Context(), username)
			ctx = logctx.With(ctx, "viewer", username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ParseToken проверяет подпись и стандартные claims и возвращает имя пользователя.
func ParseToken(cfg config.AuthConfig, tokenStr string) (string, error) {
	if tokenStr == "" {
		return "", errInvalidToken
	}

	token, err := jwt.ParseWithClaims(tokenStr, &Claims{},
		func(t *jwt.Token) (interface{}, error) {
			if t.Method != jwt.SigningMethodHS256 {
				return nil, errInvalidToken
			}

			return []byte(cfg.JWTSecret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(5*time.Second),
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithAudience(cfg.Audience...),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", errInvalidToken
	}

	// Имя может прийти только в sub.
	username := claims.Username
	if username == "" {
		username = claims.Subject
	}
	if username == "" {
		return "", errInvalidToken
	}

	return username, nil
}

// Viewer возвращает имя аутентифицированного пользователя ("" — гость).
func Viewer(ctx context.Context) string {
	v, _ := ctx.Value(viewerKey{}).(string)
	return v
}

// WithViewer кладёт имя пользователя в контекст.
func WithViewer(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, viewerKey{}, username)
}
