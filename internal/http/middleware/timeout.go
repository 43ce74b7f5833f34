package middleware

import (
	"net/http"
	"time"

	"github.com/pribylovaa/go-social-platform/pkg/deadline"
)

// Timeout навешивает deadline на запрос, если его ещё нет.
// Значение <=0 делает мидлвар no-op.
func Timeout(d time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := deadline.Ensure(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
