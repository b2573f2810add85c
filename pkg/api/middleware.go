package api

import (
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/ulule/limiter/v3"
)

// RateLimit enforces a per-client-IP rate limit on the /api routes. The
// banner, version, and metrics endpoints stay unthrottled.
func RateLimit(l *limiter.Limiter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/api/") {
			next.ServeHTTP(w, r)
			return
		}

		limit, err := l.Get(r.Context(), l.GetIPKey(r))
		if err != nil {
			writeError(w, http.StatusInternalServerError, errors.Wrap(err, "failed to get limit"), []interface{}{})
			return
		}
		if limit.Reached {
			writeError(w, http.StatusTooManyRequests, errors.New("rate limit reached"), []interface{}{})
			return
		}

		next.ServeHTTP(w, r)
	})
}
