package middleware

import (
	"net/http"
	"strconv"

	"github.com/careerpath/mentor-server-go/internal/audit"
	apperrors "github.com/careerpath/mentor-server-go/internal/errors"
)

// IPRateLimitMiddleware throttles by client address before authentication,
// which bounds token guessing. Run it after chi's RealIP.
type IPRateLimitMiddleware struct {
	limiter Limiter
	limit   int
}

func NewIPRateLimitMiddleware(limiter Limiter, limit int) *IPRateLimitMiddleware {
	return &IPRateLimitMiddleware{
		limiter: limiter,
		limit:   limit,
	}
}

func (m *IPRateLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.limit <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		allowed, _, _ := m.limiter.Check(r.Context(), "ip:"+r.RemoteAddr, m.limit)
		if !allowed {
			audit.LogFromRequest(r, audit.Event{
				Type:    audit.EventRateLimitExceed,
				Details: map[string]interface{}{"path": r.URL.Path, "limit": m.limit, "scope": "ip"},
			})
			w.Header().Set("Retry-After", strconv.Itoa(int(windowDuration.Seconds())))
			writeError(w, apperrors.RateLimitExceeded())
			return
		}

		next.ServeHTTP(w, r)
	})
}
