package middleware

import (
	"net"
	"net/http"
	"strings"
	"time"

	"callguard-lab/internal/infrastructure/cache"
	"callguard-lab/pkg/logger"
)

// RateLimit returns middleware that enforces a per-client request limit
// backed by Redis. When Redis is unavailable the request is allowed;
// losing rate limiting is preferable to refusing all traffic.
func RateLimit(redis *cache.RedisCache, requestsPerMinute int, log *logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientID := getClientID(r)

			allowed, err := redis.CheckRateLimit(r.Context(), clientID, requestsPerMinute, time.Minute)
			if err != nil {
				log.Warn().Err(err).Str("client", clientID).Msg("rate limit check failed")
				next.ServeHTTP(w, r)
				return
			}

			if !allowed {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", "60")
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"error":"rate limit exceeded"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// getClientID identifies the client by forwarded header or remote address.
func getClientID(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	if rip := r.Header.Get("X-Real-IP"); rip != "" {
		return rip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
