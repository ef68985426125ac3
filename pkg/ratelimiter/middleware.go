package ratelimiter

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/coachdesk/coachdesk/pkg/clientip"
	"github.com/coachdesk/coachdesk/pkg/logger"
)

// KeyFunc extracts a rate limit key from the request.
// An empty key bypasses the limiter.
type KeyFunc func(r *http.Request) string

// ByClientIP keys requests by client IP, preferring the one clientip.Middleware stored.
func ByClientIP(r *http.Request) string {
	if ip := clientip.FromContext(r.Context()); ip != "" {
		return ip
	}
	return clientip.GetIP(r)
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func writeError(w http.ResponseWriter, status int, code string) {
	var body errorBody
	body.Error.Code = code
	body.Error.Message = http.StatusText(status)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// Middleware rejects requests over the limit with 429 and a JSON error body.
// Every limited response carries X-RateLimit-* headers.
func Middleware(limiter RateLimiter, keyFunc KeyFunc, log *slog.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFunc(r)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			result, err := limiter.Allow(r.Context(), key)
			if err != nil {
				log.ErrorContext(r.Context(), "rate limiter failed",
					logger.Component("ratelimiter"),
					logger.Error(err))
				writeError(w, http.StatusInternalServerError, "internal_error")
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(0, result.Remaining)))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

			if !result.Allowed() {
				if retryAfter := int(result.RetryAfter().Seconds()); retryAfter > 0 {
					w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				}
				log.WarnContext(r.Context(), "rate limit exceeded",
					logger.Component("ratelimiter"),
					slog.String("key", key))
				writeError(w, http.StatusTooManyRequests, "too_many_requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
