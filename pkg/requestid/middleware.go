// Package requestid tags every request with an identifier that flows through
// the context into structured logs and the X-Request-ID response header.
package requestid

import (
	"context"
	"log/slog"
	"net/http"
	"regexp"

	"github.com/google/uuid"
)

const (
	// Header is the request/response header carrying the request ID.
	Header      = "X-Request-ID"
	maxIDLength = 128
)

// Inbound IDs outside this alphabet are replaced rather than propagated.
var validIDRegex = regexp.MustCompile("^[a-zA-Z0-9_-]+$")

// Middleware propagates a caller-supplied X-Request-ID when it is sane, and
// generates a fresh UUID otherwise. The ID is echoed in the response header
// and stored in the request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(Header)
		if !isValidRequestID(requestID) {
			requestID = uuid.New().String()
		}
		w.Header().Set(Header, requestID)
		next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), requestID)))
	})
}

// LoggerExtractor returns a context extractor for the logger so every log
// record emitted while handling a request carries its request ID.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if requestID := FromContext(ctx); requestID != "" {
			return slog.String("request_id", requestID), true
		}
		return slog.Attr{}, false
	}
}

func isValidRequestID(id string) bool {
	if len(id) == 0 || len(id) > maxIDLength {
		return false
	}
	return validIDRegex.MatchString(id)
}
