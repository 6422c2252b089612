package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"
)

// LogRequest logs one line per request after the handler returns. Status and
// size are only known when an InjectWriter runs earlier in the chain.
func LogRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)

		attrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"proto", r.Proto,
			"ip", clientIP(r),
			"origin", r.Header.Get("Origin"),
			"user_agent", r.UserAgent(),
			"duration", time.Since(start),
		}

		if sw, ok := w.(*SafeResponseWriter); ok {
			attrs = append(attrs,
				slog.Int("status", sw.Status()),
				slog.Int("bytes", sw.BytesWritten()),
			)
		}

		slog.Info("Request handled", attrs...)
	})
}

func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}

	if forwardedFor := r.Header.Get("X-Forwarded-For"); forwardedFor != "" {
		first, _, _ := strings.Cut(forwardedFor, ",")
		return strings.TrimSpace(first)
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return ip
}
