package middleware

import (
	"net/http"
)

const (
	HeaderOrigin       = "Origin"
	HeaderVary         = "Vary"
	HeaderAllowOrigin  = "Access-Control-Allow-Origin"
	HeaderAllowMethods = "Access-Control-Allow-Methods"
	HeaderAllowHeaders = "Access-Control-Allow-Headers"
	HeaderAllowCreds   = "Access-Control-Allow-Credentials"

	AllowedMethods = "GET, POST, PATCH, OPTIONS"
	AllowedHeaders = "Content-Type, Authorization"
)

// CORS answers requests from allowedOrigin with the relay's CORS headers. An empty
// allowedOrigin disables cross-origin access. Other origins get no CORS headers.
func CORS(allowedOrigin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get(HeaderOrigin)
			if allowedOrigin == "" || origin != allowedOrigin {
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Add(HeaderVary, HeaderOrigin)
			h.Set(HeaderAllowOrigin, origin)
			h.Set(HeaderAllowCreds, "true")
			h.Set(HeaderAllowMethods, AllowedMethods)
			h.Set(HeaderAllowHeaders, AllowedHeaders)

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
