package middleware

import (
	"net/http"

	"github.com/ferdiebergado/chatrelay/internal/pkg/message"
	"github.com/ferdiebergado/chatrelay/internal/pkg/web"
)

// ContextGuard stops requests whose context is already done before any relay work starts.
func ContextGuard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.Context().Err(); err != nil {
			web.Fail(w, http.StatusRequestTimeout, err, message.RequestTimeout, nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}
