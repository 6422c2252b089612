package middleware

import (
	"errors"
	"net/http"

	"github.com/ferdiebergado/chatrelay/internal/pkg/message"
	"github.com/ferdiebergado/chatrelay/internal/pkg/web"
	"github.com/ferdiebergado/chatrelay/internal/platform/validation"
)

var errInvalidInput = errors.New("input failed validation")

// ValidateInput checks the payload stored by DecodePayload. Field errors are
// returned to the client with a 422.
func ValidateInput[T any](validator validation.Validator) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			params, err := web.ParamsFromContext[T](r.Context())
			if err != nil {
				web.Fail(w, http.StatusBadRequest, err, message.InvalidInput, nil)
				return
			}

			if errs := validator.ValidateStruct(params); len(errs) > 0 {
				web.Fail(w, http.StatusUnprocessableEntity, errInvalidInput, message.InvalidInput, errs)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
