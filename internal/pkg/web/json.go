package web

const (
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"
	MimeJSON            = "application/json"

	bearerPrefix = "Bearer "
)

// Bearer formats token as an Authorization header value.
func Bearer(token string) string {
	return bearerPrefix + token
}
