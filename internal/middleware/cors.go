package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORSMiddleware allows cross-origin requests from any origin.
func CORSMiddleware(next http.Handler) http.Handler {
	return cors.AllowAll().Handler(next)
}
