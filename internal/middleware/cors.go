package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// Cors lets any origin through in development. Otherwise only the listed
// origins are allowed; none means same-origin only.
func Cors(development bool, origins ...string) Middleware {
	options := cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
		AllowedHeaders: []string{"*"},
	}
	switch {
	case development:
		options.AllowOriginFunc = func(origin string) bool {
			return true
		}
	case len(origins) == 0:
		options.AllowOriginFunc = func(origin string) bool {
			return false
		}
	}
	return cors.New(options).Handler
}
