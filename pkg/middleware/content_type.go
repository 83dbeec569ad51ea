package middleware

import (
	"net/http"
	"strings"

	"gearbook/pkg/logger"
)

// ContentTypeValidation rejects write requests whose body is not JSON.
func ContentTypeValidation(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost || r.Method == http.MethodPatch || r.Method == http.MethodPut {
				if r.ContentLength > 0 {
					contentType := r.Header.Get("Content-Type")
					if !strings.HasPrefix(contentType, "application/json") {
						log.Warn("Rejected request with unsupported content type",
							"content_type", contentType,
							"method", r.Method,
							"path", r.URL.Path,
						)
						w.Header().Set("Content-Type", "application/json")
						w.WriteHeader(http.StatusUnsupportedMediaType)
						_, _ = w.Write([]byte(`{"error":"Content-Type must be application/json"}`))
						return
					}
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
