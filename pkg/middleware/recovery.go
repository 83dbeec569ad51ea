package middleware

import (
	"net/http"
	"runtime/debug"

	httputil "gearbook/pkg/http"
	"gearbook/pkg/logger"
)

// Recovery converts a handler panic into a 500 response so one bad request
// cannot take the whole booking service down.
func Recovery(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					requestID, _ := r.Context().Value(RequestIDKey).(string)

					log.Error("Handler panicked",
						"request_id", requestID,
						"panic", rec,
						"method", r.Method,
						"path", r.URL.Path,
						"stack", string(debug.Stack()),
					)

					if err := httputil.WriteJSON(w, http.StatusInternalServerError, httputil.ErrorResponse{
						Error: "Internal server error",
					}); err != nil {
						log.Error("failed to write JSON response", "middleware", "Recovery", "error", err)
					}
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
