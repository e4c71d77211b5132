package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/davidromeroc/tienda-backend/pkg/logger"
)

const (
	requestIDHeader = "X-Request-Id"
	// Inbound IDs longer than this are replaced, not propagated.
	maxRequestIDLen = 64
)

// RequestID tags every request with a correlation ID. Clients may
// supply their own via X-Request-Id; otherwise one is minted. The ID
// is echoed on the response and attached to the request-scoped logger.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get(requestIDHeader)
			if reqID == "" || len(reqID) > maxRequestIDLen {
				reqID = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, reqID)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, reqID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
