package middleware

import (
	"net/http"

	wrap "github.com/Temutjin2k/swiftdrop/pkg/logger/wrapper"
	"github.com/Temutjin2k/swiftdrop/pkg/uuid"
)

const requestIDHeader = "X-Request-ID"

// RequestID takes the request id from the incoming header or generates
// one, puts it into the log context and echoes it back in the response.
func (a *Middleware) RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.MustNew().String()
		}

		ctx := wrap.WithRequestID(r.Context(), id)
		w.Header().Set(requestIDHeader, id)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
