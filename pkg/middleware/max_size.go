package middleware

import (
	"net/http"

	apperrors "stayhost/pkg/errors"
	httputil "stayhost/pkg/http"
)

// MaxRequestSize rejects declared oversize bodies up front and caps the rest
// with http.MaxBytesReader so decoders fail once the limit is crossed.
func MaxRequestSize(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				appErr := apperrors.New("PAYLOAD_TOO_LARGE", "La richiesta è troppo grande.", http.StatusRequestEntityTooLarge).
					WithTitle("Request body too large")
				_ = httputil.WriteError(w, appErr)
				return
			}
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
