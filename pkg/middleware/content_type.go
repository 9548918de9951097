package middleware

import (
	"mime"
	"net/http"

	apperrors "stayhost/pkg/errors"
	httputil "stayhost/pkg/http"
	"stayhost/pkg/logger"
)

const jsonContentType = "application/json"

// ContentTypeValidation rejects write requests whose body is not JSON.
// Bodiless writes (DELETE-style POSTs with Content-Length 0) pass through.
func ContentTypeValidation(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if requiresContentType(r) {
				contentType := extractContentType(r.Header.Get("Content-Type"))

				if contentType != jsonContentType {
					rejectInvalidContentType(w, log, r, contentType)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func requiresContentType(r *http.Request) bool {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return r.ContentLength != 0
	default:
		return false
	}
}

func extractContentType(header string) string {
	if header == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return mediaType
}

func rejectInvalidContentType(w http.ResponseWriter, log *logger.Logger, r *http.Request, contentType string) {
	log.Warn("Invalid Content-Type header",
		"request_id", GetRequestID(r.Context()),
		"content_type", contentType,
		"path", r.URL.Path,
		"method", r.Method,
	)

	appErr := apperrors.New("UNSUPPORTED_MEDIA_TYPE", "Il corpo della richiesta deve essere JSON.", http.StatusUnsupportedMediaType).
		WithTitle("Content-Type must be application/json")
	if writeErr := httputil.WriteError(w, appErr); writeErr != nil {
		log.Error("failed to write error response", "handler", "ContentTypeValidation", "operation", "WriteError", "error", writeErr)
	}
}
