package middleware

import (
	"encoding/json"
	"net/http"

	apperrors "salespulse/internal/errors"
)

// Problem represents an RFC 7807 problem details object written by the
// middleware before a handler runs.
type Problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
	Trace  string `json:"trace_id,omitempty"`
}

// Render implements the chi render.Renderer interface
func (p Problem) Render(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	return json.NewEncoder(w).Encode(p)
}

// ProblemFromStatus creates a Problem from an HTTP status code
func ProblemFromStatus(status int, detail string, traceID string) Problem {
	var title, problemType string

	switch status {
	case http.StatusBadRequest:
		title = "Bad Request"
		problemType = apperrors.TypeValidation
	case http.StatusNotFound:
		title = "Not Found"
		problemType = apperrors.TypeNotFound
	case http.StatusMethodNotAllowed:
		title = "Method Not Allowed"
		problemType = apperrors.TypeMethodNotAllow
	case http.StatusRequestEntityTooLarge:
		title = "Payload Too Large"
		problemType = apperrors.TypePayloadTooLarge
	case http.StatusUnsupportedMediaType:
		title = "Unsupported Media Type"
		problemType = "/errors/unsupported-media-type"
	case http.StatusTooManyRequests:
		title = "Too Many Requests"
		problemType = apperrors.TypeRateLimit
	case http.StatusInternalServerError:
		title = "Internal Server Error"
		problemType = apperrors.TypeInternal
	case http.StatusServiceUnavailable:
		title = "Service Unavailable"
		problemType = apperrors.TypeServiceDown
	case http.StatusGatewayTimeout:
		title = "Request Timeout"
		problemType = apperrors.TypeTimeout
	default:
		title = http.StatusText(status)
		problemType = "/errors/unknown"
	}

	return Problem{
		Type:   problemType,
		Title:  title,
		Status: status,
		Detail: detail,
		Trace:  traceID,
	}
}
