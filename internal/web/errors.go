package web

// errors.go turns service errors into responses. The technical error is
// logged with the request id; the client only sees the mapped message.

import (
	"net/http"
	"strings"

	"github.com/JonMunkholm/datalens/internal/core"
	"github.com/JonMunkholm/datalens/internal/logging"
	"github.com/JonMunkholm/datalens/internal/web/views"
)

// ErrorResponse is the JSON body of API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// statusByCode maps support codes to HTTP statuses. Unlisted codes are 500.
var statusByCode = map[string]int{
	"FILE001": http.StatusRequestEntityTooLarge,
	"FILE002": http.StatusUnprocessableEntity,
	"FILE004": http.StatusBadRequest,
	"FILE005": http.StatusUnprocessableEntity,
	"FILE006": http.StatusUnsupportedMediaType,
	"FORM001": http.StatusBadRequest,
	"UPL002":  http.StatusServiceUnavailable,
	"UPL004":  http.StatusRequestTimeout,
	"UPL005":  http.StatusGatewayTimeout,
	"RPT001":  http.StatusNotFound,
	"RATE001": http.StatusTooManyRequests,
	"DB004":   http.StatusServiceUnavailable,
}

func statusFor(msg core.UserMessage) int {
	if status, ok := statusByCode[msg.Code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// respondError logs err and writes the mapped message as JSON for API
// clients or as an HTML page otherwise.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	msg := mapError(err)
	status := statusFor(msg)

	logger := logging.FromContext(r.Context())
	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"code", msg.Code,
		"error", err.Error(),
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request error", attrs...)
	} else {
		logger.Warn("request error", attrs...)
	}

	if wantsJSON(r) {
		writeJSON(w, status, ErrorResponse{
			Error:   msg.Message,
			Message: msg.Message,
			Action:  msg.Action,
			Code:    msg.Code,
		})
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	alert := views.Alert{Message: msg.Message, Action: msg.Action, Code: msg.Code}
	if err := views.ErrorPage(alert).Render(r.Context(), w); err != nil {
		logger.Error("render error page", "error", err)
	}
}

// mapError extends core.MapError with web-only errors.
func mapError(err error) core.UserMessage {
	if fe, ok := asFormError(err); ok {
		return core.UserMessage{
			Message: fe.Error(),
			Action:  "Correct the form and submit again",
			Code:    "FORM001",
		}
	}
	return core.MapError(err)
}

// wantsJSON reports whether the client should get a JSON error body.
func wantsJSON(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
