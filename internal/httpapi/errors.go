package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"easyapply-engine/internal/apperr"

	"go.uber.org/zap"
)

type APIError struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id,omitempty"`
	} `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	var e APIError
	e.Error.Code = code
	e.Error.Message = message
	e.Error.RequestID = RequestIDFrom(r.Context())
	WriteJSON(w, status, e)
}

// writeErr maps err to a status through its apperr type. Internal errors are
// logged and their details kept out of the response.
func writeErr(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	status := apperr.HTTPStatus(err)
	code := strings.ToLower(string(apperr.TypeOf(err)))

	msg := err.Error()
	var de *apperr.DomainError
	if errors.As(err, &de) {
		msg = de.Message
	}
	if status >= 500 && status != http.StatusServiceUnavailable {
		if log != nil {
			log.Error("request failed",
				zap.String("request_id", RequestIDFrom(r.Context())),
				zap.String("path", r.URL.Path),
				zap.Error(err))
		}
		msg = "internal server error"
	}
	WriteError(w, r, status, code, msg)
}
