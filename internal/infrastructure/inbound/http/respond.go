package delivery_http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"pinstack-feed-service/internal/custom_errors"
	ports "pinstack-feed-service/internal/domain/ports/output"
)

type errorBody struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps an error kind to its status. Internal causes are logged and
// never sent to the client.
func writeError(w http.ResponseWriter, log ports.Logger, r *http.Request, err error) {
	kind := custom_errors.KindOf(err)
	body := errorBody{Message: err.Error()}
	switch kind {
	case custom_errors.KindValidation:
		if fields := custom_errors.FieldsOf(err); len(fields) > 0 {
			body.Data = fields
		}
	case custom_errors.KindInternal:
		log.Error("Request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()))
		body.Message = custom_errors.ErrInternal.Message
	}
	writeJSON(w, kind.HTTPStatus(), body)
}

func decodeJSON(r *http.Request, dest any) error {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return custom_errors.Validation("request body must be valid JSON",
			custom_errors.FieldError{Field: "body", Message: err.Error()})
	}
	return nil
}
