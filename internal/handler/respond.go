package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/templui/loginapi/internal/apperr"
	"github.com/templui/loginapi/internal/ctxkeys"
)

// maxBodyBytes caps request bodies; profiles are small.
const maxBodyBytes = 1 << 20

var errInvalidBody = apperr.Invalid("Invalid request body")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError maps err to its status and {"error": message} body. Internal
// causes are logged here and never sent to the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", ctxkeys.RequestID(r.Context()),
		)
	}
	writeJSON(w, status, errorResponse{Error: apperr.PublicMessage(err)})
}

// decodeJSON reads a JSON object into dst. An empty body decodes as {}.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	err := dec.Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return apperr.Wrap(err, errInvalidBody.Code, errInvalidBody.Message)
	}
	return nil
}

type errorResponse struct {
	Error string `json:"error"`
}
