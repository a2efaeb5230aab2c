package handler

import (
	"net/http"
	"time"

	"github.com/templui/loginapi/internal/ctxkeys"
)

type HomeHandler struct {
	now func() time.Time
}

func NewHomeHandler() *HomeHandler {
	return &HomeHandler{now: time.Now}
}

// HomePage is the plain-text banner at GET /.
func (h *HomeHandler) HomePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Hello from login-backend"))
}

func (h *HomeHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, errorResponse{Error: "Not found"})
}

type dataResponse struct {
	Message string      `json:"message"`
	Data    dataPayload `json:"data"`
}

type dataPayload struct {
	UserID    string `json:"userId"`
	Email     string `json:"email"`
	Timestamp string `json:"timestamp"`
}

// Data handles GET /api/protected/data, echoing the verified identity.
func (h *HomeHandler) Data(w http.ResponseWriter, r *http.Request) {
	id := ctxkeys.Identity(r.Context())

	writeJSON(w, http.StatusOK, dataResponse{
		Message: "Protected data endpoint",
		Data: dataPayload{
			UserID:    id.UserID,
			Email:     id.Email,
			Timestamp: h.now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		},
	})
}
