package handler

import (
	"encoding/json"
	"net/http"

	"github.com/templui/loginapi/internal/ctxkeys"
	"github.com/templui/loginapi/internal/model"
	"github.com/templui/loginapi/internal/service"
)

type ProfileHandler struct {
	profileService *service.ProfileService
}

func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// updateProfileRequest records which keys were sent; unknown keys are ignored.
type updateProfileRequest struct {
	Name            model.Optional[string]          `json:"name"`
	Bio             model.Optional[string]          `json:"bio"`
	Skills          model.Optional[json.RawMessage] `json:"skills"`
	ProfileImageURL model.Optional[string]          `json:"profile_image_url"`
}

type profileResponse struct {
	Message string           `json:"message"`
	User    model.PublicUser `json:"user"`
}

type searchResponse struct {
	Message string             `json:"message"`
	Users   []model.PublicUser `json:"users"`
	Count   int                `json:"count"`
}

// Get handles GET /api/protected/profile.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := ctxkeys.Identity(r.Context())

	user, err := h.profileService.Get(r.Context(), id.UserID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, profileResponse{
		Message: "Profile retrieved successfully",
		User:    user.Public(),
	})
}

// Update handles PUT /api/protected/profile.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := ctxkeys.Identity(r.Context())

	var req updateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.profileService.Update(r.Context(), id.UserID, service.ProfilePatch{
		Name:            req.Name,
		Bio:             req.Bio,
		Skills:          req.Skills,
		ProfileImageURL: req.ProfileImageURL,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, profileResponse{
		Message: "Profile updated successfully",
		User:    user.Public(),
	})
}

// Search handles GET /api/protected/search?filter=&query=.
func (h *ProfileHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	res, err := h.profileService.Search(r.Context(), q.Get("filter"), q.Get("query"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Message: "Search completed",
		Users:   res.Users,
		Count:   res.Count,
	})
}
