package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/camden-git/photosharebackend/models"
	"github.com/camden-git/photosharebackend/repository"
	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

type TagHandler struct {
	TagRepo repository.TagRepository
}

func NewTagHandler(tagRepo repository.TagRepository) *TagHandler {
	return &TagHandler{TagRepo: tagRepo}
}

func (h *TagHandler) CreateTag(w http.ResponseWriter, r *http.Request) {
	user, ok := CurrentUserFromContext(r.Context())
	if !ok {
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Could not retrieve user from context")
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		WriteAPIError(w, http.StatusBadRequest, ErrCodeValidation, "Tag name is required")
		return
	}

	tag := &models.AlbumTag{Name: req.Name, UserID: user.ID}
	if err := h.TagRepo.Create(tag); err != nil {
		// unique (name, user) index
		WriteAPIError(w, http.StatusConflict, ErrCodeConflict, "Tag already exists")
		return
	}
	writeJSON(w, http.StatusCreated, tag)
}

func (h *TagHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	user, ok := CurrentUserFromContext(r.Context())
	if !ok {
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Could not retrieve user from context")
		return
	}

	tags, err := h.TagRepo.ListByUser(user.ID)
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to list tags")
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

func (h *TagHandler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	user, ok := CurrentUserFromContext(r.Context())
	if !ok {
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Could not retrieve user from context")
		return
	}

	tagIDStr := chi.URLParam(r, "tag_id")
	tagID, err := strconv.ParseUint(tagIDStr, 10, 64)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, ErrCodeValidation, "Invalid tag ID")
		return
	}

	if err := h.TagRepo.Delete(uint(tagID), user.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, ErrCodeNotFound, "Tag not found")
		} else {
			WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to delete tag")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Tag deleted"})
}
