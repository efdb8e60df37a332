package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/camden-git/photosharebackend/repository"
	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

type FavoriteHandler struct {
	FavoriteRepo repository.FavoriteRepository
	PhotoRepo    repository.PhotoRepositoryInterface
}

func NewFavoriteHandler(favoriteRepo repository.FavoriteRepository, photoRepo repository.PhotoRepositoryInterface) *FavoriteHandler {
	return &FavoriteHandler{FavoriteRepo: favoriteRepo, PhotoRepo: photoRepo}
}

// ToggleFavorite adds or removes the favorite mark for a photo.
func (h *FavoriteHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	user, ok := CurrentUserFromContext(r.Context())
	if !ok {
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Could not retrieve user from context")
		return
	}

	photoIDStr := chi.URLParam(r, "photo_id")
	photoID, err := strconv.ParseUint(photoIDStr, 10, 64)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, ErrCodeValidation, "Invalid photo ID")
		return
	}

	if _, err := h.PhotoRepo.GetByID(uint(photoID)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, ErrCodeNotFound, "Photo not found")
		} else {
			WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to fetch photo")
		}
		return
	}

	added, err := h.FavoriteRepo.Toggle(user.ID, uint(photoID))
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to toggle favorite")
		return
	}

	status := "removed"
	if added {
		status = "added"
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": status})
}

// ListFavorites returns the photos the current user has favorited.
func (h *FavoriteHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	user, ok := CurrentUserFromContext(r.Context())
	if !ok {
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Could not retrieve user from context")
		return
	}

	photos, err := h.FavoriteRepo.ListPhotosByUser(user.ID)
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to list favorites")
		return
	}
	writeJSON(w, http.StatusOK, photos)
}
