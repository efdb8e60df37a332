package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/camden-git/photosharebackend/models"
	"github.com/camden-git/photosharebackend/repository"
	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

type AlbumHandler struct {
	AlbumRepo repository.AlbumRepositoryInterface
	TagRepo   repository.TagRepository
}

func NewAlbumHandler(albumRepo repository.AlbumRepositoryInterface, tagRepo repository.TagRepository) *AlbumHandler {
	return &AlbumHandler{AlbumRepo: albumRepo, TagRepo: tagRepo}
}

// albumIDFromRequest parses the album_id URL parameter
func albumIDFromRequest(r *http.Request) (uint, error) {
	idStr := chi.URLParam(r, "album_id")
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// requireOwnedAlbum loads the album and enforces owner == current user.
// All album CRUD permissioning reduces to this single filter.
func (h *AlbumHandler) requireOwnedAlbum(w http.ResponseWriter, r *http.Request) (*models.Album, bool) {
	user, ok := CurrentUserFromContext(r.Context())
	if !ok {
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Could not retrieve user from context")
		return nil, false
	}

	albumID, err := albumIDFromRequest(r)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, ErrCodeValidation, "Invalid album ID")
		return nil, false
	}

	album, err := h.AlbumRepo.GetByIDForOwner(albumID, user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, ErrCodeNotFound, "Album not found")
		} else {
			log.Printf("Error fetching album %d: %v", albumID, err)
			WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to fetch album")
		}
		return nil, false
	}
	return album, true
}

type albumPayload struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	TagIDs      []uint  `json:"tag_ids"`
}

func (h *AlbumHandler) CreateAlbum(w http.ResponseWriter, r *http.Request) {
	user, ok := CurrentUserFromContext(r.Context())
	if !ok {
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Could not retrieve user from context")
		return
	}

	var req albumPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteAPIError(w, http.StatusBadRequest, ErrCodeValidation, "Invalid request body: "+err.Error())
		return
	}
	if req.Title == "" {
		WriteAPIError(w, http.StatusBadRequest, ErrCodeValidation, "Missing required field: title")
		return
	}

	album := &models.Album{
		OwnerID:     user.ID,
		Title:       req.Title,
		Description: req.Description,
	}
	if err := h.AlbumRepo.Create(album); err != nil {
		log.Printf("Error creating album '%s': %v", req.Title, err)
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to create album")
		return
	}

	if len(req.TagIDs) > 0 {
		if ok := h.applyTags(w, user.ID, album.ID, req.TagIDs); !ok {
			return
		}
	}

	created, err := h.AlbumRepo.GetByID(album.ID)
	if err != nil {
		writeJSON(w, http.StatusCreated, album)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *AlbumHandler) ListAlbums(w http.ResponseWriter, r *http.Request) {
	user, ok := CurrentUserFromContext(r.Context())
	if !ok {
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Could not retrieve user from context")
		return
	}

	albums, err := h.AlbumRepo.ListByOwner(user.ID)
	if err != nil {
		log.Printf("Error listing albums for user %d: %v", user.ID, err)
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to list albums")
		return
	}
	writeJSON(w, http.StatusOK, albums)
}

func (h *AlbumHandler) GetAlbum(w http.ResponseWriter, r *http.Request) {
	album, ok := h.requireOwnedAlbum(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, album)
}

func (h *AlbumHandler) UpdateAlbum(w http.ResponseWriter, r *http.Request) {
	album, ok := h.requireOwnedAlbum(w, r)
	if !ok {
		return
	}

	var req albumPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteAPIError(w, http.StatusBadRequest, ErrCodeValidation, "Invalid request body")
		return
	}

	if err := h.AlbumRepo.Update(album.ID, req.Title, req.Description); err != nil {
		log.Printf("Error updating album %d: %v", album.ID, err)
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to update album")
		return
	}

	if req.TagIDs != nil {
		if ok := h.applyTags(w, album.OwnerID, album.ID, req.TagIDs); !ok {
			return
		}
	}

	updated, err := h.AlbumRepo.GetByID(album.ID)
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to reload album")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// applyTags resolves the tag IDs against the user's own tags and replaces the
// album's assignments. Tags belonging to other users are rejected.
func (h *AlbumHandler) applyTags(w http.ResponseWriter, userID, albumID uint, tagIDs []uint) bool {
	tags := make([]models.AlbumTag, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		tag, err := h.TagRepo.GetByIDForUser(tagID, userID)
		if err != nil {
			WriteAPIError(w, http.StatusBadRequest, ErrCodeValidation, "Unknown tag ID")
			return false
		}
		tags = append(tags, *tag)
	}
	if err := h.AlbumRepo.SetTags(albumID, tags); err != nil {
		log.Printf("Error setting tags for album %d: %v", albumID, err)
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to set tags")
		return false
	}
	return true
}

func (h *AlbumHandler) DeleteAlbum(w http.ResponseWriter, r *http.Request) {
	album, ok := h.requireOwnedAlbum(w, r)
	if !ok {
		return
	}

	if err := h.AlbumRepo.Delete(album.ID); err != nil {
		log.Printf("Error deleting album %d: %v", album.ID, err)
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to delete album")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Album deleted"})
}
