package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/camden-git/photosharebackend/config"
	"github.com/camden-git/photosharebackend/database"
	"github.com/camden-git/photosharebackend/media"
	"github.com/camden-git/photosharebackend/models"
	"github.com/camden-git/photosharebackend/repository"
	"github.com/camden-git/photosharebackend/utils"
	"github.com/camden-git/photosharebackend/workers"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxUploadBytes = 50 << 20 // per file

type PhotoHandler struct {
	PhotoRepo  repository.PhotoRepositoryInterface
	AlbumRepo  repository.AlbumRepositoryInterface
	Cfg        config.Config
	MediaStore media.Store
	ThumbGen   *workers.ThumbnailGenerator
}

func NewPhotoHandler(photoRepo repository.PhotoRepositoryInterface, albumRepo repository.AlbumRepositoryInterface, cfg config.Config, store media.Store, thumbGen *workers.ThumbnailGenerator) *PhotoHandler {
	return &PhotoHandler{PhotoRepo: photoRepo, AlbumRepo: albumRepo, Cfg: cfg, MediaStore: store, ThumbGen: thumbGen}
}

// requireOwnedAlbum resolves the album_id URL param against the current user.
func (h *PhotoHandler) requireOwnedAlbum(w http.ResponseWriter, r *http.Request) (*models.Album, bool) {
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

// UploadPhotos accepts one or more files under the "images" multipart field
// and stores them into the album. EXIF capture time is read before the bytes
// hit the store, and a thumbnail job is queued per photo.
func (h *PhotoHandler) UploadPhotos(w http.ResponseWriter, r *http.Request) {
	album, ok := h.requireOwnedAlbum(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		WriteAPIError(w, http.StatusBadRequest, ErrCodeValidation, "Invalid multipart form: "+err.Error())
		return
	}

	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		WriteAPIError(w, http.StatusBadRequest, ErrCodeValidation, "No files provided under 'images'")
		return
	}

	var created []models.Photo
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			log.Printf("UploadPhotos: error opening part %s: %v", header.Filename, err)
			continue
		}

		data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
		file.Close()
		if err != nil {
			log.Printf("UploadPhotos: error reading %s: %v", header.Filename, err)
			continue
		}

		takenAt := utils.ExtractTakenAt(bytes.NewReader(data))

		originalName := filepath.Base(header.Filename)
		ext := filepath.Ext(originalName)
		storedName := fmt.Sprintf("%s%s", uuid.New().String(), ext)
		dirHint := strconv.FormatUint(uint64(album.ID), 10)

		relPath, err := h.MediaStore.Save(media.AssetTypePhoto, dirHint, storedName, bytes.NewReader(data))
		if err != nil {
			log.Printf("UploadPhotos: error saving %s: %v", originalName, err)
			WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to store photo")
			return
		}

		photo := models.Photo{
			OwnerID:          album.OwnerID,
			AlbumID:          album.ID,
			Title:            originalName,
			FilePath:         relPath,
			OriginalFilename: originalName,
			TakenAt:          takenAt,
		}
		if err := h.PhotoRepo.Create(&photo); err != nil {
			log.Printf("UploadPhotos: error creating record for %s: %v", originalName, err)
			if delErr := h.MediaStore.Delete(relPath); delErr != nil {
				log.Printf("UploadPhotos: error cleaning up %s: %v", relPath, delErr)
			}
			WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to record photo")
			return
		}

		if h.ThumbGen != nil {
			if fullPath, perr := h.MediaStore.GetFullPath(relPath); perr == nil {
				h.ThumbGen.QueueJob(workers.ThumbnailJob{PhotoID: photo.ID, OriginalFullPath: fullPath})
			}
		}
		created = append(created, photo)
	}

	if len(created) == 0 {
		WriteAPIError(w, http.StatusBadRequest, ErrCodeValidation, "No files could be stored")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListPhotos returns the album's photos, honoring an optional sort query
// parameter (manual order by default).
func (h *PhotoHandler) ListPhotos(w http.ResponseWriter, r *http.Request) {
	album, ok := h.requireOwnedAlbum(w, r)
	if !ok {
		return
	}

	sortOrder := r.URL.Query().Get("sort")
	if sortOrder == "" {
		sortOrder = database.DefaultSortOrder
	}
	if !database.IsValidSortOrder(sortOrder) {
		WriteAPIError(w, http.StatusBadRequest, ErrCodeValidation, "Invalid sort order")
		return
	}

	photos, err := h.PhotoRepo.ListByAlbum(album.ID, sortOrder)
	if err != nil {
		log.Printf("Error listing photos for album %d: %v", album.ID, err)
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to list photos")
		return
	}
	writeJSON(w, http.StatusOK, photos)
}

type updatePhotoPayload struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

func (h *PhotoHandler) UpdatePhoto(w http.ResponseWriter, r *http.Request) {
	photo, ok := h.requireOwnedPhoto(w, r)
	if !ok {
		return
	}

	var req updatePhotoPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteAPIError(w, http.StatusBadRequest, ErrCodeValidation, "Invalid request body")
		return
	}

	if req.Title != nil {
		photo.Title = *req.Title
	}
	if req.Description != nil {
		photo.Description = *req.Description
	}

	if err := h.PhotoRepo.Update(photo); err != nil {
		log.Printf("Error updating photo %d: %v", photo.ID, err)
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to update photo")
		return
	}
	writeJSON(w, http.StatusOK, photo)
}

func (h *PhotoHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	photo, ok := h.requireOwnedPhoto(w, r)
	if !ok {
		return
	}

	if err := h.PhotoRepo.Delete(photo.ID); err != nil {
		log.Printf("Error deleting photo %d: %v", photo.ID, err)
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to delete photo")
		return
	}

	if err := h.MediaStore.Delete(photo.FilePath); err != nil {
		log.Printf("Error deleting stored file %s: %v", photo.FilePath, err)
	}
	if photo.ThumbnailPath != nil {
		if err := h.MediaStore.Delete(*photo.ThumbnailPath); err != nil {
			log.Printf("Error deleting thumbnail %s: %v", *photo.ThumbnailPath, err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Photo deleted"})
}

func (h *PhotoHandler) requireOwnedPhoto(w http.ResponseWriter, r *http.Request) (*models.Photo, bool) {
	user, ok := CurrentUserFromContext(r.Context())
	if !ok {
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Could not retrieve user from context")
		return nil, false
	}

	photoIDStr := chi.URLParam(r, "photo_id")
	photoID, err := strconv.ParseUint(photoIDStr, 10, 64)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, ErrCodeValidation, "Invalid photo ID")
		return nil, false
	}

	photo, err := h.PhotoRepo.GetByID(uint(photoID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, ErrCodeNotFound, "Photo not found")
		} else {
			WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to fetch photo")
		}
		return nil, false
	}
	if photo.OwnerID != user.ID {
		// hide existence of other users' photos
		WriteAPIError(w, http.StatusNotFound, ErrCodeNotFound, "Photo not found")
		return nil, false
	}
	return photo, true
}

type photoOrderEntry struct {
	ID    *uint `json:"id"`
	Order *int  `json:"order"`
}

type reorderPayload struct {
	PhotoOrders []photoOrderEntry `json:"photo_orders"`
}

// ReorderPhotos applies an explicit ordering to photos within an album.
// Each entry is an independent per-row write; there is no cross-row locking.
func (h *PhotoHandler) ReorderPhotos(w http.ResponseWriter, r *http.Request) {
	album, ok := h.requireOwnedAlbum(w, r)
	if !ok {
		return
	}

	var req reorderPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteAPIError(w, http.StatusBadRequest, ErrCodeValidation, "Invalid request body")
		return
	}
	if len(req.PhotoOrders) == 0 {
		WriteAPIError(w, http.StatusBadRequest, ErrCodeValidation, "No photo orders provided")
		return
	}

	for _, entry := range req.PhotoOrders {
		if entry.ID == nil || entry.Order == nil {
			WriteAPIError(w, http.StatusBadRequest, ErrCodeValidation, "Invalid photo order data")
			return
		}
		if err := h.PhotoRepo.SetOrder(*entry.ID, album.ID, *entry.Order); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				WriteAPIError(w, http.StatusNotFound, ErrCodeNotFound, fmt.Sprintf("Photo with id %d not found", *entry.ID))
			} else {
				log.Printf("Error reordering photo %d: %v", *entry.ID, err)
				WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to reorder photos")
			}
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Photos reordered successfully"})
}
