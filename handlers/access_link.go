package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/camden-git/photosharebackend/config"
	"github.com/camden-git/photosharebackend/models"
	"github.com/camden-git/photosharebackend/repository"
	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

// AccessLinkHandler is the owner-facing surface of the access link registry:
// minting, listing, updating, and revoking capability grants for an album.
type AccessLinkHandler struct {
	LinkRepo  repository.AccessLinkRepository
	AlbumRepo repository.AlbumRepositoryInterface
	Cfg       config.Config
}

func NewAccessLinkHandler(linkRepo repository.AccessLinkRepository, albumRepo repository.AlbumRepositoryInterface, cfg config.Config) *AccessLinkHandler {
	return &AccessLinkHandler{LinkRepo: linkRepo, AlbumRepo: albumRepo, Cfg: cfg}
}

type accessLinkPayload struct {
	ClientName        *string    `json:"client_name"`
	Email             *string    `json:"email"`
	Password          *string    `json:"password"` // plaintext in, hashed before storage
	CanDownload       *bool      `json:"can_download"`
	MaxSelections     *int       `json:"max_selections"`
	ExpiresAt         *time.Time `json:"expires_at"`
	WelcomeMessage    *string    `json:"welcome_message"`
	NotifyOnSelection *bool      `json:"notify_on_selection"`
}

type accessLinkResponse struct {
	models.AccessLink
	ShareURL    string `json:"share_url"`
	HasPassword bool   `json:"has_password"`
}

func (h *AccessLinkHandler) linkResponse(link *models.AccessLink) accessLinkResponse {
	return accessLinkResponse{
		AccessLink:  *link,
		ShareURL:    link.ShareURL(h.Cfg.ShareBaseURL),
		HasPassword: link.Password != nil,
	}
}

func (h *AccessLinkHandler) requireOwnedAlbum(w http.ResponseWriter, r *http.Request) (*models.Album, bool) {
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
			WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to fetch album")
		}
		return nil, false
	}
	return album, true
}

// CreateAccessLink mints a new link for the album. The token is generated on
// create and never changes; a submitted password is hashed before storage.
func (h *AccessLinkHandler) CreateAccessLink(w http.ResponseWriter, r *http.Request) {
	album, ok := h.requireOwnedAlbum(w, r)
	if !ok {
		return
	}

	var req accessLinkPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteAPIError(w, http.StatusBadRequest, ErrCodeValidation, "Invalid request body")
		return
	}

	if req.MaxSelections != nil && *req.MaxSelections < 0 {
		WriteAPIError(w, http.StatusBadRequest, ErrCodeValidation, "max_selections cannot be negative")
		return
	}

	link := &models.AccessLink{
		AlbumID:           album.ID,
		ClientName:        req.ClientName,
		Email:             req.Email,
		MaxSelections:     req.MaxSelections,
		ExpiresAt:         req.ExpiresAt,
		NotifyOnSelection: true,
	}
	if req.Password != nil {
		link.Password = req.Password // hashed by the model hook before insert
	}
	if req.CanDownload != nil {
		link.CanDownload = *req.CanDownload
	}
	if req.WelcomeMessage != nil {
		link.WelcomeMessage = *req.WelcomeMessage
	}
	if req.NotifyOnSelection != nil {
		link.NotifyOnSelection = *req.NotifyOnSelection
	}

	if err := h.LinkRepo.Create(link); err != nil {
		log.Printf("Error creating access link for album %d: %v", album.ID, err)
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to create access link")
		return
	}

	writeJSON(w, http.StatusCreated, h.linkResponse(link))
}

func (h *AccessLinkHandler) ListAccessLinks(w http.ResponseWriter, r *http.Request) {
	album, ok := h.requireOwnedAlbum(w, r)
	if !ok {
		return
	}

	links, err := h.LinkRepo.ListByAlbum(album.ID)
	if err != nil {
		log.Printf("Error listing access links for album %d: %v", album.ID, err)
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to list access links")
		return
	}

	resp := make([]accessLinkResponse, 0, len(links))
	for i := range links {
		resp = append(resp, h.linkResponse(&links[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

// requireOwnedLink loads the link by URL param and verifies the album owner.
func (h *AccessLinkHandler) requireOwnedLink(w http.ResponseWriter, r *http.Request) (*models.AccessLink, bool) {
	user, ok := CurrentUserFromContext(r.Context())
	if !ok {
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Could not retrieve user from context")
		return nil, false
	}

	linkIDStr := chi.URLParam(r, "link_id")
	linkID, err := strconv.ParseUint(linkIDStr, 10, 64)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, ErrCodeValidation, "Invalid link ID")
		return nil, false
	}

	link, err := h.LinkRepo.GetByID(uint(linkID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, ErrCodeNotFound, "Access link not found")
		} else {
			WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to fetch access link")
		}
		return nil, false
	}
	if link.Album.OwnerID != user.ID {
		WriteAPIError(w, http.StatusNotFound, ErrCodeNotFound, "Access link not found")
		return nil, false
	}
	return link, true
}

// UpdateAccessLink edits a link's settings. The token is immutable; a new
// password submission replaces the stored hash, and the idempotent hashing
// guard means re-saving untouched fields never corrupts the existing hash.
func (h *AccessLinkHandler) UpdateAccessLink(w http.ResponseWriter, r *http.Request) {
	link, ok := h.requireOwnedLink(w, r)
	if !ok {
		return
	}

	var req accessLinkPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteAPIError(w, http.StatusBadRequest, ErrCodeValidation, "Invalid request body")
		return
	}

	if req.ClientName != nil {
		link.ClientName = req.ClientName
	}
	if req.Email != nil {
		link.Email = req.Email
	}
	if req.Password != nil {
		if err := link.SetPassword(*req.Password); err != nil {
			WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to hash password")
			return
		}
	}
	if req.CanDownload != nil {
		link.CanDownload = *req.CanDownload
	}
	if req.MaxSelections != nil {
		link.MaxSelections = req.MaxSelections
	}
	if req.ExpiresAt != nil {
		link.ExpiresAt = req.ExpiresAt
	}
	if req.WelcomeMessage != nil {
		link.WelcomeMessage = *req.WelcomeMessage
	}
	if req.NotifyOnSelection != nil {
		link.NotifyOnSelection = *req.NotifyOnSelection
	}

	if err := h.LinkRepo.Update(link); err != nil {
		log.Printf("Error updating access link %d: %v", link.ID, err)
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to update access link")
		return
	}

	writeJSON(w, http.StatusOK, h.linkResponse(link))
}

// DeleteAccessLink revokes a link; its client tokens and selections go with it.
func (h *AccessLinkHandler) DeleteAccessLink(w http.ResponseWriter, r *http.Request) {
	link, ok := h.requireOwnedLink(w, r)
	if !ok {
		return
	}

	if err := h.LinkRepo.Delete(link.ID); err != nil {
		log.Printf("Error deleting access link %d: %v", link.ID, err)
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to delete access link")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Access link deleted"})
}
