package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/camden-git/photosharebackend/database"
	"github.com/camden-git/photosharebackend/mailer"
	"github.com/camden-git/photosharebackend/media"
	"github.com/camden-git/photosharebackend/models"
	"github.com/camden-git/photosharebackend/repository"
	"github.com/camden-git/photosharebackend/utils"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// clientTokenTTL is part of the API contract: a minted bearer token is valid
// for exactly two hours from issuance.
const clientTokenTTL = 2 * time.Hour

// ClientAccessHandler serves the client-facing share surface: the password
// exchange that mints short-lived bearer tokens, the album view, the selection
// ledger, and the zip downloads. None of these endpoints require a user
// account; identity is the access link itself.
type ClientAccessHandler struct {
	LinkRepo      repository.AccessLinkRepository
	TokenRepo     repository.ClientTokenRepository
	SelectionRepo repository.SelectionRepository
	PhotoRepo     repository.PhotoRepositoryInterface
	UserRepo      repository.UserRepository
	MediaStore    media.Store
	Mailer        *mailer.Mailer
}

func NewClientAccessHandler(linkRepo repository.AccessLinkRepository, tokenRepo repository.ClientTokenRepository, selectionRepo repository.SelectionRepository, photoRepo repository.PhotoRepositoryInterface, userRepo repository.UserRepository, store media.Store, m *mailer.Mailer) *ClientAccessHandler {
	return &ClientAccessHandler{
		LinkRepo:      linkRepo,
		TokenRepo:     tokenRepo,
		SelectionRepo: selectionRepo,
		PhotoRepo:     photoRepo,
		UserRepo:      userRepo,
		MediaStore:    store,
		Mailer:        m,
	}
}

// ClientAuth exchanges the link token plus an optional password for a
// short-lived bearer token. Unknown links 404, expired links are refused
// outright, and a wrong password is a credential failure. Links without a
// password accept any submission.
func (h *ClientAccessHandler) ClientAuth(w http.ResponseWriter, r *http.Request) {
	linkToken := chi.URLParam(r, "token")

	link, err := h.LinkRepo.GetByToken(linkToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, ErrCodeNotFound, "Access link not found")
		} else {
			log.Printf("ClientAuth: error fetching link %s: %v", linkToken, err)
			WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to fetch access link")
		}
		return
	}

	if link.IsExpired() {
		WriteAPIError(w, http.StatusForbidden, ErrCodeLinkExpired, "This access link has expired")
		return
	}

	var req struct {
		Password string `json:"password"`
	}
	// an empty body is fine for links without a password; anything else must
	// parse as JSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		WriteAPIError(w, http.StatusBadRequest, ErrCodeValidation, "Invalid request body")
		return
	}

	if !link.CheckPassword(req.Password) {
		WriteAPIError(w, http.StatusUnauthorized, ErrCodeInvalidCredentials, "Incorrect password")
		return
	}

	token := &models.ClientAccessToken{
		Token:        uuid.New().String(),
		AccessLinkID: link.ID,
		ExpiresAt:    time.Now().Add(clientTokenTTL),
	}
	if err := h.TokenRepo.Create(token); err != nil {
		log.Printf("ClientAuth: error minting token for link %d: %v", link.ID, err)
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to create access token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"access_token": token.Token,
		"expires_at":   token.ExpiresAt,
	})
}

// requireClientLink pulls the authenticated token from the context and
// re-checks the underlying link's expiry. A token can outlive its link when
// the owner shortens the expiry mid-session.
func (h *ClientAccessHandler) requireClientLink(w http.ResponseWriter, r *http.Request) (*models.AccessLink, bool) {
	token, ok := ClientTokenFromContext(r.Context())
	if !ok {
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Could not retrieve client token from context")
		return nil, false
	}

	link := &token.AccessLink
	if link.IsExpired() {
		WriteAPIError(w, http.StatusForbidden, ErrCodeLinkExpired, "This access link has expired")
		return nil, false
	}
	return link, true
}

// ClientAlbum returns the shared album together with the link's settings and
// the current selection count.
func (h *ClientAccessHandler) ClientAlbum(w http.ResponseWriter, r *http.Request) {
	link, ok := h.requireClientLink(w, r)
	if !ok {
		return
	}

	photos, err := h.PhotoRepo.ListByAlbum(link.AlbumID, database.DefaultSortOrder)
	if err != nil {
		log.Printf("ClientAlbum: error listing photos for album %d: %v", link.AlbumID, err)
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to list photos")
		return
	}

	selectionCount, err := h.SelectionRepo.CountByLink(link.ID)
	if err != nil {
		log.Printf("ClientAlbum: error counting selections for link %d: %v", link.ID, err)
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to count selections")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"album": map[string]interface{}{
			"id":          link.Album.ID,
			"title":       link.Album.Title,
			"description": link.Album.Description,
		},
		"photos":          photos,
		"can_download":    link.CanDownload,
		"max_selections":  link.MaxSelections,
		"welcome_message": link.WelcomeMessage,
		"selection_count": selectionCount,
	})
}

type selectionEntry struct {
	PhotoID    uint      `json:"photo_id"`
	SelectedAt time.Time `json:"selected_at"`
}

// ListSelections returns the photos the visitor has picked so far.
func (h *ClientAccessHandler) ListSelections(w http.ResponseWriter, r *http.Request) {
	link, ok := h.requireClientLink(w, r)
	if !ok {
		return
	}

	selections, err := h.SelectionRepo.ListByLink(link.ID)
	if err != nil {
		log.Printf("ListSelections: error for link %d: %v", link.ID, err)
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to list selections")
		return
	}

	entries := make([]selectionEntry, 0, len(selections))
	for _, sel := range selections {
		entries = append(entries, selectionEntry{PhotoID: sel.PhotoID, SelectedAt: sel.CreatedAt})
	}
	writeJSON(w, http.StatusOK, entries)
}

func clientPhotoIDFromRequest(r *http.Request) (uint, error) {
	idStr := chi.URLParam(r, "photo_id")
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// SelectPhoto records a pick in the selection ledger. Selecting an already
// selected photo is a no-op success; a full quota is a hard refusal. The pick
// and the quota check run in one transaction, so concurrent requests cannot
// push the count past the cap.
func (h *ClientAccessHandler) SelectPhoto(w http.ResponseWriter, r *http.Request) {
	link, ok := h.requireClientLink(w, r)
	if !ok {
		return
	}

	photoID, err := clientPhotoIDFromRequest(r)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, ErrCodeValidation, "Invalid photo ID")
		return
	}

	if _, err := h.PhotoRepo.GetByIDInAlbum(photoID, link.AlbumID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, ErrCodeNotFound, "Photo not found in this album")
		} else {
			WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to fetch photo")
		}
		return
	}

	created, err := h.SelectionRepo.Select(link.ID, photoID, link.MaxSelections)
	if err != nil {
		if errors.Is(err, repository.ErrQuotaExceeded) {
			WriteAPIError(w, http.StatusForbidden, ErrCodeQuotaExceeded, "Selection limit reached for this link")
			return
		}
		log.Printf("SelectPhoto: error selecting photo %d for link %d: %v", photoID, link.ID, err)
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to select photo")
		return
	}

	if created && link.NotifyOnSelection {
		h.notifySelection(link)
	}

	status := http.StatusOK
	result := "already_selected"
	if created {
		status = http.StatusCreated
		result = "selected"
	}
	writeJSON(w, status, map[string]string{"status": result})
}

// notifySelection emails the album owner about a new pick. Failures are
// logged, never surfaced to the client.
func (h *ClientAccessHandler) notifySelection(link *models.AccessLink) {
	owner, err := h.UserRepo.GetByID(link.Album.OwnerID)
	if err != nil {
		log.Printf("notifySelection: error fetching owner %d: %v", link.Album.OwnerID, err)
		return
	}
	count, err := h.SelectionRepo.CountByLink(link.ID)
	if err != nil {
		count = 0
	}
	if err := h.Mailer.SendSelectionNotification(owner.Email, link.Album.Title, count); err != nil {
		log.Printf("notifySelection: error sending mail for link %d: %v", link.ID, err)
	}
}

// UnselectPhoto removes a pick from the ledger.
func (h *ClientAccessHandler) UnselectPhoto(w http.ResponseWriter, r *http.Request) {
	link, ok := h.requireClientLink(w, r)
	if !ok {
		return
	}

	photoID, err := clientPhotoIDFromRequest(r)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, ErrCodeValidation, "Invalid photo ID")
		return
	}

	if err := h.SelectionRepo.Unselect(link.ID, photoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			WriteAPIError(w, http.StatusNotFound, ErrCodeNotFound, "Photo is not selected")
		} else {
			log.Printf("UnselectPhoto: error unselecting photo %d for link %d: %v", photoID, link.ID, err)
			WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to unselect photo")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "unselected"})
}

// serveArchive streams a zip built in memory as an attachment.
func (h *ClientAccessHandler) serveArchive(w http.ResponseWriter, photos []models.Photo, filename string) {
	buf, err := utils.BuildPhotoArchive(h.MediaStore, photos)
	if err != nil {
		if errors.Is(err, utils.ErrEmptyArchive) {
			WriteAPIError(w, http.StatusBadRequest, ErrCodeEmptyResult, "No photos available to download")
			return
		}
		log.Printf("serveArchive: error building %s: %v", filename, err)
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to build archive")
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("serveArchive: error streaming %s: %v", filename, err)
	}
}

type downloadSelectedPayload struct {
	PhotoIDs []uint `json:"photo_ids"`
}

// DownloadSelected zips the requested photos, restricted to the ones the
// visitor actually has in the selection ledger. An empty photo_ids list is an
// empty result, not a request for everything; IDs outside the ledger are
// silently ignored rather than rejected.
func (h *ClientAccessHandler) DownloadSelected(w http.ResponseWriter, r *http.Request) {
	link, ok := h.requireClientLink(w, r)
	if !ok {
		return
	}
	if !link.CanDownload {
		WriteAPIError(w, http.StatusForbidden, ErrCodeDownloadsDisabled, "Downloads are not enabled for this link")
		return
	}

	var req downloadSelectedPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteAPIError(w, http.StatusBadRequest, ErrCodeValidation, "Invalid request body")
		return
	}
	if len(req.PhotoIDs) == 0 {
		WriteAPIError(w, http.StatusBadRequest, ErrCodeEmptyResult, "No photo IDs provided")
		return
	}

	selections, err := h.SelectionRepo.ListByLink(link.ID)
	if err != nil {
		log.Printf("DownloadSelected: error listing selections for link %d: %v", link.ID, err)
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to list selections")
		return
	}

	selected := make(map[uint]bool, len(selections))
	for _, sel := range selections {
		selected[sel.PhotoID] = true
	}

	var ids []uint
	for _, id := range req.PhotoIDs {
		if selected[id] {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		WriteAPIError(w, http.StatusBadRequest, ErrCodeEmptyResult, "No selected photos to download")
		return
	}

	photos, err := h.PhotoRepo.ListByIDs(ids)
	if err != nil {
		log.Printf("DownloadSelected: error loading photos for link %d: %v", link.ID, err)
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to load photos")
		return
	}

	h.serveArchive(w, photos, fmt.Sprintf("%s_selected.zip", link.Album.Title))
}

// DownloadAll zips the entire shared album.
func (h *ClientAccessHandler) DownloadAll(w http.ResponseWriter, r *http.Request) {
	link, ok := h.requireClientLink(w, r)
	if !ok {
		return
	}
	if !link.CanDownload {
		WriteAPIError(w, http.StatusForbidden, ErrCodeDownloadsDisabled, "Downloads are not enabled for this link")
		return
	}

	photos, err := h.PhotoRepo.ListByAlbum(link.AlbumID, database.DefaultSortOrder)
	if err != nil {
		log.Printf("DownloadAll: error listing photos for album %d: %v", link.AlbumID, err)
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to list photos")
		return
	}

	h.serveArchive(w, photos, fmt.Sprintf("%s_all_photos.zip", link.Album.Title))
}
