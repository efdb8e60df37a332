package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/camden-git/photosharebackend/config"
	"github.com/camden-git/photosharebackend/mailer"
	"github.com/camden-git/photosharebackend/media"
	"github.com/camden-git/photosharebackend/models"
	"github.com/camden-git/photosharebackend/repository"
	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const jwtExpirationHours = 24

const (
	confirmationTokenTTL = 48 * time.Hour
	resendEmailCooldown  = 5 * time.Minute
)

type AuthHandler struct {
	UserRepo    repository.UserRepository
	AttemptRepo repository.LoginAttemptRepository
	Cfg         config.Config
	Mailer      *mailer.Mailer
	MediaStore  media.Store
}

func NewAuthHandler(userRepo repository.UserRepository, attemptRepo repository.LoginAttemptRepository, cfg config.Config, m *mailer.Mailer, store media.Store) *AuthHandler {
	return &AuthHandler{UserRepo: userRepo, AttemptRepo: attemptRepo, Cfg: cfg, Mailer: m, MediaStore: store}
}

type LoginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string      `json:"token"`
	User      models.User `json:"user"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// Login validates credentials and returns a signed JWT. Before the password
// is even looked at, the login-attempt guard counts recent failures for this
// (username, source address) pair and rejects with a throttle error once the
// limit is hit. Every attempt is recorded, success or failure.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, ErrCodeValidation, "Invalid request payload")
		return
	}

	ipAddress := clientIP(r)
	window := time.Duration(h.Cfg.LoginAttemptWindowMinutes) * time.Minute

	failures, err := h.AttemptRepo.CountRecentFailures(payload.Username, ipAddress, window)
	if err != nil {
		// the guard failing open would defeat its purpose; log and fall
		// through to the throttle-free path only on counting errors
		log.Printf("Error checking login attempts for %s: %v", payload.Username, err)
	} else if failures >= int64(h.Cfg.LoginAttemptLimit) {
		WriteAPIError(w, http.StatusTooManyRequests, ErrCodeThrottled, "Too many failed login attempts. Please try again later.")
		return
	}

	user, err := h.UserRepo.GetByUsername(payload.Username)
	if err != nil || !user.CheckPassword(payload.Password) {
		if recErr := h.AttemptRepo.Record(payload.Username, ipAddress, false); recErr != nil {
			log.Printf("Error recording failed login attempt for %s: %v", payload.Username, recErr)
		}
		WriteAPIError(w, http.StatusUnauthorized, ErrCodeInvalidCredentials, "Invalid username or password")
		return
	}

	if user.Profile == nil || !user.Profile.EmailConfirmed {
		WriteAPIError(w, http.StatusForbidden, ErrCodeEmailUnconfirmed, "Please confirm your email before logging in.")
		return
	}

	expirationTime := time.Now().Add(jwtExpirationHours * time.Hour)
	claims := &jwt.RegisteredClaims{
		Subject:   fmt.Sprint(user.ID),
		ExpiresAt: jwt.NewNumericDate(expirationTime),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		Issuer:    "photosharebackend",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(h.Cfg.JWTSecret))
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to generate token")
		return
	}

	if err := h.AttemptRepo.Record(payload.Username, ipAddress, true); err != nil {
		log.Printf("Error recording successful login attempt for %s: %v", payload.Username, err)
	}

	userForResponse := *user
	userForResponse.PasswordHash = ""

	writeJSON(w, http.StatusOK, LoginResponse{
		Token:     tokenString,
		User:      userForResponse,
		ExpiresAt: expirationTime,
	})
}

// clientIP returns the request's source address. chi's RealIP middleware has
// already rewritten RemoteAddr from X-Forwarded-For when present.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

type RegisterPayload struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Register creates a new user with an unconfirmed email and sends the
// confirmation link. The account cannot log in until the email is confirmed.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, ErrCodeValidation, "Invalid request payload: "+err.Error())
		return
	}

	if payload.Username == "" || payload.Password == "" || payload.Email == "" {
		WriteAPIError(w, http.StatusBadRequest, ErrCodeValidation, "Username, email, and password are required")
		return
	}

	newUser := &models.User{
		Username:  payload.Username,
		Email:     payload.Email,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
	}
	if err := newUser.SetPassword(payload.Password); err != nil {
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to hash password")
		return
	}

	if err := h.UserRepo.Create(newUser); err != nil {
		WriteAPIError(w, http.StatusConflict, ErrCodeConflict, "Username or email already exists")
		return
	}

	confirmationToken := uuid.New().String()
	now := time.Now()
	profile := &models.UserProfile{
		UserID:                    newUser.ID,
		EmailConfirmationToken:    &confirmationToken,
		EmailConfirmationSentDate: &now,
	}
	if err := h.UserRepo.CreateProfile(profile); err != nil {
		log.Printf("Error creating profile for user %s: %v", newUser.Username, err)
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to create user profile")
		return
	}

	if err := h.Mailer.SendConfirmationEmail(newUser.Email, newUser.Username, confirmationToken); err != nil {
		log.Printf("Error sending confirmation email to %s: %v", newUser.Email, err)
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"username": newUser.Username,
		"email":    newUser.Email,
		"detail":   "User registered successfully. Please check your email to confirm your account.",
	})
}

// ConfirmEmail handles the confirmation link. An expired token gets replaced
// and a fresh email sent, so the user is never stuck with a dead link.
func (h *AuthHandler) ConfirmEmail(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	profile, err := h.UserRepo.GetProfileByConfirmationToken(token)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, ErrCodeInvalidToken, "Invalid confirmation token.")
		return
	}

	user, err := h.UserRepo.GetByID(profile.UserID)
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to load user")
		return
	}

	if profile.EmailConfirmed {
		writeJSON(w, http.StatusOK, map[string]string{"detail": "Email is already confirmed.", "username": user.Username})
		return
	}

	if profile.EmailConfirmationSentDate != nil && time.Now().After(profile.EmailConfirmationSentDate.Add(confirmationTokenTTL)) {
		newToken := uuid.New().String()
		now := time.Now()
		profile.EmailConfirmationToken = &newToken
		profile.EmailConfirmationSentDate = &now
		if err := h.UserRepo.SaveProfile(profile); err != nil {
			WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to refresh confirmation token")
			return
		}
		if err := h.Mailer.SendConfirmationEmail(user.Email, user.Username, newToken); err != nil {
			log.Printf("Error re-sending confirmation email to %s: %v", user.Email, err)
		}
		WriteAPIError(w, http.StatusBadRequest, ErrCodeTokenExpired, "Confirmation link expired. A new confirmation email has been sent.")
		return
	}

	profile.EmailConfirmed = true
	if err := h.UserRepo.SaveProfile(profile); err != nil {
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to confirm email")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"detail":   "Email confirmed successfully. You can now log in.",
		"email":    user.Email,
		"username": user.Username,
	})
}

// ResendConfirmationEmail regenerates the confirmation token, with a short
// cooldown between sends as an anti-spam measure.
func (h *AuthHandler) ResendConfirmationEmail(w http.ResponseWriter, r *http.Request) {
	user, ok := CurrentUserFromContext(r.Context())
	if !ok {
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Could not retrieve user from context")
		return
	}

	profile, err := h.UserRepo.GetProfileByUserID(user.ID)
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to load profile")
		return
	}

	if profile.EmailConfirmed {
		WriteAPIError(w, http.StatusBadRequest, ErrCodeValidation, "Email is already confirmed.")
		return
	}

	if profile.EmailConfirmationSentDate != nil && time.Now().Before(profile.EmailConfirmationSentDate.Add(resendEmailCooldown)) {
		WriteAPIError(w, http.StatusTooManyRequests, ErrCodeThrottled, "Please wait 5 minutes before requesting another confirmation email.")
		return
	}

	newToken := uuid.New().String()
	now := time.Now()
	profile.EmailConfirmationToken = &newToken
	profile.EmailConfirmationSentDate = &now
	if err := h.UserRepo.SaveProfile(profile); err != nil {
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to refresh confirmation token")
		return
	}

	if err := h.Mailer.SendConfirmationEmail(user.Email, user.Username, newToken); err != nil {
		log.Printf("Error sending confirmation email to %s: %v", user.Email, err)
	}

	writeJSON(w, http.StatusOK, map[string]string{"detail": "Confirmation email has been sent."})
}

type PasswordResetRequestPayload struct {
	Email string `json:"email"`
}

// RequestPasswordReset sends a reset link. The response never reveals
// whether the email exists.
func (h *AuthHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var payload PasswordResetRequestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Email == "" {
		WriteAPIError(w, http.StatusBadRequest, ErrCodeValidation, "Email is required")
		return
	}

	user, err := h.UserRepo.GetByEmail(payload.Email)
	if err == nil {
		profile, perr := h.UserRepo.GetProfileByUserID(user.ID)
		if perr == nil {
			resetToken := uuid.New().String()
			now := time.Now()
			profile.PasswordResetToken = &resetToken
			profile.PasswordResetTokenSentDate = &now
			if serr := h.UserRepo.SaveProfile(profile); serr != nil {
				log.Printf("Error saving reset token for %s: %v", payload.Email, serr)
			} else if merr := h.Mailer.SendPasswordResetEmail(user.Email, resetToken); merr != nil {
				log.Printf("Error sending password reset email to %s: %v", user.Email, merr)
			}
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Error looking up user for password reset: %v", err)
	}

	writeJSON(w, http.StatusOK, map[string]string{"detail": "Password reset email has been sent if the email exists in our system."})
}

type PasswordResetConfirmPayload struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// ConfirmPasswordReset sets the new password if the reset token is valid.
func (h *AuthHandler) ConfirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	var payload PasswordResetConfirmPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Token == "" || payload.Password == "" {
		WriteAPIError(w, http.StatusBadRequest, ErrCodeValidation, "Token and password are required")
		return
	}

	profile, err := h.UserRepo.GetProfileByResetToken(payload.Token)
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, ErrCodeInvalidToken, "Invalid or expired token.")
		return
	}

	user, err := h.UserRepo.GetByID(profile.UserID)
	if err != nil {
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to load user")
		return
	}

	if err := user.SetPassword(payload.Password); err != nil {
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to hash password")
		return
	}
	if err := h.UserRepo.Update(user); err != nil {
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to update password")
		return
	}

	profile.PasswordResetToken = nil
	profile.PasswordResetTokenSentDate = nil
	if err := h.UserRepo.SaveProfile(profile); err != nil {
		log.Printf("Error clearing reset token for user %d: %v", user.ID, err)
	}

	writeJSON(w, http.StatusOK, map[string]string{"detail": "Password has been reset successfully."})
}

// CurrentUser retrieves the authenticated user from the request context.
// This handler should be protected by the AuthMiddleware.
func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := CurrentUserFromContext(r.Context())
	if !ok {
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Could not retrieve user from context")
		return
	}

	userForResponse := *user
	userForResponse.PasswordHash = ""
	writeJSON(w, http.StatusOK, userForResponse)
}

type UpdateUserPayload struct {
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

// UpdateUser applies partial updates to the authenticated user's record.
func (h *AuthHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	user, ok := CurrentUserFromContext(r.Context())
	if !ok {
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Could not retrieve user from context")
		return
	}

	var payload UpdateUserPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		WriteAPIError(w, http.StatusBadRequest, ErrCodeValidation, "Invalid request payload")
		return
	}

	if payload.Email != nil {
		user.Email = *payload.Email
	}
	if payload.FirstName != nil {
		user.FirstName = *payload.FirstName
	}
	if payload.LastName != nil {
		user.LastName = *payload.LastName
	}

	if err := h.UserRepo.Update(user); err != nil {
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to update user")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "User updated successfully."})
}

// UpdateAvatar stores a new avatar image for the authenticated user.
func (h *AuthHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	user, ok := CurrentUserFromContext(r.Context())
	if !ok {
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Could not retrieve user from context")
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		WriteAPIError(w, http.StatusBadRequest, ErrCodeValidation, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		WriteAPIError(w, http.StatusBadRequest, ErrCodeValidation, "No avatar provided.")
		return
	}
	defer file.Close()

	ext := filepath.Ext(header.Filename)
	filename := fmt.Sprintf("avatar_%d_%s%s", user.ID, uuid.New().String()[:8], ext)
	relPath, err := h.MediaStore.Save(media.AssetTypeAvatar, "", filename, io.LimitReader(file, 10<<20))
	if err != nil {
		log.Printf("Error saving avatar for user %d: %v", user.ID, err)
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to save avatar")
		return
	}

	if err := h.UserRepo.UpdateAvatarPath(user.ID, &relPath); err != nil {
		WriteAPIError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to update avatar")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Avatar updated successfully.", "avatar_path": relPath})
}
