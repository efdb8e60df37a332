package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
)

const (
	DefaultPhotosSubDir     = "photos"
	DefaultAvatarsSubDir    = "avatars"
	DefaultThumbnailsSubDir = "thumbnails"
)

const (
	defaultThumbnailQueueSize  = 200
	defaultNumThumbnailWorkers = 4
	defaultThumbnailMaxSize    = 300

	defaultLoginAttemptWindowMinutes = 15
	defaultLoginAttemptLimit         = 5
)

type Config struct {
	// database path
	DatabasePath string

	// media storage configuration
	MediaStoragePath string // primary root for stored assets (photos, avatars, thumbs)
	PhotosPath       string // full-calculated path for original photos
	AvatarsPath      string // full-calculated path for user avatars
	ThumbnailsPath   string // full-calculated path for thumbnails

	// thumbnail generation settings
	ThumbnailMaxSize int

	// worker settings
	ThumbnailQueueSize  int
	NumThumbnailWorkers int

	// public URLs
	SiteURL      string // backend base URL, used in email confirmation links
	ShareBaseURL string // frontend base URL, used in access-link share URLs

	// auth settings
	JWTSecret                 string
	LoginAttemptWindowMinutes int
	LoginAttemptLimit         int

	// outbound email
	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	MailFrom string
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func LoadConfig() (Config, error) {
	dbPath := getEnvOrDefault("DATABASE_PATH", "photoshare.db")

	mediaStorage := getEnvOrDefault("MEDIA_STORAGE_PATH", filepath.Join(".", "media_storage"))
	absMediaStorage, err := filepath.Abs(mediaStorage)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for media storage '%s': %w", mediaStorage, err)
	}

	photosSubDir := getEnvOrDefault("PHOTOS_SUBDIR", DefaultPhotosSubDir)
	absPhotosPath := filepath.Join(absMediaStorage, photosSubDir)

	avatarsSubDir := getEnvOrDefault("AVATARS_SUBDIR", DefaultAvatarsSubDir)
	absAvatarsPath := filepath.Join(absMediaStorage, avatarsSubDir)

	thumbSubDir := getEnvOrDefault("THUMBNAILS_SUBDIR", DefaultThumbnailsSubDir)
	absThumbnailsPath := filepath.Join(absMediaStorage, thumbSubDir)

	thumbMaxSize := getEnvIntOrDefault("THUMBNAIL_MAX_SIZE", defaultThumbnailMaxSize)
	queueSize := getEnvIntOrDefault("THUMBNAIL_QUEUE_SIZE", defaultThumbnailQueueSize)
	numWorkers := getEnvIntOrDefault("NUM_THUMBNAIL_WORKERS", defaultNumThumbnailWorkers)

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET must be set")
	}

	cfg := Config{
		DatabasePath:              dbPath,
		MediaStoragePath:          absMediaStorage,
		PhotosPath:                absPhotosPath,
		AvatarsPath:               absAvatarsPath,
		ThumbnailsPath:            absThumbnailsPath,
		ThumbnailMaxSize:          thumbMaxSize,
		ThumbnailQueueSize:        queueSize,
		NumThumbnailWorkers:       numWorkers,
		SiteURL:                   getEnvOrDefault("SITE_URL", "http://localhost:8080"),
		ShareBaseURL:              getEnvOrDefault("SHARE_BASE_URL", "http://localhost:5173"),
		JWTSecret:                 jwtSecret,
		LoginAttemptWindowMinutes: getEnvIntOrDefault("LOGIN_ATTEMPT_WINDOW_MINUTES", defaultLoginAttemptWindowMinutes),
		LoginAttemptLimit:         getEnvIntOrDefault("LOGIN_ATTEMPT_LIMIT", defaultLoginAttemptLimit),
		SMTPHost:                  os.Getenv("SMTP_HOST"),
		SMTPPort:                  getEnvOrDefault("SMTP_PORT", "587"),
		SMTPUser:                  os.Getenv("SMTP_USER"),
		SMTPPass:                  os.Getenv("SMTP_PASS"),
		MailFrom:                  getEnvOrDefault("MAIL_FROM", "noreply@photoshare.local"),
	}

	return cfg, nil
}
