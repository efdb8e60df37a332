package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// GenerateThumbnail creates a JPEG thumbnail for the image at originalPath,
// bounded by maxSize on its longest side, and saves it into thumbnailDir.
// Returns the generated filename.
func GenerateThumbnail(originalPath, thumbnailDir string, maxSize int) (string, error) {
	img, err := imaging.Open(originalPath, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("failed to open image %s: %w", originalPath, err)
	}

	thumb := imaging.Fit(img, maxSize, maxSize, imaging.Lanczos)

	if err := os.MkdirAll(thumbnailDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create thumbnail directory %s: %w", thumbnailDir, err)
	}

	base := filepath.Base(originalPath)
	ext := filepath.Ext(base)
	thumbFilename := fmt.Sprintf("thumb_%s.jpg", base[:len(base)-len(ext)])
	thumbPath := filepath.Join(thumbnailDir, thumbFilename)

	if err := imaging.Save(thumb, thumbPath, imaging.JPEGQuality(85)); err != nil {
		return "", fmt.Errorf("failed to save thumbnail %s: %w", thumbPath, err)
	}

	return thumbFilename, nil
}
