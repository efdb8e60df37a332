package utils

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/camden-git/photosharebackend/media"
	"github.com/camden-git/photosharebackend/models"
)

// ErrEmptyArchive is returned when no photo could be written into the zip.
var ErrEmptyArchive = errors.New("no photos to archive")

// BuildPhotoArchive assembles a zip archive of the given photos in memory and
// returns the buffer ready to be sent as an attachment. Each entry is named
// "{photo_id}_{original_filename}" so entries stay unique even when photos
// share a filename.
//
// A photo whose stored file has gone missing is skipped (the archive is a
// best-effort snapshot, a file removed mid-build is not fatal); any other
// read failure aborts the build and the partial buffer is discarded.
// The whole archive is buffered in memory, which is fine for album-sized
// photo sets but does not scale to arbitrarily large inputs.
func BuildPhotoArchive(store media.Store, photos []models.Photo) (*bytes.Buffer, error) {
	if len(photos) == 0 {
		return nil, ErrEmptyArchive
	}

	buf := &bytes.Buffer{}
	zipWriter := zip.NewWriter(buf)

	written := 0
	for _, photo := range photos {
		reader, _, err := store.Get(photo.FilePath)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				log.Printf("zipper: photo %d file %s missing, skipping", photo.ID, photo.FilePath)
				continue
			}
			zipWriter.Close()
			return nil, fmt.Errorf("failed to open photo %d for zipping: %w", photo.ID, err)
		}

		entryName := fmt.Sprintf("%d_%s", photo.ID, photo.OriginalFilename)
		entry, err := zipWriter.Create(entryName)
		if err != nil {
			reader.Close()
			zipWriter.Close()
			return nil, fmt.Errorf("failed to create zip entry %s: %w", entryName, err)
		}

		_, err = io.Copy(entry, reader)
		reader.Close()
		if err != nil {
			zipWriter.Close()
			return nil, fmt.Errorf("failed to write photo %d to zip: %w", photo.ID, err)
		}
		written++
	}

	if written == 0 {
		zipWriter.Close()
		return nil, ErrEmptyArchive
	}

	if err := zipWriter.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize zip archive: %w", err)
	}
	return buf, nil
}
