package utils

import (
	"io"

	"github.com/rwcarlsen/goexif/exif"
)

// ExtractTakenAt reads the EXIF capture time from an image stream.
// Returns nil when the image has no parseable EXIF block or no date tag;
// photos without EXIF are perfectly normal and this is not an error.
func ExtractTakenAt(reader io.Reader) *int64 {
	exifData, err := exif.Decode(reader)
	if err != nil {
		return nil
	}
	t, err := exifData.DateTime()
	if err != nil {
		return nil
	}
	ts := t.Unix()
	return &ts
}
