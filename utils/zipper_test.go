package utils

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/camden-git/photosharebackend/media"
	"github.com/camden-git/photosharebackend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory media.Store stub for archive tests.
type memStore struct {
	files map[string][]byte
}

func (s *memStore) Save(assetType media.AssetType, relativeDirHint, filenameHint string, data io.Reader) (string, error) {
	return "", nil
}

func (s *memStore) Get(relativePath string) (io.ReadCloser, os.FileInfo, error) {
	data, ok := s.files[relativePath]
	if !ok {
		return nil, nil, os.ErrNotExist
	}
	return io.NopCloser(bytes.NewReader(data)), nil, nil
}

func (s *memStore) Delete(relativePath string) error { return nil }

func (s *memStore) GetFullPath(relativePath string) (string, error) { return relativePath, nil }

func (s *memStore) EnsureDir(assetType media.AssetType) (string, error) { return "", nil }

func photoFixture(id uint, path, original string) models.Photo {
	return models.Photo{ID: id, FilePath: path, OriginalFilename: original}
}

func readArchiveNames(t *testing.T, buf *bytes.Buffer) []string {
	t.Helper()
	reader, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	names := make([]string, 0, len(reader.File))
	for _, f := range reader.File {
		names = append(names, f.Name)
	}
	return names
}

func TestBuildPhotoArchiveEmptyInput(t *testing.T) {
	store := &memStore{files: map[string][]byte{}}

	_, err := BuildPhotoArchive(store, nil)
	assert.ErrorIs(t, err, ErrEmptyArchive)
}

func TestBuildPhotoArchiveEntryNames(t *testing.T) {
	store := &memStore{files: map[string][]byte{
		"photos/1/a.jpg": []byte("first"),
		"photos/1/b.jpg": []byte("second"),
	}}
	photos := []models.Photo{
		photoFixture(7, "photos/1/a.jpg", "beach.jpg"),
		photoFixture(9, "photos/1/b.jpg", "beach.jpg"),
	}

	buf, err := BuildPhotoArchive(store, photos)
	require.NoError(t, err)

	names := readArchiveNames(t, buf)
	// ids keep entries unique despite the duplicate original filename
	assert.Equal(t, []string{"7_beach.jpg", "9_beach.jpg"}, names)
}

func TestBuildPhotoArchiveContents(t *testing.T) {
	store := &memStore{files: map[string][]byte{
		"photos/1/a.jpg": []byte("payload"),
	}}

	buf, err := BuildPhotoArchive(store, []models.Photo{photoFixture(1, "photos/1/a.jpg", "a.jpg")})
	require.NoError(t, err)

	reader, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, reader.File, 1)

	rc, err := reader.File[0].Open()
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)
}

func TestBuildPhotoArchiveSkipsMissingFiles(t *testing.T) {
	store := &memStore{files: map[string][]byte{
		"photos/1/a.jpg": []byte("present"),
	}}
	photos := []models.Photo{
		photoFixture(1, "photos/1/a.jpg", "a.jpg"),
		photoFixture(2, "photos/1/gone.jpg", "gone.jpg"),
	}

	buf, err := BuildPhotoArchive(store, photos)
	require.NoError(t, err)

	names := readArchiveNames(t, buf)
	assert.Equal(t, []string{"1_a.jpg"}, names)
}

func TestBuildPhotoArchiveAllMissing(t *testing.T) {
	store := &memStore{files: map[string][]byte{}}
	photos := []models.Photo{
		photoFixture(1, "photos/1/gone.jpg", "gone.jpg"),
	}

	_, err := BuildPhotoArchive(store, photos)
	assert.ErrorIs(t, err, ErrEmptyArchive)
}
