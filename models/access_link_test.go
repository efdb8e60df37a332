package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessLinkSetPasswordHashes(t *testing.T) {
	link := &AccessLink{}
	require.NoError(t, link.SetPassword("hunter2"))

	require.NotNil(t, link.Password)
	assert.True(t, strings.HasPrefix(*link.Password, "$2"), "stored value should be a bcrypt hash")
	assert.NotEqual(t, "hunter2", *link.Password)
}

func TestAccessLinkCheckPassword(t *testing.T) {
	link := &AccessLink{}
	require.NoError(t, link.SetPassword("hunter2"))

	assert.True(t, link.CheckPassword("hunter2"))
	assert.False(t, link.CheckPassword("wrong"))
	assert.False(t, link.CheckPassword(""))
}

func TestAccessLinkWithoutPasswordIsOpen(t *testing.T) {
	link := &AccessLink{}

	assert.True(t, link.CheckPassword(""))
	assert.True(t, link.CheckPassword("anything"))
}

func TestAccessLinkSetPasswordEmptyClears(t *testing.T) {
	link := &AccessLink{}
	require.NoError(t, link.SetPassword("hunter2"))
	require.NotNil(t, link.Password)

	require.NoError(t, link.SetPassword(""))
	assert.Nil(t, link.Password)
}

func TestEnsurePasswordHashedIsIdempotent(t *testing.T) {
	link := &AccessLink{}
	require.NoError(t, link.SetPassword("hunter2"))
	firstHash := *link.Password

	// a second save must not re-hash the stored hash
	require.NoError(t, link.EnsurePasswordHashed())
	require.NoError(t, link.EnsurePasswordHashed())

	assert.Equal(t, firstHash, *link.Password)
	assert.True(t, link.CheckPassword("hunter2"), "password must still verify after repeated saves")
}

func TestBeforeCreateGeneratesToken(t *testing.T) {
	link := &AccessLink{AlbumID: 1}
	require.NoError(t, link.BeforeCreate(nil))
	assert.NotEmpty(t, link.Token)

	other := &AccessLink{AlbumID: 1}
	require.NoError(t, other.BeforeCreate(nil))
	assert.NotEqual(t, link.Token, other.Token)
}

func TestBeforeCreateKeepsExplicitToken(t *testing.T) {
	link := &AccessLink{AlbumID: 1, Token: "preset-token"}
	require.NoError(t, link.BeforeCreate(nil))
	assert.Equal(t, "preset-token", link.Token)
}

func TestAccessLinkIsExpired(t *testing.T) {
	assert.False(t, (&AccessLink{}).IsExpired(), "no expiry means never expired")

	past := time.Now().Add(-time.Hour)
	assert.True(t, (&AccessLink{ExpiresAt: &past}).IsExpired())

	future := time.Now().Add(time.Hour)
	assert.False(t, (&AccessLink{ExpiresAt: &future}).IsExpired())
}

func TestAccessLinkShareURL(t *testing.T) {
	link := &AccessLink{Token: "abc123"}

	assert.Equal(t, "https://photos.example.com/client-access/abc123/", link.ShareURL("https://photos.example.com"))
	assert.Equal(t, "https://photos.example.com/client-access/abc123/", link.ShareURL("https://photos.example.com/"))
}

func TestClientAccessTokenIsValid(t *testing.T) {
	valid := &ClientAccessToken{ExpiresAt: time.Now().Add(2 * time.Hour)}
	assert.True(t, valid.IsValid())

	expired := &ClientAccessToken{ExpiresAt: time.Now().Add(-time.Minute)}
	assert.False(t, expired.IsValid())
}
