package services

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"testing"

	"gallery-backend/internal/models"
	"gallery-backend/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestImageService(t *testing.T) (*ImageService, *AuthService, *storage.LocalStorage, string) {
	t.Helper()

	db := newTestDB(t)
	uploadDir := t.TempDir()
	store := storage.NewLocalStorage(uploadDir)

	return NewImageService(db, store), NewAuthService(db), store, uploadDir
}

func pngPayload(data []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)
}

func registerTestUser(t *testing.T, auth *AuthService, username string) *models.User {
	t.Helper()

	user, err := auth.Register(username, "s3cret")
	require.NoError(t, err)
	return user
}

func TestUploadSequenceAndList(t *testing.T) {
	svc, auth, _, _ := newTestImageService(t)
	user := registerTestUser(t, auth, "alice")

	const n = 3
	for i := 1; i <= n; i++ {
		image, err := svc.Upload(user.ID, pngPayload([]byte(fmt.Sprintf("image-%d", i))))
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("user_%s_%d.png", user.ID, i), image.Filename)
	}

	images, err := svc.ListForOwner(user.ID)
	require.NoError(t, err)
	require.Len(t, images, n)

	// Newest first.
	for i, image := range images {
		assert.Equal(t, fmt.Sprintf("user_%s_%d.png", user.ID, n-i), image.Filename)
	}
}

func TestUploadRoundTrip(t *testing.T) {
	svc, auth, store, _ := newTestImageService(t)
	user := registerTestUser(t, auth, "alice")

	original := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 1, 2, 3}
	image, err := svc.Upload(user.ID, pngPayload(original))
	require.NoError(t, err)

	f, err := store.Open(image.Filename)
	require.NoError(t, err)
	defer f.Close()

	stored, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, original, stored)
}

func TestUploadMalformedPayload(t *testing.T) {
	svc, auth, _, uploadDir := newTestImageService(t)
	user := registerTestUser(t, auth, "alice")

	cases := map[string]string{
		"missing comma": base64.StdEncoding.EncodeToString([]byte("no header")),
		"bad base64":    "data:image/png;base64,this is not base64!!!",
	}

	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Upload(user.ID, payload)
			assert.ErrorIs(t, err, ErrMalformedPayload)
		})
	}

	images, err := svc.ListForOwner(user.ID)
	require.NoError(t, err)
	assert.Empty(t, images, "rejected upload must not create a record")

	entries, err := os.ReadDir(uploadDir)
	if err == nil {
		assert.Empty(t, entries, "rejected upload must not create a file")
	} else {
		assert.True(t, os.IsNotExist(err))
	}
}

func TestFindOwnedChecksOwnership(t *testing.T) {
	svc, auth, _, _ := newTestImageService(t)
	alice := registerTestUser(t, auth, "alice")
	bob := registerTestUser(t, auth, "bob")

	image, err := svc.Upload(alice.ID, pngPayload([]byte("alices drawing")))
	require.NoError(t, err)

	got, err := svc.FindOwned(image.Filename, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, image.ID, got.ID)

	// Someone else's filename is indistinguishable from a missing one.
	_, foreignErr := svc.FindOwned(image.Filename, bob.ID)
	_, missingErr := svc.FindOwned("user_none_1.png", bob.ID)
	assert.ErrorIs(t, foreignErr, ErrImageNotFound)
	assert.ErrorIs(t, missingErr, ErrImageNotFound)
	assert.Equal(t, foreignErr, missingErr)
}

func TestUploadSequencesAreIndependentPerOwner(t *testing.T) {
	svc, auth, _, _ := newTestImageService(t)
	alice := registerTestUser(t, auth, "alice")
	bob := registerTestUser(t, auth, "bob")

	a, err := svc.Upload(alice.ID, pngPayload([]byte("a")))
	require.NoError(t, err)
	b, err := svc.Upload(bob.ID, pngPayload([]byte("b")))
	require.NoError(t, err)

	assert.Equal(t, fmt.Sprintf("user_%s_1.png", alice.ID), a.Filename)
	assert.Equal(t, fmt.Sprintf("user_%s_1.png", bob.ID), b.Filename)
	assert.NotEqual(t, a.Filename, b.Filename)
}
