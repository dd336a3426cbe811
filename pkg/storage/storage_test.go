package storage

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uploadHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("avatar", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))

	return req.MultipartForm.File["avatar"][0]
}

func TestStorage_SaveAvatar(t *testing.T) {
	store := NewStorage(t.TempDir())

	path, err := store.SaveAvatar(uploadHeader(t, "me.png", []byte("fake png bytes")))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(path, "avatars"+string(filepath.Separator)) ||
		strings.HasPrefix(path, "avatars/"))
	assert.True(t, strings.HasSuffix(path, ".png"))

	data, err := os.ReadFile(filepath.Join(store.basePath, path))
	require.NoError(t, err)
	assert.Equal(t, []byte("fake png bytes"), data)
}

func TestStorage_SaveAvatar_RejectsNonImages(t *testing.T) {
	store := NewStorage(t.TempDir())

	for _, name := range []string{"shell.sh", "notes.txt", "noext"} {
		_, err := store.SaveAvatar(uploadHeader(t, name, []byte("data")))
		assert.Error(t, err, name)
	}
}

func TestStorage_SaveAvatar_RejectsOversized(t *testing.T) {
	store := NewStorage(t.TempDir())

	_, err := store.SaveAvatar(uploadHeader(t, "big.png", make([]byte, maxAvatarSize+1)))
	assert.ErrorContains(t, err, "too large")
}

func TestStorage_DeleteFile(t *testing.T) {
	store := NewStorage(t.TempDir())

	path, err := store.SaveAvatar(uploadHeader(t, "me.jpg", []byte("x")))
	require.NoError(t, err)

	require.NoError(t, store.DeleteFile(path))
	_, err = os.Stat(filepath.Join(store.basePath, path))
	assert.True(t, os.IsNotExist(err))

	assert.Error(t, store.DeleteFile(path))
}

func TestStorage_FileURL(t *testing.T) {
	store := NewStorage("./storage")
	assert.Equal(t, "/storage/avatars/a.png", store.FileURL(filepath.Join("avatars", "a.png")))
}
