package files

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uploadHeader(t *testing.T, filename, content string) *multipart.FileHeader {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["file"][0]
}

func TestStore_SaveAndList(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	t.Run("saved file gets a unique suffixed name", func(t *testing.T) {
		info, err := store.Save(uploadHeader(t, "brief.pdf", "hello"))
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(info.Name, "brief-"))
		assert.True(t, strings.HasSuffix(info.Name, ".pdf"))
		assert.Equal(t, int64(5), info.Size)
	})

	t.Run("same name twice never collides", func(t *testing.T) {
		a, err := store.Save(uploadHeader(t, "logo.png", "aaaa"))
		require.NoError(t, err)
		b, err := store.Save(uploadHeader(t, "logo.png", "bbbb"))
		require.NoError(t, err)
		assert.NotEqual(t, a.Name, b.Name)
	})

	t.Run("list returns saved files", func(t *testing.T) {
		items, err := store.List()
		require.NoError(t, err)
		assert.Len(t, items, 3)
	})
}

func TestStore_Delete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	t.Run("deletes an existing file", func(t *testing.T) {
		info, err := store.Save(uploadHeader(t, "moodboard.jpg", "img"))
		require.NoError(t, err)

		require.NoError(t, store.Delete(info.Name))
		_, statErr := os.Stat(filepath.Join(dir, info.Name))
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("missing file is ErrNotFound", func(t *testing.T) {
		assert.ErrorIs(t, store.Delete("nope.txt"), ErrNotFound)
	})

	t.Run("traversal names are rejected", func(t *testing.T) {
		assert.ErrorIs(t, store.Delete("../escape.txt"), ErrBadName)
		assert.ErrorIs(t, store.Delete("a/b.txt"), ErrBadName)
		assert.ErrorIs(t, store.Delete(""), ErrBadName)
	})
}

func TestStore_Path(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	info, err := store.Save(uploadHeader(t, "contract.pdf", "sign here"))
	require.NoError(t, err)

	t.Run("resolves inside the uploads dir", func(t *testing.T) {
		p, err := store.Path(info.Name)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, info.Name), p)
	})

	t.Run("rejects traversal", func(t *testing.T) {
		_, err := store.Path("../../etc/passwd")
		assert.ErrorIs(t, err, ErrBadName)
	})

	t.Run("missing file is ErrNotFound", func(t *testing.T) {
		_, err := store.Path("ghost.pdf")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
