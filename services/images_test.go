package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platefeed/platefeed-backend/errs"
)

func TestParseDataURI(t *testing.T) {
	data, contentType, ext, err := ParseDataURI("data:image/png;base64,aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)
	assert.Equal(t, "image/png", contentType)
	assert.Equal(t, "png", ext)
}

func TestParseDataURIRejectsBadPayloads(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"empty", ""},
		{"not a data URI", "https://example.com/cat.png"},
		{"missing base64 marker", "data:image/png,aGVsbG8="},
		{"not an image", "data:text/plain;base64,aGVsbG8="},
		{"invalid base64", "data:image/png;base64,!!!"},
		{"empty payload", "data:image/png;base64,"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := ParseDataURI(tt.payload)
			require.Error(t, err)
			assert.True(t, errs.IsBadRequest(err))
		})
	}
}

type mockBlobStore struct {
	putFunc func(key string, contentType string, data []byte) (string, error)
}

func (m *mockBlobStore) Put(key string, contentType string, data []byte) (string, error) {
	return m.putFunc(key, contentType, data)
}

func TestImageServiceStoresUnderFreshKey(t *testing.T) {
	var storedKey, storedType string
	store := &mockBlobStore{
		putFunc: func(key string, contentType string, data []byte) (string, error) {
			storedKey = key
			storedType = contentType
			return "/media/" + key, nil
		},
	}

	svc := NewImageService(store)

	url, err := svc.SaveDataURI("data:image/jpeg;base64,aGVsbG8=")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(storedKey, "recipes/images/"))
	assert.True(t, strings.HasSuffix(storedKey, ".jpeg"))
	assert.Equal(t, "image/jpeg", storedType)
	assert.Equal(t, "/media/"+storedKey, url)
}

func TestDiskBlobStoreWritesFile(t *testing.T) {
	root := t.TempDir()
	store := NewDiskBlobStore(root, "/media/")

	url, err := store.Put("recipes/images/test.png", "image/png", []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, "/media/recipes/images/test.png", url)

	written, err := os.ReadFile(filepath.Join(root, "recipes", "images", "test.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), written)
}
