package service

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maisonarte/catalog-service/internal/domain"
	apperrors "github.com/maisonarte/catalog-service/pkg/errors"
)

// pngBytes is a minimal PNG header, enough for content sniffing.
var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 13, 'I', 'H', 'D', 'R'}

func TestUploadService_Save_StoresImage(t *testing.T) {
	dir := t.TempDir()
	svc := NewUploadService(dir, "https://cdn.example.com/media/", newTestLogger())

	items, err := svc.Save(context.Background(), []Upload{
		{Filename: "photo.png", Reader: bytes.NewReader(pngBytes)},
	})

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, domain.MediaTypeImage, items[0].Type)
	assert.True(t, strings.HasPrefix(items[0].URL, "https://cdn.example.com/media/"))
	assert.True(t, strings.HasSuffix(items[0].URL, ".png"), "extension comes from the sniffed type")

	name := filepath.Base(items[0].URL)
	stored, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, pngBytes, stored)
}

func TestUploadService_Save_DropsFailedFilesKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	svc := NewUploadService(dir, "https://cdn.example.com/media", newTestLogger())

	items, err := svc.Save(context.Background(), []Upload{
		{Filename: "a.png", Reader: bytes.NewReader(pngBytes)},
		{Filename: "notes.txt", Reader: strings.NewReader("plain text, not media")},
		{Filename: "b.png", Reader: bytes.NewReader(pngBytes)},
	})

	require.NoError(t, err)
	require.Len(t, items, 2, "unsupported file is dropped")
	assert.Equal(t, domain.MediaTypeImage, items[0].Type)
	assert.Equal(t, domain.MediaTypeImage, items[1].Type)
}

func TestUploadService_Save_AllFailed(t *testing.T) {
	svc := NewUploadService(t.TempDir(), "https://cdn.example.com/media", newTestLogger())

	_, err := svc.Save(context.Background(), []Upload{
		{Filename: "notes.txt", Reader: strings.NewReader("plain text")},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUploadFailure)
}

func TestUploadService_Save_NoFiles(t *testing.T) {
	svc := NewUploadService(t.TempDir(), "https://cdn.example.com/media", newTestLogger())

	_, err := svc.Save(context.Background(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}
