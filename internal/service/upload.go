package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/maisonarte/catalog-service/internal/domain"
	apperrors "github.com/maisonarte/catalog-service/pkg/errors"
)

// maxUploadBytes caps a single uploaded file at 50 MiB.
const maxUploadBytes = 50 << 20

// Upload is one submitted file.
type Upload struct {
	Filename string
	Reader   io.Reader
}

// UploadService stores uploaded product media on disk and classifies each
// file by sniffed content type, never by its claimed extension.
type UploadService struct {
	dir     string
	baseURL string
	logger  *slog.Logger
}

// NewUploadService creates an upload service writing into dir. Stored files
// are addressed as baseURL/<generated name>.
func NewUploadService(dir, baseURL string, logger *slog.Logger) *UploadService {
	return &UploadService{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// Save stores the uploads in submission order and returns a media item per
// stored file. A file that cannot be read, classified, or written is logged
// and dropped; the remaining files keep their relative order. When every
// file fails the whole operation fails.
func (s *UploadService) Save(ctx context.Context, uploads []Upload) ([]domain.MediaItem, error) {
	if len(uploads) == 0 {
		return nil, apperrors.InvalidInput("no files submitted")
	}

	items := make([]domain.MediaItem, 0, len(uploads))
	for _, upload := range uploads {
		item, err := s.saveOne(upload)
		if err != nil {
			s.logger.ErrorContext(ctx, "dropping failed upload",
				slog.String("filename", upload.Filename),
				slog.String("error", err.Error()),
			)
			continue
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		return nil, apperrors.UploadFailure("no uploaded file could be stored")
	}

	return items, nil
}

func (s *UploadService) saveOne(upload Upload) (domain.MediaItem, error) {
	data, err := io.ReadAll(io.LimitReader(upload.Reader, maxUploadBytes+1))
	if err != nil {
		return domain.MediaItem{}, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return domain.MediaItem{}, fmt.Errorf("empty file")
	}
	if len(data) > maxUploadBytes {
		return domain.MediaItem{}, fmt.Errorf("file exceeds %d bytes", maxUploadBytes)
	}

	mime := mimetype.Detect(data)
	mediaType, err := mediaTypeFor(mime)
	if err != nil {
		return domain.MediaItem{}, err
	}

	name := uuid.New().String() + mime.Extension()
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return domain.MediaItem{}, fmt.Errorf("write %s: %w", path, err)
	}

	return domain.MediaItem{
		URL:  s.baseURL + "/" + name,
		Type: mediaType,
	}, nil
}

func mediaTypeFor(mime *mimetype.MIME) (string, error) {
	switch {
	case strings.HasPrefix(mime.String(), "image/"):
		return domain.MediaTypeImage, nil
	case strings.HasPrefix(mime.String(), "video/"):
		return domain.MediaTypeVideo, nil
	default:
		return "", fmt.Errorf("unsupported content type %s", mime.String())
	}
}
