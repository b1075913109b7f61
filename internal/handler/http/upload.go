package http

import (
	"log/slog"
	"net/http"

	"github.com/maisonarte/catalog-service/internal/domain"
	"github.com/maisonarte/catalog-service/internal/service"
	"github.com/maisonarte/catalog-service/pkg/httputil"
)

// maxUploadRequestBytes bounds the whole multipart request.
const maxUploadRequestBytes = 256 << 20

// UploadHandler handles media upload requests.
type UploadHandler struct {
	service *service.UploadService
	logger  *slog.Logger
}

// NewUploadHandler creates a new upload HTTP handler.
func NewUploadHandler(svc *service.UploadService, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{
		service: svc,
		logger:  logger,
	}
}

// UploadMediaResponse lists the stored media in submission order.
type UploadMediaResponse struct {
	Images []domain.MediaItem `json:"images"`
}

// UploadMedia handles POST /api/v1/uploads/images. Files are submitted as the
// repeated multipart field "files" and stored in submission order.
func (h *UploadHandler) UploadMedia(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadRequestBytes)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeParamError(w, "request must be multipart/form-data")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	var uploads []service.Upload
	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["files"] {
			file, err := header.Open()
			if err != nil {
				h.logger.WarnContext(r.Context(), "failed to open uploaded part",
					"filename", header.Filename,
					"error", err)
				continue
			}
			defer file.Close()
			uploads = append(uploads, service.Upload{Filename: header.Filename, Reader: file})
		}
	}

	items, err := h.service.Save(r.Context(), uploads)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: UploadMediaResponse{Images: items}})
}
