package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "prodash/internal/errors"
	"prodash/internal/services"
	"prodash/internal/storage"
)

const uploadTimeout = 30 * time.Second

// ImageHandler passes user images through to object storage.
type ImageHandler struct {
	store        storage.ImageStore
	auditService services.AuditServicer
}

// NewImageHandler creates a new ImageHandler. A nil store makes uploads
// answer 503.
func NewImageHandler(store storage.ImageStore, auditService services.AuditServicer) *ImageHandler {
	return &ImageHandler{store: store, auditService: auditService}
}

// UploadImageRequest carries a base64 data URL.
type UploadImageRequest struct {
	Base64 string `json:"base64" binding:"required"`
}

// UploadImageResponse holds the stored image's URL.
type UploadImageResponse struct {
	URL string `json:"url"`
}

// UploadImage stores an image and returns its URL.
// @Summary     Upload an image
// @Description Store a base64 encoded PNG, JPEG, GIF or WebP image (max 5 MiB)
// @Tags        images
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UploadImageRequest true "data:image/png;base64,... payload"
// @Success     200 {object} UploadImageResponse "Stored image URL"
// @Failure     400 {object} ErrorResponse "Invalid image"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     502 {object} ErrorResponse "Upload failed"
// @Failure     503 {object} ErrorResponse "Storage not configured"
// @Router      /images/upload [post]
func (h *ImageHandler) UploadImage(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if h.store == nil {
		respondWithError(c, apperrors.ErrStorageNotConfigured)
		return
	}

	var req UploadImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	data, contentType, err := storage.DecodeDataURL(req.Base64)
	if err != nil {
		respondWithError(c, imageInputError(err))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), uploadTimeout)
	defer cancel()

	url, err := h.store.Upload(ctx, data, contentType)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrImageUpload, err))
		return
	}

	h.auditService.Log(userID, "UPLOAD_IMAGE", "image", 0, c.ClientIP(),
		map[string]interface{}{"url": url, "content_type": contentType, "bytes": len(data)})

	c.JSON(http.StatusOK, UploadImageResponse{URL: url})
}

func imageInputError(err error) error {
	switch {
	case errors.Is(err, storage.ErrImageTooLarge):
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "image exceeds the 5 MiB limit")
	case errors.Is(err, storage.ErrUnsupportedImage):
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "image must be PNG, JPEG, GIF or WebP")
	default:
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "image must be a base64 data URL")
	}
}
