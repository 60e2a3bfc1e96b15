package handler

import (
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wastewise/wastewise-api/internal/service"
	appErrors "github.com/wastewise/wastewise-api/pkg/errors"
	"github.com/wastewise/wastewise-api/pkg/response"
	"github.com/wastewise/wastewise-api/pkg/storage"
)

// MediaHandler mints signed download URLs and streams the files they
// reference.
type MediaHandler struct {
	reports *service.ReportService
	signer  *storage.SignedURLSigner
	store   *storage.LocalStorage
	prefix  string
	logger  *zap.Logger
}

// NewMediaHandler creates a new handler. prefix is the API prefix the
// download route is mounted under.
func NewMediaHandler(reports *service.ReportService, signer *storage.SignedURLSigner, store *storage.LocalStorage, prefix string, logger *zap.Logger) *MediaHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MediaHandler{reports: reports, signer: signer, store: store, prefix: prefix, logger: logger}
}

// DownloadURL godoc
// @Summary Get media download URL
// @Description Mint a short-lived signed URL for a report attachment
// @Tags Media
// @Produce json
// @Param id path string true "Media ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /waste-reports/media/{id}/download_url [get]
func (h *MediaHandler) DownloadURL(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	media, err := h.reports.GetMedia(c.Request.Context(), claims, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	token, expiresAt, err := h.signer.Generate(media.ID, media.FilePath)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusInternalServerError, "failed to sign media URL"))
		return
	}

	response.JSON(c, http.StatusOK, gin.H{
		"url":        h.prefix + "/media/" + token,
		"media_type": media.MediaType,
		"expires_at": expiresAt.UTC(),
	}, nil)
}

// Download godoc
// @Summary Download media file
// @Description Stream a report attachment referenced by a signed, expiring token
// @Tags Media
// @Produce octet-stream
// @Param token path string true "Signed media token"
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Router /media/{token} [get]
func (h *MediaHandler) Download(c *gin.Context) {
	mediaID, relPath, _, err := h.signer.Parse(c.Param("token"))
	if err != nil {
		// Expired and forged tokens look the same from outside.
		response.Error(c, appErrors.ErrNotFound)
		return
	}

	file, err := h.store.Open(relPath)
	if err != nil {
		h.logger.Warn("media file missing", zap.String("media_id", mediaID), zap.Error(err))
		response.Error(c, appErrors.ErrNotFound)
		return
	}
	defer file.Close()

	contentType := mime.TypeByExtension(filepath.Ext(relPath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	c.Header("Content-Type", contentType)
	c.Header("Cache-Control", "private, max-age=0")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, file); err != nil {
		h.logger.Warn("media stream interrupted", zap.String("media_id", mediaID), zap.Error(err))
	}
}
