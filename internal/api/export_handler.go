package api

import (
	"alcyxob/health-tracker/internal/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type ExportHandler struct {
	exportService service.ExportService
}

func NewExportHandler(exportService service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

type ExportResponse struct {
	ID          string    `json:"id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
	DownloadURL string    `json:"download_url"`
}

func MapExportToResponse(link *service.ExportLink) ExportResponse {
	return ExportResponse{
		ID:          link.Export.ID.Hex(),
		FileName:    link.Export.FileName,
		ContentType: link.Export.ContentType,
		Size:        link.Export.Size,
		CreatedAt:   link.Export.CreatedAt,
		DownloadURL: link.DownloadURL,
	}
}

func (h *ExportHandler) ListExports(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	links, err := h.exportService.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": mapAll(links, MapExportToResponse)})
}

func (h *ExportHandler) CreateExport(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	link, err := h.exportService.Create(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapExportToResponse(link))
}
