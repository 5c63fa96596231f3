package handler

import (
	"net/http"

	"github.com/dafibh/tally/tally-backend/internal/service"
	"github.com/labstack/echo/v4"
)

// BackupHandler handles snapshot backup requests
type BackupHandler struct {
	backupService *service.BackupService
}

// NewBackupHandler creates a new BackupHandler. A nil service means backups are not configured.
func NewBackupHandler(backupService *service.BackupService) *BackupHandler {
	return &BackupHandler{backupService: backupService}
}

// CreateBackup godoc
// @Summary Export the current snapshot to object storage
// @Tags backups
// @Produce json
// @Security BearerAuth
// @Success 201 {object} domain.Backup
// @Failure 502 {object} ProblemDetails
// @Failure 503 {object} ProblemDetails
// @Router /backups [post]
func (h *BackupHandler) CreateBackup(c echo.Context) error {
	if h.backupService == nil {
		return NewUnavailableError(c, "Backups are not configured")
	}
	backup, err := h.backupService.CreateBackup(c.Request().Context())
	if err != nil {
		return handleServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, backup)
}
