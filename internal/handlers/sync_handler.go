package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/m4tinbeigi-official/didar-crm/internal/audit"
	"github.com/m4tinbeigi-official/didar-crm/internal/models"
	"github.com/m4tinbeigi-official/didar-crm/internal/repositories"
	"github.com/m4tinbeigi-official/didar-crm/internal/scheduler"
	"github.com/m4tinbeigi-official/didar-crm/internal/services"
)

// SyncHandler exposes the manual sync trigger surface.
type SyncHandler struct {
	syncService *services.SyncService
	settings    repositories.SyncSettingsRepository
	audit       *audit.Log
	scheduler   *scheduler.Scheduler
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(syncService *services.SyncService, settings repositories.SyncSettingsRepository, auditLog *audit.Log, sched *scheduler.Scheduler) *SyncHandler {
	return &SyncHandler{
		syncService: syncService,
		settings:    settings,
		audit:       auditLog,
		scheduler:   sched,
	}
}

type runSyncRequest struct {
	Direction string `json:"direction" binding:"required"`
}

// RunSync triggers a full sync in the requested direction.
func (h *SyncHandler) RunSync(c *gin.Context) {
	var req runSyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var processed int
	switch models.SyncPolicy(req.Direction) {
	case models.PolicyToDidar:
		processed = h.syncService.SyncAllToRemote(c.Request.Context())
	case models.PolicyFromDidar:
		processed = h.syncService.SyncFromRemote(c.Request.Context())
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "direction must be to_didar or from_didar"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"processed": processed})
}

// SyncUser triggers an outbound sync for a single user.
func (h *SyncHandler) SyncUser(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}
	h.syncService.SyncUser(c.Request.Context(), id)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetSettings returns the persisted sync settings.
func (h *SyncHandler) GetSettings(c *gin.Context) {
	settings, err := h.settings.Get(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateSettings validates and replaces the sync settings, rescheduling the
// cron job when the frequency changed.
func (h *SyncHandler) UpdateSettings(c *gin.Context) {
	var incoming models.SyncSettings
	if err := c.ShouldBindJSON(&incoming); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := models.ParseSyncPolicy(string(incoming.SyncDirection)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidFrequency(incoming.CronFrequency) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cronFrequency must be hourly, twicedaily or daily"})
		return
	}
	if len(incoming.FieldMapping) > 0 {
		if _, err := models.NewFieldMapping(incoming.FieldMapping); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	current, err := h.settings.Get(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	incoming.ID = current.ID
	incoming.CreatedAt = current.CreatedAt
	if err := h.settings.Update(c.Request.Context(), &incoming); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if incoming.CronFrequency != current.CronFrequency {
		if err := h.scheduler.Apply(incoming.CronFrequency); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, &incoming)
}

// GetLogs returns the audit log contents.
func (h *SyncHandler) GetLogs(c *gin.Context) {
	logs, err := h.audit.Read()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs})
}

// ClearLogs truncates the audit log.
func (h *SyncHandler) ClearLogs(c *gin.Context) {
	if err := h.audit.Clear(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}
