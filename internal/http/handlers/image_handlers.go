package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/multiscale/internal/config"
	"github.com/phambaophuc/multiscale/internal/models"
	"github.com/phambaophuc/multiscale/internal/services/processor"
	"github.com/phambaophuc/multiscale/internal/services/storage"
	"github.com/phambaophuc/multiscale/pkg/utils"
	"go.uber.org/zap"
)

const (
	imagesParamKey = "images"
	version        = "1.0.0"
)

// HealthChecker reports the state of an optional dependency.
type HealthChecker interface {
	HealthCheck() string
}

type ImageHandler struct {
	packager  *processor.Packager
	storage   *storage.StorageService
	telemetry HealthChecker
	logger    *zap.Logger
	config    *config.Config
}

func NewImageHandler(
	packager *processor.Packager,
	storage *storage.StorageService,
	telemetry HealthChecker,
	logger *zap.Logger,
	config *config.Config,
) *ImageHandler {
	return &ImageHandler{
		packager:  packager,
		storage:   storage,
		telemetry: telemetry,
		logger:    logger,
		config:    config,
	}
}

// === MAIN API ENDPOINTS ===

// ListDevices returns the device catalog, scaled by the optional scale query.
func (h *ImageHandler) ListDevices(c *gin.Context) {
	density := models.Density1x
	if raw := c.Query("scale"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || !models.Density(n).Valid() {
			h.respondError(c, http.StatusBadRequest, processor.ErrInvalidDensity.Error())
			return
		}
		density = models.Density(n)
	}

	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    h.packager.Catalog().Devices(density),
	})
}

// CreateBatch resizes the uploaded images and streams back the zip archive.
func (h *ImageHandler) CreateBatch(c *gin.Context) {
	result, ok := h.runBatch(c)
	if !ok {
		return
	}

	filename := utils.GenerateArchiveFilename(time.Now())
	h.setBatchHeaders(c, result)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, utils.ZipContentType, result.Archive)
}

// UploadBatch resizes the uploaded images, stores the archive and returns its URL.
func (h *ImageHandler) UploadBatch(c *gin.Context) {
	if h.storage == nil || !h.storage.HasStore() {
		h.respondError(c, http.StatusServiceUnavailable, storage.ErrNoStore.Error())
		return
	}

	result, ok := h.runBatch(c)
	if !ok {
		return
	}

	filename := utils.GenerateArchiveFilename(time.Now())
	url, err := h.storage.SaveArchive(c.Request.Context(), result.Archive, filename)
	if err != nil {
		h.logger.Error("Failed to store archive", zap.String("batch_id", result.ID), zap.Error(err))
		h.respondError(c, http.StatusBadGateway, "Failed to store archive")
		return
	}

	response := h.buildBatchResponse(result)
	response.Filename = filename
	response.URL = url

	h.setBatchHeaders(c, result)
	c.JSON(http.StatusOK, models.APIResponse{
		Success: true,
		Data:    response,
	})
}

// HealthCheck
func (h *ImageHandler) HealthCheck(c *gin.Context) {
	services := map[string]string{}
	if h.storage != nil {
		services = h.storage.HealthCheck(c.Request.Context())
	}
	if h.telemetry != nil {
		services["rabbitmq"] = h.telemetry.HealthCheck()
	} else {
		services["rabbitmq"] = models.HealthNotConfigured
	}

	overall := h.calculateOverallHealth(services)

	statusCode := http.StatusOK
	if overall == models.HealthUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, models.APIResponse{
		Success: overall == models.HealthHealthy,
		Data: models.HealthCheck{
			Status:    overall,
			Version:   version,
			Timestamp: time.Now(),
			Services:  services,
		},
	})
}
