package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/phambaophuc/multiscale/internal/models"
	"github.com/phambaophuc/multiscale/internal/services/processor"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// === REQUEST PARSING ===

func (h *ImageHandler) parseBatchForm(c *gin.Context) (models.BatchForm, error) {
	var form models.BatchForm
	if err := c.ShouldBind(&form); err != nil {
		return form, fmt.Errorf("invalid batch parameters: %v", err)
	}
	if form.Scale == 0 {
		form.Scale = int(models.Density1x)
	}
	return form, nil
}

func (h *ImageHandler) buildJob(form models.BatchForm, images []models.SourceImage) models.BatchJob {
	profile := models.NamedProfile(form.Device)
	if form.Device == "" || form.Device == models.CustomDevice {
		profile = models.CustomProfile(form.Width, form.Height)
	}

	return models.BatchJob{
		Images:  images,
		Profile: profile,
		Density: models.Density(form.Scale),
	}
}

func (h *ImageHandler) parseMultipartFiles(c *gin.Context) ([]*multipart.FileHeader, error) {
	if err := c.Request.ParseMultipartForm(h.config.Storage.MaxFileSize * 10); err != nil {
		return nil, fmt.Errorf("failed to parse form data: %v", err)
	}

	files := c.Request.MultipartForm.File[imagesParamKey]
	if len(files) == 0 {
		return nil, processor.ErrEmptyBatch
	}

	if limit := h.config.Pipeline.MaxImages; limit > 0 && len(files) > limit {
		return nil, fmt.Errorf("too many images: %d (maximum %d)", len(files), limit)
	}

	return files, nil
}

// === FILE OPERATIONS ===

// readFiles loads every upload in order. Content is not validated here so a
// bad file only fails its own entry later.
func (h *ImageHandler) readFiles(files []*multipart.FileHeader) ([]models.SourceImage, error) {
	images := make([]models.SourceImage, 0, len(files))

	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", fh.Filename, err)
		}

		// One byte over the limit is enough for the rasterizer to reject it.
		data, err := io.ReadAll(io.LimitReader(f, h.config.Storage.MaxFileSize+1))
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", fh.Filename, err)
		}

		images = append(images, models.SourceImage{
			Filename: filepath.Base(fh.Filename),
			Data:     data,
		})
	}

	return images, nil
}

// === PROCESSING LOGIC ===

// runBatch parses the request and runs the pipeline. It writes the error
// response itself and returns false when there is nothing to send.
func (h *ImageHandler) runBatch(c *gin.Context) (*models.BatchResult, bool) {
	form, err := h.parseBatchForm(c)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, err.Error())
		return nil, false
	}

	files, err := h.parseMultipartFiles(c)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, err.Error())
		return nil, false
	}

	images, err := h.readFiles(files)
	if err != nil {
		h.respondError(c, http.StatusBadRequest, err.Error())
		return nil, false
	}

	packager := h.packager
	if form.Duplicates != "" {
		policy, err := processor.ParseDuplicatePolicy(form.Duplicates)
		if err != nil {
			h.respondError(c, http.StatusBadRequest, err.Error())
			return nil, false
		}
		packager = packager.WithDuplicates(policy)
	}

	result, err := packager.Process(c.Request.Context(), h.buildJob(form, images))
	if err != nil {
		h.logger.Error("Batch processing failed", zap.Error(err))
		h.respondError(c, statusForError(err), err.Error())
		return nil, false
	}

	if result.Status == models.StatusFailed {
		c.JSON(http.StatusUnprocessableEntity, models.APIResponse{
			Success: false,
			Error:   "no image could be processed",
			Data:    h.buildBatchResponse(result),
		})
		return nil, false
	}

	return result, true
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, processor.ErrEmptyBatch),
		errors.Is(err, processor.ErrUnknownProfile),
		errors.Is(err, processor.ErrInvalidDensity):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// === RESPONSE HANDLING ===

func (h *ImageHandler) respondError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, models.APIResponse{
		Success: false,
		Error:   message,
	})
}

func (h *ImageHandler) setBatchHeaders(c *gin.Context, result *models.BatchResult) {
	c.Header("X-Batch-ID", result.ID)
	c.Header("X-Batch-Status", result.Status)

	if len(result.Failures) > 0 {
		names := lo.Map(result.Failures, func(f models.ImageFailure, _ int) string {
			return url.QueryEscape(f.Filename)
		})
		c.Header("X-Batch-Failed", strconv.Itoa(len(names))+";"+strings.Join(names, ","))
	}
	if len(result.Warnings) > 0 {
		c.Header("X-Batch-Warnings", url.QueryEscape(strings.Join(result.Warnings, "; ")))
	}
}

func (h *ImageHandler) buildBatchResponse(result *models.BatchResult) models.BatchResponse {
	return models.BatchResponse{
		JobID:       result.ID,
		Status:      result.Status,
		Size:        result.Size,
		FileSize:    int64(len(result.Archive)),
		Entries:     result.Entries,
		Failures:    result.Failures,
		Warnings:    result.Warnings,
		ProcessedAt: time.Now(),
	}
}

// === UTILITY METHODS ===

func (h *ImageHandler) calculateOverallHealth(services map[string]string) string {
	for _, status := range services {
		if status != models.HealthHealthy && status != models.HealthNotConfigured {
			return models.HealthUnhealthy
		}
	}
	return models.HealthHealthy
}
