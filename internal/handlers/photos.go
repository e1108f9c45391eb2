package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/kurumaworks/tenkendb/internal/catalog"
	"github.com/kurumaworks/tenkendb/internal/inspection"
	"github.com/kurumaworks/tenkendb/internal/logging"
	"github.com/kurumaworks/tenkendb/internal/models"
	"github.com/kurumaworks/tenkendb/internal/photos"
	"github.com/kurumaworks/tenkendb/internal/services"
	"github.com/kurumaworks/tenkendb/internal/utils"
	"gorm.io/gorm"
)

// PhotosHandler handles inspection photo routes
type PhotosHandler struct {
	DB      *gorm.DB
	Catalog *catalog.Catalog
}

// ListPhotos handles GET /api/tables/inspection_photos?record_id=...
// @Summary List a record's photos
// @Tags Photos
// @Accept json
// @Produce json
// @Param record_id query string true "Record ID"
// @Success 200 {array} models.InspectionPhoto
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /tables/inspection_photos [get]
func (h *PhotosHandler) ListPhotos(c *fiber.Ctx) error {
	recordID := c.Query("record_id")
	if recordID == "" {
		return utils.ErrorResponse(c, "record_id is required", fiber.StatusBadRequest, "photos.list")
	}

	rows, err := services.PhotosForRecord(h.DB, recordID)
	if err != nil {
		logging.LogError("handlers", "ListPhotos", "list query", recordID, err)
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "photos.list")
	}
	return c.Status(fiber.StatusOK).JSON(rows)
}

// CreatePhoto handles POST /api/tables/inspection_photos
// @Summary Attach a photo to a record
// @Description Stores one photo row. Data-URL payloads are recompressed server-side before storage.
// @Tags Photos
// @Accept json
// @Produce json
// @Param body body models.InspectionPhoto true "Photo row"
// @Success 201 {object} models.InspectionPhoto
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /tables/inspection_photos [post]
func (h *PhotosHandler) CreatePhoto(c *fiber.Ctx) error {
	var row models.InspectionPhoto
	if err := c.BodyParser(&row); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "photos.create")
	}
	if row.RecordID == "" {
		return utils.ErrorResponse(c, "record_id is required", fiber.StatusBadRequest, "photos.create")
	}

	// Oversized captures get the camera pipeline treatment on the way in.
	if img, err := photos.DecodeDataURL(row.PhotoURL); err == nil {
		if jpg, err := photos.Compress(img); err == nil {
			row.PhotoURL = photos.DataURL(jpg)
		}
	}

	if err := services.CreatePhoto(h.DB, &row); err != nil {
		logging.LogError("handlers", "CreatePhoto", "insert", row.RecordID, err)
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "photos.create")
	}
	return c.Status(fiber.StatusCreated).JSON(row)
}

// ReplacePhotos handles PUT /api/tables/inspection_photos?record_id=...
// @Summary Replace a record's entire photo set
// @Description Deletes every existing photo row and inserts the submitted batch in one transaction.
// @Tags Photos
// @Accept json
// @Produce json
// @Param record_id query string true "Record ID"
// @Param body body []models.InspectionPhoto true "Replacement photo rows"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /tables/inspection_photos [put]
func (h *PhotosHandler) ReplacePhotos(c *fiber.Ctx) error {
	recordID := c.Query("record_id")
	if recordID == "" {
		return utils.ErrorResponse(c, "record_id is required", fiber.StatusBadRequest, "photos.replace")
	}

	var rows []models.InspectionPhoto
	if err := c.BodyParser(&rows); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "photos.replace")
	}

	if err := services.ReplaceAllForRecord(h.DB, recordID, rows); err != nil {
		logging.LogError("handlers", "ReplacePhotos", "replace batch", recordID, err)
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "photos.replace")
	}
	return utils.MutationSuccessResponse(c, int64(len(rows)))
}

// DeletePhoto handles DELETE /api/tables/inspection_photos/:id
// @Summary Delete one photo
// @Tags Photos
// @Accept json
// @Produce json
// @Param id path string true "Photo ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /tables/inspection_photos/{id} [delete]
func (h *PhotosHandler) DeletePhoto(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := services.DeletePhoto(h.DB, id); err != nil {
		if errors.Is(err, inspection.ErrNotFound) {
			return utils.NotFoundResponse(c, fmt.Sprintf("Photo '%s' not found", id))
		}
		logging.LogError("handlers", "DeletePhoto", "delete", id, err)
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "photos.delete")
	}
	return utils.MutationSuccessResponse(c, 1)
}
