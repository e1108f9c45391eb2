package handlers

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/kurumaworks/tenkendb/internal/catalog"
	"github.com/kurumaworks/tenkendb/internal/config"
	"github.com/kurumaworks/tenkendb/internal/inspection"
	"github.com/kurumaworks/tenkendb/internal/logging"
	"github.com/kurumaworks/tenkendb/internal/models"
	"github.com/kurumaworks/tenkendb/internal/services"
	"github.com/kurumaworks/tenkendb/internal/utils"
	"gorm.io/gorm"
)

// RecordsHandler handles maintenance record routes
type RecordsHandler struct {
	DB      *gorm.DB
	Catalog *catalog.Catalog
	Cfg     *config.Config
}

var validate = validator.New()

// completionInput is the identity subset a record must carry before it can
// complete and go out to a customer.
type completionInput struct {
	ClientName         string  `validate:"required"`
	RegistrationNumber string  `validate:"required"`
	InspectionDate     string  `validate:"required"`
	TotalMileage       float64 `validate:"required,gt=0"`
}

// ListRecords handles GET /api/tables/maintenance_records
// @Summary List maintenance records
// @Description List records with optional search, paging and sort
// @Tags Records
// @Accept json
// @Produce json
// @Param search query string false "Search term matched against customer and vehicle identity"
// @Param limit query int false "Page size (default 50)"
// @Param page query int false "Page number (default 1)"
// @Param sort query string false "Sort column, '-' prefix for descending (default -created_at)"
// @Success 200 {object} services.ListResult
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /tables/maintenance_records [get]
func (h *RecordsHandler) ListRecords(c *fiber.Ctx) error {
	params := services.ListParams{
		Search: c.Query("search"),
		Limit:  c.QueryInt("limit", 50),
		Page:   c.QueryInt("page", 1),
		Sort:   c.Query("sort", "-created_at"),
	}

	result, err := services.ListRecords(h.DB, params)
	if err != nil {
		logging.LogError("handlers", "ListRecords", "list query", params, err)
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "records.list")
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

// GetRecord handles GET /api/tables/maintenance_records/:id
// @Summary Get one maintenance record
// @Tags Records
// @Accept json
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {object} models.MaintenanceRecord
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /tables/maintenance_records/{id} [get]
func (h *RecordsHandler) GetRecord(c *fiber.Ctx) error {
	id := c.Params("id")

	row, err := services.GetRecord(h.DB, id)
	if err != nil {
		if errors.Is(err, inspection.ErrNotFound) {
			return utils.NotFoundResponse(c, fmt.Sprintf("Record '%s' not found", id))
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "records.get")
	}
	return c.Status(fiber.StatusOK).JSON(row)
}

// CreateRecord handles POST /api/tables/maintenance_records
// @Summary Create a maintenance record
// @Tags Records
// @Accept json
// @Produce json
// @Param body body models.MaintenanceRecord true "Record row"
// @Success 201 {object} models.MaintenanceRecord
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /tables/maintenance_records [post]
func (h *RecordsHandler) CreateRecord(c *fiber.Ctx) error {
	var row models.MaintenanceRecord
	if err := c.BodyParser(&row); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "records.create")
	}

	if err := services.CreateRecord(h.DB, &row); err != nil {
		logging.LogError("handlers", "CreateRecord", "insert", row.ID, err)
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "records.create")
	}
	return c.Status(fiber.StatusCreated).JSON(row)
}

// UpdateRecord handles PUT /api/tables/maintenance_records/:id
// @Summary Update a maintenance record
// @Description Full overwrite of a record row. Completed records cannot return to draft.
// @Tags Records
// @Accept json
// @Produce json
// @Param id path string true "Record ID"
// @Param body body models.MaintenanceRecord true "Record row"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /tables/maintenance_records/{id} [put]
func (h *RecordsHandler) UpdateRecord(c *fiber.Ctx) error {
	id := c.Params("id")

	var row models.MaintenanceRecord
	if err := c.BodyParser(&row); err != nil {
		return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, "records.update")
	}
	row.ID = id

	if err := services.UpdateRecord(h.DB, &row); err != nil {
		if errors.Is(err, inspection.ErrNotFound) {
			return utils.NotFoundResponse(c, fmt.Sprintf("Record '%s' not found", id))
		}
		if services.IsStatusConflict(err) {
			return utils.ErrorResponse(c, err.Error(), fiber.StatusConflict, "records.status")
		}
		logging.LogError("handlers", "UpdateRecord", "update", id, err)
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "records.update")
	}
	return utils.MutationSuccessResponse(c, 1)
}

// DeleteRecord handles DELETE /api/tables/maintenance_records/:id
// @Summary Delete a maintenance record and its photos
// @Tags Records
// @Accept json
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /tables/maintenance_records/{id} [delete]
func (h *RecordsHandler) DeleteRecord(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := services.DeleteRecord(h.DB, id); err != nil {
		if errors.Is(err, inspection.ErrNotFound) {
			return utils.NotFoundResponse(c, fmt.Sprintf("Record '%s' not found", id))
		}
		logging.LogError("handlers", "DeleteRecord", "delete", id, err)
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "records.delete")
	}
	return utils.MutationSuccessResponse(c, 1)
}

// CompleteRecord handles POST /api/records/:id/complete
// @Summary Complete a record and issue its customer access token
// @Description Validates the identity fields, transitions the record to completed and assigns the access token and QR payload once.
// @Tags Records
// @Accept json
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {object} models.MaintenanceRecord
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /records/{id}/complete [post]
func (h *RecordsHandler) CompleteRecord(c *fiber.Ctx) error {
	id := c.Params("id")

	row, err := services.GetRecord(h.DB, id)
	if err != nil {
		if errors.Is(err, inspection.ErrNotFound) {
			return utils.NotFoundResponse(c, fmt.Sprintf("Record '%s' not found", id))
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "records.complete")
	}

	input := completionInput{
		ClientName:         row.ClientName,
		RegistrationNumber: row.RegistrationNumber,
		InspectionDate:     row.InspectionDate,
		TotalMileage:       row.TotalMileage,
	}
	if err := validate.Struct(input); err != nil {
		return utils.ErrorResponse(c,
			"依頼者名・登録番号・点検日・総走行距離は完了前に入力が必要です",
			fiber.StatusBadRequest, "records.complete.validation")
	}

	row, err = services.CompleteRecord(h.DB, id, h.Cfg.BaseURL)
	if err != nil {
		if services.IsStatusConflict(err) {
			return utils.ErrorResponse(c, err.Error(), fiber.StatusConflict, "records.status")
		}
		logging.LogError("handlers", "CompleteRecord", "complete", id, err)
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "records.complete")
	}
	return c.Status(fiber.StatusOK).JSON(row)
}

// GetView handles GET /api/records/:id/view
// @Summary Get the merged render-ready view of a record
// @Description Joins catalog structure, marks, photos, parts and measurements into one tree.
// @Tags Records
// @Accept json
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {object} inspection.ViewTree
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /records/{id}/view [get]
func (h *RecordsHandler) GetView(c *fiber.Ctx) error {
	id := c.Params("id")

	session, err := h.loadSession(id)
	if err != nil {
		if errors.Is(err, inspection.ErrNotFound) {
			return utils.NotFoundResponse(c, fmt.Sprintf("Record '%s' not found", id))
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "records.view")
	}

	for _, parseErr := range session.ParseErrors {
		logging.LogError("handlers", "GetView", "wire parse", id, parseErr)
	}
	return c.Status(fiber.StatusOK).JSON(session.View())
}

// loadSession inflates a record and its photos into an edit session.
func (h *RecordsHandler) loadSession(id string) (*inspection.EditSession, error) {
	row, err := services.GetRecord(h.DB, id)
	if err != nil {
		return nil, err
	}
	photoRows, err := services.PhotosForRecord(h.DB, id)
	if err != nil {
		return nil, err
	}
	return inspection.LoadEditSession(h.Catalog, row, photoRows), nil
}
