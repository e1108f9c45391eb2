package handlers

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/kurumaworks/tenkendb/internal/catalog"
	"github.com/kurumaworks/tenkendb/internal/inspection"
	"github.com/kurumaworks/tenkendb/internal/logging"
	"github.com/kurumaworks/tenkendb/internal/report"
	"github.com/kurumaworks/tenkendb/internal/services"
	"github.com/kurumaworks/tenkendb/internal/utils"
	"gorm.io/gorm"
)

// ReportHandler exports records as the statutory spreadsheet.
type ReportHandler struct {
	DB      *gorm.DB
	Catalog *catalog.Catalog
}

// ExportReport handles GET /api/records/:id/report
// @Summary Export a record as an xlsx report
// @Description Renders the record's merged view into the statutory spreadsheet and streams it as a download.
// @Tags Records
// @Accept json
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Record ID"
// @Param photos query bool false "Include photo sheets (default true)"
// @Param measurements query bool false "Include the measurements block (default true)"
// @Param qr query bool false "Include the customer page QR code (default true)"
// @Param legend query bool false "Include the mark legend line (default true)"
// @Param rows query int false "Photo rows per sheet before continuation (default unlimited)"
// @Success 200 {file} binary
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /records/{id}/report [get]
func (h *ReportHandler) ExportReport(c *fiber.Ctx) error {
	id := c.Params("id")

	row, err := services.GetRecord(h.DB, id)
	if err != nil {
		if errors.Is(err, inspection.ErrNotFound) {
			return utils.NotFoundResponse(c, fmt.Sprintf("Record '%s' not found", id))
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "report.get")
	}

	photoRows, err := services.PhotosForRecord(h.DB, id)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "report.photos")
	}

	session := inspection.LoadEditSession(h.Catalog, row, photoRows)
	for _, parseErr := range session.ParseErrors {
		logging.LogError("handlers", "ExportReport", "wire parse", id, parseErr)
	}

	opts := report.Options{
		Photos:       c.QueryBool("photos", true),
		Measurements: c.QueryBool("measurements", true),
		QR:           c.QueryBool("qr", true),
		Legend:       c.QueryBool("legend", true),
		RowsPerSheet: c.QueryInt("rows", 0),
	}

	payload, err := report.Bytes(row, session.View(), opts)
	if err != nil {
		logging.LogError("handlers", "ExportReport", "workbook build", id, err)
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "report.build")
	}

	filename := report.Filename(row)
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename*=UTF-8''%s`, url.PathEscape(filename)))
	return c.Send(payload)
}
