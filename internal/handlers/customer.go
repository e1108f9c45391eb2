package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/kurumaworks/tenkendb/internal/catalog"
	"github.com/kurumaworks/tenkendb/internal/inspection"
	"github.com/kurumaworks/tenkendb/internal/logging"
	"github.com/kurumaworks/tenkendb/internal/services"
	"github.com/kurumaworks/tenkendb/internal/utils"
	"gorm.io/gorm"
)

// CustomerHandler serves the token-gated customer view. No staff session is
// involved; the 32-character access token is the whole credential.
type CustomerHandler struct {
	DB      *gorm.DB
	Catalog *catalog.Catalog
}

// customerRecord is the identity subset exposed to customers. Workshop
// internals and the token itself stay out of the payload.
type customerRecord struct {
	ClientName         string `json:"client_name"`
	RegistrationNumber string `json:"registration_number"`
	CarModel           string `json:"car_model"`
	InspectionDate     string `json:"inspection_date"`
	TotalMileage       float64 `json:"total_mileage"`
	WorkshopAddress    string `json:"workshop_address"`
	ChiefMechanicName  string `json:"chief_mechanic_name"`
	InspectorName      string `json:"inspector_name"`
}

type customerResponse struct {
	Record customerRecord       `json:"record"`
	View   *inspection.ViewTree `json:"view"`
	Legend string               `json:"legend"`
}

// GetByToken handles GET /api/customer/:token
// @Summary Get the customer view of a completed record
// @Description Resolves an access token to its completed record and returns the merged view. Tokens on draft or archived records do not resolve.
// @Tags Customer
// @Accept json
// @Produce json
// @Param token path string true "Access token"
// @Success 200 {object} handlers.customerResponse
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /customer/{token} [get]
func (h *CustomerHandler) GetByToken(c *fiber.Ctx) error {
	token := c.Params("token")

	row, err := services.FindByAccessToken(h.DB, token)
	if err != nil {
		if errors.Is(err, inspection.ErrNotFound) {
			return utils.NotFoundResponse(c, "記録が見つかりません")
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "customer.token")
	}

	photoRows, err := services.PhotosForRecord(h.DB, row.ID)
	if err != nil {
		logging.LogError("handlers", "GetByToken", "photo query", row.ID, err)
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "customer.photos")
	}

	session := inspection.LoadEditSession(h.Catalog, row, photoRows)
	for _, parseErr := range session.ParseErrors {
		logging.LogError("handlers", "GetByToken", "wire parse", row.ID, parseErr)
	}

	return c.Status(fiber.StatusOK).JSON(customerResponse{
		Record: customerRecord{
			ClientName:         row.ClientName,
			RegistrationNumber: row.RegistrationNumber,
			CarModel:           row.CarModel,
			InspectionDate:     row.InspectionDate,
			TotalMileage:       row.TotalMileage,
			WorkshopAddress:    row.WorkshopAddress,
			ChiefMechanicName:  row.ChiefMechanicName,
			InspectorName:      row.InspectorName,
		},
		View:   session.View(),
		Legend: catalog.Legend,
	})
}
