package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kurumaworks/tenkendb/internal/inspection"
	"github.com/kurumaworks/tenkendb/internal/models"
	"github.com/kurumaworks/tenkendb/internal/utils"
	"gorm.io/gorm"
)

// ListParams narrows and pages a record listing.
type ListParams struct {
	Search string
	Limit  int
	Page   int
	Sort   string
}

// ListResult is one page of records plus paging metadata.
type ListResult struct {
	Data  []models.MaintenanceRecord `json:"data"`
	Total int64                      `json:"total"`
	Page  int                        `json:"page"`
	Limit int                        `json:"limit"`
}

// StatusConflictError reports a forbidden lifecycle transition.
type StatusConflictError struct {
	RecordID string
	From     string
	To       string
}

func (e *StatusConflictError) Error() string {
	return fmt.Sprintf("record %s cannot transition from %s to %s", e.RecordID, e.From, e.To)
}

// IsStatusConflict reports whether err is a forbidden lifecycle transition.
func IsStatusConflict(err error) bool {
	var sc *StatusConflictError
	return errors.As(err, &sc)
}

var sortableColumns = map[string]bool{
	"created_at":          true,
	"updated_at":          true,
	"inspection_date":     true,
	"client_name":         true,
	"registration_number": true,
	"status":              true,
}

// CreateRecord inserts a new record row. A missing id gets a fresh uuid and a
// missing status defaults to draft.
func CreateRecord(db *gorm.DB, row *models.MaintenanceRecord) error {
	if row.ID == "" {
		row.ID = utils.NewID()
	}
	if row.Status == "" {
		row.Status = models.StatusDraft
	}
	return db.Create(row).Error
}

// GetRecord fetches one record by id.
func GetRecord(db *gorm.DB, id string) (*models.MaintenanceRecord, error) {
	var row models.MaintenanceRecord
	if err := db.Where("id = ?", id).First(&row).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, inspection.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

// checkStatusTransition enforces the record lifecycle draft, completed,
// archived. Re-saving within a status is allowed; a record never moves
// backwards and archived is terminal.
func checkStatusTransition(id, from, to string) error {
	switch from {
	case models.StatusCompleted:
		if to == models.StatusCompleted || to == models.StatusArchived {
			return nil
		}
	case models.StatusArchived:
		if to == models.StatusArchived {
			return nil
		}
	default:
		return nil
	}
	return &StatusConflictError{RecordID: id, From: from, To: to}
}

// UpdateRecord overwrites a record row in full. A body without a status keeps
// the stored one, so a full overwrite can never silently un-complete a record;
// forbidden transitions fail before touching the database.
func UpdateRecord(db *gorm.DB, row *models.MaintenanceRecord) error {
	current, err := GetRecord(db, row.ID)
	if err != nil {
		return err
	}
	if row.Status == "" {
		row.Status = current.Status
	}
	if err := checkStatusTransition(row.ID, current.Status, row.Status); err != nil {
		return err
	}
	// Completion state set once stays stable across full overwrites.
	if row.AccessToken == "" {
		row.AccessToken = current.AccessToken
	}
	if row.QRCode == "" {
		row.QRCode = current.QRCode
	}
	return db.Model(&models.MaintenanceRecord{}).
		Where("id = ?", row.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(row).Error
}

// ListRecords returns one page of records matched against the search term and
// ordered by the requested sort ("-created_at" means descending).
func ListRecords(db *gorm.DB, params ListParams) (*ListResult, error) {
	if params.Limit <= 0 || params.Limit > 200 {
		params.Limit = 50
	}
	if params.Page <= 0 {
		params.Page = 1
	}

	query := db.Model(&models.MaintenanceRecord{})
	if params.Search != "" {
		like := "%" + params.Search + "%"
		query = query.Where(
			db.Where("client_name LIKE ?", like).
				Or("registration_number LIKE ?", like).
				Or("car_model LIKE ?", like).
				Or("chassis_number LIKE ?", like).
				Or("access_token LIKE ?", like))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	column, direction := parseSort(params.Sort)
	var rows []models.MaintenanceRecord
	err := query.Order(column + " " + direction).
		Limit(params.Limit).
		Offset((params.Page - 1) * params.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	return &ListResult{Data: rows, Total: total, Page: params.Page, Limit: params.Limit}, nil
}

func parseSort(sort string) (column, direction string) {
	column, direction = "created_at", "DESC"
	if sort == "" {
		return
	}
	direction = "ASC"
	if strings.HasPrefix(sort, "-") {
		direction = "DESC"
		sort = sort[1:]
	}
	if sortableColumns[sort] {
		column = sort
	}
	return
}

// DeleteRecord removes a record and its photo rows.
func DeleteRecord(db *gorm.DB, id string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("record_id = ?", id).Delete(&models.InspectionPhoto{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&models.MaintenanceRecord{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return inspection.ErrNotFound
		}
		return nil
	})
}

// FindByAccessToken fetches the completed record a customer token points at.
// Tokens on draft or archived records do not resolve.
func FindByAccessToken(db *gorm.DB, token string) (*models.MaintenanceRecord, error) {
	if token == "" {
		return nil, inspection.ErrNotFound
	}
	var row models.MaintenanceRecord
	err := db.Where("access_token = ? AND status = ?", token, models.StatusCompleted).
		First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, inspection.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

// CompleteRecord transitions a record to completed, assigning the customer
// access token and its QR payload exactly once. Completing an already
// completed record keeps its token stable.
func CompleteRecord(db *gorm.DB, id, baseURL string) (*models.MaintenanceRecord, error) {
	row, err := GetRecord(db, id)
	if err != nil {
		return nil, err
	}
	if err := checkStatusTransition(id, row.Status, models.StatusCompleted); err != nil {
		return nil, err
	}

	if row.AccessToken == "" {
		row.AccessToken = utils.GenerateAccessToken()
		row.QRCode = customerURL(baseURL, row.AccessToken)
	}
	row.Status = models.StatusCompleted
	row.UpdatedAt = time.Now()

	err = db.Model(row).
		Select("status", "access_token", "qr_code", "updated_at").
		Updates(row).Error
	if err != nil {
		return nil, err
	}
	return row, nil
}

func customerURL(baseURL, token string) string {
	return strings.TrimSuffix(baseURL, "/") + "/customer.html?token=" + token
}
