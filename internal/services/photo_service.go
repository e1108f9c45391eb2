package services

import (
	"fmt"

	"github.com/kurumaworks/tenkendb/internal/inspection"
	"github.com/kurumaworks/tenkendb/internal/models"
	"github.com/kurumaworks/tenkendb/internal/utils"
	"gorm.io/gorm"
)

// PartialSaveError reports a photo batch that failed to persist after the
// record row itself saved. The transaction rolled the photo set back to its
// previous state, so the caller can retry the photo save alone.
type PartialSaveError struct {
	RecordID string
	Err      error
}

func (e *PartialSaveError) Error() string {
	return fmt.Sprintf("record %s saved but photo batch failed: %v", e.RecordID, e.Err)
}

func (e *PartialSaveError) Unwrap() error {
	return e.Err
}

// PhotosForRecord returns a record's photo rows in stored display order.
func PhotosForRecord(db *gorm.DB, recordID string) ([]models.InspectionPhoto, error) {
	var rows []models.InspectionPhoto
	err := db.Where("record_id = ?", recordID).
		Order("sort_order ASC, created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// CreatePhoto inserts a single photo row.
func CreatePhoto(db *gorm.DB, row *models.InspectionPhoto) error {
	if row.ID == "" {
		row.ID = utils.NewID()
	}
	if row.BeforeAfter == "" {
		row.BeforeAfter = "before"
	}
	return db.Create(row).Error
}

// DeletePhoto removes a single photo row by id.
func DeletePhoto(db *gorm.DB, id string) error {
	result := db.Where("id = ?", id).Delete(&models.InspectionPhoto{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return inspection.ErrNotFound
	}
	return nil
}

// ReplaceAllForRecord swaps a record's entire photo set in one transaction:
// every existing row is deleted, then the new batch inserted. On any failure
// the transaction rolls back and the previous photo set survives intact.
func ReplaceAllForRecord(db *gorm.DB, recordID string, rows []models.InspectionPhoto) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("record_id = ?", recordID).Delete(&models.InspectionPhoto{}).Error; err != nil {
			return err
		}
		for i := range rows {
			rows[i].RecordID = recordID
			if rows[i].ID == "" {
				rows[i].ID = utils.NewID()
			}
			if rows[i].BeforeAfter == "" {
				rows[i].BeforeAfter = "before"
			}
			if err := tx.Create(&rows[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return &PartialSaveError{RecordID: recordID, Err: err}
	}
	return nil
}

// SaveSession persists an edit session: the record row first, then the photo
// replacement batch. The record save and photo swap are separate statements;
// a photo failure surfaces as PartialSaveError with the record already saved.
func SaveSession(db *gorm.DB, s *inspection.EditSession) error {
	photoRows := s.Collect()
	if err := UpdateRecord(db, s.Row); err != nil {
		return err
	}
	return ReplaceAllForRecord(db, s.Row.ID, photoRows)
}
