package models

import (
	"time"
)

// Record status lifecycle: draft -> completed (once) -> archived. Never back to draft.
const (
	StatusDraft     = "draft"
	StatusCompleted = "completed"
	StatusArchived  = "archived"
)

// MaintenanceRecord is one maintenance/inspection record in its flat wire shape.
// The six embedded fields hold JSON-encoded strings rather than native nested
// structures because the persistence layer is schema-flat.
type MaintenanceRecord struct {
	ID string `gorm:"primaryKey;type:char(36)" json:"id"`

	// Vehicle / customer identity
	ClientName         string `gorm:"size:255" json:"client_name"`
	RegistrationNumber string `gorm:"size:255;index" json:"registration_number"`
	CarModel           string `gorm:"size:255" json:"car_model"`
	ChassisNumber      string `gorm:"size:255" json:"chassis_number"`
	EngineModel        string `gorm:"size:255" json:"engine_model"`
	FirstRegistration  string `gorm:"size:255" json:"first_registration"`
	Address            string `gorm:"size:255" json:"address"`

	// Workshop / inspector identity
	InspectorName       string `gorm:"size:255" json:"inspector_name"`
	WorkshopAddress     string `gorm:"size:255" json:"workshop_address"`
	CertificationNumber string `gorm:"size:255" json:"certification_number"`
	InspectionDate      string `gorm:"size:32" json:"inspection_date"`
	CompletionDate      string `gorm:"size:32" json:"completion_date"`
	ChiefMechanicName   string `gorm:"size:255" json:"chief_mechanic_name"`
	TotalMileage        float64 `json:"total_mileage"`

	Status string `gorm:"size:20;index;default:draft" json:"status"`

	// Embedded JSON-string fields
	InspectionData        JSON `gorm:"type:json" json:"inspection_data"`
	ReplacementParts      JSON `gorm:"type:json" json:"replacement_parts"`
	CustomParts           JSON `gorm:"type:json" json:"custom_parts"`
	Measurements          JSON `gorm:"type:json" json:"measurements"`
	Tags                  JSON `gorm:"type:json" json:"tags"`
	CustomInspectionItems JSON `gorm:"type:json" json:"custom_inspection_items"`

	Advice string `gorm:"type:text" json:"advice"`

	// Present iff status=completed; customer page key
	AccessToken string `gorm:"size:64;index" json:"access_token,omitempty"`
	QRCode      string `gorm:"size:512" json:"qr_code,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name for MaintenanceRecord
func (MaintenanceRecord) TableName() string {
	return "maintenance_records"
}
