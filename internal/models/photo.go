package models

import (
	"time"
)

// InspectionPhoto is one photo attachment, stored independently of the record
// and joined client-side by record_id. item_name is denormalized at save time so
// the customer page can label photos without resolving item ids.
type InspectionPhoto struct {
	ID           string    `gorm:"primaryKey;type:char(36)" json:"id"`
	RecordID     string    `gorm:"type:char(36);index;not null" json:"record_id"`
	ItemID       string    `gorm:"size:255;index" json:"item_id"`
	ItemName     string    `gorm:"size:255" json:"item_name"`
	PhotoURL     string    `gorm:"type:text" json:"photo_url"`
	ThumbnailURL string    `gorm:"type:text" json:"thumbnail_url"`
	BeforeAfter  string    `gorm:"size:10;default:before" json:"before_after"`
	IsCover      bool      `json:"is_cover"`
	Caption      string    `gorm:"size:512" json:"caption"`
	Photographer string    `gorm:"size:255" json:"photographer"`
	PhotoDate    string    `gorm:"size:40" json:"photo_date"`
	SortOrder    int       `json:"sort_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName overrides the table name for InspectionPhoto
func (InspectionPhoto) TableName() string {
	return "inspection_photos"
}
