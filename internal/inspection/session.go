package inspection

import (
	"github.com/kurumaworks/tenkendb/internal/catalog"
	"github.com/kurumaworks/tenkendb/internal/models"
	"github.com/kurumaworks/tenkendb/internal/photos"
)

// EditSession owns all mutable state for one record being edited: the flat
// row, the inflated record, and the photo index. Handlers construct one per
// request; nothing here is shared or global, so concurrent edits of different
// records never interfere.
type EditSession struct {
	catalog *catalog.Catalog
	Row     *models.MaintenanceRecord
	Record  *Record
	Photos  *photos.Index

	// ParseErrors carries per-field wire failures from the load; the record is
	// still editable with those fields empty.
	ParseErrors []error

	dirty bool
}

// NewEditSession starts an empty draft session around a fresh row.
func NewEditSession(cat *catalog.Catalog, row *models.MaintenanceRecord) *EditSession {
	return &EditSession{
		catalog: cat,
		Row:     row,
		Record:  NewRecord(),
		Photos:  photos.NewIndex(),
	}
}

// LoadEditSession inflates a stored row and its photo rows into a session.
func LoadEditSession(cat *catalog.Catalog, row *models.MaintenanceRecord, photoRows []models.InspectionPhoto) *EditSession {
	rec, parseErrs := FromWire(cat, row)
	px := photos.NewIndex()
	for _, p := range photoRows {
		px.Add(photos.Attachment{
			ID:           p.ID,
			ItemID:       p.ItemID,
			ItemName:     p.ItemName,
			URL:          p.PhotoURL,
			ThumbnailURL: p.ThumbnailURL,
			BeforeAfter:  p.BeforeAfter,
			IsCover:      p.IsCover,
			Caption:      p.Caption,
			Photographer: p.Photographer,
			Timestamp:    p.PhotoDate,
		})
	}
	return &EditSession{
		catalog:     cat,
		Row:         row,
		Record:      rec,
		Photos:      px,
		ParseErrors: parseErrs,
	}
}

// Catalog returns the effective catalog the session edits against.
func (s *EditSession) Catalog() *catalog.Catalog {
	return s.catalog
}

// Dirty reports whether the session holds unsaved mutations.
func (s *EditSession) Dirty() bool {
	return s.dirty
}

func (s *EditSession) SetMark(itemID, code string) {
	s.Record.SetMark(itemID, code)
	s.dirty = true
}

func (s *EditSession) AddCustomItem(name string) (CustomItem, error) {
	item, err := s.Record.AddCustomItem(name)
	if err != nil {
		return CustomItem{}, err
	}
	s.dirty = true
	return item, nil
}

// RemoveCustomItem deletes a custom item together with its mark and photos.
func (s *EditSession) RemoveCustomItem(id string) bool {
	if !s.Record.RemoveCustomItem(id) {
		return false
	}
	s.Photos.RemoveItem(id)
	s.dirty = true
	return true
}

func (s *EditSession) AddCustomPart(name, unit string) (catalog.Part, error) {
	part, err := s.Record.AddCustomPart(s.catalog, name, unit)
	if err != nil {
		return catalog.Part{}, err
	}
	s.dirty = true
	return part, nil
}

// RemoveCustomPart deletes a custom part, its quantity, and its part photos.
func (s *EditSession) RemoveCustomPart(id string) bool {
	if !s.Record.RemoveCustomPart(id) {
		return false
	}
	s.Photos.RemoveItem(PartPhotoKey(id))
	s.dirty = true
	return true
}

func (s *EditSession) SetPartQuantity(name, quantity string) {
	s.Record.SetPartQuantity(name, quantity)
	s.dirty = true
}

func (s *EditSession) SetMeasurement(name, value string) {
	s.Record.SetMeasurement(name, value)
	s.dirty = true
}

func (s *EditSession) SetAdvice(text string) {
	s.Record.SetAdvice(text)
	s.dirty = true
}

func (s *EditSession) SetTags(tags []string) {
	s.Record.SetTags(tags)
	s.dirty = true
}

func (s *EditSession) AttachPhoto(itemID, url, beforeAfter, timestamp string) photos.Attachment {
	a := s.Photos.Attach(itemID, url, beforeAfter, timestamp)
	s.dirty = true
	return a
}

func (s *EditSession) DetachPhoto(photoID string) bool {
	if !s.Photos.Detach(photoID) {
		return false
	}
	s.dirty = true
	return true
}

// Collect flattens the session back onto its row, ready to persist, and
// returns the photo rows that must replace the record's current photo set.
func (s *EditSession) Collect() []models.InspectionPhoto {
	ToWire(s.Record, s.Row)

	var rows []models.InspectionPhoto
	for _, itemID := range s.Photos.ItemIDs() {
		// sort_order is the photo's index within its item, not a global counter.
		for i, a := range s.Photos.PhotosFor(itemID) {
			name := s.Record.ItemName(s.catalog, a.ItemID)
			if name == a.ItemID && a.ItemName != "" {
				// The id no longer resolves; keep the stored denormalized name.
				name = a.ItemName
			}
			rows = append(rows, models.InspectionPhoto{
				ID:           a.ID,
				RecordID:     s.Row.ID,
				ItemID:       a.ItemID,
				ItemName:     name,
				PhotoURL:     a.URL,
				ThumbnailURL: a.ThumbnailURL,
				BeforeAfter:  a.BeforeAfter,
				IsCover:      a.IsCover,
				Caption:      a.Caption,
				Photographer: a.Photographer,
				PhotoDate:    a.Timestamp,
				SortOrder:    i,
			})
		}
	}
	s.dirty = false
	return rows
}

// View builds the merged projection of the session's current state.
func (s *EditSession) View() *ViewTree {
	return BuildView(s.catalog, s.Record, s.Photos)
}
