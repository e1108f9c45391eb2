// Package inspection is the aggregation core of the record service: the
// in-memory record model and its mutation API, the wire codec/reconciler for
// the embedded-JSON persistence format, the progress counters, and the merged
// view builder used by the staff, customer, and report renderers.
package inspection

import (
	"fmt"
	"time"

	"github.com/kurumaworks/tenkendb/internal/catalog"
)

// Entry is one recorded inspection result, keyed by item id in Record.Marks.
type Entry struct {
	Code      string `json:"code"`
	Timestamp string `json:"timestamp"`
}

// CustomItem is a user-defined inspection item persisted with the record. It
// must be reconciled into the effective item list before marks are replayed.
type CustomItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AddedDate int64  `json:"addedDate"`
}

// Record is the in-memory representation of one maintenance record's
// semi-structured content. Identity fields live on the flat row; this type
// owns the embedded maps by value. It does not own photos.
type Record struct {
	Marks             map[string]Entry  // item id -> entry
	PartUsage         map[string]string // part NAME -> "<qty> <unit>" (name-keyed for wire compatibility)
	CustomParts       []catalog.Part
	MeasurementValues map[string]string // measurement NAME -> raw value
	Advice            string
	Tags              []string
	CustomItems       []CustomItem

	lastCustomMs int64 // collision guard for epoch-ms derived ids
}

// NewRecord returns an empty draft record.
func NewRecord() *Record {
	return &Record{
		Marks:             make(map[string]Entry),
		PartUsage:         make(map[string]string),
		MeasurementValues: make(map[string]string),
	}
}

// SetMark upserts the entry for itemID with the current timestamp. An empty
// code clears the entry entirely (not a zero-value mark). Any code may be
// stored against any item id; allowed-code restrictions are advisory.
func (r *Record) SetMark(itemID, code string) {
	if code == "" {
		delete(r.Marks, itemID)
		return
	}
	r.Marks[itemID] = Entry{
		Code:      code,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// Mark returns the entry for itemID, if any.
func (r *Record) Mark(itemID string) (Entry, bool) {
	e, ok := r.Marks[itemID]
	return e, ok
}

// nextCustomMs returns the current epoch-ms, bumped past the previous one so
// rapid double-adds cannot collide on the derived id.
func (r *Record) nextCustomMs() int64 {
	ms := time.Now().UnixMilli()
	if ms <= r.lastCustomMs {
		ms = r.lastCustomMs + 1
	}
	r.lastCustomMs = ms
	return ms
}

// AddCustomItem appends a user-defined inspection item. The name must not
// match an existing custom item name (case-sensitive).
func (r *Record) AddCustomItem(name string) (CustomItem, error) {
	for _, item := range r.CustomItems {
		if item.Name == name {
			return CustomItem{}, &DuplicateNameError{Name: name}
		}
	}
	ms := r.nextCustomMs()
	item := CustomItem{
		ID:        fmt.Sprintf("custom_item_%d", ms),
		Name:      name,
		AddedDate: ms,
	}
	r.CustomItems = append(r.CustomItems, item)
	return item, nil
}

// CustomItemByID returns the custom item with the given id.
func (r *Record) CustomItemByID(id string) (CustomItem, bool) {
	for _, item := range r.CustomItems {
		if item.ID == id {
			return item, true
		}
	}
	return CustomItem{}, false
}

// RemoveCustomItem deletes a custom item and its mark. Photo cascade is the
// session's job since the record does not own photos.
func (r *Record) RemoveCustomItem(id string) bool {
	for i, item := range r.CustomItems {
		if item.ID == id {
			r.CustomItems = append(r.CustomItems[:i], r.CustomItems[i+1:]...)
			delete(r.Marks, id)
			return true
		}
	}
	return false
}

// AddCustomPart appends a user-defined replacement part. The name is checked
// against the full effective part list, standard and custom.
func (r *Record) AddCustomPart(cat *catalog.Catalog, name, unit string) (catalog.Part, error) {
	if _, exists := cat.PartByName(name); exists {
		return catalog.Part{}, &DuplicateNameError{Name: name}
	}
	for _, p := range r.CustomParts {
		if p.Name == name {
			return catalog.Part{}, &DuplicateNameError{Name: name}
		}
	}
	part := catalog.Part{
		ID:     fmt.Sprintf("custom_%d", r.nextCustomMs()),
		Name:   name,
		Unit:   unit,
		Custom: true,
	}
	r.CustomParts = append(r.CustomParts, part)
	return part, nil
}

// RemoveCustomPart deletes a custom part; its quantity entry goes with it.
func (r *Record) RemoveCustomPart(id string) bool {
	for i, p := range r.CustomParts {
		if p.ID == id {
			r.CustomParts = append(r.CustomParts[:i], r.CustomParts[i+1:]...)
			delete(r.PartUsage, p.Name)
			return true
		}
	}
	return false
}

// EffectiveParts is the standard catalog parts followed by the record's
// custom parts, in definition order.
func (r *Record) EffectiveParts(cat *catalog.Catalog) []catalog.Part {
	parts := make([]catalog.Part, 0, len(cat.Parts())+len(r.CustomParts))
	parts = append(parts, cat.Parts()...)
	parts = append(parts, r.CustomParts...)
	return parts
}

// PartByName resolves a part by name against the effective part list.
func (r *Record) PartByName(cat *catalog.Catalog, name string) (catalog.Part, bool) {
	if p, ok := cat.PartByName(name); ok {
		return p, true
	}
	for _, p := range r.CustomParts {
		if p.Name == name {
			return p, true
		}
	}
	return catalog.Part{}, false
}

// SetPartQuantity stores a formatted quantity string ("1.5 L") under the part
// name. An empty quantity clears the entry. No validation.
func (r *Record) SetPartQuantity(name, quantity string) {
	if quantity == "" {
		delete(r.PartUsage, name)
		return
	}
	r.PartUsage[name] = quantity
}

// SetMeasurement stores a raw value string under the measurement name. An
// empty value clears the entry. No validation.
func (r *Record) SetMeasurement(name, value string) {
	if value == "" {
		delete(r.MeasurementValues, name)
		return
	}
	r.MeasurementValues[name] = value
}

// SetAdvice replaces the free-text advice.
func (r *Record) SetAdvice(text string) {
	r.Advice = text
}

// SetTags replaces the tag list.
func (r *Record) SetTags(tags []string) {
	r.Tags = tags
}

// ItemName resolves a display name for any item id known to this record or
// the catalog: catalog items, custom items, parts by part-photo convention.
// Unknown ids come back as themselves so the UI always has a label.
func (r *Record) ItemName(cat *catalog.Catalog, itemID string) string {
	if itemID == PartsOverallItemID {
		return PartsOverallItemName
	}
	if name := cat.ItemName(itemID); name != "" {
		return name
	}
	if item, ok := r.CustomItemByID(itemID); ok {
		return item.Name
	}
	if partID, ok := partIDFromPhotoKey(itemID); ok {
		for _, p := range r.EffectiveParts(cat) {
			if p.ID == partID {
				return p.Name
			}
		}
		return partID
	}
	return itemID
}
