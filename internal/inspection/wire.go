package inspection

import (
	"encoding/json"

	"github.com/kurumaworks/tenkendb/internal/catalog"
	"github.com/kurumaworks/tenkendb/internal/models"
	"github.com/kurumaworks/tenkendb/internal/types"
	"gorm.io/datatypes"
)

// The wire format is the schema-flat row the frontend always wrote: each
// semi-structured field is a JSON-encoded STRING embedded in the row, not a
// native nested structure. ToWire/FromWire keep that contract byte-compatible.

// encodeEmbedded marshals v, then wraps the result in a JSON string, matching
// the frontend's JSON.stringify-into-a-flat-field behavior.
func encodeEmbedded(v any) models.JSON {
	inner, err := json.Marshal(v)
	if err != nil {
		// All inputs are plain maps/slices/strings; this cannot fail in practice.
		inner = []byte("null")
	}
	outer, _ := json.Marshal(string(inner))
	return models.JSON{JSON: datatypes.JSON(outer)}
}

// decodeEmbedded parses an embedded field into out. It accepts both the
// canonical string form and a native structure (older rows and hand-written
// fixtures contain both shapes). Empty and null fields are left as zero.
func decodeEmbedded(field models.JSON, fieldName string, out any) error {
	raw := []byte(field.JSON)
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return &MalformedWireDataError{Field: fieldName, Err: err}
		}
		if inner == "" {
			return nil
		}
		raw = []byte(inner)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return &MalformedWireDataError{Field: fieldName, Err: err}
	}
	return nil
}

// ToWire flattens the record's semi-structured content into the row's six
// embedded-JSON fields. Photos are never embedded; they are persisted as
// separate photo rows after the record itself.
func ToWire(r *Record, row *models.MaintenanceRecord) {
	row.InspectionData = encodeEmbedded(r.Marks)
	row.ReplacementParts = encodeEmbedded(r.PartUsage)
	row.CustomParts = encodeEmbedded(r.CustomParts)
	row.Measurements = encodeEmbedded(r.MeasurementValues)
	row.Tags = encodeEmbedded(r.Tags)
	row.CustomInspectionItems = encodeEmbedded(r.CustomItems)
	row.Advice = r.Advice
}

// FromWire inflates a stored row back into a Record.
//
// Restoration order contract: custom parts and custom inspection items are
// reconciled into the effective catalog BEFORE inspection data and part usage
// are replayed, because those reference custom ids and names. Each field
// parses independently; a malformed field degrades to empty and is reported
// in the returned slice without blocking the rest of the load.
func FromWire(cat *catalog.Catalog, row *models.MaintenanceRecord) (*Record, []error) {
	r := NewRecord()
	var parseErrs []error

	// 1. Custom parts, so stored quantities can resolve their names.
	if err := decodeEmbedded(row.CustomParts, "custom_parts", &r.CustomParts); err != nil {
		r.CustomParts = nil
		parseErrs = append(parseErrs, err)
	}

	// 2. Custom inspection items, so marks keyed by custom ids can render.
	if err := decodeEmbedded(row.CustomInspectionItems, "custom_inspection_items", &r.CustomItems); err != nil {
		r.CustomItems = nil
		parseErrs = append(parseErrs, err)
	}

	// 3. Inspection marks.
	if err := decodeEmbedded(row.InspectionData, "inspection_data", &r.Marks); err != nil {
		r.Marks = make(map[string]Entry)
		parseErrs = append(parseErrs, err)
	}

	// 4. Measurements. Name-keyed; unknown names are kept out of the model
	// the same way unknown part names are (silently dropped on restore).
	measured := map[string]string{}
	if err := decodeEmbedded(row.Measurements, "measurements", &measured); err != nil {
		parseErrs = append(parseErrs, err)
	} else {
		for name, value := range measured {
			if _, ok := cat.MeasurementByName(name); ok {
				r.MeasurementValues[name] = value
			}
		}
	}

	// 5. Part usage. Quantities restore only for names resolvable against the
	// effective part list; a renamed part silently loses its quantity. This is
	// the documented name-keying gap, preserved for wire compatibility.
	usage := map[string]string{}
	if err := decodeEmbedded(row.ReplacementParts, "replacement_parts", &usage); err != nil {
		parseErrs = append(parseErrs, err)
	} else {
		for name, quantity := range usage {
			if _, ok := r.PartByName(cat, name); ok {
				r.PartUsage[name] = quantity
			}
		}
	}

	// 6. Tags. Historical rows hold either an encoded string or a bare array.
	var tags types.FlexStrings
	if err := json.Unmarshal(orNull(row.Tags), &tags); err != nil {
		parseErrs = append(parseErrs, &MalformedWireDataError{Field: "tags", Err: err})
	} else {
		r.Tags = tags.Slice()
	}

	r.Advice = row.Advice

	// Seed the id collision guard past every persisted custom id.
	for _, item := range r.CustomItems {
		if item.AddedDate > r.lastCustomMs {
			r.lastCustomMs = item.AddedDate
		}
	}

	return r, parseErrs
}

func orNull(field models.JSON) []byte {
	if len(field.JSON) == 0 {
		return []byte("null")
	}
	return []byte(field.JSON)
}

// QuantityNumber returns the numeric prefix of a formatted quantity string
// ("1.5 L" -> "1.5"), the way the editor re-fills its inputs on load.
func QuantityNumber(quantity string) string {
	for i := 0; i < len(quantity); i++ {
		if quantity[i] == ' ' {
			return quantity[:i]
		}
	}
	return quantity
}
