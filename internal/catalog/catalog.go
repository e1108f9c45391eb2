// Package catalog holds the static inspection taxonomy: sections of categorized
// inspection items, the standard replacement parts, and the measurement
// definitions. The data is embedded at build time and immutable after Load.
// Lookups on unknown keys return defined fallbacks, never errors.
package catalog

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kurumaworks/tenkendb/data"
)

// Item is one catalog-defined inspection item.
type Item struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Codes    []string `json:"codes"` // marks allowed for this item (advisory)
	Required bool     `json:"required"`
}

// Category groups items under a display title.
type Category struct {
	Title string `json:"category"`
	Items []Item `json:"items"`
}

// Section is one inspection tab: a key plus its categories.
type Section struct {
	Key        string
	Categories []Category
}

// Part is a replacement part definition, standard or user-added.
type Part struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Unit   string `json:"unit"`
	Custom bool   `json:"custom,omitempty"`
}

// Measurement is one measured-value definition.
type Measurement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Unit        string `json:"unit"`
	Placeholder string `json:"placeholder"`
}

// SectionKeys is the fixed section order. obd and daily are the optional
// extension sections; Load can exclude them per deployment.
var SectionKeys = []string{"engine", "interior", "undercarriage", "bottom", "obd", "daily"}

// CoreSectionKeys are the sections every deployment carries.
var CoreSectionKeys = SectionKeys[:4]

// IncludeKeys builds a Load include list from the core sections plus the
// deployment's enabled optional sections. Unknown keys are ignored by Load.
func IncludeKeys(optional []string) []string {
	include := make([]string, 0, len(CoreSectionKeys)+len(optional))
	include = append(include, CoreSectionKeys...)
	include = append(include, optional...)
	return include
}

// Catalog is the loaded, immutable taxonomy.
type Catalog struct {
	sections     []Section
	itemsByID    map[string]Item
	sectionByID  map[string]string
	parts        []Part
	partsByName  map[string]Part
	measurements []Measurement
}

// Load parses the embedded catalog data. include lists the section keys to
// expose; nil means all sections.
func Load(include []string) (*Catalog, error) {
	var bySection map[string][]Category
	if err := json.Unmarshal(data.CatalogItems, &bySection); err != nil {
		return nil, fmt.Errorf("catalog items: %w", err)
	}

	var parts []Part
	if err := json.Unmarshal(data.CatalogParts, &parts); err != nil {
		return nil, fmt.Errorf("catalog parts: %w", err)
	}

	var measurements []Measurement
	if err := json.Unmarshal(data.CatalogMeasurements, &measurements); err != nil {
		return nil, fmt.Errorf("catalog measurements: %w", err)
	}

	included := map[string]bool{}
	if include == nil {
		for _, k := range SectionKeys {
			included[k] = true
		}
	} else {
		for _, k := range include {
			included[k] = true
		}
	}

	c := &Catalog{
		itemsByID:    make(map[string]Item),
		sectionByID:  make(map[string]string),
		parts:        parts,
		partsByName:  make(map[string]Part),
		measurements: measurements,
	}

	for _, key := range SectionKeys {
		if !included[key] {
			continue
		}
		categories := bySection[key]
		c.sections = append(c.sections, Section{Key: key, Categories: categories})
		for _, cat := range categories {
			for _, item := range cat.Items {
				c.itemsByID[item.ID] = item
				c.sectionByID[item.ID] = key
			}
		}
	}

	for _, p := range parts {
		c.partsByName[p.Name] = p
	}

	return c, nil
}

// MustLoad is Load with all sections, panicking on malformed embedded data.
// Embedded data is fixed at build time, so a failure here is a build defect.
func MustLoad() *Catalog {
	c, err := Load(nil)
	if err != nil {
		panic(err)
	}
	return c
}

// Sections returns the sections in fixed order.
func (c *Catalog) Sections() []Section {
	return c.sections
}

// ItemsOf returns the ordered categories of a section, or nil for unknown keys.
func (c *Catalog) ItemsOf(section string) []Category {
	for _, s := range c.sections {
		if s.Key == section {
			return s.Categories
		}
	}
	return nil
}

// Item returns the catalog item for an id.
func (c *Catalog) Item(id string) (Item, bool) {
	item, ok := c.itemsByID[id]
	return item, ok
}

// ItemName returns the display name for a catalog item id, or "" if unknown.
func (c *Catalog) ItemName(id string) string {
	return c.itemsByID[id].Name
}

// AllItemIDs returns the set of catalog item ids.
func (c *Catalog) AllItemIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(c.itemsByID))
	for id := range c.itemsByID {
		ids[id] = struct{}{}
	}
	return ids
}

// SectionCount returns the number of items a section contributes to totals.
func (c *Catalog) SectionCount(section string) int {
	n := 0
	for _, cat := range c.ItemsOf(section) {
		n += len(cat.Items)
	}
	return n
}

// Parts returns the standard replacement parts.
func (c *Catalog) Parts() []Part {
	return c.parts
}

// PartByName resolves a standard part by its display name. Records key part
// usage by name, so this is the compatibility-critical lookup.
func (c *Catalog) PartByName(name string) (Part, bool) {
	p, ok := c.partsByName[name]
	return p, ok
}

// Measurements returns the measurement definitions.
func (c *Catalog) Measurements() []Measurement {
	return c.measurements
}

// MeasurementByName resolves a measurement by its display name.
func (c *Catalog) MeasurementByName(name string) (Measurement, bool) {
	for _, m := range c.measurements {
		if m.Name == name {
			return m, true
		}
	}
	return Measurement{}, false
}

// SectionOf maps an item id to its section by the id-prefix convention
// ("under_" maps to undercarriage). Custom item ids match no prefix and
// return "".
func SectionOf(itemID string) string {
	prefix, _, ok := strings.Cut(itemID, "_")
	if !ok {
		return ""
	}
	if prefix == "under" {
		prefix = "undercarriage"
	}
	for _, key := range SectionKeys {
		if key == prefix {
			return key
		}
	}
	return ""
}
