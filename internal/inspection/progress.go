package inspection

import (
	"github.com/kurumaworks/tenkendb/internal/catalog"
)

// Counts is a checked/total pair for one section or the whole record.
type Counts struct {
	Checked int `json:"checked"`
	Total   int `json:"total"`
}

// ProgressReport carries completion counters per section plus the overall sum.
type ProgressReport struct {
	PerSection map[string]Counts `json:"per_section"`
	Overall    Counts            `json:"overall"`
}

// Progress computes completion counters against the catalog. Totals are the
// catalog item counts per section; checked counts marks whose item id maps to
// a section by the id-prefix convention. Custom items match no prefix, so they
// count in neither totals nor checked, matching the tab badges of the editing UI.
func Progress(cat *catalog.Catalog, r *Record) ProgressReport {
	report := ProgressReport{PerSection: make(map[string]Counts)}

	for _, s := range cat.Sections() {
		report.PerSection[s.Key] = Counts{Total: cat.SectionCount(s.Key)}
	}

	for itemID := range r.Marks {
		section := catalog.SectionOf(itemID)
		if section == "" {
			continue
		}
		counts, ok := report.PerSection[section]
		if !ok {
			continue
		}
		counts.Checked++
		report.PerSection[section] = counts
	}

	for _, counts := range report.PerSection {
		report.Overall.Checked += counts.Checked
		report.Overall.Total += counts.Total
	}

	return report
}
