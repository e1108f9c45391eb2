package inspection

import (
	"github.com/kurumaworks/tenkendb/internal/catalog"
	"github.com/kurumaworks/tenkendb/internal/photos"
)

// The view tree is the merged, render-ready projection of one record: catalog
// structure, marks, photos, parts, and measurements joined into one document.
// The staff detail page, the customer page, and the report exporter all render
// from the same tree.

// ItemView is one inspection item with its recorded result and photos.
type ItemView struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Code        string              `json:"code"`
	ResultText  string              `json:"result_text"`
	ResultClass catalog.ResultClass `json:"result_class"`
	Timestamp   string              `json:"timestamp"`
	Photos      []photos.Attachment `json:"photos,omitempty"`
}

// CategoryView groups marked items under their catalog category title.
type CategoryView struct {
	Title string     `json:"title"`
	Items []ItemView `json:"items"`
}

// SectionView is one inspection section with only its marked content.
type SectionView struct {
	Key        string         `json:"key"`
	Categories []CategoryView `json:"categories"`
}

// PartView is one replacement part with its recorded quantity and photos.
type PartView struct {
	ID       string              `json:"id"`
	Name     string              `json:"name"`
	Quantity string              `json:"quantity"`
	Custom   bool                `json:"custom,omitempty"`
	Photos   []photos.Attachment `json:"photos,omitempty"`
}

// MeasurementView is one measurement with its recorded value.
type MeasurementView struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Value string `json:"value"`
	Unit  string `json:"unit"`
}

// PhotoGroup labels photos whose item id resolves to nothing current, so no
// capture silently disappears from the rendered record.
type PhotoGroup struct {
	ItemID string              `json:"item_id"`
	Label  string              `json:"label"`
	Photos []photos.Attachment `json:"photos"`
}

// ViewTree is the full merged projection of one record.
type ViewTree struct {
	Sections      []SectionView       `json:"sections"`
	CustomItems   []ItemView          `json:"custom_items,omitempty"`
	Parts         []PartView          `json:"parts,omitempty"`
	PartsPhotos   []photos.Attachment `json:"parts_photos,omitempty"`
	Measurements  []MeasurementView   `json:"measurements,omitempty"`
	Tags          []string            `json:"tags,omitempty"`
	Advice        string              `json:"advice,omitempty"`
	Uncategorized []PhotoGroup        `json:"uncategorized,omitempty"`
	Progress      ProgressReport      `json:"progress"`
}

// BuildView merges the catalog, the record, and the photo index into one
// render-ready tree. Only marked items appear; categories and sections with
// no marked item are omitted entirely. A nil photo index is treated as empty.
func BuildView(cat *catalog.Catalog, r *Record, px *photos.Index) *ViewTree {
	if px == nil {
		px = photos.NewIndex()
	}
	tree := &ViewTree{Progress: Progress(cat, r)}
	claimed := make(map[string]bool)

	for _, section := range cat.Sections() {
		sv := SectionView{Key: section.Key}
		for _, category := range section.Categories {
			cv := CategoryView{Title: category.Title}
			for _, item := range category.Items {
				entry, marked := r.Marks[item.ID]
				if !marked {
					continue
				}
				claimed[item.ID] = true
				cv.Items = append(cv.Items, itemView(item.ID, item.Name, entry, px))
			}
			if len(cv.Items) > 0 {
				sv.Categories = append(sv.Categories, cv)
			}
		}
		if len(sv.Categories) > 0 {
			tree.Sections = append(tree.Sections, sv)
		}
	}

	for _, item := range r.CustomItems {
		entry, marked := r.Marks[item.ID]
		if !marked {
			continue
		}
		claimed[item.ID] = true
		tree.CustomItems = append(tree.CustomItems, itemView(item.ID, item.Name, entry, px))
	}

	for _, part := range r.EffectiveParts(cat) {
		quantity := r.PartUsage[part.Name]
		key := PartPhotoKey(part.ID)
		partPhotos := px.PhotosFor(key)
		if quantity == "" && len(partPhotos) == 0 {
			continue
		}
		claimed[key] = true
		tree.Parts = append(tree.Parts, PartView{
			ID:       part.ID,
			Name:     part.Name,
			Quantity: quantity,
			Custom:   part.Custom,
			Photos:   partPhotos,
		})
	}
	if overall := px.PhotosFor(PartsOverallItemID); len(overall) > 0 {
		claimed[PartsOverallItemID] = true
		tree.PartsPhotos = overall
	}

	for _, m := range cat.Measurements() {
		value, ok := r.MeasurementValues[m.Name]
		if !ok {
			continue
		}
		tree.Measurements = append(tree.Measurements, MeasurementView{
			ID:    m.ID,
			Name:  m.Name,
			Value: value,
			Unit:  m.Unit,
		})
	}

	tree.Tags = r.Tags
	tree.Advice = r.Advice

	// Photos bound to ids nothing above claimed (deleted custom items from
	// rows written before cascade existed, retired catalog ids) still render.
	// The stored denormalized name labels the group when the record no longer
	// resolves the id; the raw id is the last resort.
	for _, itemID := range px.ItemIDs() {
		if claimed[itemID] {
			continue
		}
		group := px.PhotosFor(itemID)
		label := r.ItemName(cat, itemID)
		if label == itemID && group[0].ItemName != "" {
			label = group[0].ItemName
		}
		tree.Uncategorized = append(tree.Uncategorized, PhotoGroup{
			ItemID: itemID,
			Label:  label,
			Photos: group,
		})
	}

	return tree
}

func itemView(id, name string, entry Entry, px *photos.Index) ItemView {
	return ItemView{
		ID:          id,
		Name:        name,
		Code:        entry.Code,
		ResultText:  catalog.ResultText(entry.Code),
		ResultClass: catalog.MarkResultClass(entry.Code),
		Timestamp:   entry.Timestamp,
		Photos:      px.PhotosFor(id),
	}
}
