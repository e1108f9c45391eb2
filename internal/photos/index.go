// Package photos holds the per-record photo index and the camera-capture
// compression pipeline. Attachments are grouped by the item id they document;
// the index preserves first-attachment order of item ids so galleries render
// in the order items were photographed.
package photos

import (
	"github.com/kurumaworks/tenkendb/internal/utils"
)

// Attachment is one photo bound to an inspection item, a part photo key, or
// the parts-overall synthetic id. ItemName and the metadata fields mirror the
// stored photo row so a load/save round trip keeps them intact.
type Attachment struct {
	ID           string `json:"id"`
	ItemID       string `json:"item_id"`
	ItemName     string `json:"item_name,omitempty"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	BeforeAfter  string `json:"before_after"`
	IsCover      bool   `json:"is_cover,omitempty"`
	Caption      string `json:"caption,omitempty"`
	Photographer string `json:"photographer,omitempty"`
	Timestamp    string `json:"timestamp"`
}

const (
	Before = "before"
	After  = "after"
)

// Index groups a record's attachments by item id.
type Index struct {
	byItem map[string][]Attachment
	order  []string // item ids in first-attachment order
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{byItem: make(map[string][]Attachment)}
}

// Attach adds a photo under itemID and returns it. An empty beforeAfter
// defaults to "before". Order within an item is append order.
func (x *Index) Attach(itemID, url, beforeAfter, timestamp string) Attachment {
	if beforeAfter == "" {
		beforeAfter = Before
	}
	a := Attachment{
		ID:          utils.NewID(),
		ItemID:      itemID,
		URL:         url,
		BeforeAfter: beforeAfter,
		Timestamp:   timestamp,
	}
	x.add(a)
	return a
}

// Add inserts an existing attachment, keeping its id. Used when inflating the
// index from stored photo rows.
func (x *Index) Add(a Attachment) {
	if a.BeforeAfter == "" {
		a.BeforeAfter = Before
	}
	x.add(a)
}

func (x *Index) add(a Attachment) {
	if _, seen := x.byItem[a.ItemID]; !seen {
		x.order = append(x.order, a.ItemID)
	}
	x.byItem[a.ItemID] = append(x.byItem[a.ItemID], a)
}

// Detach removes the photo with the given id. When an item's last photo goes,
// the item id leaves the ordering too.
func (x *Index) Detach(photoID string) bool {
	for itemID, list := range x.byItem {
		for i, a := range list {
			if a.ID != photoID {
				continue
			}
			list = append(list[:i], list[i+1:]...)
			if len(list) == 0 {
				delete(x.byItem, itemID)
				x.dropOrder(itemID)
			} else {
				x.byItem[itemID] = list
			}
			return true
		}
	}
	return false
}

// ToggleBeforeAfter flips a photo between "before" and "after".
func (x *Index) ToggleBeforeAfter(photoID string) bool {
	for itemID, list := range x.byItem {
		for i, a := range list {
			if a.ID != photoID {
				continue
			}
			if a.BeforeAfter == After {
				a.BeforeAfter = Before
			} else {
				a.BeforeAfter = After
			}
			x.byItem[itemID][i] = a
			return true
		}
	}
	return false
}

// PhotosFor returns the photos attached under itemID, in append order.
func (x *Index) PhotosFor(itemID string) []Attachment {
	return x.byItem[itemID]
}

// ItemIDs returns the item ids holding photos, in first-attachment order.
func (x *Index) ItemIDs() []string {
	return append([]string(nil), x.order...)
}

// RemoveItem drops every photo under itemID. Used when a custom item is
// deleted so its photos do not linger as orphans.
func (x *Index) RemoveItem(itemID string) int {
	list, ok := x.byItem[itemID]
	if !ok {
		return 0
	}
	delete(x.byItem, itemID)
	x.dropOrder(itemID)
	return len(list)
}

// Count returns the total number of attachments.
func (x *Index) Count() int {
	n := 0
	for _, list := range x.byItem {
		n += len(list)
	}
	return n
}

func (x *Index) dropOrder(itemID string) {
	for i, id := range x.order {
		if id == itemID {
			x.order = append(x.order[:i], x.order[i+1:]...)
			return
		}
	}
}
