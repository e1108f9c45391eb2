package inspection

import "strings"

// Photos attach to inspection items by item id and to parts by a "part_"
// prefixed key; one synthetic id covers the whole replaced-parts photo.
const (
	PartsOverallItemID   = "parts_overall"
	PartsOverallItemName = "交換部品全体"
)

// PartPhotoKey is the photo-index key for a part's photos.
func PartPhotoKey(partID string) string {
	return "part_" + partID
}

func partIDFromPhotoKey(itemID string) (string, bool) {
	return strings.CutPrefix(itemID, "part_")
}
