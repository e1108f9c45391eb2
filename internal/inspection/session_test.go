package inspection_test

import (
	"testing"

	"github.com/kurumaworks/tenkendb/internal/inspection"
	"github.com/kurumaworks/tenkendb/internal/models"
)

func TestSessionDirtyTracking(t *testing.T) {
	cat := testCatalog(t)
	s := inspection.NewEditSession(cat, &models.MaintenanceRecord{ID: "rec-1"})

	if s.Dirty() {
		t.Error("fresh session should not be dirty")
	}
	s.SetMark("engine_fan_belt", "✓")
	if !s.Dirty() {
		t.Error("mutation should mark the session dirty")
	}
	s.Collect()
	if s.Dirty() {
		t.Error("Collect should reset the dirty flag")
	}
}

func TestSessionRemoveCustomItemCascadesPhotos(t *testing.T) {
	cat := testCatalog(t)
	s := inspection.NewEditSession(cat, &models.MaintenanceRecord{ID: "rec-1"})

	item, err := s.AddCustomItem("追加項目")
	if err != nil {
		t.Fatalf("AddCustomItem failed: %v", err)
	}
	s.SetMark(item.ID, "✓")
	s.AttachPhoto(item.ID, "data:image/jpeg;base64,xxx", "", "2026-08-01T09:00:00Z")
	s.AttachPhoto("engine_fan_belt", "data:image/jpeg;base64,yyy", "", "")

	if !s.RemoveCustomItem(item.ID) {
		t.Fatal("RemoveCustomItem should succeed")
	}
	if got := s.Photos.Count(); got != 1 {
		t.Errorf("custom item photos should cascade, remaining count = %d", got)
	}
	if len(s.Photos.PhotosFor(item.ID)) != 0 {
		t.Error("removed item should hold no photos")
	}
}

func TestSessionRemoveCustomPartCascadesPhotos(t *testing.T) {
	cat := testCatalog(t)
	s := inspection.NewEditSession(cat, &models.MaintenanceRecord{ID: "rec-1"})

	part, _ := s.AddCustomPart("ワイパーゴム", "本")
	s.SetPartQuantity(part.Name, "2 本")
	s.AttachPhoto(inspection.PartPhotoKey(part.ID), "u", "", "")

	if !s.RemoveCustomPart(part.ID) {
		t.Fatal("RemoveCustomPart should succeed")
	}
	if s.Photos.Count() != 0 {
		t.Error("part photos should cascade with the part")
	}
	if _, ok := s.Record.PartUsage[part.Name]; ok {
		t.Error("part quantity should cascade with the part")
	}
}

func TestSessionCollectProducesPhotoRows(t *testing.T) {
	cat := testCatalog(t)
	row := &models.MaintenanceRecord{ID: "rec-1"}
	s := inspection.NewEditSession(cat, row)

	s.SetMark("engine_fan_belt", "×")
	s.AttachPhoto("engine_fan_belt", "u1", "before", "2026-08-01T09:00:00Z")
	s.AttachPhoto("engine_fan_belt", "u2", "after", "2026-08-01T09:05:00Z")

	photoRows := s.Collect()

	if len(photoRows) != 2 {
		t.Fatalf("Expected 2 photo rows, got %d", len(photoRows))
	}
	for i, pr := range photoRows {
		if pr.RecordID != "rec-1" {
			t.Errorf("photo row %d record id = %q", i, pr.RecordID)
		}
		if pr.SortOrder != i {
			t.Errorf("photo row %d sort order = %d", i, pr.SortOrder)
		}
		if pr.ItemName == "" {
			t.Errorf("photo row %d should carry a denormalized item name", i)
		}
	}

	// The row's embedded fields are filled by Collect.
	if len(row.InspectionData.JSON) == 0 {
		t.Error("Collect should flatten marks onto the row")
	}
}

func TestSessionCollectSortOrderPerItem(t *testing.T) {
	cat := testCatalog(t)
	s := inspection.NewEditSession(cat, &models.MaintenanceRecord{ID: "rec-1"})

	s.AttachPhoto("engine_fan_belt", "u1", "", "")
	s.AttachPhoto("engine_fan_belt", "u2", "", "")
	s.AttachPhoto("under_tire_crack", "u3", "", "")

	photoRows := s.Collect()
	if len(photoRows) != 3 {
		t.Fatalf("Expected 3 photo rows, got %d", len(photoRows))
	}
	wantOrder := map[string]int{"u1": 0, "u2": 1, "u3": 0}
	for _, pr := range photoRows {
		if pr.SortOrder != wantOrder[pr.PhotoURL] {
			t.Errorf("%s sort order = %d, want %d", pr.PhotoURL, pr.SortOrder, wantOrder[pr.PhotoURL])
		}
	}
}

func TestSessionPhotoMetadataRoundTrip(t *testing.T) {
	cat := testCatalog(t)
	row := &models.MaintenanceRecord{ID: "rec-1"}
	stored := []models.InspectionPhoto{{
		ID:           "p1",
		RecordID:     "rec-1",
		ItemID:       "custom_item_1690000000000",
		ItemName:     "ドライブレコーダー",
		PhotoURL:     "u1",
		ThumbnailURL: "thumb1",
		BeforeAfter:  "after",
		IsCover:      true,
		Caption:      "取付位置",
		Photographer: "佐藤",
		PhotoDate:    "2026-08-01T09:00:00Z",
	}}

	s := inspection.LoadEditSession(cat, row, stored)
	photoRows := s.Collect()
	if len(photoRows) != 1 {
		t.Fatalf("Expected 1 photo row, got %d", len(photoRows))
	}
	got := photoRows[0]
	if got.ItemName != "ドライブレコーダー" {
		t.Errorf("stored item name should survive an unresolvable id, got %q", got.ItemName)
	}
	if got.Caption != "取付位置" || got.Photographer != "佐藤" {
		t.Errorf("caption/photographer should survive, got %q/%q", got.Caption, got.Photographer)
	}
	if got.ThumbnailURL != "thumb1" || !got.IsCover {
		t.Errorf("thumbnail/cover should survive, got %q/%v", got.ThumbnailURL, got.IsCover)
	}
	if got.BeforeAfter != "after" {
		t.Errorf("before/after should survive, got %q", got.BeforeAfter)
	}
}

func TestSessionCollectResolvesCurrentName(t *testing.T) {
	cat := testCatalog(t)
	s := inspection.NewEditSession(cat, &models.MaintenanceRecord{ID: "rec-1"})

	item, _ := s.AddCustomItem("ドライブレコーダー")
	s.AttachPhoto(item.ID, "u1", "", "")

	photoRows := s.Collect()
	if photoRows[0].ItemName != "ドライブレコーダー" {
		t.Errorf("live ids resolve through the record, got %q", photoRows[0].ItemName)
	}
}

func TestLoadEditSessionRoundTrip(t *testing.T) {
	cat := testCatalog(t)
	row := &models.MaintenanceRecord{ID: "rec-1"}
	s := inspection.NewEditSession(cat, row)
	s.SetMark("engine_fan_belt", "✓")
	s.SetAdvice("良好です")
	photoRows := s.Collect()

	loaded := inspection.LoadEditSession(cat, row, photoRows)
	if len(loaded.ParseErrors) != 0 {
		t.Fatalf("Unexpected parse errors: %v", loaded.ParseErrors)
	}
	if entry, ok := loaded.Record.Mark("engine_fan_belt"); !ok || entry.Code != "✓" {
		t.Errorf("mark should survive the round trip, got %+v", entry)
	}
	if loaded.Record.Advice != "良好です" {
		t.Errorf("advice should survive, got %q", loaded.Record.Advice)
	}
	if loaded.Dirty() {
		t.Error("freshly loaded session should not be dirty")
	}
}
