package services_test

import (
	"errors"
	"testing"

	"github.com/kurumaworks/tenkendb/internal/catalog"
	"github.com/kurumaworks/tenkendb/internal/inspection"
	"github.com/kurumaworks/tenkendb/internal/models"
	"github.com/kurumaworks/tenkendb/internal/services"
)

func TestCreateAndListPhotos(t *testing.T) {
	db := setupTestDB(t)

	row := models.MaintenanceRecord{ClientName: "山田太郎"}
	services.CreateRecord(db, &row)

	for i, itemID := range []string{"engine_fan_belt", "under_tire_crack"} {
		p := models.InspectionPhoto{RecordID: row.ID, ItemID: itemID, SortOrder: i}
		if err := services.CreatePhoto(db, &p); err != nil {
			t.Fatalf("CreatePhoto failed: %v", err)
		}
		if p.ID == "" {
			t.Error("photo should get a generated id")
		}
		if p.BeforeAfter != "before" {
			t.Errorf("photo before/after default = %q", p.BeforeAfter)
		}
	}

	photos, err := services.PhotosForRecord(db, row.ID)
	if err != nil {
		t.Fatalf("PhotosForRecord failed: %v", err)
	}
	if len(photos) != 2 {
		t.Fatalf("Expected 2 photos, got %d", len(photos))
	}
	if photos[0].ItemID != "engine_fan_belt" {
		t.Errorf("photos should come back in sort order, got %s first", photos[0].ItemID)
	}
}

func TestDeletePhoto(t *testing.T) {
	db := setupTestDB(t)

	p := models.InspectionPhoto{RecordID: "rec-1", ItemID: "engine_fan_belt"}
	services.CreatePhoto(db, &p)

	if err := services.DeletePhoto(db, p.ID); err != nil {
		t.Fatalf("DeletePhoto failed: %v", err)
	}
	if err := services.DeletePhoto(db, p.ID); !errors.Is(err, inspection.ErrNotFound) {
		t.Errorf("second delete should report not found, got %v", err)
	}
}

func TestReplaceAllForRecord(t *testing.T) {
	db := setupTestDB(t)

	recordID := "rec-1"
	for i := 0; i < 3; i++ {
		services.CreatePhoto(db, &models.InspectionPhoto{RecordID: recordID, ItemID: "old", SortOrder: i})
	}
	// A photo of another record must survive the swap.
	services.CreatePhoto(db, &models.InspectionPhoto{RecordID: "rec-2", ItemID: "other"})

	batch := []models.InspectionPhoto{
		{ItemID: "engine_fan_belt", SortOrder: 0},
		{ItemID: "under_tire_crack", SortOrder: 1},
	}
	if err := services.ReplaceAllForRecord(db, recordID, batch); err != nil {
		t.Fatalf("ReplaceAllForRecord failed: %v", err)
	}

	photos, _ := services.PhotosForRecord(db, recordID)
	if len(photos) != 2 {
		t.Fatalf("Expected 2 photos after replace, got %d", len(photos))
	}
	for _, p := range photos {
		if p.ItemID == "old" {
			t.Error("stale photos should be gone after replace")
		}
		if p.RecordID != recordID {
			t.Errorf("batch rows should be stamped with the record id, got %q", p.RecordID)
		}
	}

	other, _ := services.PhotosForRecord(db, "rec-2")
	if len(other) != 1 {
		t.Errorf("other record's photos should be untouched, got %d", len(other))
	}
}

func TestReplaceAllRollsBackOnFailure(t *testing.T) {
	db := setupTestDB(t)

	recordID := "rec-1"
	services.CreatePhoto(db, &models.InspectionPhoto{RecordID: recordID, ItemID: "old"})

	// Two batch rows sharing one primary key force an insert failure mid-batch.
	batch := []models.InspectionPhoto{
		{ID: "dup", ItemID: "a"},
		{ID: "dup", ItemID: "b"},
	}
	err := services.ReplaceAllForRecord(db, recordID, batch)
	if err == nil {
		t.Fatal("duplicate ids should fail the batch")
	}
	var partial *services.PartialSaveError
	if !errors.As(err, &partial) {
		t.Fatalf("Expected PartialSaveError, got %v", err)
	}
	if partial.RecordID != recordID {
		t.Errorf("error should carry the record id, got %q", partial.RecordID)
	}

	// The transaction rolled back; the previous photo set survives.
	photos, _ := services.PhotosForRecord(db, recordID)
	if len(photos) != 1 || photos[0].ItemID != "old" {
		t.Errorf("previous photo set should survive a failed swap: %+v", photos)
	}
}

func TestSaveSessionPersistsRecordAndPhotos(t *testing.T) {
	db := setupTestDB(t)
	cat, err := catalog.Load(nil)
	if err != nil {
		t.Fatalf("catalog load failed: %v", err)
	}

	row := models.MaintenanceRecord{ClientName: "山田太郎"}
	services.CreateRecord(db, &row)

	session := inspection.NewEditSession(cat, &row)
	session.SetMark("engine_fan_belt", "✓")
	session.AttachPhoto("engine_fan_belt", "u1", "before", "2026-08-01T09:00:00Z")

	if err := services.SaveSession(db, session); err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}

	stored, _ := services.GetRecord(db, row.ID)
	restored, parseErrs := inspection.FromWire(cat, stored)
	if len(parseErrs) != 0 {
		t.Fatalf("Unexpected parse errors: %v", parseErrs)
	}
	if entry, ok := restored.Mark("engine_fan_belt"); !ok || entry.Code != "✓" {
		t.Errorf("mark should persist through SaveSession, got %+v", entry)
	}

	photos, _ := services.PhotosForRecord(db, row.ID)
	if len(photos) != 1 {
		t.Fatalf("Expected 1 photo row, got %d", len(photos))
	}
	if photos[0].ItemName == "" {
		t.Error("photo row should carry the denormalized item name")
	}
}
