package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/kurumaworks/tenkendb/internal/catalog"
	"github.com/kurumaworks/tenkendb/internal/config"
	"github.com/kurumaworks/tenkendb/internal/handlers"
	"github.com/kurumaworks/tenkendb/internal/inspection"
	"github.com/kurumaworks/tenkendb/internal/models"
	"github.com/kurumaworks/tenkendb/internal/services"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.MaintenanceRecord{},
		&models.InspectionPhoto{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func testConfig() *config.Config {
	return &config.Config{BaseURL: "http://localhost:3000"}
}

func setupApp(t *testing.T, db *gorm.DB) *fiber.App {
	t.Helper()
	cat, err := catalog.Load(nil)
	if err != nil {
		t.Fatalf("catalog load failed: %v", err)
	}

	app := fiber.New()
	recordsHandler := &handlers.RecordsHandler{DB: db, Catalog: cat, Cfg: testConfig()}
	photosHandler := &handlers.PhotosHandler{DB: db, Catalog: cat}

	app.Get("/api/tables/maintenance_records", recordsHandler.ListRecords)
	app.Get("/api/tables/maintenance_records/:id", recordsHandler.GetRecord)
	app.Post("/api/tables/maintenance_records", recordsHandler.CreateRecord)
	app.Put("/api/tables/maintenance_records/:id", recordsHandler.UpdateRecord)
	app.Delete("/api/tables/maintenance_records/:id", recordsHandler.DeleteRecord)
	app.Post("/api/records/:id/complete", recordsHandler.CompleteRecord)
	app.Get("/api/records/:id/view", recordsHandler.GetView)
	app.Get("/api/tables/inspection_photos", photosHandler.ListPhotos)
	app.Post("/api/tables/inspection_photos", photosHandler.CreatePhoto)
	app.Delete("/api/tables/inspection_photos/:id", photosHandler.DeletePhoto)
	return app
}

// TestCreateAndGetRecord tests POST then GET on /api/tables/maintenance_records
func TestCreateAndGetRecord(t *testing.T) {
	db := setupTestDB(t)
	app := setupApp(t, db)

	body, _ := json.Marshal(map[string]interface{}{
		"client_name":         "山田太郎",
		"registration_number": "品川500 あ1234",
	})
	req := httptest.NewRequest("POST", "/api/tables/maintenance_records", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 201 {
		t.Fatalf("Expected status 201, got %d", resp.StatusCode)
	}

	var created models.MaintenanceRecord
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if created.ID == "" || created.Status != "draft" {
		t.Errorf("Unexpected created record: id=%q status=%q", created.ID, created.Status)
	}

	req = httptest.NewRequest("GET", "/api/tables/maintenance_records/"+created.ID, nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
}

func TestGetRecordNotFound(t *testing.T) {
	db := setupTestDB(t)
	app := setupApp(t, db)

	req := httptest.NewRequest("GET", "/api/tables/maintenance_records/missing", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 404 {
		t.Errorf("Expected status 404, got %d", resp.StatusCode)
	}
}

func TestCompleteRecordValidation(t *testing.T) {
	db := setupTestDB(t)
	app := setupApp(t, db)

	// Identity fields missing: completion refused.
	row := models.MaintenanceRecord{ClientName: "山田太郎"}
	services.CreateRecord(db, &row)

	req := httptest.NewRequest("POST", "/api/records/"+row.ID+"/complete", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Errorf("Expected status 400 for incomplete identity, got %d", resp.StatusCode)
	}

	// Fill the required fields and retry.
	db.Model(&row).Updates(map[string]interface{}{
		"registration_number": "品川500 あ1234",
		"inspection_date":     "2026-08-01",
		"total_mileage":       45000,
	})

	req = httptest.NewRequest("POST", "/api/records/"+row.ID+"/complete", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var completed models.MaintenanceRecord
	if err := json.NewDecoder(resp.Body).Decode(&completed); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if completed.Status != "completed" || len(completed.AccessToken) != 32 {
		t.Errorf("Unexpected completion result: status=%q token=%q", completed.Status, completed.AccessToken)
	}
}

func TestUpdateCompletedToDraftConflicts(t *testing.T) {
	db := setupTestDB(t)
	app := setupApp(t, db)

	row := models.MaintenanceRecord{ClientName: "山田太郎", RegistrationNumber: "品川500 あ1234",
		InspectionDate: "2026-08-01", TotalMileage: 45000}
	services.CreateRecord(db, &row)
	services.CompleteRecord(db, row.ID, "http://localhost:3000")

	body, _ := json.Marshal(map[string]interface{}{
		"client_name": "山田太郎",
		"status":      "draft",
	})
	req := httptest.NewRequest("PUT", "/api/tables/maintenance_records/"+row.ID, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 409 {
		t.Errorf("Expected status 409, got %d", resp.StatusCode)
	}
}

func TestGetViewRendersMarkedItems(t *testing.T) {
	db := setupTestDB(t)
	app := setupApp(t, db)
	cat, _ := catalog.Load(nil)

	row := models.MaintenanceRecord{ClientName: "山田太郎"}
	services.CreateRecord(db, &row)

	session := inspection.NewEditSession(cat, &row)
	session.SetMark("engine_fan_belt", "✓")
	if err := services.SaveSession(db, session); err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}

	req := httptest.NewRequest("GET", "/api/records/"+row.ID+"/view", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var tree map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&tree); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	sections, _ := tree["sections"].([]interface{})
	if len(sections) != 1 {
		t.Errorf("Expected 1 rendered section, got %d", len(sections))
	}
	if tree["progress"] == nil {
		t.Error("view should carry progress counters")
	}
}

func TestPhotoEndpoints(t *testing.T) {
	db := setupTestDB(t)
	app := setupApp(t, db)

	body, _ := json.Marshal(map[string]interface{}{
		"record_id": "rec-1",
		"item_id":   "engine_fan_belt",
		"photo_url": "https://example.com/p.jpg",
	})
	req := httptest.NewRequest("POST", "/api/tables/inspection_photos", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 201 {
		t.Fatalf("Expected status 201, got %d", resp.StatusCode)
	}
	var created models.InspectionPhoto
	json.NewDecoder(resp.Body).Decode(&created)

	req = httptest.NewRequest("GET", "/api/tables/inspection_photos?record_id=rec-1", nil)
	resp, _ = app.Test(req)
	if resp.StatusCode != 200 {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	// record_id is mandatory for listing.
	req = httptest.NewRequest("GET", "/api/tables/inspection_photos", nil)
	resp, _ = app.Test(req)
	if resp.StatusCode != 400 {
		t.Errorf("Expected status 400 without record_id, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest("DELETE", "/api/tables/inspection_photos/"+created.ID, nil)
	resp, _ = app.Test(req)
	if resp.StatusCode != 200 {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
}
