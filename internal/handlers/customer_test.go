package handlers_test

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/kurumaworks/tenkendb/internal/catalog"
	"github.com/kurumaworks/tenkendb/internal/handlers"
	"github.com/kurumaworks/tenkendb/internal/inspection"
	"github.com/kurumaworks/tenkendb/internal/models"
	"github.com/kurumaworks/tenkendb/internal/services"
	"gorm.io/gorm"
)

func setupCustomerApp(t *testing.T, db *gorm.DB) *fiber.App {
	t.Helper()
	cat, err := catalog.Load(nil)
	if err != nil {
		t.Fatalf("catalog load failed: %v", err)
	}

	app := fiber.New()
	handler := &handlers.CustomerHandler{DB: db, Catalog: cat}
	app.Get("/api/customer/:token", handler.GetByToken)
	return app
}

func TestCustomerViewByToken(t *testing.T) {
	db := setupTestDB(t)
	app := setupCustomerApp(t, db)
	cat, _ := catalog.Load(nil)

	row := models.MaintenanceRecord{
		ClientName:         "山田太郎",
		RegistrationNumber: "品川500 あ1234",
		InspectionDate:     "2026-08-01",
		TotalMileage:       45000,
	}
	services.CreateRecord(db, &row)

	session := inspection.NewEditSession(cat, &row)
	session.SetMark("engine_fan_belt", "✓")
	session.SetAdvice("良好です")
	if err := services.SaveSession(db, session); err != nil {
		t.Fatalf("SaveSession failed: %v", err)
	}

	completed, err := services.CompleteRecord(db, row.ID, "http://localhost:3000")
	if err != nil {
		t.Fatalf("CompleteRecord failed: %v", err)
	}

	req := httptest.NewRequest("GET", "/api/customer/"+completed.AccessToken, nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	record, _ := result["record"].(map[string]interface{})
	if record["client_name"] != "山田太郎" {
		t.Errorf("customer payload missing identity: %v", record)
	}
	if _, exposed := record["access_token"]; exposed {
		t.Error("customer payload must not echo the access token")
	}
	if result["view"] == nil {
		t.Error("customer payload should carry the merged view")
	}
	if result["legend"] == "" {
		t.Error("customer payload should carry the mark legend")
	}
}

func TestCustomerViewDraftTokenRejected(t *testing.T) {
	db := setupTestDB(t)
	app := setupCustomerApp(t, db)

	row := models.MaintenanceRecord{ClientName: "山田太郎"}
	services.CreateRecord(db, &row)
	db.Model(&row).Update("access_token", "draft0token0000000000000000000000")

	req := httptest.NewRequest("GET", "/api/customer/draft0token0000000000000000000000", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 404 {
		t.Errorf("draft token should 404, got %d", resp.StatusCode)
	}
}

func TestCustomerViewUnknownToken(t *testing.T) {
	db := setupTestDB(t)
	app := setupCustomerApp(t, db)

	req := httptest.NewRequest("GET", "/api/customer/nosuchtoken", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	if resp.StatusCode != 404 {
		t.Errorf("unknown token should 404, got %d", resp.StatusCode)
	}
}
