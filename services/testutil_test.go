package services_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dennisfurrer/rrsb-scoreboard-be/handlers"
	"github.com/dennisfurrer/rrsb-scoreboard-be/models"
	"github.com/dennisfurrer/rrsb-scoreboard-be/services"
)

// newTestApp wires the full route surface against an in-memory sqlite store.
func newTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.Match{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	app := fiber.New()
	handlers.SetupMatchRoutes(app, services.NewMatchService(db, nil))
	handlers.SetupStatsRoutes(app, services.NewStatsService(db, services.DefaultPlaceholderConfig()))
	return app, db
}

// seedMatch inserts a concluded match directly into the store.
func seedMatch(t *testing.T, db *gorm.DB, p1, p2 string, f1, f2 int, b1, b2 []int, winner string, created time.Time) models.Match {
	t.Helper()

	m := models.Match{
		ID:            uuid.NewString(),
		Player1Name:   p1,
		Player2Name:   p2,
		BestOf:        5,
		FramesPlayer1: f1,
		FramesPlayer2: f2,
		BreaksPlayer1: models.IntList(b1),
		BreaksPlayer2: models.IntList(b2),
		CreatedAt:     created,
		UpdatedAt:     created,
	}
	if winner != "" {
		m.Winner = &winner
	}
	if err := db.Create(&m).Error; err != nil {
		t.Fatalf("failed to seed match: %v", err)
	}
	return m
}

func doRequest(t *testing.T, app *fiber.App, method, path, body string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()

	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
}
