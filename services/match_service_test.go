package services_test

import (
	"testing"

	"github.com/dennisfurrer/rrsb-scoreboard-be/models"
)

type ingestResponse struct {
	Data struct {
		MatchID string `json:"matchId"`
	} `json:"data"`
}

const aliceBobFinal = `{
	"players": [
		{"name": "Alice", "frames": 3, "highbreaks": [55, 40], "winner": true, "nationalityIOC": "SUI"},
		{"name": "Bob", "frames": 1, "highbreaks": [20]}
	],
	"bestOf": 5,
	"tableNumber": 1
}`

func TestCreateMatchThenPlayerStats(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doRequest(t, app, "POST", "/api/matches", aliceBobFinal)
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var created ingestResponse
	decodeBody(t, resp, &created)
	if created.Data.MatchID == "" {
		t.Fatal("expected a match id in the response")
	}

	resp = doRequest(t, app, "GET", "/players/Alice", "")
	var body playerStatsResponse
	decodeBody(t, resp, &body)

	stats := body.Data
	if stats.MatchesPlayed != 1 || stats.MatchesWon != 1 {
		t.Errorf("played/won = %d/%d, want 1/1", stats.MatchesPlayed, stats.MatchesWon)
	}
	if stats.FramesWon != 3 || stats.FramesLost != 1 {
		t.Errorf("frames = %d/%d, want 3/1", stats.FramesWon, stats.FramesLost)
	}
	if len(stats.HighBreaks) != 2 || stats.HighBreaks[0] != 55 || stats.HighBreaks[1] != 40 {
		t.Errorf("highBreaks = %v, want [55 40]", stats.HighBreaks)
	}
	if stats.Nationality != "SUI" {
		t.Errorf("nationality = %q, want SUI", stats.Nationality)
	}
}

func TestCreateMatchStoresRecord(t *testing.T) {
	app, db := newTestApp(t)

	resp := doRequest(t, app, "POST", "/api/matches", aliceBobFinal)
	var created ingestResponse
	decodeBody(t, resp, &created)

	var m models.Match
	if err := db.First(&m, "id = ?", created.Data.MatchID).Error; err != nil {
		t.Fatalf("stored match not found: %v", err)
	}
	if m.Active {
		t.Error("final match must be stored inactive")
	}
	if m.Winner == nil || *m.Winner != "Alice" {
		t.Errorf("winner = %v, want Alice", m.Winner)
	}
	if m.TableNumber == nil || *m.TableNumber != 1 {
		t.Errorf("tableNumber = %v, want 1", m.TableNumber)
	}
	if m.RawGameLog == "" {
		t.Error("raw game log was not retained")
	}
}

func TestCreateMatchMalformedStillSucceeds(t *testing.T) {
	app, db := newTestApp(t)

	resp := doRequest(t, app, "POST", "/api/matches", `{"players": []}`)
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200 (ingestion never blocks the device)", resp.StatusCode)
	}

	var count int64
	db.Model(&models.Match{}).Count(&count)
	if count != 0 {
		t.Errorf("malformed submission was stored (%d records)", count)
	}
}

func TestDuplicateSubmissionCollapsesInHistory(t *testing.T) {
	app, _ := newTestApp(t)

	doRequest(t, app, "POST", "/api/matches", aliceBobFinal)
	doRequest(t, app, "POST", "/api/matches", aliceBobFinal)

	resp := doRequest(t, app, "GET", "/matches/player/Alice", "")
	var body historyResponse
	decodeBody(t, resp, &body)

	if len(body.Data) != 1 {
		t.Fatalf("expected 1 entry after dedup, got %d", len(body.Data))
	}
	if body.Metadata.Pagination.TotalMatches != 1 {
		t.Errorf("totalMatches = %d, want 1", body.Metadata.Pagination.TotalMatches)
	}
}

const liveUpdate = `{
	"matchState": {
		"matchId": "live-1",
		"bestOf": 5,
		"tableNumber": 1,
		"players": [
			{"name": "Alice", "frames": 1, "highbreaks": [30]},
			{"name": "Bob", "frames": 0, "highbreaks": []}
		]
	},
	"type": "FRAME_WON"
}`

const liveEnd = `{
	"matchState": {
		"matchId": "live-1",
		"bestOf": 5,
		"tableNumber": 1,
		"players": [
			{"name": "Alice", "frames": 3, "highbreaks": [30, 65], "winner": true},
			{"name": "Bob", "frames": 1, "highbreaks": [22]}
		]
	},
	"type": "END_MATCH"
}`

func TestLiveMatchLifecycle(t *testing.T) {
	app, db := newTestApp(t)

	resp := doRequest(t, app, "PATCH", "/api/matches", liveUpdate)
	var upserted ingestResponse
	decodeBody(t, resp, &upserted)
	if upserted.Data.MatchID != "live-1" {
		t.Fatalf("matchId = %q, want live-1", upserted.Data.MatchID)
	}

	resp = doRequest(t, app, "GET", "/api/matches/live", "")
	var live struct {
		Data []models.Match `json:"data"`
	}
	decodeBody(t, resp, &live)
	if len(live.Data) != 1 || live.Data[0].ID != "live-1" {
		t.Fatalf("live matches = %+v, want the in-progress match", live.Data)
	}

	// END_MATCH concludes it and replaces the full state.
	doRequest(t, app, "PATCH", "/api/matches", liveEnd)

	var m models.Match
	if err := db.First(&m, "id = ?", "live-1").Error; err != nil {
		t.Fatalf("match not found after update: %v", err)
	}
	if m.Active {
		t.Error("match must be inactive after END_MATCH")
	}
	if m.FramesPlayer1 != 3 || len(m.BreaksPlayer1) != 2 {
		t.Errorf("state not replaced: frames=%d breaks=%v", m.FramesPlayer1, m.BreaksPlayer1)
	}
	if m.Winner == nil || *m.Winner != "Alice" {
		t.Errorf("winner = %v, want Alice", m.Winner)
	}

	resp = doRequest(t, app, "GET", "/api/matches/live", "")
	decodeBody(t, resp, &live)
	if len(live.Data) != 0 {
		t.Errorf("concluded match still listed live: %+v", live.Data)
	}
}

func TestLiveMatchBreaksReplacedNotAppended(t *testing.T) {
	app, db := newTestApp(t)

	doRequest(t, app, "PATCH", "/api/matches", liveUpdate)
	doRequest(t, app, "PATCH", "/api/matches", liveUpdate)

	var m models.Match
	if err := db.First(&m, "id = ?", "live-1").Error; err != nil {
		t.Fatalf("match not found: %v", err)
	}
	if len(m.BreaksPlayer1) != 1 {
		t.Errorf("breaks = %v, want the submitted list unchanged", m.BreaksPlayer1)
	}

	var count int64
	db.Model(&models.Match{}).Count(&count)
	if count != 1 {
		t.Errorf("upsert created %d records, want 1", count)
	}
}

func TestHealth(t *testing.T) {
	app, _ := newTestApp(t)

	resp := doRequest(t, app, "GET", "/health", "")
	if resp.StatusCode != 200 {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}
