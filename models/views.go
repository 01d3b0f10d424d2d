package models

import "time"

// PlayerBreaks is one leaderboard row: a player and their highest breaks in
// the requested scope, sorted descending.
type PlayerBreaks struct {
	Name       string `json:"name"`
	HighBreaks []int  `json:"highBreaks"`
}

// PlayerStats is the career summary for a single player, derived entirely
// from the match log at read time.
type PlayerStats struct {
	Name                 string `json:"name"`
	Nationality          string `json:"nationality,omitempty"`
	MatchesPlayed        int    `json:"matchesPlayed"`
	MatchesCompleted     int    `json:"matchesCompleted"`
	MatchesWon           int    `json:"matchesWon"`
	MatchesLost          int    `json:"matchesLost"`
	FramesWon            int    `json:"framesWon"`
	FramesLost           int    `json:"framesLost"`
	HighBreaks           []int  `json:"highBreaks"`
	IncompleteMatches    int    `json:"incompleteMatches"`
	MatchesWithBreaks    int    `json:"matchesWithBreaks"`
	AverageBreakPerMatch int    `json:"averageBreakPerMatch"`
}

// MatchHistoryEntry is one deduplicated match in a player's history. Break
// lists are trimmed to the top 10 per slot, sorted descending, for display.
type MatchHistoryEntry struct {
	ID            string    `json:"id"`
	Player1Name   string    `json:"player1Name"`
	Player2Name   string    `json:"player2Name"`
	Player1Nation string    `json:"player1Nation,omitempty"`
	Player2Nation string    `json:"player2Nation,omitempty"`
	BestOf        int       `json:"bestOf"`
	FramesPlayer1 int       `json:"framesPlayer1"`
	FramesPlayer2 int       `json:"framesPlayer2"`
	BreaksPlayer1 []int     `json:"breaksPlayer1"`
	BreaksPlayer2 []int     `json:"breaksPlayer2"`
	Winner        *string   `json:"winner,omitempty"`
	TableNumber   *int      `json:"tableNumber,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Pagination describes the page window of a history response. Pages are
// 1-based and computed after deduplication so boundaries stay stable.
type Pagination struct {
	CurrentPage     int  `json:"currentPage"`
	PageSize        int  `json:"pageSize"`
	TotalPages      int  `json:"totalPages"`
	TotalMatches    int  `json:"totalMatches"`
	HasNextPage     bool `json:"hasNextPage"`
	HasPreviousPage bool `json:"hasPreviousPage"`
}

// PageStats aggregates the returned page only, from the named player's
// perspective.
type PageStats struct {
	MatchesDisplayed int `json:"matchesDisplayed"`
	MatchesWon       int `json:"matchesWon"`
	FramesWon        int `json:"framesWon"`
	FramesLost       int `json:"framesLost"`
}
