package services

import (
	"log"
	"sort"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/dennisfurrer/rrsb-scoreboard-be/models"
)

// leaderboardLimit is the number of breaks returned per player on the public
// leaderboards.
const leaderboardLimit = 25

// StatsService is the read side: every endpoint derives its response from
// the match log on each request, nothing is cached or rolled up in storage.
type StatsService struct {
	DB           *gorm.DB
	Placeholders PlaceholderConfig
}

func NewStatsService(db *gorm.DB, placeholders PlaceholderConfig) *StatsService {
	return &StatsService{DB: db, Placeholders: placeholders}
}

func internalError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
}

// fetchMatches loads match records ordered oldest-first so break ties keep
// the order they were played in.
func (s *StatsService) fetchMatches(conds ...interface{}) ([]models.Match, error) {
	var matches []models.Match
	db := s.DB.Order("created_at ASC")
	if len(conds) > 0 {
		db = db.Where(conds[0], conds[1:]...)
	}
	err := db.Find(&matches).Error
	return matches, err
}

// GetBreakLeaderboard returns the all-time top breaks per player.
func (s *StatsService) GetBreakLeaderboard(c *fiber.Ctx) error {
	matches, err := s.fetchMatches()
	if err != nil {
		log.Printf("[stats] leaderboard fetch failed: %v", err)
		return internalError(c)
	}
	return c.JSON(fiber.Map{"data": rankHighBreaks(matches, leaderboardLimit, s.Placeholders.IsPlaceholder)})
}

// GetBreaksByDate returns the top breaks per player for one calendar day.
// The date path parameter must be an ISO date (2006-01-02).
func (s *StatsService) GetBreaksByDate(c *fiber.Ctx) error {
	day, err := time.Parse("2006-01-02", c.Params("date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid date, expected YYYY-MM-DD"})
	}
	matches, err := s.fetchMatches("created_at >= ? AND created_at < ?", day, day.AddDate(0, 0, 1))
	if err != nil {
		log.Printf("[stats] breaks for %s fetch failed: %v", day.Format("2006-01-02"), err)
		return internalError(c)
	}
	return c.JSON(fiber.Map{"data": rankHighBreaks(matches, leaderboardLimit, s.Placeholders.IsPlaceholder)})
}

// GetBreaksByYear returns the top breaks per player for one calendar year.
func (s *StatsService) GetBreaksByYear(c *fiber.Ctx) error {
	year, err := strconv.Atoi(c.Params("year"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid year, expected an integer"})
	}
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	matches, err := s.fetchMatches("created_at >= ? AND created_at < ?", from, from.AddDate(1, 0, 0))
	if err != nil {
		log.Printf("[stats] breaks for year %d fetch failed: %v", year, err)
		return internalError(c)
	}
	return c.JSON(fiber.Map{"data": rankHighBreaks(matches, leaderboardLimit, s.Placeholders.IsPlaceholder)})
}

// GetYears lists the calendar years with recorded matches, newest first.
func (s *StatsService) GetYears(c *fiber.Ctx) error {
	var stamps []time.Time
	if err := s.DB.Model(&models.Match{}).Pluck("created_at", &stamps).Error; err != nil {
		log.Printf("[stats] years fetch failed: %v", err)
		return internalError(c)
	}
	seen := make(map[int]bool)
	years := []int{}
	for _, ts := range stamps {
		if y := ts.Year(); !seen[y] {
			seen[y] = true
			years = append(years, y)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return c.JSON(fiber.Map{"data": years})
}

// GetPlayers lists every known (non-placeholder) player name, ascending.
func (s *StatsService) GetPlayers(c *fiber.Ctx) error {
	var slot1, slot2 []string
	if err := s.DB.Model(&models.Match{}).Distinct("player1_name").Pluck("player1_name", &slot1).Error; err != nil {
		log.Printf("[stats] players fetch failed: %v", err)
		return internalError(c)
	}
	if err := s.DB.Model(&models.Match{}).Distinct("player2_name").Pluck("player2_name", &slot2).Error; err != nil {
		log.Printf("[stats] players fetch failed: %v", err)
		return internalError(c)
	}
	seen := make(map[string]bool)
	names := []string{}
	for _, name := range append(slot1, slot2...) {
		if name == "" || seen[name] || s.Placeholders.IsPlaceholder(name) {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	sort.Strings(names)
	return c.JSON(fiber.Map{
		"data":     names,
		"metadata": fiber.Map{"totalPlayers": len(names)},
	})
}

// GetPlayerStats returns the career summary for one player, derived from
// every match the name appears in.
func (s *StatsService) GetPlayerStats(c *fiber.Ctx) error {
	name := c.Params("playerName")
	var matches []models.Match
	err := s.DB.
		Where("player1_name = ? OR player2_name = ?", name, name).
		Order("created_at DESC").
		Find(&matches).Error
	if err != nil {
		log.Printf("[stats] player %q fetch failed: %v", name, err)
		return internalError(c)
	}
	return c.JSON(fiber.Map{"data": careerStats(matches, name)})
}

// GetPlayerMatches returns the deduplicated, paginated match history for one
// player, optionally restricted to one opponent. Phantom records (no frames,
// no breaks) are dropped before deduplication; pagination runs after it so
// page boundaries do not shift with duplicate volume.
func (s *StatsService) GetPlayerMatches(c *fiber.Ctx) error {
	name := c.Params("playerName")
	opponent := c.Query("opponent")

	page := 1
	if raw := c.Query("page"); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid page, expected an integer"})
		}
		if p > 0 {
			page = p
		}
	}
	pageSize := defaultPageSize
	if raw := c.Query("limit"); raw != "" {
		l, err := strconv.Atoi(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid limit, expected an integer"})
		}
		pageSize = clampPageSize(l)
	}

	db := s.DB.Order("created_at DESC")
	if opponent != "" {
		db = db.Where(
			"(player1_name = ? AND player2_name = ?) OR (player1_name = ? AND player2_name = ?)",
			name, opponent, opponent, name,
		)
	} else {
		db = db.Where("player1_name = ? OR player2_name = ?", name, name)
	}
	var candidates []models.Match
	if err := db.Find(&candidates).Error; err != nil {
		log.Printf("[stats] history for %q fetch failed: %v", name, err)
		return internalError(c)
	}

	real := make([]models.Match, 0, len(candidates))
	for _, m := range candidates {
		if !isPhantom(m) {
			real = append(real, m)
		}
	}
	deduped := dedupeMatches(real)

	start, end, meta := paginate(len(deduped), page, pageSize)

	entries := make([]models.MatchHistoryEntry, 0, end-start)
	pageStats := models.PageStats{}
	for _, m := range deduped[start:end] {
		entries = append(entries, models.MatchHistoryEntry{
			ID:            m.ID,
			Player1Name:   m.Player1Name,
			Player2Name:   m.Player2Name,
			Player1Nation: m.Player1Nation,
			Player2Nation: m.Player2Nation,
			BestOf:        m.BestOf,
			FramesPlayer1: m.FramesPlayer1,
			FramesPlayer2: m.FramesPlayer2,
			BreaksPlayer1: topBreaks(m.BreaksPlayer1, 10),
			BreaksPlayer2: topBreaks(m.BreaksPlayer2, 10),
			Winner:        m.Winner,
			TableNumber:   m.TableNumber,
			CreatedAt:     m.CreatedAt,
		})
		pageStats.MatchesDisplayed++
		ownFrames, oppFrames, _, _, ok := playerSlots(m, name)
		if !ok {
			continue
		}
		pageStats.FramesWon += ownFrames
		pageStats.FramesLost += oppFrames
		if m.Winner != nil && *m.Winner == name {
			pageStats.MatchesWon++
		}
	}

	return c.JSON(fiber.Map{
		"data": entries,
		"metadata": fiber.Map{
			"pagination":       meta,
			"currentPageStats": pageStats,
		},
	})
}
