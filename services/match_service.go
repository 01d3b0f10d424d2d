package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dennisfurrer/rrsb-scoreboard-be/models"
	"github.com/dennisfurrer/rrsb-scoreboard-be/utils"
)

// EndMatchEvent is the live-update event type that concludes a match.
const EndMatchEvent = "END_MATCH"

// MatchService is the ingestion side: it shapes raw scoreboard submissions
// into match records. Persistence is best-effort — the scoreboard device
// always gets a success response, failures are only logged (see the raw log
// archive for replay).
type MatchService struct {
	DB         *gorm.DB
	Archive    *utils.ArchiveClient
	TableCount int
}

func NewMatchService(db *gorm.DB, archive *utils.ArchiveClient) *MatchService {
	tableCount := 2
	if raw := os.Getenv("TABLE_COUNT"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			tableCount = n
		}
	}
	return &MatchService{DB: db, Archive: archive, TableCount: tableCount}
}

type playerPayload struct {
	Name           string `json:"name"`
	Frames         int    `json:"frames"`
	HighBreaks     []int  `json:"highbreaks"`
	Winner         bool   `json:"winner"`
	NationalityIOC string `json:"nationalityIOC"`
}

type createMatchRequest struct {
	Players     []playerPayload `json:"players"`
	BestOf      int             `json:"bestOf"`
	TableNumber *int            `json:"tableNumber"`
}

type liveMatchRequest struct {
	MatchState struct {
		MatchID     string          `json:"matchId"`
		BestOf      int             `json:"bestOf"`
		TableNumber *int            `json:"tableNumber"`
		Players     []playerPayload `json:"players"`
	} `json:"matchState"`
	Type string `json:"type"`
}

func ingestSuccess(c *fiber.Ctx, matchID string) error {
	return c.JSON(fiber.Map{"data": fiber.Map{"matchId": matchID}})
}

// winnerName derives the winner from the payload: the first player marked
// winner, or nil while the match is undecided.
func winnerName(players []playerPayload) *string {
	for _, p := range players {
		if p.Winner {
			name := p.Name
			return &name
		}
	}
	return nil
}

func breakList(breaks []int) models.IntList {
	if breaks == nil {
		return models.IntList{}
	}
	return models.IntList(breaks)
}

// CreateMatch ingests a finalized match from the scoreboard. The response is
// a success regardless of persistence outcome so the device UI never blocks
// on a backend hiccup.
func (s *MatchService) CreateMatch(c *fiber.Ctx) error {
	rawLog := string(c.Body())

	var req createMatchRequest
	if err := c.BodyParser(&req); err != nil || len(req.Players) < 2 {
		log.Printf("[ingest] dropping malformed match submission: %v", err)
		return ingestSuccess(c, "")
	}

	match := models.Match{
		ID:            uuid.NewString(),
		Player1Name:   req.Players[0].Name,
		Player2Name:   req.Players[1].Name,
		Player1Nation: req.Players[0].NationalityIOC,
		Player2Nation: req.Players[1].NationalityIOC,
		BestOf:        req.BestOf,
		FramesPlayer1: req.Players[0].Frames,
		FramesPlayer2: req.Players[1].Frames,
		BreaksPlayer1: breakList(req.Players[0].HighBreaks),
		BreaksPlayer2: breakList(req.Players[1].HighBreaks),
		Winner:        winnerName(req.Players),
		Active:        false,
		TableNumber:   req.TableNumber,
		RawGameLog:    rawLog,
	}

	if err := s.DB.Create(&match).Error; err != nil {
		log.Printf("[ingest] failed to store match record: %v", err)
	}
	s.archiveRawLog(match, rawLog)

	return ingestSuccess(c, match.ID)
}

// UpsertLiveMatch creates or updates a live match keyed by the caller's
// match id. Submissions carry full state, so break lists and frame counts
// are replaced, not merged; a concurrent update to the same id is
// last-write-wins.
func (s *MatchService) UpsertLiveMatch(c *fiber.Ctx) error {
	rawLog := string(c.Body())

	var req liveMatchRequest
	if err := c.BodyParser(&req); err != nil || len(req.MatchState.Players) < 2 {
		log.Printf("[ingest] dropping malformed live match update: %v", err)
		return ingestSuccess(c, "")
	}

	matchID := req.MatchState.MatchID
	if matchID == "" {
		matchID = uuid.NewString()
	}
	state := req.MatchState

	var match models.Match
	err := s.DB.First(&match, "id = ?", matchID).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("[ingest] failed to look up match %s: %v", matchID, err)
		return ingestSuccess(c, matchID)
	}

	match.ID = matchID
	match.Player1Name = state.Players[0].Name
	match.Player2Name = state.Players[1].Name
	match.Player1Nation = state.Players[0].NationalityIOC
	match.Player2Nation = state.Players[1].NationalityIOC
	match.BestOf = state.BestOf
	match.FramesPlayer1 = state.Players[0].Frames
	match.FramesPlayer2 = state.Players[1].Frames
	match.BreaksPlayer1 = breakList(state.Players[0].HighBreaks)
	match.BreaksPlayer2 = breakList(state.Players[1].HighBreaks)
	match.Winner = winnerName(state.Players)
	match.Active = req.Type != EndMatchEvent
	match.TableNumber = state.TableNumber
	match.RawGameLog = rawLog
	match.UpdatedAt = time.Time{} // force a fresh autoUpdateTime

	if err := s.DB.Clauses(clause.OnConflict{UpdateAll: true}).Create(&match).Error; err != nil {
		log.Printf("[ingest] failed to upsert match %s: %v", matchID, err)
	}
	if req.Type == EndMatchEvent {
		s.archiveRawLog(match, rawLog)
	}

	return ingestSuccess(c, matchID)
}

// archiveRawLog pushes the verbatim payload to R2, best-effort.
func (s *MatchService) archiveRawLog(match models.Match, rawLog string) {
	if s.Archive == nil {
		return
	}
	key := fmt.Sprintf("matchlogs/%s/%s-vs-%s-%s.json",
		time.Now().UTC().Format("2006-01-02"),
		slug.Make(match.Player1Name), slug.Make(match.Player2Name), match.ID)
	if err := s.Archive.UploadRawLog(context.Background(), key, []byte(rawLog)); err != nil {
		log.Printf("[ingest] raw log archive failed for match %s: %v", match.ID, err)
	}
}

// GetLiveMatches returns the most recently updated active match per table,
// for tables 1..TableCount.
func (s *MatchService) GetLiveMatches(c *fiber.Ctx) error {
	live := []models.Match{}
	for table := 1; table <= s.TableCount; table++ {
		var match models.Match
		err := s.DB.
			Where("active = ? AND table_number = ?", true, table).
			Order("updated_at DESC").
			First(&match).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			log.Printf("[ingest] live match lookup failed for table %d: %v", table, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
		}
		live = append(live, match)
	}
	return c.JSON(fiber.Map{"data": live})
}
