// workers/stale_matches.go
package workers

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"

	"github.com/dennisfurrer/rrsb-scoreboard-be/models"
)

// StaleMatchSweeper closes live matches the scoreboard device abandoned
// (powered off mid-frame, network drop) so /api/matches/live stays truthful.
// A match is stale once it has seen no update for the idle window.
type StaleMatchSweeper struct {
	DB        *gorm.DB
	IdleAfter time.Duration
}

// NewStaleMatchSweeper reads STALE_MATCH_MINUTES (default 120).
func NewStaleMatchSweeper(db *gorm.DB) *StaleMatchSweeper {
	idleMinutes := 120
	if raw := os.Getenv("STALE_MATCH_MINUTES"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			idleMinutes = n
		}
	}
	return &StaleMatchSweeper{DB: db, IdleAfter: time.Duration(idleMinutes) * time.Minute}
}

// Start runs the sweep every minute.
func (w *StaleMatchSweeper) Start() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			if err := w.Sweep(); err != nil {
				log.Printf("[sweeper] failed to close stale matches: %v", err)
			}
		}),
	)
}

// Sweep marks every active match past the idle window inactive.
func (w *StaleMatchSweeper) Sweep() error {
	cutoff := time.Now().Add(-w.IdleAfter)
	res := w.DB.Model(&models.Match{}).
		Where("active = ? AND updated_at < ?", true, cutoff).
		Update("active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		log.Printf("[sweeper] closed %d stale match(es)", res.RowsAffected)
	}
	return nil
}
