package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dennisfurrer/rrsb-scoreboard-be/services"
)

func SetupStatsRoutes(app *fiber.App, statsService *services.StatsService) {
	// Fixed paths before the :date parameter so /breaks/leaderboard and
	// /breaks/year/... are not swallowed by it.
	app.Get("/breaks/leaderboard", statsService.GetBreakLeaderboard)
	app.Get("/breaks/year/:year", statsService.GetBreaksByYear)
	app.Get("/breaks/:date", statsService.GetBreaksByDate)

	app.Get("/data/years", statsService.GetYears)

	app.Get("/players", statsService.GetPlayers)
	app.Get("/players/:playerName", statsService.GetPlayerStats)

	app.Get("/matches/player/:playerName", statsService.GetPlayerMatches)
}
