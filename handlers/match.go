package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dennisfurrer/rrsb-scoreboard-be/middleware"
	"github.com/dennisfurrer/rrsb-scoreboard-be/services"
)

func SetupMatchRoutes(app *fiber.App, matchService *services.MatchService) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("RRSB Scoreboard API")
	})

	app.Get("/api/matches/live", matchService.GetLiveMatches)

	// Mutating ingestion routes — device token enforced when configured
	device := app.Group("/", middleware.DeviceAuthMiddleware())
	device.Post("/api/matches", matchService.CreateMatch)
	device.Patch("/api/matches", matchService.UpsertLiveMatch)
}
