package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dennisfurrer/rrsb-scoreboard-be/handlers"
	"github.com/dennisfurrer/rrsb-scoreboard-be/models"
	"github.com/dennisfurrer/rrsb-scoreboard-be/services"
	"github.com/dennisfurrer/rrsb-scoreboard-be/utils"
	"github.com/dennisfurrer/rrsb-scoreboard-be/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading environment variables directly")
	}

	app := fiber.New()

	// The scoreboard front-end is served from arbitrary origins (kiosk
	// devices, local dev), so the API answers everyone.
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PATCH,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Device-Token",
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(&models.Match{}); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	archive, err := utils.NewArchiveClient()
	if err != nil {
		log.Fatal("failed to initialize raw log archive:", err)
	}
	if archive == nil {
		log.Println("R2_BUCKET_NAME not set — raw log archiving disabled")
	}

	matchService := services.NewMatchService(db, archive)
	statsService := services.NewStatsService(db, services.PlaceholderConfigFromEnv())

	sweeper := workers.NewStaleMatchSweeper(db)
	sweeper.Start()

	handlers.SetupMatchRoutes(app, matchService)
	handlers.SetupStatsRoutes(app, statsService)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("Server is running on port: %s", port)

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
