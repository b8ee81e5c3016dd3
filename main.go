package main

import (
	"github.com/sirupsen/logrus"

	"ctfboard/config"
	"ctfboard/internal/competition"
	"ctfboard/internal/submission"
	"ctfboard/internal/task"
	"ctfboard/internal/team"
	"ctfboard/internal/user"
	"ctfboard/routes"
)

// @title CTFBoard REST API
// @version 1.0
// @description Competition platform: teams, tasks, flag submissions and rankings.
// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	if err := config.Initialize(); err != nil {
		logger.Fatalf("Failed to initialize application: %v", err)
	}

	cfg := config.GetConfig()
	if cfg.App.Env != "production" {
		logger.SetLevel(logrus.DebugLevel)
	}

	err := config.DB.AutoMigrate(
		&user.User{},
		&team.Team{}, &team.TeamMember{},
		&task.Task{}, &task.Category{},
		&competition.Competition{}, &competition.CompetitionTask{},
		&submission.FlagSubmission{},
	)
	if err != nil {
		logger.Fatalf("AutoMigrate failed: %v", err)
	}
	logger.Info("AutoMigrate successful")

	r, err := routes.SetupRoutes(config.DB, cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to set up routes: %v", err)
	}

	logger.Infof("Starting server on port %s in %s mode", cfg.App.Port, cfg.App.Env)
	if err := r.Run(":" + cfg.App.Port); err != nil {
		logger.Fatalf("Failed to run server: %v", err)
	}
}
