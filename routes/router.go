package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"ctfboard/config"
	"ctfboard/internal/auth"
	"ctfboard/internal/competition"
	"ctfboard/internal/middleware"
	"ctfboard/internal/scoreboard"
	"ctfboard/internal/submission"
	"ctfboard/internal/task"
	"ctfboard/internal/team"
	"ctfboard/pkg/cache"
	"ctfboard/pkg/storage"
)

// SetupRoutes assembles the engine: middleware, swagger, and every feature's
// route group under /api.
func SetupRoutes(db *gorm.DB, appConfig *config.Config, logger *logrus.Logger) (*gin.Engine, error) {
	if appConfig.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(cors.Default()) // allows all origins, GET/POST/PUT

	store, err := storage.NewLocalStore(appConfig.App.UploadDir)
	if err != nil {
		return nil, err
	}

	scoreboardCache := cache.NewScoreboardCache(
		appConfig.Redis.Addr,
		appConfig.Redis.Password,
		appConfig.Redis.DB,
		time.Duration(appConfig.Redis.TTLSeconds)*time.Second,
	)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Swagger route
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API routes
	api := r.Group("/api")
	auth.RegisterAuthRoutes(api, db, appConfig)
	team.TeamRoutes(api, db, appConfig)
	task.TaskRoutes(api, db, appConfig, store, logger)
	competition.CompetitionRoutes(api, db, appConfig)
	submission.SubmissionRoutes(api, db, appConfig, scoreboardCache)
	scoreboard.ScoreboardRoutes(api, db, appConfig, scoreboardCache)

	return r, nil
}
