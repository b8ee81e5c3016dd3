package scoreboard

import (
	"ctfboard/config"
	mw "ctfboard/internal/middleware"
	"ctfboard/pkg/cache"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ScoreboardRoutes sets up the ranking routes.
func ScoreboardRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, scoreboardCache *cache.ScoreboardCache) {
	scoreboardRepo := NewScoreboardRepository(db)
	scoreboardController := NewScoreboardController(scoreboardRepo, scoreboardCache)

	authRoutes := router.Group("/")
	authRoutes.Use(mw.AuthMiddleware(appConfig.JWT.Secret, db))
	{
		authRoutes.GET("/scoreboard", scoreboardController.GetScoreboard)
		authRoutes.GET("/competitions/:id/scoreboard", scoreboardController.GetCompetitionScoreboard)
	}
}
