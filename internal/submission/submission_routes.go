package submission

import (
	"ctfboard/config"
	mw "ctfboard/internal/middleware"
	"ctfboard/internal/team"
	"ctfboard/pkg/cache"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SubmissionRoutes sets up flag submission routes.
func SubmissionRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, scoreboard *cache.ScoreboardCache) {
	submissionRepo := NewSubmissionRepository(db)
	teamRepo := team.NewTeamRepository(db)
	submissionController := NewSubmissionController(submissionRepo, teamRepo, scoreboard)

	authRoutes := router.Group("/")
	authRoutes.Use(mw.AuthMiddleware(appConfig.JWT.Secret, db))
	{
		authRoutes.POST("/competitions/:id/tasks/:task_id/submit", submissionController.SubmitFlag)
		authRoutes.GET("/submissions/mine", submissionController.GetMySolves)
	}
}
