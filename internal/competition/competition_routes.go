package competition

import (
	"ctfboard/config"
	mw "ctfboard/internal/middleware"
	"ctfboard/internal/team"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CompetitionRoutes sets up competition browsing for players and
// competition/binding administration for admins.
func CompetitionRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config) {
	compRepo := NewCompetitionRepository(db)
	teamRepo := team.NewTeamRepository(db)
	compController := NewCompetitionController(compRepo, teamRepo)

	authRoutes := router.Group("/")
	authRoutes.Use(mw.AuthMiddleware(appConfig.JWT.Secret, db))
	{
		authRoutes.GET("/competitions", compController.ListCompetitions)
		authRoutes.GET("/competitions/:id", compController.GetCompetition)
		authRoutes.GET("/competitions/:id/tasks", compController.ListTasks)
	}

	adminRoutes := router.Group("/")
	adminRoutes.Use(mw.AuthMiddleware(appConfig.JWT.Secret, db), mw.AdminMiddleware())
	{
		adminRoutes.POST("/competitions", compController.CreateCompetition)
		adminRoutes.DELETE("/competitions/:id", compController.DeleteCompetition)
		adminRoutes.POST("/competitions/:id/tasks", compController.BindTask)
		adminRoutes.PUT("/competitions/:id/tasks/:task_id", compController.UpdateScore)
		adminRoutes.DELETE("/competitions/:id/tasks/:task_id", compController.UnbindTask)
	}
}
