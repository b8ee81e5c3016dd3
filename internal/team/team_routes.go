package team

import (
	"ctfboard/config"
	mw "ctfboard/internal/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// TeamRoutes sets up team signup routes. All of them require authentication;
// team membership itself is the gate for the rest of a competition.
func TeamRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config) {
	teamRepo := NewTeamRepository(db)
	teamController := NewTeamController(teamRepo)

	authRoutes := router.Group("/")
	authRoutes.Use(mw.AuthMiddleware(appConfig.JWT.Secret, db))
	{
		authRoutes.POST("/competitions/:id/team", teamController.Signup)
		authRoutes.GET("/competitions/:id/team", teamController.GetMyTeam)
	}
}
