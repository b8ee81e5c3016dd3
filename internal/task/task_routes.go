package task

import (
	"ctfboard/config"
	mw "ctfboard/internal/middleware"
	"ctfboard/pkg/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// TaskRoutes sets up catalog administration and attachment download routes.
// Catalog mutation is admin-only; downloads require authentication.
func TaskRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, store storage.Store, logger *logrus.Logger) {
	taskRepo := NewTaskRepository(db)
	taskController := NewTaskController(taskRepo, store, logger)

	authRoutes := router.Group("/")
	authRoutes.Use(mw.AuthMiddleware(appConfig.JWT.Secret, db))
	{
		authRoutes.GET("/files/:name", taskController.DownloadFile)
	}

	adminRoutes := router.Group("/")
	adminRoutes.Use(mw.AuthMiddleware(appConfig.JWT.Secret, db), mw.AdminMiddleware())
	{
		adminRoutes.POST("/tasks", taskController.CreateTask)
		adminRoutes.GET("/tasks", taskController.ListTasks)
		adminRoutes.GET("/tasks/:id", taskController.GetTask)
		adminRoutes.PUT("/tasks/:id", taskController.UpdateTask)
		adminRoutes.DELETE("/tasks/:id", taskController.DeleteTask)

		adminRoutes.POST("/categories", taskController.CreateCategory)
		adminRoutes.GET("/categories", taskController.ListCategories)
		adminRoutes.DELETE("/categories/:id", taskController.DeleteCategory)
	}
}
