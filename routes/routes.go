package routes

import (
	"github.com/gin-gonic/gin"

	"elearning_app/handlers"
	"elearning_app/services"
)

type Dependencies struct {
	Content *services.ContentService
	Admin   *services.AdminService
	DB      handlers.Pinger
}

// SetupRoutes configures all the routes for the application
func SetupRoutes(r *gin.Engine, deps Dependencies) {
	// Initialize handlers
	contentHandler := handlers.NewContentHandler(deps.Content)
	authHandler := handlers.NewAuthHandler(deps.Admin)
	lessonHandler := handlers.NewLessonHandler(deps.Content)
	questionHandler := handlers.NewQuestionHandler(deps.Content)
	healthHandler := handlers.NewHealthHandler(deps.DB)

	api := r.Group("/api")
	{
		// Learner content
		api.GET("/content", contentHandler.GetContent)
		api.GET("/health", healthHandler.HealthCheck)

		// Admin
		api.POST("/login", authHandler.Login)

		api.POST("/lessons", lessonHandler.CreateLesson)
		api.DELETE("/lessons/:id", lessonHandler.DeleteLesson)

		api.POST("/questions", questionHandler.CreateQuestion)
		api.DELETE("/questions/:id", questionHandler.DeleteQuestion)
	}

	r.NoRoute(handlers.NotFound)
}
