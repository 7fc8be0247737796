package api

import (
	"github.com/ghzx55/graderevive/internal/auth"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, handler *Handler) {
	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		sessions := v1.Group("/sessions")
		sessions.POST("", handler.CreateSession)
		sessions.GET("/:id", handler.GetSession)
		sessions.DELETE("/:id", handler.DeleteSession)
		sessions.POST("/:id/transcript", handler.UploadTranscript)
		sessions.PATCH("/:id/courses/:course_id", handler.ToggleMajor)
		sessions.PUT("/:id/premium", handler.SetPremium)

		// Retake simulation
		sessions.GET("/:id/retake", handler.GetRetake)
		sessions.PUT("/:id/retake/slots/:slot", handler.UpdateSlot)
		sessions.DELETE("/:id/retake/slots/:slot", handler.ClearSlot)
		sessions.POST("/:id/retake/simulate", handler.Simulate)
		sessions.POST("/:id/retake/reset", handler.Reset)
	}
}

func SetupAccountRoutes(router *gin.Engine, handler *AccountHandler, jwtService *auth.JWTService) {
	router.GET("/health", handler.HealthCheck)

	api := router.Group("/api")
	{
		authGroup := api.Group("/auth")
		authGroup.POST("/signup", handler.Signup)
		authGroup.POST("/login", handler.Login)

		protected := api.Group("")
		protected.Use(AuthMiddleware(jwtService))

		protected.GET("/user", handler.GetUser)
		protected.PUT("/user", handler.UpdateUser)
		protected.DELETE("/user", handler.DeleteUser)

		protected.GET("/user/profile", handler.GetProfile)
		protected.PUT("/user/profile", handler.UpdateProfile)
		protected.DELETE("/user/profile", handler.DeleteProfile)

		protected.GET("/gpa", handler.GetGPA)
		protected.PUT("/gpa", handler.UpdateGPA)
		protected.DELETE("/gpa", handler.DeleteGPA)
	}
}
