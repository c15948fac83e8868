package routes

import (
	"database/sql"

	"attendance_app_backend/handlers"
	"attendance_app_backend/middleware"
	"attendance_app_backend/sessions"

	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all the routes for the application
func SetupRoutes(r *gin.Engine, db *sql.DB, jwtSecret []byte, manager *sessions.Manager, studentURL string) {
	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, jwtSecret)
	classHandler := handlers.NewClassHandler(db)
	attendanceHandler := handlers.NewAttendanceHandler(db)
	qrHandler := handlers.NewQRSessionHandler(manager, studentURL)
	healthHandler := handlers.NewHealthHandler(db)

	// Public routes
	r.GET("/health", healthHandler.HealthCheck)
	r.POST("/faculty/login", authHandler.Login)
	r.POST("/faculty/refresh", authHandler.RefreshToken)

	// Student-facing routes: reached from a scanned QR, no login
	r.GET("/qr/validate", qrHandler.ValidateQR)
	r.GET("/qr/class-info", qrHandler.ClassInfo)
	r.POST("/qr/submit", qrHandler.SubmitQR)

	// Protected routes
	protected := r.Group("/")
	protected.Use(middleware.AuthMiddleware(jwtSecret))
	{
		// Class routes
		protected.POST("/classes", classHandler.CreateClass)
		protected.GET("/classes", classHandler.GetClasses)
		protected.DELETE("/classes/:id", classHandler.DeleteClass)

		// Manual attendance routes
		protected.POST("/classes/:id/attendance", attendanceHandler.SaveAttendance)
		protected.PUT("/classes/:id/attendance", attendanceHandler.UpdateAttendance)
		protected.GET("/attendance/history/:id", attendanceHandler.GetHistory)
		protected.GET("/attendance/pivot/:id", attendanceHandler.GetPivot)

		// Check-in session routes
		protected.GET("/qr/generate", qrHandler.GenerateQR)
		protected.GET("/qr/status", qrHandler.StatusQR)
		protected.POST("/qr/cancel", qrHandler.CancelQR)

		// Logout route
		protected.POST("/faculty/logout", authHandler.Logout)
	}
}
