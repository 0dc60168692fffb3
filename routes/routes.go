package routes

import (
	"admissions-api/controllers"
	"admissions-api/middleware"
	"admissions-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			// Authentication
			public.POST("/admin/login", controllers.AdminLogin)
			public.POST("/candidates/login", controllers.CandidateLogin)
			public.POST("/candidates/register", controllers.RegisterCandidate)

			// Registration form lookups
			public.GET("/faculties", controllers.ListFaculties)
			public.GET("/programmes", controllers.ListProgrammes)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Admissions API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Candidate self-service
			me := protected.Group("/me", middleware.RequireCandidate())
			{
				me.GET("/status", controllers.GetRegistrationStatus)
				me.PUT("/biodata", controllers.UpdateBiodata)
				me.PUT("/education", controllers.UpdateEducation)
				me.PUT("/next-of-kin", controllers.UpdateNextOfKin)
				me.PUT("/sponsor", controllers.UpdateSponsor)
				me.PUT("/programme", controllers.ChooseProgramme)

				me.GET("/documents", controllers.ListMyDocuments)
				me.POST("/documents", controllers.UploadDocument)
				me.DELETE("/documents/:id", controllers.DeleteDocument)

				me.GET("/payments", controllers.ListMyPayments)
				me.POST("/payments", controllers.InitializePayment)
				me.GET("/payments/:reference/verify", controllers.VerifyPayment)
			}

			// Payment purposes visible to any authenticated actor
			protected.GET("/payment-purposes", controllers.ListPaymentPurposes)

			// Document download (owner or any admin)
			protected.GET("/documents/:id/download", controllers.DownloadDocument)

			// Back office: operators and admins
			staff := protected.Group("", middleware.RequireRole(models.RoleAdmin, models.RoleOperator))
			{
				candidates := staff.Group("/candidates")
				{
					candidates.GET("", controllers.ListCandidates)
					candidates.GET("/:id", controllers.GetCandidate)
					candidates.PUT("/:id", controllers.UpdateCandidate)
				}

				uploads := staff.Group("/uploads")
				{
					uploads.POST("", controllers.UploadCandidateFile)
					uploads.GET("", controllers.ListUploadBatches)
					uploads.GET("/:id", controllers.GetUploadBatch)
					uploads.POST("/:id/retry", controllers.RetryUploadBatch)
				}

				staff.GET("/payments", controllers.ListPayments)

				dashboard := staff.Group("/dashboard")
				{
					dashboard.GET("/stats", controllers.GetDashboardStats)
				}
			}

			// Admin only
			admin := protected.Group("", middleware.RequireRole(models.RoleAdmin))
			{
				admin.DELETE("/candidates/:id", controllers.DeleteCandidate)

				admin.POST("/faculties", controllers.CreateFaculty)
				admin.PUT("/faculties/:id", controllers.UpdateFaculty)
				admin.DELETE("/faculties/:id", controllers.DeleteFaculty)

				admin.POST("/departments", controllers.CreateDepartment)
				admin.PUT("/departments/:id", controllers.UpdateDepartment)
				admin.DELETE("/departments/:id", controllers.DeleteDepartment)

				admin.POST("/programmes", controllers.CreateProgramme)
				admin.PUT("/programmes/:id", controllers.UpdateProgramme)
				admin.DELETE("/programmes/:id", controllers.DeleteProgramme)

				admin.POST("/payment-purposes", controllers.CreatePaymentPurpose)
				admin.PUT("/payment-purposes/:id", controllers.UpdatePaymentPurpose)

				admin.GET("/audit-logs", controllers.ListAuditLogs)
			}
		}
	}
}
