package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/avolkov/lms-backend/internal/app/controllers"
	"github.com/avolkov/lms-backend/internal/app/models/dto"
	"github.com/avolkov/lms-backend/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	userController *controllers.UserController,
	mediaController *controllers.MediaController,
	sectionController *controllers.SectionController,
	materialController *controllers.MaterialController,
	testController *controllers.TestController,
	paymentController *controllers.PaymentController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public catalog routes ---
	sections := v1.Group("/sections")
	{
		sections.GET("", sectionController.GetAllSections)
		sections.GET("/:id", sectionController.GetSection)
		sections.GET("/:id/materials", sectionController.GetSectionMaterials)
	}

	materials := v1.Group("/materials")
	{
		materials.GET("", materialController.GetAllMaterials)
		materials.GET("/:id", materialController.GetMaterial)
	}

	media := v1.Group("/media")
	{
		media.GET("", mediaController.GetAllMedia)
		media.GET("/:id", mediaController.GetMedia)
	}

	// --- Public auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", userController.Register)
		auth.POST("/login", userController.Login)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		// Profile
		users := authenticated.Group("/users")
		{
			users.GET("/me", userController.GetProfile)
			users.PUT("/me", userController.UpdateProfile)
			users.DELETE("/me", userController.DeleteProfile)
		}

		// Catalog mutations
		sectionsProtected := authenticated.Group("/sections")
		{
			sectionsProtected.POST("", sectionController.CreateSection)
			sectionsProtected.PUT("/:id", sectionController.UpdateSection)
			sectionsProtected.DELETE("/:id", sectionController.DeleteSection)
			sectionsProtected.POST("/:id/media/:mediaId", sectionController.AttachMedia)
			sectionsProtected.DELETE("/:id/media/:mediaId", sectionController.DetachMedia)

			// Purchasing
			sectionsProtected.POST("/:id/pay", sectionController.PaySection)
		}

		materialsProtected := authenticated.Group("/materials")
		{
			materialsProtected.POST("", materialController.CreateMaterial)
			materialsProtected.PUT("/:id", materialController.UpdateMaterial)
			materialsProtected.DELETE("/:id", materialController.DeleteMaterial)
			materialsProtected.POST("/:id/media/:mediaId", materialController.AttachMedia)
			materialsProtected.DELETE("/:id/media/:mediaId", materialController.DetachMedia)

			// Taking the test attached to a material
			materialsProtected.GET("/:id/test/start", testController.StartTest)
		}

		mediaProtected := authenticated.Group("/media")
		{
			mediaProtected.POST("", mediaController.CreateMedia)
			mediaProtected.POST("/upload", mediaController.UploadMedia)
			mediaProtected.PUT("/:id", mediaController.UpdateMedia)
			mediaProtected.DELETE("/:id", mediaController.DeleteMedia)
		}

		// Tests, questions and answer options
		tests := authenticated.Group("/tests")
		{
			tests.GET("/:id", testController.GetTest)
			tests.POST("", testController.CreateTest)
			tests.DELETE("/:id", testController.DeleteTest)
			tests.POST("/:id/questions/:questionId", testController.AddQuestion)
			tests.DELETE("/:id/questions/:questionId", testController.RemoveQuestion)
		}
		authenticated.POST("/questions", testController.CreateQuestion)
		authenticated.POST("/answers", testController.CreateAnswer)

		// Payment ledger
		payments := authenticated.Group("/payments")
		{
			payments.GET("", paymentController.GetMyPayments)
			payments.GET("/:id", paymentController.GetPayment)
			payments.POST("/:id/installments", paymentController.PayInstallment)
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data: gin.H{"status": "ok"},
		})
	})
}
