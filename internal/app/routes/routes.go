package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/isms-esp/diploma-registry/internal/app/controllers"
	"github.com/isms-esp/diploma-registry/internal/app/models"
	"github.com/isms-esp/diploma-registry/internal/middleware"
	"github.com/isms-esp/diploma-registry/internal/pkg/ratelimit"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	studentController *controllers.StudentController,
	catalogController *controllers.CatalogController,
	structureController *controllers.StructureController,
	diplomaController *controllers.DiplomaController,
	verificationController *controllers.VerificationController,
	authMiddleware *middleware.AuthMiddleware,
	verifyLimiter *ratelimit.Limiter,
	events middleware.EventRecorder,
) {
	v1 := router.Group("/api/v1")

	// --- Public verification routes ---
	// Rate limited per source IP; responses are never cached so a
	// revocation is visible on the next check.
	public := v1.Group("")
	public.Use(middleware.NoStore(), middleware.RateLimit(verifyLimiter, events))
	{
		public.GET("/verify/:verificationId", verificationController.VerifyToken)
		public.POST("/verify-file", verificationController.VerifyFile)
	}

	// --- Public auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
	}

	// --- Authenticated admin routes ---
	admin := v1.Group("")
	admin.Use(authMiddleware.JWTAuth(), authMiddleware.RoleRequired(models.RoleAdmin))
	{
		students := admin.Group("/students")
		{
			students.GET("", studentController.List)
			students.POST("", studentController.Create)
			students.GET("/excel-template", studentController.Template)
			students.POST("/import-excel", studentController.ImportRoster)
			students.GET("/:id", studentController.GetByID)
			students.PUT("/:id", studentController.Update)
			students.DELETE("/:id", studentController.Delete)
		}

		programs := admin.Group("/programs")
		{
			programs.GET("", catalogController.ListPrograms)
			programs.POST("", catalogController.CreateProgram)
			programs.PUT("/:id", catalogController.UpdateProgram)
			programs.DELETE("/:id", catalogController.DeleteProgram)
		}

		years := admin.Group("/academic-years")
		{
			years.GET("", catalogController.ListAcademicYears)
			years.POST("", catalogController.CreateAcademicYear)
			years.DELETE("/:id", catalogController.DeleteAcademicYear)
		}

		structure := admin.Group("/structure")
		{
			structure.GET("", structureController.Get)
			structure.PUT("", structureController.Save)
		}

		diplomas := admin.Group("/diplomas")
		{
			diplomas.GET("", diplomaController.List)
			diplomas.GET("/:id", diplomaController.GetByID)
			diplomas.POST("/generate/:studentId", diplomaController.Generate)
			diplomas.POST("/generate-by-program", diplomaController.GenerateByProgram)
			diplomas.GET("/download/:verificationId", diplomaController.Download)
			diplomas.POST("/:id/cancel", diplomaController.Cancel)
			diplomas.POST("/:id/uncancel", diplomaController.Reinstate)
		}

		admin.GET("/verifications", verificationController.ListEvents)
		admin.GET("/dashboard-stats", verificationController.DashboardStats)
	}
}
