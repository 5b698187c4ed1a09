package handlers

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/job-portal/internal/services"
	"gorm.io/gorm"
)

// Deps is what the router wires into handlers.
type Deps struct {
	DB           *gorm.DB
	Auth         *services.AuthService
	Jobs         *services.JobService
	Applications *services.ApplicationService
	Captures     *services.CaptureService
	LLM          *services.LLMService

	CORSOrigins  []string
	MediaDir     string
	MediaBaseURL string
}

// NewRouter builds the gin engine with every route of the API.
func NewRouter(d Deps) *gin.Engine {
	r := gin.Default()

	config := cors.DefaultConfig()
	if len(d.CORSOrigins) == 0 {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = d.CORSOrigins
	}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(config))

	if d.MediaDir != "" && d.MediaBaseURL != "" {
		r.Static(d.MediaBaseURL, d.MediaDir)
	}

	authHandler := NewAuthHandler(d.Auth)
	jobHandler := NewJobHandler(d.LLM, d.Jobs, d.Applications)
	applicationHandler := NewApplicationHandler(d.Applications)
	captureHandler := NewCaptureHandler(d.Captures)

	requireAuth := RequireAuth(d.Auth)
	optionalAuth := OptionalAuth(d.Auth)

	api := r.Group("/api/v1")
	{
		api.GET("/health", HealthCheck(d.DB))

		api.POST("/auth/signup", authHandler.SignUp)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/logout", requireAuth, authHandler.Logout)
		api.GET("/me", requireAuth, authHandler.Me)
		api.GET("/navigation", optionalAuth, Navigation)

		api.GET("/jobs", jobHandler.ListJobs)
		api.GET("/jobs/:id", optionalAuth, jobHandler.GetJob)
		api.GET("/jobs/:id/applied", requireAuth, jobHandler.HasApplied)

		applications := api.Group("/applications", requireAuth)
		applications.POST("", applicationHandler.Submit)
		applications.GET("/mine", applicationHandler.Mine)

		sessions := api.Group("/capture/sessions", requireAuth)
		sessions.POST("", captureHandler.Start)
		sessions.GET("/:id", captureHandler.Get)
		sessions.POST("/:id/frames", captureHandler.Frame)
		sessions.DELETE("/:id", captureHandler.Cancel)

		admin := api.Group("/admin", requireAuth, RequireAdmin())
		admin.GET("/jobs", jobHandler.ListAllJobs)
		admin.GET("/jobs/mine", jobHandler.ListMyJobs)
		admin.POST("/jobs", jobHandler.CreateJob)
		admin.POST("/jobs/extract", jobHandler.ParseJob)
		admin.PATCH("/jobs/:id", jobHandler.UpdateJob)
		admin.DELETE("/jobs/:id", jobHandler.DeleteJob)
		admin.GET("/jobs/:id/candidates", jobHandler.Candidates)
		admin.POST("/jobs/:id/candidates/status", jobHandler.BulkCandidateStatus)
		admin.PATCH("/applications/:id/status", applicationHandler.UpdateStatus)
	}

	return r
}
