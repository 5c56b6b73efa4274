package app

import (
	"dream_site_backend/docs"
	"dream_site_backend/internal/config"
	"dream_site_backend/internal/middleware"
	"dream_site_backend/internal/model"
	"dream_site_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.HealthCheck)

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c)

	// 2. 测评
	a.registerAuditRoutes(router, c)

	// 3. 后台
	a.registerAdminRoutes(router, c, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/r/:code", c.affiliate.TrackReferral)

		public.GET("/projects", c.content.ListProjects)
		public.GET("/projects/:slug", c.content.GetProject)
		public.GET("/blog", c.content.ListPosts)
		public.GET("/blog/:slug", c.content.GetPost)
		public.GET("/services", c.content.ListServices)
		public.GET("/services/:slug", c.content.GetService)

		public.POST("/contact", c.contact.SubmitContact)
		public.POST("/newsletter/subscribe", c.newsletter.Subscribe)
		public.POST("/newsletter/unsubscribe", c.newsletter.Unsubscribe)
	}
}

func (a *App) registerAuditRoutes(router *gin.Engine, c *controllers) {
	audit := router.Group("/api/audit")
	{
		audit.GET("/tiers", c.assessment.ListTiers)
		audit.GET("/questions", c.assessment.GetQuestions)
		audit.POST("/start", c.assessment.StartAssessment)
		audit.POST("/preview", c.assessment.Preview)
		audit.PUT("/:token/answers", c.assessment.SaveAnswers)
		audit.POST("/:token/complete", c.assessment.CompleteAssessment)
		audit.GET("/:token/result", c.assessment.GetResult)
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.POST("/api/admin/login", c.auth.Login)

	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Editor))
	{
		admin.GET("/profile", c.auth.Profile)
		admin.GET("/dashboard", c.dashboard.GetDashboard)

		// 测评
		admin.GET("/assessments", c.assessment.AdminListAssessments)
		admin.GET("/assessments/:id", c.assessment.AdminGetAssessment)
		admin.POST("/assessments/:id/strategy", c.assessment.AdminRegenerateStrategy)

		// 内容
		admin.GET("/projects", c.content.AdminListProjects)
		admin.POST("/projects", c.content.CreateProject)
		admin.PUT("/projects/:id", c.content.UpdateProject)
		admin.DELETE("/projects/:id", c.content.DeleteProject)
		admin.GET("/blog", c.content.AdminListPosts)
		admin.POST("/blog", c.content.CreatePost)
		admin.PUT("/blog/:id", c.content.UpdatePost)
		admin.DELETE("/blog/:id", c.content.DeletePost)
		admin.GET("/services", c.content.AdminListServices)
		admin.POST("/services", c.content.CreateService)
		admin.PUT("/services/:id", c.content.UpdateService)
		admin.DELETE("/services/:id", c.content.DeleteService)
		admin.POST("/media", c.content.UploadMedia)

		// 线索
		admin.GET("/contacts", c.contact.ListContacts)
		admin.PATCH("/contacts/:id/status", c.contact.UpdateContactStatus)
		admin.GET("/subscribers", c.newsletter.ListSubscribers)
	}

	// 删除数据和推广伙伴管理仅限管理员
	adminOnly := router.Group("/api/admin")
	adminOnly.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		adminOnly.DELETE("/assessments/:id", c.assessment.AdminDeleteAssessment)
		adminOnly.DELETE("/contacts/:id", c.contact.DeleteContact)

		adminOnly.GET("/affiliates", c.affiliate.ListAffiliates)
		adminOnly.POST("/affiliates", c.affiliate.CreateAffiliate)
		adminOnly.GET("/affiliates/:id", c.affiliate.GetAffiliate)
		adminOnly.PUT("/affiliates/:id", c.affiliate.UpdateAffiliate)
		adminOnly.DELETE("/affiliates/:id", c.affiliate.DeleteAffiliate)
		adminOnly.GET("/affiliates/:id/stats", c.affiliate.GetAffiliateStats)
	}
}
