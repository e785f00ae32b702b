package app

import (
	"classquiz_backend/docs"
	"classquiz_backend/internal/config"
	"classquiz_backend/internal/middleware"
	"classquiz_backend/internal/model"
	"classquiz_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerStudentRoutes(authGroup, c)
		a.registerTeacherRoutes(authGroup, c)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/me", c.auth.Me)
	rg.PUT("/profile", c.user.UpdateProfile)
	rg.POST("/profile/avatar", c.user.UploadAvatar)
	rg.GET("/profile/attempts", c.user.RecentAttempts)

	// 模块浏览与排行榜
	rg.GET("/modules", c.module.List)
	rg.GET("/modules/:id", c.module.Get)
	rg.GET("/modules/:id/leaderboard", c.leaderboard.ForModule)

	// 答题会话：每个用户同一时间只有一个会话
	quiz := rg.Group("/quiz/session")
	{
		quiz.POST("", c.session.Start)
		quiz.GET("", c.session.Snapshot)
		quiz.DELETE("", c.session.Reset)
		quiz.POST("/begin", c.session.Begin)
		quiz.PUT("/answers/:questionId", c.session.SaveAnswer)
		quiz.POST("/submit", c.session.Submit)
		quiz.GET("/result", c.session.Result)
	}
}

func (a *App) registerTeacherRoutes(rg *gin.RouterGroup, c *controllers) {
	teacher := rg.Group("/teacher")
	teacher.Use(middleware.RoleMiddleware(model.Teacher))
	{
		teacher.POST("/modules", c.module.Create)
		teacher.DELETE("/modules", c.module.DeleteBySubject)
		teacher.PUT("/modules/:id", c.module.Update)
		teacher.DELETE("/modules/:id", c.module.Delete)

		teacher.GET("/modules/:id/questions", c.question.ListByModule)
		teacher.POST("/modules/:id/questions", c.question.Create)
		teacher.PUT("/questions/:id", c.question.Update)
		teacher.DELETE("/questions/:id", c.question.Delete)
	}
}
