package app

import (
	"trade_edu_backend/docs"
	"trade_edu_backend/internal/config"
	"trade_edu_backend/internal/middleware"
	"trade_edu_backend/internal/model"
	"trade_edu_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由（无需登录）
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
		// 行情组件允许游客访问，带 token 时解析出用户身份
		public.GET("/market/quotes", middleware.TryAuthMiddleware(cfg), c.market.GetQuotes)
	}

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerStudentRoutes(authGroup, c)
		a.registerMentorRoutes(authGroup, c)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.auth.GetProfile)
	rg.PUT("/user/profile", c.user.UpdateProfile)
	rg.POST("/user/avatar/upload", c.user.UploadAvatar)

	// 测验
	rg.GET("/quizzes", c.quiz.ListQuizzes)
	rg.GET("/quizzes/:id", c.quiz.GetQuizForStudent)
	rg.POST("/quizzes/:id/attempts", c.quiz.SubmitAttempt)
	rg.GET("/attempts", c.quiz.ListMyAttempts)

	// 成就
	rg.GET("/achievements", c.achievement.GetUserAchievements)
	rg.GET("/achievements/leaderboard", c.achievement.GetLeaderboard)

	// 学习资料与进度
	rg.GET("/materials", c.content.ListMaterials)
	rg.GET("/materials/:id", c.content.GetMaterial)
	rg.POST("/materials/:id/complete", c.progress.RecordCompletion)
	rg.GET("/progress", c.progress.GetProgress)
}

func (a *App) registerMentorRoutes(rg *gin.RouterGroup, c *controllers) {
	mentor := rg.Group("/mentor")
	mentor.Use(middleware.RoleMiddleware(model.Mentor, model.Admin))
	{
		mentor.POST("/quizzes", c.quiz.CreateQuiz)
		mentor.GET("/quizzes/:id", c.quiz.GetQuizForMentor)
		mentor.PUT("/quizzes/:id", c.quiz.UpdateQuiz)
		mentor.DELETE("/quizzes/:id", c.quiz.DeleteQuiz)
		mentor.POST("/quizzes/:id/questions", c.quiz.CreateQuestion)
		mentor.PUT("/questions/:questionId", c.quiz.UpdateQuestion)
		mentor.DELETE("/questions/:questionId", c.quiz.DeleteQuestion)

		mentor.POST("/materials", c.content.UploadMaterial)
		mentor.DELETE("/materials/:id", c.content.DeleteMaterial)
	}
}
