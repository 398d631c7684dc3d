package app

import (
	"monsterhouse_backend/docs"
	"monsterhouse_backend/internal/config"
	"monsterhouse_backend/internal/middleware"
	"monsterhouse_backend/internal/model"
	"monsterhouse_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	public.GET("/health", c.health.HealthCheck)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg, a.repos.profile))
	{
		authGroup.GET("/profile", c.profile.GetProfile)
		authGroup.GET("/stats", c.stats.GetStats)
		authGroup.GET("/stats/leaderboard", c.stats.GetLeaderboard)
		authGroup.GET("/achievements", c.achievement.GetUserAchievements)

		a.registerStudentRoutes(authGroup, c)
		a.registerTrainerRoutes(authGroup, c)
		a.registerAdminRoutes(authGroup, c)
	}
}

// registerStudentRoutes 训练相关接口要求账号处于 active 状态
func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	personal := rg.Group("/personal")
	{
		personal.GET("", c.personal.GetLinked)
		personal.POST("/link", c.personal.Link)
		personal.DELETE("/link", c.personal.Unlink)
	}

	active := rg.Group("")
	active.Use(middleware.ActiveMiddleware())
	{
		active.GET("/workouts", c.workout.ListWorkouts)

		sessions := active.Group("/sessions")
		sessions.POST("", c.session.StartSession)
		sessions.GET("/current", c.session.CurrentSession)
		sessions.DELETE("/current", c.session.CloseSession)
		sessions.POST("/current/exercises/:index/toggle", c.session.ToggleExercise)
		sessions.POST("/current/finish", c.session.FinishSession)
		sessions.GET("/history", c.session.History)
	}
}

func (a *App) registerTrainerRoutes(rg *gin.RouterGroup, c *controllers) {
	trainer := rg.Group("/trainer")
	trainer.Use(middleware.RoleMiddleware(model.RolePersonal))
	{
		trainer.GET("/students", c.personal.Students)
		trainer.PUT("/profile", c.personal.UpdateProfile)
		trainer.POST("/photo", c.personal.UploadPhoto)

		trainer.GET("/workouts", c.workout.ListOwnedWorkouts)
		trainer.POST("/workouts", c.workout.CreateWorkout)
		trainer.PUT("/workouts/:id", c.workout.UpdateWorkout)
		trainer.DELETE("/workouts/:id", c.workout.DeleteWorkout)
	}
}

func (a *App) registerAdminRoutes(rg *gin.RouterGroup, c *controllers) {
	admin := rg.Group("/admin")
	admin.Use(middleware.RoleMiddleware(model.RoleAdmin))
	{
		achievements := admin.Group("/achievements")
		achievements.GET("", c.achievement.ListAchievements)
		achievements.POST("", c.achievement.CreateAchievement)
		achievements.PUT("/:id", c.achievement.UpdateAchievement)
		achievements.PATCH("/:id/active", c.achievement.SetAchievementActive)
		achievements.POST("/:id/badge", c.achievement.UploadBadge)
		achievements.POST("/:id/grant", c.achievement.GrantAchievement)

		workouts := admin.Group("/workouts")
		workouts.GET("", c.workout.ListOwnedWorkouts)
		workouts.POST("", c.workout.CreateWorkout)
		workouts.PUT("/:id", c.workout.UpdateWorkout)
		workouts.DELETE("/:id", c.workout.DeleteWorkout)

		students := admin.Group("/students")
		students.GET("", c.profile.ListStudents)
		students.POST("/activate", c.profile.ActivateStudent)
		students.PUT("/:id", c.profile.UpdateStudent)

		trainers := admin.Group("/trainers")
		trainers.GET("", c.personal.ListTrainers)
		trainers.POST("", c.personal.CreateTrainer)
	}
}
