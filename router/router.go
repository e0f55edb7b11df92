package router

import (
	"net/http"
	"time"

	"protrack/api"
	"protrack/config"
	_ "protrack/docs"
	"protrack/middleware"
	"protrack/schema"
	"protrack/service"
	"protrack/store"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// 登录限流：每 IP 每分钟最多 10 次
const (
	loginMaxAttempts = 10
	loginWindow      = time.Minute
)

// Deps 路由依赖
type Deps struct {
	Store     store.Store
	Tracker   *service.Tracker
	Mailer    api.ResetMailer
	Validator *schema.Validator
}

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, deps Deps) *gin.Engine {
	// 设置运行模式
	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()

	// CORS 中间件
	r.Use(CORSMiddleware())

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		// 认证相关路由（无需登录）
		authHandler := api.NewAuthHandler(cfg, deps.Store, deps.Mailer)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", middleware.LoginRateLimit(loginMaxAttempts, loginWindow), authHandler.Login)
			auth.POST("/password/request-reset", authHandler.RequestPasswordReset)
			auth.POST("/password/reset", authHandler.ResetPassword)
		}

		// 预置类别（无需登录）
		v1.GET("/taxonomy", api.NewTaxonomyHandler(deps.Tracker).Get)

		// 需要 JWT 认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth())
		{
			// 用户相关
			authorized.GET("/auth/profile", authHandler.GetProfile)
			authorized.PUT("/auth/password", authHandler.ChangePassword)

			// 消费记录
			expenseHandler := api.NewExpenseHandler(deps.Tracker)
			expenses := authorized.Group("/expenses")
			{
				expenses.POST("", expenseHandler.Create)
				expenses.GET("", expenseHandler.List)
				expenses.GET("/top", expenseHandler.Top)
				expenses.GET("/:id", expenseHandler.Get)
				expenses.PUT("/:id", expenseHandler.Update)
				expenses.DELETE("/:id", expenseHandler.Delete)
			}

			// 时间记录
			timeEntryHandler := api.NewTimeEntryHandler(deps.Tracker)
			entries := authorized.Group("/time-entries")
			{
				entries.POST("", timeEntryHandler.Create)
				entries.GET("", timeEntryHandler.List)
				entries.GET("/:id", timeEntryHandler.Get)
				entries.PUT("/:id", timeEntryHandler.Update)
				entries.DELETE("/:id", timeEntryHandler.Delete)
			}

			// 预算
			budgetHandler := api.NewBudgetHandler(deps.Tracker)
			authorized.GET("/budget", budgetHandler.Get)
			authorized.PUT("/budget", budgetHandler.Set)

			// 概览与统计
			statisticsHandler := api.NewStatisticsHandler(deps.Tracker)
			authorized.GET("/dashboard", statisticsHandler.Dashboard)
			authorized.GET("/statistics/monthly", statisticsHandler.Monthly)
			authorized.GET("/statistics/weekly", statisticsHandler.Weekly)

			// 导出
			exportHandler := api.NewExportHandler(deps.Tracker)
			export := authorized.Group("/export")
			{
				export.GET("/csv", exportHandler.ExportCSV)
				export.GET("/excel", exportHandler.ExportExcel)
			}

			// 导入
			authorized.POST("/import", api.NewImportHandler(deps.Tracker, deps.Validator).Import)
		}
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	return r
}

// CORSMiddleware CORS 跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
