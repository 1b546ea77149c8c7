package app

import (
	"student_insight/docs"
	"student_insight/internal/middleware"
	"student_insight/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, s *services) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	router.GET("/", c.page.Index)

	// 1. 仪表盘前端直接调用的旧接口（裸 JSON）
	a.registerDashboardRoutes(router, c)

	// 2. 公共接口
	api := router.Group("/api")
	{
		api.GET("/health", c.health.HealthCheck)
		api.POST("/captcha", c.captcha.Generate)
		api.POST("/login", c.captcha.Login)
	}

	// 3. captcha.enforce 打开后需要会话令牌
	data := router.Group("/api")
	data.Use(middleware.SessionMiddleware(s.captcha))
	{
		a.registerDataRoutes(data, c)
	}
}

func (a *App) registerDashboardRoutes(router *gin.Engine, c *controllers) {
	router.GET("/analyze", c.dashboard.Analyze)
	router.GET("/history/:studentId", c.dashboard.History)
	router.GET("/marks", c.dashboard.Marks)
	router.GET("/all-data", c.dashboard.AllData)
	router.POST("/add-edge", c.dashboard.AddEdge)
	router.POST("/ask-ai", c.dashboard.AskAI)
}

func (a *App) registerDataRoutes(rg *gin.RouterGroup, c *controllers) {
	// 数据表
	rg.GET("/data-table", c.table.Get)
	rg.GET("/data-table.html", c.table.GetHTML)
	rg.POST("/data-table/render", c.table.Render)

	// 图表
	rg.GET("/charts/:kind", c.chart.Get)
	rg.POST("/charts/:kind/export", c.chart.Export)

	rg.GET("/dashboard/overview", c.dashboard.Overview)
}
