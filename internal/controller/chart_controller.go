package controller

import (
	"bytes"
	"errors"
	"net/http"
	"strings"

	"student_insight/internal/middleware"
	"student_insight/internal/service"
	"student_insight/internal/util"

	"github.com/gin-gonic/gin"
)

type ChartController struct {
	ChartService *service.ChartService
}

func NewChartController(chartService *service.ChartService) *ChartController {
	return &ChartController{ChartService: chartService}
}

func studentOf(ctx *gin.Context) string {
	if id := ctx.Query("studentId"); id != "" {
		return id
	}
	return ctx.GetString(middleware.ContextStudentKey)
}

// @Summary 图表数据 / 图片
// @Description kind 为 accuracy、history、histogram；以 .png 结尾时返回图片
// @Tags 图表
// @Produce json,png
// @Param kind path string true "图表类型，可带 .png 后缀"
// @Param studentId query string false "history 需要"
// @Success 200 {object} util.Response{data=model.ChartData}
// @Success 204 "没有可绘制的数据"
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/charts/{kind} [get]
func (c *ChartController) Get(ctx *gin.Context) {
	kind, asPNG := strings.CutSuffix(ctx.Param("kind"), ".png")

	data, err := c.ChartService.Data(ctx.Request.Context(), kind, studentOf(ctx))
	if err != nil {
		c.fail(ctx, err)
		return
	}
	if !asPNG {
		util.Success(ctx, data)
		return
	}

	var buf bytes.Buffer
	if err := c.ChartService.RenderPNG(data, &buf); err != nil {
		c.fail(ctx, err)
		return
	}
	ctx.Data(http.StatusOK, util.MimePNG, buf.Bytes())
}

// @Summary 导出图表到对象存储
// @Tags 图表
// @Produce json
// @Param kind path string true "图表类型"
// @Param studentId query string false "history 需要"
// @Success 200 {object} util.Response
// @Router /api/charts/{kind}/export [post]
func (c *ChartController) Export(ctx *gin.Context) {
	url, err := c.ChartService.Export(ctx.Request.Context(), ctx.Param("kind"), studentOf(ctx))
	if err != nil {
		c.fail(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"url": url})
}

func (c *ChartController) fail(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrUnknownChart):
		util.NotFound(ctx, err.Error())
	case errors.Is(err, util.ErrStudentRequired):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrNoChartData):
		util.NoContent(ctx)
	case errors.Is(err, util.ErrStorageDisabled):
		util.Error(ctx, http.StatusServiceUnavailable, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
