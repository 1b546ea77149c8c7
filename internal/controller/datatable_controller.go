package controller

import (
	"bytes"
	"net/http"

	"student_insight/internal/datatable"
	"student_insight/internal/service"
	"student_insight/internal/util"

	"github.com/gin-gonic/gin"
)

type DataTableController struct {
	DataTableService *service.DataTableService
}

func NewDataTableController(dataTableService *service.DataTableService) *DataTableController {
	return &DataTableController{DataTableService: dataTableService}
}

// @Summary 统一数据表
// @Description 合并行为历史、答题日志和分数，按学生ID稳定排序
// @Tags 数据表
// @Produce json
// @Success 200 {object} util.Response{data=datatable.Grid}
// @Router /api/data-table [get]
func (c *DataTableController) Get(ctx *gin.Context) {
	grid, err := c.DataTableService.Build(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, grid)
}

// @Summary 统一数据表（HTML 片段）
// @Tags 数据表
// @Produce html
// @Success 200 {string} string
// @Router /api/data-table.html [get]
func (c *DataTableController) GetHTML(ctx *gin.Context) {
	grid, err := c.DataTableService.Build(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	writeGridHTML(ctx, grid)
}

// @Summary 渲染客户端提供的数据
// @Tags 数据表
// @Accept json
// @Produce json,html
// @Param format query string false "json 或 html"
// @Param body body datatable.Input true "behavior_history / logs / marks"
// @Success 200 {object} util.Response{data=datatable.Grid}
// @Failure 400 {object} util.Response
// @Router /api/data-table/render [post]
func (c *DataTableController) Render(ctx *gin.Context) {
	var in datatable.Input
	if err := ctx.ShouldBindJSON(&in); err != nil {
		util.BadRequest(ctx, "invalid payload: "+err.Error())
		return
	}

	grid := c.DataTableService.Render(ctx.Request.Context(), in)
	if ctx.Query("format") == "html" {
		writeGridHTML(ctx, grid)
		return
	}
	util.Success(ctx, grid)
}

func writeGridHTML(ctx *gin.Context, grid datatable.Grid) {
	var buf bytes.Buffer
	if err := grid.WriteHTML(&buf); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	ctx.Data(http.StatusOK, util.MimeHTML, buf.Bytes())
}
