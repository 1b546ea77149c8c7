package controller

import (
	"embed"
	"html/template"
	"net/http"

	"student_insight/internal/util"

	"github.com/gin-gonic/gin"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type PageData struct {
	Title         string
	CaptchaWidth  int
	CaptchaHeight int
}

type PageController struct {
	Data PageData
}

func NewPageController(data PageData) *PageController {
	if data.Title == "" {
		data.Title = "Student Insight"
	}
	return &PageController{Data: data}
}

// Index 仪表盘单页
func (c *PageController) Index(ctx *gin.Context) {
	ctx.Status(http.StatusOK)
	ctx.Header("Content-Type", util.MimeHTML)
	if err := indexTemplate.Execute(ctx.Writer, c.Data); err != nil {
		util.LogInternalError(ctx, err)
	}
}
