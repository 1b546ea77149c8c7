package controller

import (
	"errors"
	"strings"

	"student_insight/internal/service"
	"student_insight/internal/util"

	"github.com/gin-gonic/gin"
)

type CaptchaController struct {
	CaptchaService *service.CaptchaService
}

func NewCaptchaController(captchaService *service.CaptchaService) *CaptchaController {
	return &CaptchaController{CaptchaService: captchaService}
}

// @Summary 获取图形验证码
// @Tags 登录
// @Produce json
// @Success 200 {object} util.Response{data=service.Captcha}
// @Router /api/captcha [post]
func (c *CaptchaController) Generate(ctx *gin.Context) {
	captcha, err := c.CaptchaService.Generate(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, captcha)
}

type LoginRequest struct {
	Username    string `json:"username" binding:"required"`
	CaptchaID   string `json:"captchaId" binding:"required"`
	CaptchaText string `json:"captchaText"`
}

// @Summary 验证码登录
// @Description 验证码区分大小写；验证失败后需要重新获取验证码
// @Tags 登录
// @Accept json
// @Produce json
// @Param body body LoginRequest true "登录信息"
// @Success 200 {object} util.Response{data=service.LoginResult}
// @Failure 400 {object} util.Response
// @Router /api/login [post]
func (c *CaptchaController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	username := strings.TrimSpace(req.Username)
	if username == "" {
		util.BadRequest(ctx, "username is required")
		return
	}

	result, err := c.CaptchaService.Login(ctx.Request.Context(), username, req.CaptchaID, req.CaptchaText)
	switch {
	case errors.Is(err, util.ErrCaptchaMismatch), errors.Is(err, util.ErrCaptchaNotFound):
		util.BadRequest(ctx, "Incorrect captcha")
		return
	case err != nil:
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
