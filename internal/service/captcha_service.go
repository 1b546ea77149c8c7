package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image/color"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"student_insight/internal/config"
	"student_insight/internal/util"
	"student_insight/pkg/cache"
	"student_insight/pkg/logger"
	"student_insight/pkg/monitoring"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
)

const captchaAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const sessionTTL = 12 * time.Hour

var (
	captchaBackground = color.RGBA{R: 0xe3, G: 0xf2, B: 0xfd, A: 0xff}
	captchaInk        = color.RGBA{R: 0x0d, G: 0x47, B: 0xa1, A: 0xff}
	captchaStrike     = color.RGBA{R: 0xff, A: 0xff}
)

type Captcha struct {
	ID    string `json:"captchaId"`
	Image string `json:"image"`
}

type LoginResult struct {
	Title        string `json:"title"`
	StudentName  string `json:"studentName"`
	SessionToken string `json:"sessionToken"`
}

type CaptchaService struct {
	Store cache.Store

	mu  sync.RWMutex
	cfg config.CaptchaConfig
	rnd func(n int) int
}

func NewCaptchaService(store cache.Store, cfg config.CaptchaConfig) *CaptchaService {
	return &CaptchaService{Store: store, cfg: cfg, rnd: rand.IntN}
}

// UpdateConfig 配置热加载
func (s *CaptchaService) UpdateConfig(cfg config.CaptchaConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cfg = cfg
}

func (s *CaptchaService) config() config.CaptchaConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

func (s *CaptchaService) Enforced() bool {
	return s.config().Enforce
}

// Generate 生成新的验证码，答案只保存在服务端
func (s *CaptchaService) Generate(ctx context.Context) (*Captcha, error) {
	cfg := s.config()
	text := s.randomText(cfg.Length)

	img, err := s.render(text, cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	ttl := time.Duration(cfg.TTLSeconds) * time.Second
	if err := s.Store.Set(ctx, util.CaptchaKeyPrefix+id, text, ttl); err != nil {
		return nil, fmt.Errorf("store captcha: %w", err)
	}

	return &Captcha{
		ID:    id,
		Image: "data:image/png;base64," + base64.StdEncoding.EncodeToString(img),
	}, nil
}

// Verify 大小写敏感的精确匹配，无论成功与否验证码都会失效
func (s *CaptchaService) Verify(ctx context.Context, id, answer string) error {
	want, err := s.Store.Take(ctx, util.CaptchaKeyPrefix+id)
	if errors.Is(err, cache.ErrNotFound) {
		monitoring.CaptchaChecks.WithLabelValues("expired").Inc()
		return util.ErrCaptchaNotFound
	}
	if err != nil {
		return fmt.Errorf("load captcha: %w", err)
	}
	if answer != want {
		monitoring.CaptchaChecks.WithLabelValues("mismatch").Inc()
		return util.ErrCaptchaMismatch
	}
	monitoring.CaptchaChecks.WithLabelValues("ok").Inc()
	return nil
}

func (s *CaptchaService) Login(ctx context.Context, username, captchaID, answer string) (*LoginResult, error) {
	if err := s.Verify(ctx, captchaID, answer); err != nil {
		return nil, err
	}

	token := uuid.NewString()
	if err := s.Store.Set(ctx, util.SessionKeyPrefix+token, username, sessionTTL); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	logger.Log.Info("Student logged in", zap.String("username", username))

	return &LoginResult{
		Title:        username + " Dashboard",
		StudentName:  username,
		SessionToken: token,
	}, nil
}

// Session 返回令牌对应的用户名
func (s *CaptchaService) Session(ctx context.Context, token string) (string, bool) {
	if token == "" {
		return "", false
	}
	name, err := s.Store.Get(ctx, util.SessionKeyPrefix+token)
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			logger.Log.Warn("Session lookup failed", zap.Error(err))
		}
		return "", false
	}
	return name, true
}

func (s *CaptchaService) randomText(n int) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		sb.WriteByte(captchaAlphabet[s.rnd(len(captchaAlphabet))])
	}
	return sb.String()
}

// render 逐字随机旋转（±0.25 弧度）并上下抖动，再画一条 2px 红色干扰线
func (s *CaptchaService) render(text string, width, height int) ([]byte, error) {
	face, err := captchaFace(text, width, height)
	if err != nil {
		return nil, err
	}

	dc := gg.NewContext(width, height)
	dc.SetColor(captchaBackground)
	dc.Clear()
	dc.SetFontFace(face)
	dc.SetColor(captchaInk)

	cell := float64(width) / float64(max(1, len(text)))
	for i, r := range text {
		x := cell*float64(i) + cell/2
		y := float64(height)/2 + float64(s.rnd(max(1, height/5))-height/10)
		angle := (float64(s.rnd(1001))/1000 - 0.5) * 0.5

		dc.Push()
		dc.RotateAbout(angle, x, y)
		dc.DrawStringAnchored(string(r), x, y, 0.5, 0.35)
		dc.Pop()
	}

	dc.SetColor(captchaStrike)
	dc.SetLineWidth(2)
	dc.DrawLine(10, float64(s.rnd(height)), float64(width-10), float64(s.rnd(height)))
	dc.Stroke()

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var (
	captchaFontOnce sync.Once
	captchaFont     *truetype.Font
	captchaFontErr  error
)

// captchaFace 字号 30px，画布太小时按格子缩小
func captchaFace(text string, width, height int) (font.Face, error) {
	captchaFontOnce.Do(func() {
		captchaFont, captchaFontErr = truetype.Parse(gobold.TTF)
	})
	if captchaFontErr != nil {
		return nil, fmt.Errorf("parse captcha font: %w", captchaFontErr)
	}
	cell := float64(width) / float64(max(1, len(text)))
	size := min(30, float64(height)*0.6, cell*0.9)
	return truetype.NewFace(captchaFont, &truetype.Options{Size: max(size, 6), DPI: 72}), nil
}
