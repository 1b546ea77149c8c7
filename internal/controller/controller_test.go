package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"student_insight/internal/config"
	"student_insight/internal/datatable"
	"student_insight/internal/model"
	"student_insight/internal/repository"
	"student_insight/internal/service"
	"student_insight/internal/util"
	"student_insight/pkg/cache"

	"github.com/gin-gonic/gin"
)

type stubAI struct{}

func (stubAI) Chat(ctx context.Context, conversation []model.ChatMessage) (string, error) {
	return "You asked: " + conversation[len(conversation)-1].Content, nil
}

type testEnv struct {
	router  *gin.Engine
	store   *cache.MemoryStore
	captcha *service.CaptchaService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	now := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)
	demo := &repository.DemoStudentRepository{Now: func() time.Time { return now }}
	analytics := service.NewAnalyticsService(demo, 100)
	builder := datatable.NewBuilder("2006-01-02", time.UTC)
	builder.Now = func() time.Time { return now }
	table := service.NewDataTableService(analytics, builder)
	assistant := service.NewAssistantService(demo, nil, nil, stubAI{})
	dashboard := service.NewDashboardService(analytics, table)
	storage, err := service.NewStorageService(&config.Config{Storage: config.StorageConfig{Type: "local", LocalPath: t.TempDir()}})
	if err != nil {
		t.Fatalf("storage: %v", err)
	}
	charts := service.NewChartService(analytics, storage, "2006-01-02", time.UTC)
	store := cache.NewMemoryStore(16, time.Hour)
	captcha := service.NewCaptchaService(store, config.CaptchaConfig{Length: 5, TTLSeconds: 60, Width: 200, Height: 60})

	dc := NewDashboardController(analytics, assistant, dashboard)
	tc := NewDataTableController(table)
	cc := NewChartController(charts)
	auth := NewCaptchaController(captcha)
	page := NewPageController(PageData{CaptchaWidth: 200, CaptchaHeight: 60})

	r := gin.New()
	r.GET("/", page.Index)
	r.GET("/analyze", dc.Analyze)
	r.GET("/history/:studentId", dc.History)
	r.GET("/marks", dc.Marks)
	r.GET("/all-data", dc.AllData)
	r.POST("/add-edge", dc.AddEdge)
	r.POST("/ask-ai", dc.AskAI)
	r.GET("/api/dashboard/overview", dc.Overview)
	r.GET("/api/data-table", tc.Get)
	r.GET("/api/data-table.html", tc.GetHTML)
	r.POST("/api/data-table/render", tc.Render)
	r.GET("/api/charts/:kind", cc.Get)
	r.POST("/api/charts/:kind/export", cc.Export)
	r.POST("/api/captcha", auth.Generate)
	r.POST("/api/login", auth.Login)
	r.GET("/api/health", NewHealthController(nil, nil).HealthCheck)

	return &testEnv{router: r, store: store, captcha: captcha}
}

func (e *testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return v
}

func TestLegacyRoutesInDemoMode(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/analyze", "")
	if w.Code != http.StatusOK {
		t.Fatalf("/analyze status = %d", w.Code)
	}
	if got := decode[[]model.StudentBehavior](t, w); len(got) != 4 {
		t.Fatalf("/analyze = %+v", got)
	}

	w = env.do(http.MethodGet, "/history/24KQ1A5444", "")
	if got := decode[[]model.BehaviorSnapshot](t, w); len(got) != 5 || got[0].Accuracy != 0.75 {
		t.Fatalf("/history = %+v", got)
	}

	w = env.do(http.MethodGet, "/marks", "")
	if got := decode[[]float64](t, w); len(got) != 15 {
		t.Fatalf("/marks = %v", got)
	}

	w = env.do(http.MethodGet, "/all-data", "")
	all := decode[map[string]json.RawMessage](t, w)
	for _, key := range []string{"behavior_history", "logs", "marks"} {
		if _, ok := all[key]; !ok {
			t.Fatalf("/all-data missing %s: %s", key, w.Body.String())
		}
	}
}

func TestAddEdgeValidation(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/add-edge", `{"from":"a","to":"b"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if got := decode[map[string]string](t, w); got["status"] != "error" || got["message"] != "from,to,cost required" {
		t.Fatalf("body = %v", got)
	}

	w = env.do(http.MethodPost, "/add-edge", `{"from":"a","to":"b","cost":-1}`)
	if got := decode[map[string]string](t, w); w.Code != http.StatusBadRequest || got["status"] != "error" {
		t.Fatalf("negative cost: status = %d body = %v", w.Code, got)
	}

	w = env.do(http.MethodPost, "/ask-ai", `{"conversation":[{"role":"user","content":"astar A edges: Z A-B:-1"}]}`)
	if got := decode[map[string]string](t, w); got["reply"] != "A* path from A to Z: no path" {
		t.Fatalf("reply = %v", got)
	}

	w = env.do(http.MethodPost, "/add-edge", `{"from":"a","to":"b","cost":0}`)
	if got := decode[map[string]string](t, w); w.Code != http.StatusOK || got["message"] != "Demo mode: edge noted" {
		t.Fatalf("status = %d body = %v", w.Code, got)
	}
}

func TestAskAI(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/ask-ai", `{"conversation":[{"role":"user","content":"astar A edges: C A-B:1 B-C:1"}]}`)
	if got := decode[map[string]string](t, w); got["reply"] != "A* path from A to C: A -> B -> C" {
		t.Fatalf("reply = %v", got)
	}

	w = env.do(http.MethodPost, "/ask-ai", `{"conversation":[{"role":"user","content":"hello"}]}`)
	if got := decode[map[string]string](t, w); got["reply"] != "You asked: hello" {
		t.Fatalf("reply = %v", got)
	}

	w = env.do(http.MethodPost, "/ask-ai", `{"conversation":[]}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("empty conversation status = %d", w.Code)
	}
}

func TestDataTableRoutes(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/data-table", "")
	resp := decode[struct {
		Code int            `json:"code"`
		Data datatable.Grid `json:"data"`
	}](t, w)
	if resp.Code != http.StatusOK || len(resp.Data.Rows) != 21 || len(resp.Data.Headers) != 8 {
		t.Fatalf("grid = %+v", resp)
	}

	w = env.do(http.MethodGet, "/api/data-table.html", "")
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("content type = %q", ct)
	}
	if !strings.HasPrefix(w.Body.String(), "<table><thead><tr><th>Type</th>") {
		t.Fatalf("html = %s", w.Body.String())
	}

	w = env.do(http.MethodPost, "/api/data-table/render?format=html", `{}`)
	if w.Body.String() != "<table><thead><tr></tr></thead><tbody></tbody></table>" {
		t.Fatalf("empty render = %q", w.Body.String())
	}

	w = env.do(http.MethodPost, "/api/data-table/render", `{"marks":[{"marks":70}]}`)
	render := decode[struct {
		Data datatable.Grid `json:"data"`
	}](t, w)
	if len(render.Data.Rows) != 1 || render.Data.Rows[0][1] != "70" {
		t.Fatalf("render = %+v", render.Data)
	}

	w = env.do(http.MethodPost, "/api/data-table/render", `{"marks":`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad payload status = %d", w.Code)
	}
}

func TestChartRoutes(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/charts/histogram", "")
	resp := decode[struct {
		Data model.ChartData `json:"data"`
	}](t, w)
	if len(resp.Data.Labels) != 10 || resp.Data.Datasets[0].Label != "Students" {
		t.Fatalf("histogram = %+v", resp.Data)
	}

	w = env.do(http.MethodGet, "/api/charts/accuracy.png", "")
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != util.MimePNG || !bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")) {
		t.Fatalf("png status = %d type = %q", w.Code, w.Header().Get("Content-Type"))
	}

	if w := env.do(http.MethodGet, "/api/charts/pie", ""); w.Code != http.StatusNotFound {
		t.Fatalf("unknown chart status = %d", w.Code)
	}
	if w := env.do(http.MethodGet, "/api/charts/history", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("history without student status = %d", w.Code)
	}

	w = env.do(http.MethodPost, "/api/charts/accuracy/export", "")
	export := decode[struct {
		Data map[string]string `json:"data"`
	}](t, w)
	if !strings.HasPrefix(export.Data["url"], "/uploads/charts/accuracy-") {
		t.Fatalf("export = %+v", export)
	}
}

func TestCaptchaLoginFlow(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/captcha", "")
	created := decode[struct {
		Data service.Captcha `json:"data"`
	}](t, w)
	if created.Data.ID == "" || !strings.HasPrefix(created.Data.Image, "data:image/png;base64,") {
		t.Fatalf("captcha = %+v", created.Data)
	}
	answer, err := env.store.Get(context.Background(), util.CaptchaKeyPrefix+created.Data.ID)
	if err != nil {
		t.Fatalf("answer not stored: %v", err)
	}

	body, _ := json.Marshal(LoginRequest{Username: "24KQ1A5444", CaptchaID: created.Data.ID, CaptchaText: answer})
	w = env.do(http.MethodPost, "/api/login", string(body))
	login := decode[struct {
		Data service.LoginResult `json:"data"`
	}](t, w)
	if w.Code != http.StatusOK || login.Data.Title != "24KQ1A5444 Dashboard" {
		t.Fatalf("login status = %d body = %s", w.Code, w.Body.String())
	}

	// 同一个验证码不能再用
	w = env.do(http.MethodPost, "/api/login", string(body))
	if got := decode[util.Response](t, w); w.Code != http.StatusBadRequest || got.Message != "Incorrect captcha" {
		t.Fatalf("reuse status = %d body = %+v", w.Code, got)
	}
}

func TestOverviewAndHealthAndPage(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/dashboard/overview?studentId=S1", "")
	overview := decode[struct {
		Data struct {
			Analysis struct{ Data []model.StudentBehavior }  `json:"analysis"`
			History  struct{ Data []model.BehaviorSnapshot } `json:"history"`
			Marks    struct{ Data []float64 }                `json:"marks"`
		} `json:"data"`
	}](t, w)
	if len(overview.Data.Analysis.Data) != 4 || len(overview.Data.History.Data) != 5 || len(overview.Data.Marks.Data) != 15 {
		t.Fatalf("overview = %+v", overview.Data)
	}

	w = env.do(http.MethodGet, "/api/health", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"database":"demo"`) {
		t.Fatalf("health = %d %s", w.Code, w.Body.String())
	}

	w = env.do(http.MethodGet, "/", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `width="200"`) {
		t.Fatalf("page = %d", w.Code)
	}
}
