package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"student_insight/internal/util"

	"github.com/gin-gonic/gin"
)

type stubChecker struct {
	enforce bool
	tokens  map[string]string
}

func (s stubChecker) Enforced() bool { return s.enforce }

func (s stubChecker) Session(ctx context.Context, token string) (string, bool) {
	name, ok := s.tokens[token]
	return name, ok
}

func serve(checker SessionChecker, token string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", SessionMiddleware(checker), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextStudentKey))
	})
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if token != "" {
		req.Header.Set(util.SessionHeader, token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSessionMiddlewareOpenWhenNotEnforced(t *testing.T) {
	t.Parallel()
	if w := serve(stubChecker{}, ""); w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestSessionMiddlewareEnforced(t *testing.T) {
	t.Parallel()
	checker := stubChecker{enforce: true, tokens: map[string]string{"t1": "alice"}}
	if w := serve(checker, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("missing token status = %d", w.Code)
	}
	if w := serve(checker, "nope"); w.Code != http.StatusUnauthorized {
		t.Fatalf("bad token status = %d", w.Code)
	}
	w := serve(checker, "t1")
	if w.Code != http.StatusOK || w.Body.String() != "alice" {
		t.Fatalf("status = %d body = %q", w.Code, w.Body.String())
	}
}
