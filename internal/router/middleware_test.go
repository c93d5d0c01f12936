package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tlcms/tlcms/internal/cache"
	"github.com/tlcms/tlcms/internal/config"
	"github.com/tlcms/tlcms/internal/models"
	"github.com/tlcms/tlcms/internal/provider"
	"github.com/tlcms/tlcms/internal/storage"
)

func newTestContainer(t *testing.T) *provider.Container {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:router_%s?mode=memory&cache=shared", strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db failed: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	cfg := &config.Config{}
	cfg.Server.Mode = "debug"
	cfg.Session.SecretKey = "test-secret"
	cfg.Session.CookieName = "tlcms_session"
	cfg.Session.ExpireHours = 1
	cfg.Storage.Driver = "local"
	cfg.Storage.LocalDir = t.TempDir()
	cfg.Upload.MaxSize = 10 * 1024 * 1024
	cfg.Upload.AllowedTypePrefixes = []string{"image/", "video/", "audio/"}

	store, err := storage.NewLocalStorage(cfg.Storage.LocalDir, "")
	if err != nil {
		t.Fatalf("new local storage failed: %v", err)
	}
	return provider.NewContainer(cfg, db, cache.New(nil), store)
}

func newTestRouter(t *testing.T) (*gin.Engine, *provider.Container) {
	t.Helper()
	c := newTestContainer(t)
	return SetupRouter(c.Config, c), c
}

func sessionCookieFor(t *testing.T, c *provider.Container, email string) *http.Cookie {
	t.Helper()
	hash, err := c.AuthService.HashPassword("Sup3rSecret")
	if err != nil {
		t.Fatalf("hash password failed: %v", err)
	}
	user := &models.User{Email: email, PasswordHash: hash}
	if err := c.UserRepo.Create(user); err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	token, _, err := c.AuthService.GenerateSession(user)
	if err != nil {
		t.Fatalf("generate session failed: %v", err)
	}
	return &http.Cookie{Name: c.Config.Session.CookieName, Value: token}
}

func TestSessionGateRedirectsAnonymousNavigation(t *testing.T) {
	r, _ := newTestRouter(t)

	for _, path := range []string{"/", "/posts", "/media", "/settings/api-keys"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		r.ServeHTTP(w, req)

		if w.Code != http.StatusSeeOther {
			t.Fatalf("%s: want 303 got %d", path, w.Code)
		}
		if got := w.Header().Get("Location"); got != "/login" {
			t.Fatalf("%s: redirect target want /login got %s", path, got)
		}
	}
}

func TestSessionGateAllowsAuthenticatedNavigation(t *testing.T) {
	r, c := newTestRouter(t)
	cookie := sessionCookieFor(t, c, "admin@example.com")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	req.AddCookie(cookie)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("authenticated /posts want 200 got %d", w.Code)
	}
}

func TestSessionGateInvalidCookieIsAnonymous(t *testing.T) {
	r, c := newTestRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	req.AddCookie(&http.Cookie{Name: c.Config.Session.CookieName, Value: "garbage"})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("garbage cookie should redirect, got %d", w.Code)
	}
}

func TestSessionGateLoginPage(t *testing.T) {
	r, c := newTestRouter(t)

	// 匿名访问登录页放行
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("anonymous /login want 200 got %d", w.Code)
	}

	// 已登录访问登录页跳回首页
	cookie := sessionCookieFor(t, c, "admin@example.com")
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(cookie)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("authenticated /login want 303 got %d", w.Code)
	}
	if got := w.Header().Get("Location"); got != "/" {
		t.Fatalf("redirect target want / got %s", got)
	}
}

func TestSessionGateNonNavigationGets401(t *testing.T) {
	r, _ := newTestRouter(t)

	// 匿名的非导航请求不重定向，由 handler 返回 401
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/settings/api-keys/some-id", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous DELETE want 401 got %d", w.Code)
	}
}

func TestSessionGateExposedHeaders(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	got := w.Header().Get("Access-Control-Expose-Headers")
	if got != "Content-Range, X-Storage-Api-Version" {
		t.Fatalf("exposed headers mismatch: %q", got)
	}
}

func TestHealthzIsPublic(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("healthz want 200 got %d", w.Code)
	}
}

func TestFeedRequiresAPIKey(t *testing.T) {
	r, c := newTestRouter(t)

	// 无凭证
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/posts", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("missing key want 401 got %d", w.Code)
	}

	// 伪造凭证
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/posts", nil)
	req.Header.Set("Authorization", "Bearer tlcms_"+strings.Repeat("x", 32))
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bogus key want 401 got %d", w.Code)
	}

	// 有效凭证
	_, plaintext, err := c.APIKeyService.Generate("feed", "user-1", nil)
	if err != nil {
		t.Fatalf("generate api key failed: %v", err)
	}
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/posts", nil)
	req.Header.Set("Authorization", "Bearer "+plaintext)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("valid key want 200 got %d: %s", w.Code, w.Body.String())
	}

	var body struct {
		Data struct {
			Posts      []interface{} `json:"posts"`
			Pagination struct {
				Page    int  `json:"page"`
				Limit   int  `json:"limit"`
				HasMore bool `json:"hasMore"`
			} `json:"pagination"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode feed body failed: %v", err)
	}
	if body.Data.Pagination.Page != 1 {
		t.Fatalf("feed pagination missing: %s", w.Body.String())
	}
}
