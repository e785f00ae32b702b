package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"classquiz_backend/internal/config"
	"classquiz_backend/internal/model"
	"classquiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

func testRouter(cfg *config.Config, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{AuthMiddleware(cfg)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		claims := util.GetUserFromContext(c)
		c.JSON(http.StatusOK, gin.H{"userId": claims.UserID})
	})
	r.GET("/protected", handlers...)
	return r
}

func tokenFor(t *testing.T, cfg *config.Config, role model.UserRole) string {
	t.Helper()
	user := &model.User{BaseModel: model.BaseModel{ID: 7}, Email: "u@x.io", Role: role}
	token, err := util.GenerateJWT(user, cfg.JWT.Secret, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	return cfg
}

func TestAuthMiddleware(t *testing.T) {
	cfg := testConfig()
	router := testRouter(cfg)

	tests := []struct {
		name       string
		authorize  func(r *http.Request)
		wantStatus int
	}{
		{
			name:       "missing token",
			authorize:  func(r *http.Request) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "bearer header",
			authorize: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+tokenFor(t, cfg, model.Student))
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "query token fallback",
			authorize: func(r *http.Request) {
				q := r.URL.Query()
				q.Set("token", tokenFor(t, cfg, model.Student))
				r.URL.RawQuery = q.Encode()
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "tampered token",
			authorize: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+tokenFor(t, cfg, model.Student)+"x")
			},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			tt.authorize(req)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestRoleMiddleware(t *testing.T) {
	cfg := testConfig()
	router := testRouter(cfg, RoleMiddleware(model.Teacher))

	tests := []struct {
		role       model.UserRole
		wantStatus int
	}{
		{model.Teacher, http.StatusOK},
		{model.Student, http.StatusForbidden},
		// 管理员拥有教师权限
		{model.Admin, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			req.Header.Set("Authorization", "Bearer "+tokenFor(t, cfg, tt.role))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			if w.Code != tt.wantStatus {
				t.Errorf("role %s: status = %d, want %d", tt.role, w.Code, tt.wantStatus)
			}
		})
	}
}
