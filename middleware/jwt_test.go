package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"protrack/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useSecret(t *testing.T, secret string) {
	t.Helper()
	InitJWT(&config.Config{JWT: config.JWTConfig{Secret: secret}})
	t.Cleanup(func() { jwtSecret = nil })
}

// whoami 返回上下文中的用户，模拟需要 userID 与 email 的业务接口（如预算提醒）
func whoamiRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/me", JWTAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetCurrentUserID(c), "email": GetCurrentEmail(c)})
	})
	return router
}

func TestGenerateToken_Claims(t *testing.T) {
	useSecret(t, "tracker-secret")

	before := time.Now().Add(-time.Second)
	token, err := GenerateToken(7, "  Priya@Example.COM ", 2*time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "priya@example.com", claims.Email)
	assert.Equal(t, "protrack", claims.Issuer)
	assert.WithinDuration(t, before.Add(2*time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestParseToken_Rejects(t *testing.T) {
	useSecret(t, "tracker-secret")

	expired, err := GenerateToken(7, "priya@example.com", -time.Minute)
	require.NoError(t, err)

	foreignIssuer, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: 7,
		Email:  "priya@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("tracker-secret"))
	require.NoError(t, err)

	wrongAlg, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		UserID:           7,
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "protrack"},
	}).SignedString([]byte("tracker-secret"))
	require.NoError(t, err)

	cases := map[string]string{
		"empty":          "",
		"garbage":        "not.a.valid.jwt",
		"expired":        expired,
		"foreign issuer": foreignIssuer,
		"HS512":          wrongAlg,
	}
	for name, token := range cases {
		_, err := ParseToken(token)
		assert.Error(t, err, name)
	}
}

func TestParseToken_SecretRotation(t *testing.T) {
	useSecret(t, "old-secret")
	token, err := GenerateToken(3, "dev@example.com", time.Hour)
	require.NoError(t, err)

	useSecret(t, "new-secret")
	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestJWTAuth_Headers(t *testing.T) {
	useSecret(t, "tracker-secret")
	router := whoamiRouter()
	token, err := GenerateToken(42, "Asha@Example.com", time.Hour)
	require.NoError(t, err)

	cases := []struct {
		name    string
		header  string
		code    int
		message string
	}{
		{"missing", "", http.StatusUnauthorized, "请先登录"},
		{"basic scheme", "Basic " + token, http.StatusUnauthorized, "认证格式错误"},
		{"bearer without token", "Bearer   ", http.StatusUnauthorized, "认证格式错误"},
		{"lowercase scheme", "bearer " + token, http.StatusUnauthorized, "认证格式错误"},
		{"tampered", "Bearer " + token + "x", http.StatusUnauthorized, "登录已过期或令牌无效"},
		{"valid", "Bearer " + token, http.StatusOK, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tc.code, w.Code)
			if tc.message != "" {
				assert.Contains(t, w.Body.String(), tc.message)
			}
		})
	}
}

func TestJWTAuth_SetsUserAndEmail(t *testing.T) {
	useSecret(t, "tracker-secret")
	router := whoamiRouter()
	token, err := GenerateToken(42, "Asha@Example.com", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":42,"email":"asha@example.com"}`, w.Body.String())
}

func TestCurrentUserHelpers_WithoutAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, uint(0), GetCurrentUserID(c))
	assert.Equal(t, "", GetCurrentEmail(c))

	// 类型不符时视为未登录
	c.Set(ctxUserID, 42)
	assert.Equal(t, uint(0), GetCurrentUserID(c))

	c.Set(ctxUserID, uint(42))
	c.Set(ctxEmail, "asha@example.com")
	assert.Equal(t, uint(42), GetCurrentUserID(c))
	assert.Equal(t, "asha@example.com", GetCurrentEmail(c))
}
