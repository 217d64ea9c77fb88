package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caseproof/caseproof-backend/models"
	"github.com/caseproof/caseproof-backend/utils"
)

const testSigningSecret = "test-signing-secret"

func signedToken(t *testing.T, claims tokenClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSigningSecret))
	require.NoError(t, err)
	return token
}

func TestParseAuthorizationBearerHeader(t *testing.T) {
	header := http.Header{}
	header.Set("Authorization", "Bearer some-token")
	token, err := ParseAuthorizationBearerHeader(header)
	require.NoError(t, err)
	assert.Equal(t, "some-token", token)

	_, err = ParseAuthorizationBearerHeader(http.Header{})
	assert.ErrorIs(t, err, models.UnAuthorizedError)

	header.Set("Authorization", "Basic dXNlcjpwYXNz")
	_, err = ParseAuthorizationBearerHeader(header)
	assert.ErrorIs(t, err, models.UnAuthorizedError)
}

func runAuthMiddleware(t *testing.T, authorization string) (*httptest.ResponseRecorder, models.Credentials) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	auth := NewAuthentication(Configuration{JwtSigningSecret: testSigningSecret})

	var creds models.Credentials
	router := gin.New()
	router.GET("/protected", auth.Middleware, func(c *gin.Context) {
		found, ok := utils.CredentialsFromCtx(c.Request.Context())
		require.True(t, ok)
		creds = found
		c.Status(http.StatusOK)
	})

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	router.ServeHTTP(recorder, req)
	return recorder, creds
}

func TestAuthenticationMiddleware(t *testing.T) {
	token := signedToken(t, tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		OrganizationId: "org-1",
		Role:           "ANALYST",
	})

	recorder, creds := runAuthMiddleware(t, "Bearer "+token)
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, models.Credentials{
		UserId:         "user-1",
		OrganizationId: "org-1",
		Role:           models.ANALYST,
	}, creds)
}

func TestAuthenticationMiddleware_rejections(t *testing.T) {
	t.Run("missing header", func(t *testing.T) {
		recorder, _ := runAuthMiddleware(t, "")
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		token := signedToken(t, tokenClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "user-1",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			},
			Role: "ANALYST",
		})
		recorder, _ := runAuthMiddleware(t, "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"},
			Role:             "ANALYST",
		}).SignedString([]byte("another-secret"))
		require.NoError(t, err)
		recorder, _ := runAuthMiddleware(t, "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("token without a role", func(t *testing.T) {
		token := signedToken(t, tokenClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "user-1",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})
		recorder, _ := runAuthMiddleware(t, "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}

func TestJobWebhookMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	run := func(secret, token string) int {
		auth := NewAuthentication(Configuration{JobWebhookSecret: secret})
		router := gin.New()
		router.POST("/webhooks/jobs", auth.JobWebhookMiddleware, func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/webhooks/jobs", nil)
		if token != "" {
			req.Header.Set("X-Callback-Token", token)
		}
		router.ServeHTTP(recorder, req)
		return recorder.Code
	}

	assert.Equal(t, http.StatusOK, run("cb-secret", "cb-secret"))
	assert.Equal(t, http.StatusUnauthorized, run("cb-secret", "wrong"))
	assert.Equal(t, http.StatusUnauthorized, run("cb-secret", ""))
	// An unconfigured secret must fail closed.
	assert.Equal(t, http.StatusUnauthorized, run("", ""))
}
