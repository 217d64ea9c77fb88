package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/caseproof/caseproof-backend/usecases"
)

func TestJobWebhookRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	conf := Configuration{JwtSigningSecret: testSigningSecret, JobWebhookSecret: "cb-secret"}

	router := gin.New()
	addRoutes(router, conf, usecases.Usecases{}, NewAuthentication(conf))

	// The backend delivers to /job-webhook; older deployments use the
	// previous path. Both must reach the handler, whose validation rejects
	// an empty payload with a 400 rather than a routing 404.
	for _, path := range []string{"/job-webhook", "/webhooks/jobs"} {
		t.Run(path, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{}`))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("X-Callback-Token", "cb-secret")
			router.ServeHTTP(recorder, req)
			assert.Equal(t, http.StatusBadRequest, recorder.Code)
		})
	}
}
