package api

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/caseproof/caseproof-backend/models"
	"github.com/caseproof/caseproof-backend/utils"
)

type Authentication struct {
	signingSecret    []byte
	jobWebhookSecret string
}

func NewAuthentication(conf Configuration) Authentication {
	return Authentication{
		signingSecret:    []byte(conf.JwtSigningSecret),
		jobWebhookSecret: conf.JobWebhookSecret,
	}
}

type tokenClaims struct {
	jwt.RegisteredClaims
	OrganizationId string `json:"org_id"`
	Role           string `json:"role"`
}

func ParseAuthorizationBearerHeader(header http.Header) (string, error) {
	authorization := header.Get("Authorization")
	if authorization == "" {
		return "", errors.Wrap(models.UnAuthorizedError, "missing Authorization header")
	}
	token, found := strings.CutPrefix(authorization, "Bearer ")
	if !found {
		return "", errors.Wrap(models.UnAuthorizedError, "malformed Authorization header")
	}
	return token, nil
}

// Middleware authenticates user requests from an HS256 signed bearer token and
// stores the resulting credentials in the request context.
func (a Authentication) Middleware(c *gin.Context) {
	ctx := c.Request.Context()

	tokenString, err := ParseAuthorizationBearerHeader(c.Request.Header)
	if presentError(ctx, c, err) {
		c.Abort()
		return
	}

	var claims tokenClaims
	_, err = jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Newf("unexpected signing method %v", token.Header["alg"])
		}
		return a.signingSecret, nil
	})
	if err != nil {
		presentError(ctx, c, errors.Wrap(models.UnAuthorizedError, err.Error()))
		c.Abort()
		return
	}

	creds := models.Credentials{
		UserId:         claims.Subject,
		OrganizationId: claims.OrganizationId,
		Role:           models.RoleFromString(claims.Role),
	}
	if creds.UserId == "" || creds.Role == "" {
		presentError(ctx, c, errors.Wrap(models.UnAuthorizedError, "token carries no usable identity"))
		c.Abort()
		return
	}

	c.Request = c.Request.WithContext(utils.StoreCredentialsInContext(ctx, creds))
	c.Next()
}

// JobWebhookMiddleware authenticates the analysis backend's callbacks with a
// shared secret carried in the X-Callback-Token header.
func (a Authentication) JobWebhookMiddleware(c *gin.Context) {
	ctx := c.Request.Context()

	if a.jobWebhookSecret == "" {
		presentError(ctx, c, errors.Wrap(models.UnAuthorizedError, "job webhook is not configured"))
		c.Abort()
		return
	}

	token := c.GetHeader("X-Callback-Token")
	if subtle.ConstantTimeCompare([]byte(token), []byte(a.jobWebhookSecret)) != 1 {
		presentError(ctx, c, errors.Wrap(models.UnAuthorizedError, "invalid callback token"))
		c.Abort()
		return
	}
	c.Next()
}
