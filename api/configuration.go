package api

import (
	"time"
)

type Configuration struct {
	Env              string
	AppName          string
	Port             string
	JwtSigningSecret string
	// JobWebhookSecret authenticates the analysis backend's job callbacks,
	// delivered in the X-Callback-Token header.
	JobWebhookSecret string
	AllowedOrigins   []string
	DefaultTimeout   time.Duration
	MaxCaseFileSize  int64
}
