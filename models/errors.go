package models

import (
	"github.com/cockroachdb/errors"
)

// Base errors, related to default API status codes
var (
	// BadParameterError is rendered with the http status code 400
	BadParameterError = errors.New("bad parameter")

	// UnAuthorizedError is rendered with the http status code 401
	UnAuthorizedError = errors.New("unauthorized")

	// ForbiddenError is rendered with the http status code 403
	ForbiddenError = errors.New("forbidden")

	// NotFoundError is rendered with the http status code 404
	NotFoundError = errors.New("not found")

	// ConflictError is rendered with the http status code 409
	ConflictError = errors.New("duplicate value")

	// UnprocessableEntityError is rendered with the http status code 422
	UnprocessableEntityError = errors.New("unprocessable entity")
)

// Case lifecycle related errors
var (
	ErrInvalidCaseTransition = errors.Wrap(UnprocessableEntityError,
		"case status does not allow this transition")
	ErrCaseAlreadyProcessing = errors.Wrap(ConflictError,
		"case already has an analysis in flight")
	ErrCaseNotInReview = errors.Wrap(UnprocessableEntityError,
		"case is not in review")
)

// Job and dispatch related errors
var (
	ErrAnalysisDispatchFailed = errors.New("analysis backend rejected the task")
	ErrResultExtractionFailed = errors.New("result archive yielded no usable entries")
)

// DB related errors
var ErrIgnoreRollBackError = errors.New("ignore rollback error")
