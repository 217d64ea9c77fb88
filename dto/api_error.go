package dto

type ErrorCode string

const (
	ErrorCodeBadRequest          ErrorCode = "bad_request"
	ErrorCodeUnauthorized        ErrorCode = "unauthorized"
	ErrorCodeForbidden           ErrorCode = "forbidden"
	ErrorCodeNotFound            ErrorCode = "not_found"
	ErrorCodeConflict            ErrorCode = "conflict"
	ErrorCodeUnprocessable       ErrorCode = "unprocessable_entity"
	ErrorCodeDispatchFailed      ErrorCode = "analysis_dispatch_failed"
	ErrorCodeInternalServerError ErrorCode = "internal_server_error"
)

type APIErrorResponse struct {
	Message   string    `json:"message"`
	ErrorCode ErrorCode `json:"error_code"`
}
