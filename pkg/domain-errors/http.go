package domainerrors

import "net/http"

var statusByCode = map[Code]int{
	CodeBadRequest:         http.StatusBadRequest,
	CodeValidation:         http.StatusBadRequest,
	CodeInvalidInput:       http.StatusBadRequest,
	CodeWeakPassword:       http.StatusBadRequest,
	CodePasswordMismatch:   http.StatusBadRequest,
	CodeConsentRequired:    http.StatusBadRequest,
	CodeUnauthorized:       http.StatusUnauthorized,
	CodeInvalidCredentials: http.StatusUnauthorized,
	CodeInvalidOTP:         http.StatusUnauthorized,
	CodeEmailNotConfirmed:  http.StatusForbidden,
	CodeForbidden:          http.StatusForbidden,
	CodePermissionDenied:   http.StatusForbidden,
	CodeNotFound:           http.StatusNotFound,
	CodeUserNotFound:       http.StatusNotFound,
	CodeConflict:           http.StatusConflict,
	CodeAlreadyRegistered:  http.StatusConflict,
	CodeInvalidState:       http.StatusConflict,
	CodeInvariantViolation: http.StatusUnprocessableEntity,
	CodeCodeMismatch:       http.StatusUnprocessableEntity,
	CodeSurveyUnavailable:  http.StatusUnprocessableEntity,
	CodeSurveyLinkMissing:  http.StatusUnprocessableEntity,
	CodeRateLimited:        http.StatusTooManyRequests,
	CodeTimeout:            http.StatusGatewayTimeout,
	CodeUnavailable:        http.StatusServiceUnavailable,
	CodeUpstream:           http.StatusBadGateway,
	CodeInternal:           http.StatusInternalServerError,
}

// HTTPStatus maps a code to its response status. Unknown codes are 500.
func HTTPStatus(code Code) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
