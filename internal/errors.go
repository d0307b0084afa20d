package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation      ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound        ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized    ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden       ErrorType = "FORBIDDEN"
	ErrorTypeConflict        ErrorType = "CONFLICT"
	ErrorTypeTooManyRequests ErrorType = "TOO_MANY_REQUESTS"
	ErrorTypeInternal        ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeIDRequired       ErrorCode = "ID_REQUIRED"
	ErrCodeNameRequired     ErrorCode = "NAME_REQUIRED"
	ErrCodeInvalidBody      ErrorCode = "INVALID_BODY"
	ErrCodeInvalidDate      ErrorCode = "INVALID_DATE"

	ErrCodeOrgUnitNotFound    ErrorCode = "ORG_UNIT_NOT_FOUND"
	ErrCodeOrgUnitNotOwned    ErrorCode = "ORG_UNIT_NOT_OWNED"
	ErrCodeOrgUnitSelfParent  ErrorCode = "ORG_UNIT_SELF_PARENT"
	ErrCodeOrgUnitCycle       ErrorCode = "ORG_UNIT_CYCLE"
	ErrCodeReorderEmpty       ErrorCode = "REORDER_EMPTY"
	ErrCodeReorderCrossLevel  ErrorCode = "REORDER_CROSS_LEVEL"
	ErrCodeRuleNotFound       ErrorCode = "RULE_NOT_FOUND"
	ErrCodeRuleNotAllowed     ErrorCode = "RULE_NOT_ALLOWED"
	ErrCodePhasesRequired     ErrorCode = "PHASES_REQUIRED"
	ErrCodeInvalidOffsetDays  ErrorCode = "INVALID_OFFSET_DAYS"
	ErrCodeInvalidTimingType  ErrorCode = "INVALID_TIMING_TYPE"
	ErrCodeTitleNotFound      ErrorCode = "RESIDENCE_TITLE_NOT_FOUND"
	ErrCodeTitleNotAllowed    ErrorCode = "RESIDENCE_TITLE_NOT_ALLOWED"
	ErrCodeEmployeeNotFound   ErrorCode = "EMPLOYEE_NOT_FOUND"
	ErrCodeRequiredField      ErrorCode = "REQUIRED_FIELD_MISSING"
	ErrCodeInvalidStatus      ErrorCode = "INVALID_STATUS"
	ErrCodeNoFiles            ErrorCode = "NO_FILES"
	ErrCodeFileTooLarge       ErrorCode = "FILE_TOO_LARGE"
	ErrCodeDocumentNotFound   ErrorCode = "DOCUMENT_NOT_FOUND"
	ErrCodeProfileNotFound    ErrorCode = "PROFILE_NOT_FOUND"
	ErrCodeCredentialsMissing ErrorCode = "CREDENTIALS_MISSING"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeUserInactive       ErrorCode = "USER_INACTIVE"
	ErrCodeUnauthenticated    ErrorCode = "UNAUTHENTICATED"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
	ErrCodeLoginThrottled     ErrorCode = "LOGIN_THROTTLED"
	ErrCodeUserNotFound       ErrorCode = "USER_NOT_FOUND"
	ErrCodeEmailTaken         ErrorCode = "EMAIL_TAKEN"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// GetDetailedMessage joins all field messages, or returns Message when there are none.
func (e *AppError) GetDetailedMessage() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			messages := make([]string, len(validationErrors.Errors))
			for i, err := range validationErrors.Errors {
				messages[i] = err.Message
			}
			return strings.Join(messages, "; ")
		}
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

// Is matches on Code so that sentinel values work with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Type == t.Type
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewTooManyRequestsError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeTooManyRequests,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusTooManyRequests,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

// Shared across domains. Messages are shown to end users as-is.
var (
	ErrIDRequired         = NewValidationError("ID ist erforderlich.", ErrCodeIDRequired)
	ErrInvalidBody        = NewValidationError("Ungültiger Request-Body.", ErrCodeInvalidBody)
	ErrUnitsNotOwned      = NewValidationError("Einige Einheiten wurden nicht gefunden oder gehören nicht zu diesem Benutzer.", ErrCodeOrgUnitNotOwned)
	ErrUnauthenticated    = NewUnauthorizedError("Nicht angemeldet.", ErrCodeUnauthenticated)
	ErrInvalidToken       = NewUnauthorizedError("Ungültiges Token.", ErrCodeInvalidToken)
	ErrTokenExpired       = NewUnauthorizedError("Token ist abgelaufen.", ErrCodeTokenExpired)
	ErrInvalidCredentials = NewUnauthorizedError("Ungültige Anmeldedaten.", ErrCodeInvalidCredentials)
	ErrUserInactive       = NewForbiddenError("Benutzerkonto ist deaktiviert.", ErrCodeUserInactive)
)

// IsAppError unwraps err looking for an *AppError.
func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Response is the error body written to clients.
type Response struct {
	Error   string      `json:"error"`
	Code    ErrorCode   `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

func (e *AppError) ToHTTPResponse() (int, Response) {
	status := e.StatusCode
	if status == 0 {
		status = http.StatusInternalServerError
	}
	msg := e.GetDetailedMessage()
	if e.Type == ErrorTypeInternal && e.Cause != nil {
		msg = e.Cause.Error()
	}
	return status, Response{Error: msg, Code: e.Code, Details: e.Details}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
