package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the JSON envelope of every API answer
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo represents error details in the response
type ErrorInfo struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// Error codes
const (
	// session gate
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeInvalidToken = "INVALID_TOKEN"
	ErrCodeTokenExpired = "TOKEN_EXPIRED"

	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeTenantNotFound   = "TENANT_NOT_FOUND"
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodeSlotTaken        = "SLOT_TAKEN"
	ErrCodeTooManyRequests  = "TOO_MANY_REQUESTS"

	ErrCodeInternalError        = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable   = "SERVICE_UNAVAILABLE"
	ErrCodePaymentNotConfigured = "PAYMENT_NOT_CONFIGURED"
)

var statusByCode = map[string]int{
	ErrCodeUnauthorized:         http.StatusUnauthorized,
	ErrCodeInvalidToken:         http.StatusUnauthorized,
	ErrCodeTokenExpired:         http.StatusUnauthorized,
	ErrCodeNotFound:             http.StatusNotFound,
	ErrCodeTenantNotFound:       http.StatusNotFound,
	ErrCodeValidationFailed:     http.StatusBadRequest,
	ErrCodeSlotTaken:            http.StatusConflict,
	ErrCodeTooManyRequests:      http.StatusTooManyRequests,
	ErrCodeInternalError:        http.StatusInternalServerError,
	ErrCodeServiceUnavailable:   http.StatusServiceUnavailable,
	ErrCodePaymentNotConfigured: http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes are server errors.
func GetHTTPStatus(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Status returns the HTTP status the envelope is sent with
func (r *Response) Status() int {
	if r.Error == nil {
		return http.StatusOK
	}
	return GetHTTPStatus(r.Error.Code)
}

// Success creates a success response with data
func Success(data interface{}) *Response {
	return &Response{
		Success: true,
		Data:    data,
	}
}

// Error creates an error response
func Error(code string, message string) *Response {
	return &Response{
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	}
}

// ErrorWithDetails creates an error response with additional details
func ErrorWithDetails(code string, message string, details map[string]string) *Response {
	r := Error(code, message)
	r.Error.Details = details
	return r
}

func errorOr(code, message, fallback string) *Response {
	if message == "" {
		message = fallback
	}
	return Error(code, message)
}

// Unauthorized is sent to API calls without a session
func Unauthorized(message string) *Response {
	return errorOr(ErrCodeUnauthorized, message, "Authentication required")
}

// TokenExpired is sent to API calls whose session has expired
func TokenExpired(message string) *Response {
	return errorOr(ErrCodeTokenExpired, message, "Session has expired")
}

// InvalidToken is sent to API calls with a session that fails verification
func InvalidToken(message string) *Response {
	return errorOr(ErrCodeInvalidToken, message, "Invalid session token")
}

// NotFound creates a not found error response
func NotFound(message string) *Response {
	return errorOr(ErrCodeNotFound, message, "Resource not found")
}

// TenantNotFound is sent when the company or domain a request names does not exist
func TenantNotFound(message string) *Response {
	return errorOr(ErrCodeTenantNotFound, message, "Tenant not found")
}

// ValidationFailed rejects malformed input
func ValidationFailed(message string) *Response {
	return errorOr(ErrCodeValidationFailed, message, "Validation failed")
}

// SlotTaken creates an error response for an already booked appointment slot
func SlotTaken(message string) *Response {
	return errorOr(ErrCodeSlotTaken, message, "The selected slot is no longer available")
}

// TooManyRequests creates a rate limit error response
func TooManyRequests(message string) *Response {
	return errorOr(ErrCodeTooManyRequests, message, "Too many requests, please try again later")
}

// InternalError creates an internal server error response
func InternalError(message string) *Response {
	return errorOr(ErrCodeInternalError, message, "An internal error occurred")
}

// ServiceUnavailable creates a service unavailable error response
func ServiceUnavailable(message string) *Response {
	return errorOr(ErrCodeServiceUnavailable, message, "Service temporarily unavailable")
}

// PaymentNotConfigured is sent when a payment provider has no credentials
func PaymentNotConfigured(message string) *Response {
	return errorOr(ErrCodePaymentNotConfigured, message, "Payment provider is not configured")
}

// Abort writes r with its mapped status and stops the handler chain
func Abort(c *gin.Context, r *Response) {
	c.AbortWithStatusJSON(r.Status(), r)
}
