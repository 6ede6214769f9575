package utils

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Response defines the standard API response envelope.
type Response struct {
	Success bool        `json:"success"`
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
	Meta    Meta        `json:"meta"`
}

// ErrorInfo provides details for error responses.
type ErrorInfo struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Meta contains request-scoped metadata.
type Meta struct {
	RequestID string `json:"requestId"`
	Timestamp string `json:"timestamp"`
}

// Success writes a success response with the standard envelope.
func Success(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, Response{
		Success: true,
		Code:    code,
		Message: message,
		Data:    data,
		Meta: Meta{
			RequestID: getRequestID(c),
			Timestamp: time.Now().Format(time.RFC3339),
		},
	})
}

// Error writes an error response with provided API error code and message.
func Error(c *gin.Context, code int, errCode, message string) {
	ErrorWithDetails(c, code, errCode, message, nil)
}

// ErrorWithDetails writes an error response carrying structured details,
// e.g. the shortfall on a below-minimum withdrawal.
func ErrorWithDetails(c *gin.Context, code int, errCode, message string, details interface{}) {
	c.JSON(code, Response{
		Success: false,
		Code:    code,
		Message: message,
		Error: &ErrorInfo{
			Code:    errCode,
			Message: message,
			Details: details,
		},
		Meta: Meta{
			RequestID: getRequestID(c),
			Timestamp: time.Now().Format(time.RFC3339),
		},
	})
}

func getRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	return uuid.New().String()[:8]
}
