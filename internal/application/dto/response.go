package dto

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrorResponse 错误响应结构
type ErrorResponse struct {
	Error     string `json:"error"`
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
}

// NewErrorResponse builds the body for status, e.g. {"status": "401 UNAUTHORIZED"}.
func NewErrorResponse(status int, message string, now time.Time) *ErrorResponse {
	return &ErrorResponse{
		Error:     message,
		Status:    StatusLine(status),
		Timestamp: now.UnixMilli(),
	}
}

// StatusLine formats status as "<code> <REASON_PHRASE>".
func StatusLine(status int) string {
	reason := strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))
	return fmt.Sprintf("%d %s", status, reason)
}
