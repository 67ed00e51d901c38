package dto

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatusLine(t *testing.T) {
	assert.Equal(t, "401 UNAUTHORIZED", StatusLine(http.StatusUnauthorized))
	assert.Equal(t, "404 NOT_FOUND", StatusLine(http.StatusNotFound))
	assert.Equal(t, "500 INTERNAL_SERVER_ERROR", StatusLine(http.StatusInternalServerError))
}

func TestNewErrorResponse(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_123)
	resp := NewErrorResponse(http.StatusBadRequest, "Invalid verification link", now)

	assert.Equal(t, "Invalid verification link", resp.Error)
	assert.Equal(t, "400 BAD_REQUEST", resp.Status)
	assert.Equal(t, int64(1_700_000_000_123), resp.Timestamp)
}
