package http

import (
	"errors"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/abbrbot/internal/abbr"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"` // machine-readable error code
}

// Error codes for failed lookups.
const (
	CodeUpstreamTimeout = "upstream_timeout"
	CodeUpstreamStatus  = "upstream_status"
	CodeUpstreamError   = "upstream_error"
	CodeNotConfigured   = "not_configured"
)

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found"})
}

// respondLookupError logs a failed upstream lookup and reports it to the
// caller. The chat user gets no reply for these; the caller decides what to
// show.
func respondLookupError(c *gin.Context, logger *zap.Logger, err error, fields ...zap.Field) {
	logger.Error("abbreviation lookup failed", append(fields, zap.Error(err))...)

	status, code := classifyLookupError(err)
	c.JSON(status, ErrorResponse{Error: "abbreviation lookup failed", Code: code})
}

func classifyLookupError(err error) (int, string) {
	if errors.Is(err, abbr.ErrNoEndpoint) {
		return http.StatusServiceUnavailable, CodeNotConfigured
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return http.StatusGatewayTimeout, CodeUpstreamTimeout
	}
	var statusErr *abbr.StatusError
	if errors.As(err, &statusErr) {
		return http.StatusBadGateway, CodeUpstreamStatus
	}
	return http.StatusBadGateway, CodeUpstreamError
}
