// Package responses centralises HTTP error rendering so every handler
// returns the same error envelope.
package responses

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Jobly-Solutions/lente-ai-sub001/internal/infrastructure/logger"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/utils/apperrors"
)

// ErrorResponse is the envelope returned for every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

// HandleError renders err with the status derived from its type. Typed
// errors keep their message and code; untyped errors become a 500 with
// the fallback message so internals never leak.
func HandleError(c *gin.Context, err error, fallback string) {
	appErr, ok := apperrors.FromError(err)
	if !ok {
		log := logger.GetLogger()
		log.Error().Err(err).Str("path", c.FullPath()).Msg("unhandled error")
		if fallback == "" {
			fallback = "internal server error"
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
			Error:   http.StatusText(http.StatusInternalServerError),
			Message: fallback,
		})
		return
	}

	status := apperrors.HTTPStatus(appErr)

	// Upstream failures carry the platform's body through verbatim so
	// the web client sees exactly what the platform said.
	if appErr.Type == apperrors.ErrorTypeUpstream && len(appErr.UpstreamBody) > 0 {
		contentType := appErr.UpstreamContentType
		if contentType == "" {
			contentType = "application/json"
		}
		c.Data(status, contentType, appErr.UpstreamBody)
		c.Abort()
		return
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: appErr.Message,
		Code:    appErr.Code,
	})
}

// HandleNewError renders a fresh typed error raised at the handler layer.
func HandleNewError(c *gin.Context, errType apperrors.ErrorType, message, code string) {
	err := apperrors.New(c.Request.Context(), apperrors.LayerHandler, errType, message, nil, code)
	HandleError(c, err, message)
}

// WriteUpstream relays an upstream response. JSON bodies pass through
// verbatim with their status; anything else is wrapped as an opaque
// JSON string so the web client always receives JSON.
func WriteUpstream(c *gin.Context, status int, contentType string, body []byte) {
	if contentType == "" || strings.Contains(contentType, "json") {
		c.Data(status, "application/json", body)
		return
	}
	c.JSON(status, gin.H{"data": string(body)})
}

// HandleErrorWithStatus renders err with an explicit status code.
func HandleErrorWithStatus(c *gin.Context, status int, err error, message string) {
	resp := ErrorResponse{Error: http.StatusText(status), Message: message}
	if resp.Message == "" && err != nil {
		resp.Message = err.Error()
	}
	c.AbortWithStatusJSON(status, resp)
}
