// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"concierge/internal/modules/quota"
	"concierge/internal/service"
)

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg, detail string) {
	writeJSON(c, status, errorResponse{Error: msg, Detail: detail})
}

// writeAgentError maps concierge errors to a status; op names the failed operation
// in the generic 500 message.
func writeAgentError(c *gin.Context, op string, err error) {
	_ = c.Error(err)
	switch {
	case errors.Is(err, service.ErrBadRequest):
		writeError(c, http.StatusBadRequest, "bad request", err.Error())
	case errors.Is(err, quota.ErrExhausted):
		writeError(c, http.StatusTooManyRequests, err.Error(), "")
	default:
		writeError(c, http.StatusInternalServerError, "Error "+op, err.Error())
	}
}
