// README: Concierge agent handlers (itinerary plan, freeform query, health).
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"concierge/internal/service"
)

// Agent is the concierge surface the handlers call; *service.Concierge implements it.
type Agent interface {
	Plan(ctx context.Context, req service.AgentRequest) (*service.Itinerary, error)
	Query(ctx context.Context, req service.AgentRequest) (*service.QueryResponse, error)
	Health(ctx context.Context) service.Health
}

type AgentHandler struct {
	agent Agent
}

func NewAgentHandler(agent Agent) *AgentHandler {
	return &AgentHandler{agent: agent}
}

// Plan handles POST /api/agent/plan.
func (h *AgentHandler) Plan(c *gin.Context) {
	var req service.AgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	plan, err := h.agent.Plan(c.Request.Context(), req)
	if err != nil {
		writeAgentError(c, "creating travel plan", err)
		return
	}
	writeJSON(c, http.StatusOK, plan)
}

// Query handles POST /api/agent/query.
func (h *AgentHandler) Query(c *gin.Context) {
	var req service.AgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	resp, err := h.agent.Query(c.Request.Context(), req)
	if err != nil {
		writeAgentError(c, "processing query", err)
		return
	}
	writeJSON(c, http.StatusOK, resp)
}

// Health handles GET /api/agent/health.
func (h *AgentHandler) Health(c *gin.Context) {
	writeJSON(c, http.StatusOK, h.agent.Health(c.Request.Context()))
}
