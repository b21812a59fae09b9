package agents

import (
	"github.com/gin-gonic/gin"

	"agenthub/services/agent-api/internal/interfaces/httpserver/handlers/agenthandler"
	"agenthub/services/agent-api/internal/interfaces/httpserver/handlers/authhandler"
	"agenthub/services/agent-api/internal/interfaces/httpserver/requests"
	"agenthub/services/agent-api/internal/interfaces/httpserver/requests/agentreq"
	"agenthub/services/agent-api/internal/interfaces/httpserver/responses"
	"agenthub/services/agent-api/internal/utils/platformerrors"
)

type AgentRoute struct {
	handler     *agenthandler.AgentHandler
	authHandler *authhandler.AuthHandler
}

func NewAgentRoute(handler *agenthandler.AgentHandler, authHandler *authhandler.AuthHandler) *AgentRoute {
	return &AgentRoute{
		handler:     handler,
		authHandler: authHandler,
	}
}

// RegisterRoutes registers agent CRUD and composition routes
func (r *AgentRoute) RegisterRoutes(rg *gin.RouterGroup) {
	agents := rg.Group("/agents")
	agents.POST("", r.authHandler.WithIdentityChain(r.createAgent)...)
	agents.GET("", r.authHandler.WithIdentityChain(r.listAgents)...)
	agents.POST("/check_name", r.authHandler.WithIdentityChain(r.checkNames)...)
	agents.POST("/name_suggestions", r.authHandler.WithIdentityChain(r.suggestNames)...)
	agents.POST("/creating", r.authHandler.WithIdentityChain(r.creatingAgent)...)
	agents.POST("/import", r.authHandler.WithIdentityChain(r.importAgent)...)
	agents.GET("/:agent_id", r.authHandler.WithIdentityChain(r.getAgent)...)
	agents.PUT("/:agent_id", r.authHandler.WithIdentityChain(r.updateAgent)...)
	agents.DELETE("/:agent_id", r.authHandler.WithIdentityChain(r.deleteAgent)...)
	agents.POST("/:agent_id/clear_new", r.authHandler.WithIdentityChain(r.clearNew)...)
	agents.GET("/:agent_id/relationships", r.authHandler.WithIdentityChain(r.relationships)...)
	agents.GET("/:agent_id/export", r.authHandler.WithIdentityChain(r.exportAgent)...)
	agents.GET("/:agent_id/tools", r.authHandler.WithIdentityChain(r.toolBindings)...)
	agents.PUT("/:agent_id/tools/:tool_id", r.authHandler.WithIdentityChain(r.bindTool)...)
}

// createAgent godoc
// @Summary Create agent
// @Description Create a new draft agent in the caller's workspace
// @Tags Agents API
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body agentreq.CreateAgentRequest true "Create agent request"
// @Success 201 {object} agentres.AgentResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 401 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /v1/agents [post]
func (r *AgentRoute) createAgent(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	identity, ok := authhandler.GetIdentityFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "authentication required", "agent-create-001")
		return
	}

	var req agentreq.CreateAgentRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "invalid request body", "agent-create-002")
		return
	}

	response, err := r.handler.CreateAgent(ctx, identity.TenantID, identity.UserID, req)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to create agent")
		return
	}

	reqCtx.JSON(201, response)
}

// listAgents godoc
// @Summary List agents
// @Description List agents in the caller's workspace, newest first
// @Tags Agents API
// @Security BearerAuth
// @Produce json
// @Success 200 {object} agentres.AgentListResponse
// @Failure 401 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /v1/agents [get]
func (r *AgentRoute) listAgents(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	identity, ok := authhandler.GetIdentityFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "authentication required", "agent-list-001")
		return
	}

	response, err := r.handler.ListAgents(ctx, identity.TenantID, identity.UserID)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to list agents")
		return
	}

	reqCtx.JSON(200, response)
}

// checkNames godoc
// @Summary Check agent names
// @Description Check a batch of agent names for conflicts within the workspace
// @Tags Agents API
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body agentreq.CheckNameRequest true "Names to check"
// @Success 200 {object} agentres.CheckNameResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 401 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /v1/agents/check_name [post]
func (r *AgentRoute) checkNames(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	identity, ok := authhandler.GetIdentityFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "authentication required", "agent-checkname-001")
		return
	}

	var req agentreq.CheckNameRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "invalid request body", "agent-checkname-002")
		return
	}

	response, err := r.handler.CheckNames(ctx, identity.TenantID, req)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to check agent names")
		return
	}

	reqCtx.JSON(200, response)
}

// suggestNames godoc
// @Summary Suggest agent names
// @Description Generate conflict-free replacement names for a batch of agents
// @Tags Agents API
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body agentreq.NameSuggestRequest true "Agents needing new names"
// @Success 200 {object} agentres.NameSuggestResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 401 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /v1/agents/name_suggestions [post]
func (r *AgentRoute) suggestNames(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	identity, ok := authhandler.GetIdentityFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "authentication required", "agent-suggest-001")
		return
	}

	var req agentreq.NameSuggestRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "invalid request body", "agent-suggest-002")
		return
	}

	response, err := r.handler.SuggestNames(ctx, identity.TenantID, req)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to suggest agent names")
		return
	}

	reqCtx.JSON(200, response)
}

// creatingAgent godoc
// @Summary Reserve creating agent id
// @Description Return the placeholder agent id used while a sub-agent is being created
// @Tags Agents API
// @Security BearerAuth
// @Produce json
// @Success 200 {object} agentres.CreatingAgentResponse
// @Failure 401 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /v1/agents/creating [post]
func (r *AgentRoute) creatingAgent(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	identity, ok := authhandler.GetIdentityFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "authentication required", "agent-creating-001")
		return
	}

	response, err := r.handler.CreatingAgent(ctx, identity.TenantID, identity.UserID)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to reserve creating agent")
		return
	}

	reqCtx.JSON(200, response)
}

// importAgent godoc
// @Summary Import agent
// @Description Recreate an exported agent tree inside the caller's workspace
// @Tags Agents API
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body agentreq.ImportAgentRequest true "Exported agent payload"
// @Success 200 {object} agentres.ImportAgentResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 401 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /v1/agents/import [post]
func (r *AgentRoute) importAgent(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	identity, ok := authhandler.GetIdentityFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "authentication required", "agent-import-001")
		return
	}

	var req agentreq.ImportAgentRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "invalid request body", "agent-import-002")
		return
	}

	response, err := r.handler.ImportAgent(ctx, identity.TenantID, identity.UserID, req)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to import agent")
		return
	}

	reqCtx.JSON(200, response)
}

// getAgent godoc
// @Summary Get agent
// @Description Get the draft detail of one agent with the caller's permission
// @Tags Agents API
// @Security BearerAuth
// @Produce json
// @Param agent_id path int true "Agent ID"
// @Success 200 {object} agent.Info
// @Failure 400 {object} responses.ErrorResponse
// @Failure 401 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /v1/agents/{agent_id} [get]
func (r *AgentRoute) getAgent(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	identity, ok := authhandler.GetIdentityFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "authentication required", "agent-get-001")
		return
	}

	agentID, err := requests.UintParam(reqCtx, "agent_id")
	if err != nil {
		responses.HandleError(reqCtx, err, "Invalid agent id")
		return
	}

	response, err := r.handler.GetAgent(ctx, agentID, identity.TenantID, identity.UserID)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to get agent")
		return
	}

	reqCtx.JSON(200, response)
}

// updateAgent godoc
// @Summary Update agent
// @Description Update the draft revision of an agent
// @Tags Agents API
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param agent_id path int true "Agent ID"
// @Param request body agentreq.UpdateAgentRequest true "Update agent request"
// @Success 200 {object} agentres.AgentResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 401 {object} responses.ErrorResponse
// @Failure 403 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /v1/agents/{agent_id} [put]
func (r *AgentRoute) updateAgent(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	identity, ok := authhandler.GetIdentityFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "authentication required", "agent-update-001")
		return
	}

	agentID, err := requests.UintParam(reqCtx, "agent_id")
	if err != nil {
		responses.HandleError(reqCtx, err, "Invalid agent id")
		return
	}

	var req agentreq.UpdateAgentRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "invalid request body", "agent-update-002")
		return
	}

	response, err := r.handler.UpdateAgent(ctx, agentID, identity.TenantID, identity.UserID, req)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to update agent")
		return
	}

	reqCtx.JSON(200, response)
}

// deleteAgent godoc
// @Summary Delete agent
// @Description Soft-delete an agent with its versions and tool bindings
// @Tags Agents API
// @Security BearerAuth
// @Produce json
// @Param agent_id path int true "Agent ID"
// @Success 200 {object} agentres.AgentDeletedResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 401 {object} responses.ErrorResponse
// @Failure 403 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /v1/agents/{agent_id} [delete]
func (r *AgentRoute) deleteAgent(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	identity, ok := authhandler.GetIdentityFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "authentication required", "agent-delete-001")
		return
	}

	agentID, err := requests.UintParam(reqCtx, "agent_id")
	if err != nil {
		responses.HandleError(reqCtx, err, "Invalid agent id")
		return
	}

	response, err := r.handler.DeleteAgent(ctx, agentID, identity.TenantID, identity.UserID)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to delete agent")
		return
	}

	reqCtx.JSON(200, response)
}

// clearNew godoc
// @Summary Clear new-version flags
// @Description Clear the new-version badge on the agent's tool bindings
// @Tags Agents API
// @Security BearerAuth
// @Produce json
// @Param agent_id path int true "Agent ID"
// @Success 200 {object} agentres.ClearNewResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 401 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /v1/agents/{agent_id}/clear_new [post]
func (r *AgentRoute) clearNew(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	identity, ok := authhandler.GetIdentityFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "authentication required", "agent-clearnew-001")
		return
	}

	agentID, err := requests.UintParam(reqCtx, "agent_id")
	if err != nil {
		responses.HandleError(reqCtx, err, "Invalid agent id")
		return
	}

	response, err := r.handler.ClearNewFlags(ctx, agentID, identity.TenantID, identity.UserID)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to clear new flags")
		return
	}

	reqCtx.JSON(200, response)
}

// relationships godoc
// @Summary Agent call relationships
// @Description Resolve the recursive sub-agent call tree of an agent
// @Tags Agents API
// @Security BearerAuth
// @Produce json
// @Param agent_id path int true "Agent ID"
// @Success 200 {object} agent.CallNode
// @Failure 400 {object} responses.ErrorResponse
// @Failure 401 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /v1/agents/{agent_id}/relationships [get]
func (r *AgentRoute) relationships(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	identity, ok := authhandler.GetIdentityFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "authentication required", "agent-rel-001")
		return
	}

	agentID, err := requests.UintParam(reqCtx, "agent_id")
	if err != nil {
		responses.HandleError(reqCtx, err, "Invalid agent id")
		return
	}

	response, err := r.handler.Relationship(ctx, agentID, identity.TenantID)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to resolve agent relationships")
		return
	}

	reqCtx.JSON(200, response)
}

// exportAgent godoc
// @Summary Export agent
// @Description Serialize an agent and its sub-agents for transfer
// @Tags Agents API
// @Security BearerAuth
// @Produce json
// @Param agent_id path int true "Agent ID"
// @Success 200 {object} agent.ExportPayload
// @Failure 400 {object} responses.ErrorResponse
// @Failure 401 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /v1/agents/{agent_id}/export [get]
func (r *AgentRoute) exportAgent(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	identity, ok := authhandler.GetIdentityFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "authentication required", "agent-export-001")
		return
	}

	agentID, err := requests.UintParam(reqCtx, "agent_id")
	if err != nil {
		responses.HandleError(reqCtx, err, "Invalid agent id")
		return
	}

	response, err := r.handler.ExportAgent(ctx, agentID, identity.TenantID)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to export agent")
		return
	}

	reqCtx.JSON(200, response)
}

// toolBindings godoc
// @Summary List agent tools
// @Description List the tools bound to the agent's draft revision
// @Tags Agents API
// @Security BearerAuth
// @Produce json
// @Param agent_id path int true "Agent ID"
// @Success 200 {object} agentres.ToolBindingsResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 401 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /v1/agents/{agent_id}/tools [get]
func (r *AgentRoute) toolBindings(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	identity, ok := authhandler.GetIdentityFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "authentication required", "agent-tools-001")
		return
	}

	agentID, err := requests.UintParam(reqCtx, "agent_id")
	if err != nil {
		responses.HandleError(reqCtx, err, "Invalid agent id")
		return
	}

	response, err := r.handler.ToolBindings(ctx, agentID, identity.TenantID)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to list tool bindings")
		return
	}

	reqCtx.JSON(200, response)
}

// bindTool godoc
// @Summary Bind tool
// @Description Attach or reconfigure one tool on the agent's draft revision
// @Tags Agents API
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param agent_id path int true "Agent ID"
// @Param tool_id path int true "Tool ID"
// @Param request body agentreq.BindToolRequest true "Binding settings"
// @Success 200 {object} agentres.BindToolResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 401 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /v1/agents/{agent_id}/tools/{tool_id} [put]
func (r *AgentRoute) bindTool(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	identity, ok := authhandler.GetIdentityFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "authentication required", "agent-bindtool-001")
		return
	}

	agentID, err := requests.UintParam(reqCtx, "agent_id")
	if err != nil {
		responses.HandleError(reqCtx, err, "Invalid agent id")
		return
	}

	toolID, err := requests.UintParam(reqCtx, "tool_id")
	if err != nil {
		responses.HandleError(reqCtx, err, "Invalid tool id")
		return
	}

	var req agentreq.BindToolRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "invalid request body", "agent-bindtool-002")
		return
	}

	response, err := r.handler.BindTool(ctx, agentID, toolID, identity.TenantID, identity.UserID, req)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to bind tool")
		return
	}

	reqCtx.JSON(200, response)
}
