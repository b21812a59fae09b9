package invitations

import (
	"github.com/gin-gonic/gin"

	"agenthub/services/agent-api/internal/interfaces/httpserver/handlers/authhandler"
	"agenthub/services/agent-api/internal/interfaces/httpserver/handlers/invitationhandler"
	"agenthub/services/agent-api/internal/interfaces/httpserver/middlewares"
	"agenthub/services/agent-api/internal/interfaces/httpserver/requests/invitationreq"
	"agenthub/services/agent-api/internal/interfaces/httpserver/responses"
	"agenthub/services/agent-api/internal/utils/platformerrors"
)

type InvitationRoute struct {
	handler     *invitationhandler.InvitationHandler
	authHandler *authhandler.AuthHandler
}

func NewInvitationRoute(handler *invitationhandler.InvitationHandler, authHandler *authhandler.AuthHandler) *InvitationRoute {
	return &InvitationRoute{
		handler:     handler,
		authHandler: authHandler,
	}
}

// RegisterRoutes registers the authenticated invitation routes. Redemption
// deliberately skips the identity chain: a redeeming user holds a valid
// token but has no workspace membership yet.
func (r *InvitationRoute) RegisterRoutes(rg *gin.RouterGroup) {
	invitations := rg.Group("/invitations")
	invitations.POST("", r.authHandler.WithIdentityChain(r.createInvitation)...)
	invitations.POST("/list", r.authHandler.WithIdentityChain(r.listInvitations)...)
	invitations.POST("/:code/use", r.useInvitation)
	invitations.PUT("/:code", r.authHandler.WithIdentityChain(r.updateInvitation)...)
	invitations.DELETE("/:code", r.authHandler.WithIdentityChain(r.deleteInvitation)...)
}

// RegisterPublicRoutes registers the unauthenticated invitation lookups
// used by signup pages before the user has a token.
func (r *InvitationRoute) RegisterPublicRoutes(rg *gin.RouterGroup) {
	invitations := rg.Group("/invitations")
	invitations.GET("/:code", r.getInvitation)
	invitations.GET("/:code/check", r.checkInvitation)
	invitations.GET("/:code/available", r.invitationAvailable)
	invitations.POST("/:code/update-status", r.refreshInvitationStatus)
}

// createInvitation godoc
// @Summary Create invitation
// @Description Issue an invitation code for a workspace
// @Tags Invitations API
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body invitationreq.CreateInvitationRequest true "Invitation settings"
// @Success 201 {object} invitationres.InvitationResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 401 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /v1/invitations [post]
func (r *InvitationRoute) createInvitation(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	identity, ok := authhandler.GetIdentityFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "authentication required", "invite-create-001")
		return
	}

	var req invitationreq.CreateInvitationRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "invalid request body", "invite-create-002")
		return
	}

	response, err := r.handler.CreateInvitation(ctx, identity.UserID, identity.TenantID, req)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to create invitation")
		return
	}

	reqCtx.JSON(201, response)
}

// listInvitations godoc
// @Summary List invitations
// @Description Page through invitation codes visible to the caller
// @Tags Invitations API
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body invitationreq.ListInvitationsRequest true "Paging and sorting"
// @Success 200 {object} invitationres.InvitationListResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 401 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /v1/invitations/list [post]
func (r *InvitationRoute) listInvitations(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	identity, ok := authhandler.GetIdentityFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "authentication required", "invite-list-001")
		return
	}

	var req invitationreq.ListInvitationsRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "invalid request body", "invite-list-002")
		return
	}

	response, err := r.handler.ListInvitations(ctx, identity.UserID, req)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to list invitations")
		return
	}

	reqCtx.JSON(200, response)
}

// useInvitation godoc
// @Summary Use invitation
// @Description Redeem a code and enroll the calling user in the issuing workspace
// @Tags Invitations API
// @Security BearerAuth
// @Produce json
// @Param code path string true "Invitation code"
// @Success 200 {object} invitation.UseResult
// @Failure 401 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /v1/invitations/{code}/use [post]
func (r *InvitationRoute) useInvitation(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	principal, ok := middlewares.PrincipalFromContext(reqCtx)
	if !ok || principal.UserID == "" {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "authentication required", "invite-use-001")
		return
	}

	code := reqCtx.Param("code")

	response, err := r.handler.UseInvitation(ctx, code, principal.UserID)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to use invitation")
		return
	}

	reqCtx.JSON(200, response)
}

// updateInvitation godoc
// @Summary Update invitation
// @Description Patch capacity, expiry or group grants of a code
// @Tags Invitations API
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param code path string true "Invitation code"
// @Param request body invitationreq.UpdateInvitationRequest true "Fields to patch"
// @Success 200 {object} invitationres.InvitationResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 401 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /v1/invitations/{code} [put]
func (r *InvitationRoute) updateInvitation(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	identity, ok := authhandler.GetIdentityFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "authentication required", "invite-update-001")
		return
	}

	code := reqCtx.Param("code")

	var req invitationreq.UpdateInvitationRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "invalid request body", "invite-update-002")
		return
	}

	response, err := r.handler.UpdateInvitation(ctx, code, identity.UserID, req)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to update invitation")
		return
	}

	reqCtx.JSON(200, response)
}

// deleteInvitation godoc
// @Summary Delete invitation
// @Description Soft-delete an invitation code
// @Tags Invitations API
// @Security BearerAuth
// @Produce json
// @Param code path string true "Invitation code"
// @Success 200 {object} invitationres.InvitationDeletedResponse
// @Failure 401 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /v1/invitations/{code} [delete]
func (r *InvitationRoute) deleteInvitation(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	identity, ok := authhandler.GetIdentityFromContext(reqCtx)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeUnauthorized, "authentication required", "invite-delete-001")
		return
	}

	code := reqCtx.Param("code")

	response, err := r.handler.DeleteInvitation(ctx, code, identity.UserID)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to delete invitation")
		return
	}

	reqCtx.JSON(200, response)
}

// getInvitation godoc
// @Summary Get invitation
// @Description Get one invitation with its derived status
// @Tags Invitations API
// @Produce json
// @Param code path string true "Invitation code"
// @Success 200 {object} invitationres.InvitationResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /v1/invitations/{code} [get]
func (r *InvitationRoute) getInvitation(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	code := reqCtx.Param("code")

	response, err := r.handler.GetInvitation(ctx, code)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to get invitation")
		return
	}

	reqCtx.JSON(200, response)
}

// checkInvitation godoc
// @Summary Check invitation
// @Description Report whether a code exists
// @Tags Invitations API
// @Produce json
// @Param code path string true "Invitation code"
// @Success 200 {object} invitationres.CheckResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /v1/invitations/{code}/check [get]
func (r *InvitationRoute) checkInvitation(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	code := reqCtx.Param("code")

	response, err := r.handler.CheckInvitation(ctx, code)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to check invitation")
		return
	}

	reqCtx.JSON(200, response)
}

// invitationAvailable godoc
// @Summary Invitation availability
// @Description Report whether a code can still be redeemed
// @Tags Invitations API
// @Produce json
// @Param code path string true "Invitation code"
// @Success 200 {object} invitationres.AvailableResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /v1/invitations/{code}/available [get]
func (r *InvitationRoute) invitationAvailable(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	code := reqCtx.Param("code")

	response, err := r.handler.InvitationAvailable(ctx, code)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to check invitation availability")
		return
	}

	reqCtx.JSON(200, response)
}

// refreshInvitationStatus godoc
// @Summary Refresh invitation status
// @Description Re-derive and persist the stored status of a code
// @Tags Invitations API
// @Produce json
// @Param code path string true "Invitation code"
// @Success 200 {object} invitationres.RefreshStatusResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 500 {object} responses.ErrorResponse
// @Router /v1/invitations/{code}/update-status [post]
func (r *InvitationRoute) refreshInvitationStatus(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	code := reqCtx.Param("code")

	response, err := r.handler.RefreshInvitationStatus(ctx, code)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to refresh invitation status")
		return
	}

	reqCtx.JSON(200, response)
}
