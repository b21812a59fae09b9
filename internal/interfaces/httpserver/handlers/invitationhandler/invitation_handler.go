package invitationhandler

import (
	"context"
	"strings"
	"time"

	"agenthub/services/agent-api/internal/domain/invitation"
	"agenthub/services/agent-api/internal/domain/tenant"
	"agenthub/services/agent-api/internal/infrastructure/metrics"
	"agenthub/services/agent-api/internal/interfaces/httpserver/requests/invitationreq"
	"agenthub/services/agent-api/internal/interfaces/httpserver/responses/invitationres"
	"agenthub/services/agent-api/internal/utils/platformerrors"
)

type InvitationHandler struct {
	invitationService *invitation.Service
	memberService     *tenant.Service
}

func NewInvitationHandler(invitationService *invitation.Service, memberService *tenant.Service) *InvitationHandler {
	return &InvitationHandler{
		invitationService: invitationService,
		memberService:     memberService,
	}
}

// CreateInvitation issues an invitation code. When the request omits the
// tenant the code is issued for the caller's own tenant.
func (h *InvitationHandler) CreateInvitation(
	ctx context.Context,
	userID string,
	tenantID string,
	req invitationreq.CreateInvitationRequest,
) (*invitationres.InvitationResponse, error) {
	targetTenant := strings.TrimSpace(req.TenantID)
	if targetTenant == "" {
		targetTenant = tenantID
	}

	in := invitation.CreateInput{
		TenantID:  targetTenant,
		CodeType:  invitation.CodeType(strings.ToUpper(strings.TrimSpace(req.CodeType))),
		Code:      req.Code,
		GroupIDs:  req.GroupIDs,
		Capacity:  req.Capacity,
		ExpiresAt: epochToTime(req.ExpiresAt),
	}

	inv, err := h.invitationService.Create(ctx, userID, in)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to create invitation")
	}

	return invitationres.NewInvitationResponse(inv), nil
}

// GetInvitation retrieves one invitation with its derived status
func (h *InvitationHandler) GetInvitation(
	ctx context.Context,
	code string,
) (*invitationres.InvitationResponse, error) {
	inv, err := h.invitationService.GetByCode(ctx, code)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to get invitation")
	}

	return invitationres.NewInvitationResponse(inv), nil
}

// CheckInvitation reports whether a code exists
func (h *InvitationHandler) CheckInvitation(
	ctx context.Context,
	code string,
) (*invitationres.CheckResponse, error) {
	exists, err := h.invitationService.Check(ctx, code)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to check invitation")
	}

	return &invitationres.CheckResponse{
		Code:   code,
		Exists: exists,
	}, nil
}

// InvitationAvailable reports whether a code can still be redeemed
func (h *InvitationHandler) InvitationAvailable(
	ctx context.Context,
	code string,
) (*invitationres.AvailableResponse, error) {
	available, err := h.invitationService.Available(ctx, code)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to check invitation availability")
	}

	return &invitationres.AvailableResponse{
		Code:      code,
		Available: available,
	}, nil
}

// UseInvitation redeems a code for the calling user and enrolls them in the
// issuing tenant with the role the code grants
func (h *InvitationHandler) UseInvitation(
	ctx context.Context,
	code string,
	userID string,
) (*invitation.UseResult, error) {
	result, err := h.invitationService.Use(ctx, code, userID)
	if err != nil {
		metrics.RecordInvitationRedemption("error")
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to use invitation")
	}

	_, err = h.memberService.EnsureMembership(ctx, result.UserID, result.TenantID, result.CodeType.RoleGranted(), result.GroupIDs)
	if err != nil {
		metrics.RecordInvitationRedemption("error")
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to enroll invited user")
	}
	metrics.RecordInvitationRedemption("ok")

	return result, nil
}

// RefreshInvitationStatus re-derives and persists the stored status of a code
func (h *InvitationHandler) RefreshInvitationStatus(
	ctx context.Context,
	code string,
) (*invitationres.RefreshStatusResponse, error) {
	inv, err := h.invitationService.GetByCode(ctx, code)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to get invitation")
	}

	changed, err := h.invitationService.RefreshStatus(ctx, inv.ID)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to refresh invitation status")
	}

	return &invitationres.RefreshStatusResponse{
		Code:    inv.Code,
		Changed: changed,
	}, nil
}

// UpdateInvitation patches capacity, expiry or group grants of a code
func (h *InvitationHandler) UpdateInvitation(
	ctx context.Context,
	code string,
	userID string,
	req invitationreq.UpdateInvitationRequest,
) (*invitationres.InvitationResponse, error) {
	in := invitation.UpdateInput{
		Capacity:  req.Capacity,
		ExpiresAt: epochToTime(req.ExpiresAt),
		GroupIDs:  req.GroupIDs,
	}

	if err := h.invitationService.Update(ctx, code, userID, in); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to update invitation")
	}

	inv, err := h.invitationService.GetByCode(ctx, code)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to get invitation")
	}

	return invitationres.NewInvitationResponse(inv), nil
}

// DeleteInvitation soft deletes a code
func (h *InvitationHandler) DeleteInvitation(
	ctx context.Context,
	code string,
	userID string,
) (*invitationres.InvitationDeletedResponse, error) {
	if err := h.invitationService.Delete(ctx, code, userID); err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to delete invitation")
	}

	return &invitationres.InvitationDeletedResponse{
		Code:    code,
		Deleted: true,
	}, nil
}

// ListInvitations pages through invitations visible to the caller
func (h *InvitationHandler) ListInvitations(
	ctx context.Context,
	userID string,
	req invitationreq.ListInvitationsRequest,
) (*invitationres.InvitationListResponse, error) {
	filter := invitation.ListFilter{
		Page:      req.Page,
		PageSize:  req.PageSize,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	}
	if t := strings.TrimSpace(req.TenantID); t != "" {
		filter.TenantID = &t
	}

	result, err := h.invitationService.List(ctx, userID, filter)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to list invitations")
	}

	return invitationres.NewInvitationListResponse(result), nil
}

func epochToTime(epoch *int64) *time.Time {
	if epoch == nil || *epoch <= 0 {
		return nil
	}
	t := time.Unix(*epoch, 0).UTC()
	return &t
}
