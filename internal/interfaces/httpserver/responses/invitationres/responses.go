package invitationres

import (
	"agenthub/services/agent-api/internal/domain/invitation"
)

// InvitationResponse is the wire view of an invitation code. Status is the
// derived lifecycle state; expiry is epoch seconds.
type InvitationResponse struct {
	ID        uint    `json:"id"`
	TenantID  string  `json:"tenant_id"`
	Code      string  `json:"invitation_code"`
	CodeType  string  `json:"code_type"`
	GroupIDs  []int64 `json:"group_ids"`
	Capacity  int     `json:"capacity"`
	ExpiresAt *int64  `json:"expiry_date"`
	Status    string  `json:"status"`
	CreatedBy string  `json:"created_by"`
	CreatedAt int64   `json:"create_time"`
	UpdatedAt int64   `json:"update_time"`
}

// NewInvitationResponse creates a response from a domain invitation
func NewInvitationResponse(inv *invitation.Invitation) *InvitationResponse {
	resp := &InvitationResponse{
		ID:        inv.ID,
		TenantID:  inv.TenantID,
		Code:      inv.Code,
		CodeType:  string(inv.CodeType),
		GroupIDs:  inv.GroupIDs,
		Capacity:  inv.Capacity,
		Status:    string(inv.Status),
		CreatedBy: inv.CreatedBy,
		CreatedAt: inv.CreatedAt.Unix(),
		UpdatedAt: inv.UpdatedAt.Unix(),
	}
	if resp.GroupIDs == nil {
		resp.GroupIDs = []int64{}
	}
	if inv.ExpiresAt != nil {
		expiry := inv.ExpiresAt.Unix()
		resp.ExpiresAt = &expiry
	}
	return resp
}

// InvitationListResponse is one page of the invitation registry
type InvitationListResponse struct {
	Items      []*InvitationResponse `json:"items"`
	Total      int64                 `json:"total"`
	Page       int                   `json:"page"`
	PageSize   int                   `json:"page_size"`
	TotalPages int                   `json:"total_pages"`
}

// NewInvitationListResponse creates a list response from a domain page
func NewInvitationListResponse(result *invitation.ListResult) *InvitationListResponse {
	items := make([]*InvitationResponse, 0, len(result.Items))
	for _, inv := range result.Items {
		items = append(items, NewInvitationResponse(inv))
	}
	return &InvitationListResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}
}

// CheckResponse reports whether a code exists
type CheckResponse struct {
	Code   string `json:"invitation_code"`
	Exists bool   `json:"exists"`
}

// AvailableResponse reports whether a code can still be redeemed
type AvailableResponse struct {
	Code      string `json:"invitation_code"`
	Available bool   `json:"available"`
}

// RefreshStatusResponse reports whether the persisted status changed
type RefreshStatusResponse struct {
	Code    string `json:"invitation_code"`
	Changed bool   `json:"changed"`
}

// InvitationDeletedResponse confirms a soft delete
type InvitationDeletedResponse struct {
	Code    string `json:"invitation_code"`
	Deleted bool   `json:"deleted"`
}
