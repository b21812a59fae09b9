package invitationreq

// CreateInvitationRequest represents the request to issue an invitation code.
// TenantID defaults to the caller's workspace; expiry is epoch seconds.
type CreateInvitationRequest struct {
	TenantID  string  `json:"tenant_id,omitempty"`
	CodeType  string  `json:"code_type" binding:"required"`
	Code      string  `json:"invitation_code,omitempty"`
	GroupIDs  []int64 `json:"group_ids,omitempty"`
	Capacity  int     `json:"capacity,omitempty"`
	ExpiresAt *int64  `json:"expiry_date,omitempty"`
}

// UpdateInvitationRequest patches capacity, expiry or group binding of a code
type UpdateInvitationRequest struct {
	Capacity  *int    `json:"capacity,omitempty"`
	ExpiresAt *int64  `json:"expiry_date,omitempty"`
	GroupIDs  []int64 `json:"group_ids,omitempty"`
}

// ListInvitationsRequest pages the invitation registry
type ListInvitationsRequest struct {
	TenantID  string `json:"tenant_id,omitempty"`
	Page      int    `json:"page,omitempty"`
	PageSize  int    `json:"page_size,omitempty"`
	SortBy    string `json:"sort_by,omitempty"`
	SortOrder string `json:"sort_order,omitempty"`
}
