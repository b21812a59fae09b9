package versionreq

// PublishRequest represents the request to publish the draft as a new version
type PublishRequest struct {
	VersionName *string `json:"version_name,omitempty"`
	ReleaseNote *string `json:"release_note,omitempty"`
}

// UpdateStatusRequest changes the lifecycle status of a published version
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateMetadataRequest edits the name or release note of a published version
type UpdateMetadataRequest struct {
	VersionName *string `json:"version_name,omitempty"`
	ReleaseNote *string `json:"release_note,omitempty"`
}
