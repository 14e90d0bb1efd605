package api

// EvaluationRequest is the request payload for POST /v1/audience/evaluate.
// MessageKey limits evaluation to a single message; when empty, every
// enabled message in the snapshot is evaluated.
type EvaluationRequest struct {
	Context    DeviceContextDTO `json:"context"`
	MessageKey string           `json:"messageKey,omitempty"`
}

// DeviceContextDTO represents API-layer device state.
type DeviceContextDTO struct {
	IsNewUser          bool     `json:"is_new_user"`
	NotificationsOptIn bool     `json:"notifications_opt_in"`
	LocationOptIn      bool     `json:"location_opt_in"`
	Locale             string   `json:"locale,omitempty"`
	AppVersionCode     int      `json:"app_version_code"`
	ChannelTags        []string `json:"channel_tags,omitempty"`
	DeviceHash         string   `json:"device_hash,omitempty"`
	Platform           string   `json:"platform,omitempty"`
}

// EvaluationResponse is the response payload for POST /v1/audience/evaluate.
type EvaluationResponse struct {
	Results []MessageResult `json:"results"`
}

// MessageResult represents one evaluated message result.
type MessageResult struct {
	Key     string `json:"key"`
	Matched bool   `json:"matched"`
}
