package contract

type DeviceInfo struct {
	Platform      string `json:"platform" validate:"required,max=40"`
	Model         string `json:"model" validate:"max=80"`
	SystemVersion string `json:"system_version" validate:"max=40"`
}

type HeartbeatRequest struct {
	UserID   int64  `json:"user_id" validate:"required"`
	Timezone string `json:"timezone" validate:"required,timezone"`

	DeviceInfo DeviceInfo `json:"device_info"`
}

type HeartbeatResponse struct {
	RecordedAt string `json:"recorded_at"`
}
