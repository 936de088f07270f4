package dto

import "time"

// EnvironmentFlags reports which settings are present, never their values
type EnvironmentFlags struct {
	Mode           string `json:"mode"`
	HasFrontendURL bool   `json:"hasFrontendUrl"`
	FrontendURL    string `json:"frontendUrl,omitempty"`
	HasDatabaseURL bool   `json:"hasDatabaseUrl"`
	HasImgbbKey    bool   `json:"hasImgbbKey"`
	UploadProvider string `json:"uploadProvider"`
}

// DatabaseHealth describes datastore connectivity
type DatabaseHealth struct {
	Connected          bool   `json:"connected"`
	EventsCount        *int64 `json:"eventsCount,omitempty"`
	RegistrationsCount *int64 `json:"registrationsCount,omitempty"`
	Error              string `json:"error,omitempty"`
}

// HealthResponse is served by /api/health
type HealthResponse struct {
	Status      string           `json:"status" example:"ok"`
	Timestamp   time.Time        `json:"timestamp"`
	Environment EnvironmentFlags `json:"environment"`
	Database    DatabaseHealth   `json:"database"`
}

// BannerResponse is served by /
type BannerResponse struct {
	Success     bool             `json:"success"`
	Running     bool             `json:"running"`
	Service     string           `json:"service"`
	Timestamp   time.Time        `json:"timestamp"`
	Environment EnvironmentFlags `json:"environment"`
}
