package model

import "time"

// ProvisionEvent is a history entry written for every successful provisioning call.
type ProvisionEvent struct {
	ID         string    `json:"id" yaml:"id"`
	Title      string    `json:"title" yaml:"title"`
	Slug       string    `json:"slug" yaml:"slug"`
	Language   string    `json:"language" yaml:"language"`
	RecordPath string    `json:"record_path" yaml:"record_path"`
	RemoteID   string    `json:"remote_id,omitempty" yaml:"remote_id,omitempty"`
	RemoteURL  string    `json:"remote_url,omitempty" yaml:"remote_url,omitempty"`
	Advisories int       `json:"advisories" yaml:"advisories"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
}
