// Package replopscfg defines the on-disk schema of the replops configuration
// document and the store that loads, validates and saves it.
//
// Fields that must be present are pointers so that an absent field can be
// told apart from its zero value during validation.
package replopscfg

import "time"

// DefaultLanguage is the runtime used when no configuration document exists.
const DefaultLanguage = "python"

// CurrentVersion is the schema version written by this package.
const CurrentVersion = "1"

// Document is the JSON configuration document.
type Document struct {
	DefaultLanguage *string                   `json:"default_language" validate:"required,min=1"`
	Templates       map[string]*TemplateEntry `json:"templates" validate:"required,dive,required"`
	TeamID          *string                   `json:"team_id"`
	DefaultPrivacy  *bool                     `json:"default_privacy" validate:"required"`
	CreateRemote    *bool                     `json:"create_remote"`
	ConfigVersion   string                    `json:"config_version"`
	LastUpdated     *time.Time                `json:"last_updated"`
}

// TemplateEntry is a template registry entry.
type TemplateEntry struct {
	Description string `json:"description"`
	Path        string `json:"path" validate:"required"`
}
