package model

import "time"

// TemplateDescriptor describes a named template, either from the local
// registry (Path set) or from the remote listing (ID set).
type TemplateDescriptor struct {
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	ID          string `json:"id,omitempty" yaml:"id,omitempty"`
	Description string `json:"description" yaml:"description"`
	Path        string `json:"path,omitempty" yaml:"path,omitempty"`
	Language    string `json:"language,omitempty" yaml:"language,omitempty"`
	Source      string `json:"source,omitempty" yaml:"source,omitempty"` // "local" or "remote"
}

// Configuration holds the engine-wide settings. It is loaded once per engine
// instance and passed explicitly to every component that needs it.
type Configuration struct {
	DefaultLanguage string                         `json:"default_language" yaml:"default_language"`
	Templates       map[string]*TemplateDescriptor `json:"templates" yaml:"templates"`
	TeamID          string                         `json:"team_id,omitempty" yaml:"team_id,omitempty"`
	DefaultPrivacy  bool                           `json:"default_privacy" yaml:"default_privacy"`
	CreateRemote    bool                           `json:"create_remote" yaml:"create_remote"`
	ConfigVersion   string                         `json:"config_version" yaml:"config_version"`
	LastUpdated     time.Time                      `json:"last_updated" yaml:"last_updated"`
}

// Template returns the registry entry for name, or nil.
func (c *Configuration) Template(name string) *TemplateDescriptor {
	if c == nil || c.Templates == nil {
		return nil
	}
	return c.Templates[name]
}
