package replopscfg

import (
	"time"

	"k8s.io/utils/ptr"

	"github.com/kompox/replops/domain/model"
)

// ToModel converts a validated document into a Configuration.
func (d *Document) ToModel() *model.Configuration {
	cfg := &model.Configuration{
		DefaultLanguage: ptr.Deref(d.DefaultLanguage, ""),
		Templates:       make(map[string]*model.TemplateDescriptor, len(d.Templates)),
		TeamID:          ptr.Deref(d.TeamID, ""),
		DefaultPrivacy:  ptr.Deref(d.DefaultPrivacy, false),
		CreateRemote:    ptr.Deref(d.CreateRemote, false),
		ConfigVersion:   d.ConfigVersion,
	}
	if d.LastUpdated != nil {
		cfg.LastUpdated = d.LastUpdated.UTC()
	}
	for name, t := range d.Templates {
		if t == nil {
			continue
		}
		cfg.Templates[name] = &model.TemplateDescriptor{
			Name:        name,
			Description: t.Description,
			Path:        t.Path,
		}
	}
	return cfg
}

// FromModel converts a Configuration into its document form.
func FromModel(cfg *model.Configuration) *Document {
	d := &Document{
		DefaultLanguage: ptr.To(cfg.DefaultLanguage),
		Templates:       make(map[string]*TemplateEntry, len(cfg.Templates)),
		DefaultPrivacy:  ptr.To(cfg.DefaultPrivacy),
		CreateRemote:    ptr.To(cfg.CreateRemote),
		ConfigVersion:   cfg.ConfigVersion,
	}
	if cfg.TeamID != "" {
		d.TeamID = ptr.To(cfg.TeamID)
	}
	if !cfg.LastUpdated.IsZero() {
		d.LastUpdated = ptr.To(cfg.LastUpdated.UTC())
	}
	for name, t := range cfg.Templates {
		if t == nil {
			d.Templates[name] = nil
			continue
		}
		d.Templates[name] = &TemplateEntry{Description: t.Description, Path: t.Path}
	}
	return d
}

// Default returns the configuration used when no document exists.
func Default() *model.Configuration {
	return &model.Configuration{
		DefaultLanguage: DefaultLanguage,
		Templates:       map[string]*model.TemplateDescriptor{},
		DefaultPrivacy:  false,
		CreateRemote:    false,
		ConfigVersion:   CurrentVersion,
	}
}

// Touch stamps cfg as modified now.
func Touch(cfg *model.Configuration) {
	cfg.LastUpdated = time.Now().UTC().Truncate(time.Second)
	if cfg.ConfigVersion == "" {
		cfg.ConfigVersion = CurrentVersion
	}
}
