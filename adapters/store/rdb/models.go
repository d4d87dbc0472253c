package rdb

import "time"

// ProvisionEventRecord is the RDB persistence model for domain ProvisionEvent.
// Table name: provision_events
type ProvisionEventRecord struct {
	ID         string    `gorm:"primaryKey;type:text;not null"`
	Title      string    `gorm:"type:text;not null"`
	Slug       string    `gorm:"type:text;not null;index"`
	Language   string    `gorm:"type:text;not null"`
	RecordPath string    `gorm:"type:text;not null"`
	RemoteID   string    `gorm:"type:text"`
	RemoteURL  string    `gorm:"type:text"`
	Advisories int       `gorm:"not null"`
	CreatedAt  time.Time `gorm:"not null;index"`
}

func (ProvisionEventRecord) TableName() string { return "provision_events" }
