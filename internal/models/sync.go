package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SyncPolicy controls which sync directions are active.
type SyncPolicy string

const (
	PolicyToDidar   SyncPolicy = "to_didar"
	PolicyFromDidar SyncPolicy = "from_didar"
	PolicyBoth      SyncPolicy = "both"
)

// ParseSyncPolicy validates a policy string.
func ParseSyncPolicy(s string) (SyncPolicy, error) {
	switch SyncPolicy(s) {
	case PolicyToDidar, PolicyFromDidar, PolicyBoth:
		return SyncPolicy(s), nil
	}
	return "", fmt.Errorf("invalid sync direction %q", s)
}

// AllowsOutbound reports whether local changes may be pushed to Didar.
func (p SyncPolicy) AllowsOutbound() bool {
	return p == PolicyToDidar || p == PolicyBoth
}

// AllowsInbound reports whether contacts may be pulled from Didar.
func (p SyncPolicy) AllowsInbound() bool {
	return p == PolicyFromDidar || p == PolicyBoth
}

// FieldPair maps one local field key to a Didar contact field name.
type FieldPair struct {
	Local  string `bson:"local" json:"local"`
	Remote string `bson:"remote" json:"remote"`
}

// FieldMapping is an ordered mapping from local field keys to Didar field
// names. Local keys are unique. The mapping is configuration, not sync state:
// changing it does not re-tag records that were already synced.
type FieldMapping []FieldPair

// Local field keys with dedicated resolution rules. Any other key resolves
// from the user's meta fields.
const (
	FieldFirstName = "first_name"
	FieldLastName  = "last_name"
	FieldEmail     = "email"
	FieldPhone     = "phone"
	FieldUsername  = "username"
)

// DefaultFieldMapping returns the stock mapping against the Didar contact
// schema.
func DefaultFieldMapping() FieldMapping {
	return FieldMapping{
		{Local: FieldFirstName, Remote: "FirstName"},
		{Local: FieldLastName, Remote: "LastName"},
		{Local: FieldEmail, Remote: "Email"},
		{Local: FieldPhone, Remote: "MobilePhone"},
		{Local: FieldUsername, Remote: "Code"},
	}
}

// NewFieldMapping validates pairs and returns them as a FieldMapping.
func NewFieldMapping(pairs []FieldPair) (FieldMapping, error) {
	seen := make(map[string]bool, len(pairs))
	for _, p := range pairs {
		if p.Local == "" || p.Remote == "" {
			return nil, fmt.Errorf("field mapping entry %q -> %q has empty side", p.Local, p.Remote)
		}
		if seen[p.Local] {
			return nil, fmt.Errorf("duplicate field mapping key %q", p.Local)
		}
		seen[p.Local] = true
	}
	return FieldMapping(pairs), nil
}

// RemoteFor returns the Didar field name mapped from a local key.
func (m FieldMapping) RemoteFor(local string) (string, bool) {
	for _, p := range m {
		if p.Local == local {
			return p.Remote, true
		}
	}
	return "", false
}

// SyncSettings is the persisted sync configuration singleton. An empty APIKey
// disables syncing entirely.
type SyncSettings struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	APIKey            string             `bson:"apiKey" json:"apiKey"`
	SyncDirection     SyncPolicy         `bson:"syncDirection" json:"syncDirection"`
	CronFrequency     string             `bson:"cronFrequency" json:"cronFrequency"`
	FieldMapping      []FieldPair        `bson:"fieldMapping" json:"fieldMapping"`
	LogEnabled        bool               `bson:"logEnabled" json:"logEnabled"`
	AutoSyncEcommerce bool               `bson:"autoSyncEcommerce" json:"autoSyncEcommerce"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// DefaultSyncSettings returns the settings written on first read.
func DefaultSyncSettings() *SyncSettings {
	return &SyncSettings{
		SyncDirection:     PolicyBoth,
		CronFrequency:     FrequencyDaily,
		FieldMapping:      DefaultFieldMapping(),
		LogEnabled:        true,
		AutoSyncEcommerce: true,
	}
}

// Scheduler frequencies for the inbound cron job.
const (
	FrequencyHourly     = "hourly"
	FrequencyTwiceDaily = "twicedaily"
	FrequencyDaily      = "daily"
)

// ValidFrequency reports whether s is a supported cron frequency.
func ValidFrequency(s string) bool {
	switch s {
	case FrequencyHourly, FrequencyTwiceDaily, FrequencyDaily:
		return true
	}
	return false
}

// Mapping returns the configured field mapping, falling back to the default
// when none is stored or the stored one is invalid.
func (s *SyncSettings) Mapping() FieldMapping {
	if len(s.FieldMapping) == 0 {
		return DefaultFieldMapping()
	}
	m, err := NewFieldMapping(s.FieldMapping)
	if err != nil {
		return DefaultFieldMapping()
	}
	return m
}
