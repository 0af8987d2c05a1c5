package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BillingProfile holds the e-commerce billing fields of a user. They may
// override the core profile fields when building a CRM payload.
type BillingProfile struct {
	FirstName string `bson:"firstName,omitempty" json:"firstName,omitempty"`
	LastName  string `bson:"lastName,omitempty" json:"lastName,omitempty"`
	Email     string `bson:"email,omitempty" json:"email,omitempty"`
	Phone     string `bson:"phone,omitempty" json:"phone,omitempty"`
}

// User represents a local user record, the sync subject.
// Email is stored normalized (trimmed, lowercased) and is the match key
// against remote contacts. RemoteContactID is the cached back-reference to
// the Didar contact; 0 means the user was never synced.
type User struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email           string             `bson:"email" json:"email"`
	Username        string             `bson:"username" json:"username"`
	FirstName       string             `bson:"firstName,omitempty" json:"firstName,omitempty"`
	LastName        string             `bson:"lastName,omitempty" json:"lastName,omitempty"`
	Phone           string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Billing         BillingProfile     `bson:"billing,omitempty" json:"billing,omitempty"`
	Meta            map[string]string  `bson:"meta,omitempty" json:"meta,omitempty"`
	Role            string             `bson:"role" json:"role"`
	PasswordHash    string             `bson:"passwordHash,omitempty" json:"-"`
	RemoteContactID int64              `bson:"remoteContactId" json:"remoteContactId"`
	OptOut          bool               `bson:"optOut" json:"optOut"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}
