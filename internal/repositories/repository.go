package repositories

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/m4tinbeigi-official/didar-crm/internal/models"
)

// ErrNotFound is returned when a lookup matches no record.
var ErrNotFound = errors.New("record not found")

// UserRepository defines the interface for local user data operations.
// Email lookups are case-insensitive exact matches on the normalized address.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	Update(ctx context.Context, user *models.User) error
	SetRemoteContactID(ctx context.Context, id primitive.ObjectID, remoteID int64) error
	SetOptOut(ctx context.Context, id primitive.ObjectID, optOut bool) error
	FindAll(ctx context.Context) ([]*models.User, error)
	Count(ctx context.Context) (int64, error)
}

// SyncSettingsRepository defines the interface for the persisted sync
// settings singleton.
type SyncSettingsRepository interface {
	Get(ctx context.Context) (*models.SyncSettings, error)
	Update(ctx context.Context, settings *models.SyncSettings) error
}
