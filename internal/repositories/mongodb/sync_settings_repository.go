package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/m4tinbeigi-official/didar-crm/internal/models"
	"github.com/m4tinbeigi-official/didar-crm/internal/repositories"
)

var _ repositories.SyncSettingsRepository = (*SyncSettingsRepository)(nil)

// SyncSettingsRepository handles MongoDB operations for the sync settings
// singleton.
type SyncSettingsRepository struct {
	collection *mongo.Collection
}

// NewSyncSettingsRepository creates a new SyncSettingsRepository
func NewSyncSettingsRepository(db *mongo.Database) *SyncSettingsRepository {
	return &SyncSettingsRepository{
		collection: db.Collection("sync_settings"),
	}
}

// Get retrieves the current sync settings, writing defaults on first read.
func (r *SyncSettingsRepository) Get(ctx context.Context) (*models.SyncSettings, error) {
	var settings models.SyncSettings
	err := r.collection.FindOne(ctx, bson.M{}).Decode(&settings)
	if errors.Is(err, mongo.ErrNoDocuments) {
		defaults := models.DefaultSyncSettings()
		defaults.CreatedAt = time.Now()
		defaults.UpdatedAt = time.Now()
		if _, err := r.collection.InsertOne(ctx, defaults); err != nil {
			return nil, err
		}
		return defaults, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// Update replaces the sync settings.
func (r *SyncSettingsRepository) Update(ctx context.Context, settings *models.SyncSettings) error {
	settings.UpdatedAt = time.Now()
	_, err := r.collection.ReplaceOne(ctx, bson.M{}, settings)
	return err
}
