package services

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/m4tinbeigi-official/didar-crm/internal/audit"
	"github.com/m4tinbeigi-official/didar-crm/internal/models"
	"github.com/m4tinbeigi-official/didar-crm/internal/repositories"
	"github.com/m4tinbeigi-official/didar-crm/pkg/didar"
)

// ContactClient is the remote CRM surface the sync engine talks to.
type ContactClient interface {
	SaveContact(ctx context.Context, payload map[string]string) (int64, error)
	SearchContacts(ctx context.Context, offset, limit int) ([]didar.Contact, bool, error)
}

// OutboundService pushes local users to Didar. Every outcome is terminal and
// audited; nothing propagates back to the triggering event, and a failed push
// is not retried until the next natural trigger.
type OutboundService struct {
	users  repositories.UserRepository
	client ContactClient
	audit  *audit.Log
}

// NewOutboundService creates a new OutboundService
func NewOutboundService(users repositories.UserRepository, client ContactClient, auditLog *audit.Log) *OutboundService {
	return &OutboundService{users: users, client: client, audit: auditLog}
}

// SyncUser pushes a single user by id.
func (s *OutboundService) SyncUser(ctx context.Context, id primitive.ObjectID, settings *models.SyncSettings) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		s.audit.Printf("user %s not found for didar sync: %v", id.Hex(), err)
		return
	}
	s.syncOne(ctx, user, settings)
}

// SyncAll pushes every local user sequentially and returns the number of
// users iterated. Opt-outs and unsyncable records are skipped inside the
// loop with their own audit lines.
func (s *OutboundService) SyncAll(ctx context.Context, settings *models.SyncSettings) int {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		s.audit.Printf("failed to list users for didar sync: %v", err)
		return 0
	}
	for _, user := range users {
		s.syncOne(ctx, user, settings)
	}
	s.audit.Printf("sync to didar finished: %d users processed", len(users))
	return len(users)
}

func (s *OutboundService) syncOne(ctx context.Context, user *models.User, settings *models.SyncSettings) {
	if user.OptOut {
		s.audit.Printf("skipped opted-out user %s (%s)", user.ID.Hex(), user.Email)
		return
	}

	mapping := settings.Mapping()
	payload := MapLocalToRemote(user, mapping, MapperFlags{EcommerceProfile: settings.AutoSyncEcommerce})

	emailField, ok := mapping.RemoteFor(models.FieldEmail)
	if !ok || payload[emailField] == "" {
		s.audit.Printf("no email for user %s; skipping didar sync", user.ID.Hex())
		return
	}

	remoteID, err := s.client.SaveContact(ctx, payload)
	if err != nil {
		log.Error().Err(err).Str("user", user.ID.Hex()).Msg("didar contact save failed")
		s.audit.Printf("failed to push user %s to didar: %v", user.ID.Hex(), err)
		return
	}

	if err := s.users.SetRemoteContactID(ctx, user.ID, remoteID); err != nil {
		s.audit.Printf("synced user %s to didar contact %d but could not persist the id: %v", user.ID.Hex(), remoteID, err)
		return
	}
	s.audit.Printf("synced user %s to didar contact %d", user.ID.Hex(), remoteID)
}
