package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/m4tinbeigi-official/didar-crm/internal/audit"
	"github.com/m4tinbeigi-official/didar-crm/internal/lock"
	"github.com/m4tinbeigi-official/didar-crm/internal/models"
	"github.com/m4tinbeigi-official/didar-crm/internal/repositories"
)

const (
	fullSyncLockKey = "didar:sync:full"
	fullSyncLockTTL = 30 * time.Minute
)

// ClientFactory builds a ContactClient for the API key currently stored in
// the sync settings.
type ClientFactory func(apiKey string) ContactClient

// SyncService is the orchestrator: it resolves policy and credentials before
// every dispatch, routes triggers to the outbound or inbound engine, and
// serializes full runs behind the run lock. Until an API key is configured it
// does nothing, silently.
type SyncService struct {
	users     repositories.UserRepository
	settings  repositories.SyncSettingsRepository
	audit     *audit.Log
	locker    lock.Locker
	notifier  Notifier
	newClient ClientFactory
}

// NewSyncService creates a new SyncService
func NewSyncService(
	users repositories.UserRepository,
	settings repositories.SyncSettingsRepository,
	auditLog *audit.Log,
	locker lock.Locker,
	notifier Notifier,
	newClient ClientFactory,
) *SyncService {
	return &SyncService{
		users:     users,
		settings:  settings,
		audit:     auditLog,
		locker:    locker,
		notifier:  notifier,
		newClient: newClient,
	}
}

// resolve re-reads the persisted settings and builds the per-run client.
// Settings changes take effect here, by reconstruction, never by mutating a
// running sync.
func (s *SyncService) resolve(ctx context.Context) (*models.SyncSettings, ContactClient, bool) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		log.Error().Err(err).Msg("could not load sync settings")
		return nil, nil, false
	}
	s.audit.SetEnabled(settings.LogEnabled)
	if settings.APIKey == "" {
		return nil, nil, false
	}
	return settings, s.newClient(settings.APIKey), true
}

// OnUserCreated handles the host's user-registration event.
func (s *SyncService) OnUserCreated(ctx context.Context, id primitive.ObjectID) {
	s.syncUserOutbound(ctx, id)
}

// OnUserUpdated handles the host's profile-update event.
func (s *SyncService) OnUserUpdated(ctx context.Context, id primitive.ObjectID) {
	s.syncUserOutbound(ctx, id)
}

// SyncUser is the on-demand single-user entry point.
func (s *SyncService) SyncUser(ctx context.Context, id primitive.ObjectID) {
	s.syncUserOutbound(ctx, id)
}

func (s *SyncService) syncUserOutbound(ctx context.Context, id primitive.ObjectID) {
	settings, client, ok := s.resolve(ctx)
	if !ok || !settings.SyncDirection.AllowsOutbound() {
		return
	}
	NewOutboundService(s.users, client, s.audit).SyncUser(ctx, id, settings)
}

// OnScheduledTick handles the cron tick. The schedule pulls from Didar;
// outbound sync is event-driven.
func (s *SyncService) OnScheduledTick(ctx context.Context) {
	s.SyncFromRemote(ctx)
}

// SyncAllToRemote pushes every eligible local user and returns the processed
// count. At most one full run (either direction) is in flight at a time.
func (s *SyncService) SyncAllToRemote(ctx context.Context) int {
	settings, client, ok := s.resolve(ctx)
	if !ok || !settings.SyncDirection.AllowsOutbound() {
		return 0
	}
	if !s.lockFullRun(ctx, "to didar") {
		return 0
	}
	defer s.unlockFullRun(ctx)

	log.Info().Str("run_id", uuid.NewString()).Msg("starting full sync to didar")
	return NewOutboundService(s.users, client, s.audit).SyncAll(ctx, settings)
}

// SyncFromRemote pulls the full remote contact set and returns the processed
// count.
func (s *SyncService) SyncFromRemote(ctx context.Context) int {
	settings, client, ok := s.resolve(ctx)
	if !ok || !settings.SyncDirection.AllowsInbound() {
		return 0
	}
	if !s.lockFullRun(ctx, "from didar") {
		return 0
	}
	defer s.unlockFullRun(ctx)

	log.Info().Str("run_id", uuid.NewString()).Msg("starting full sync from didar")
	return NewInboundService(s.users, client, s.audit, s.notifier).Run(ctx, settings)
}

func (s *SyncService) lockFullRun(ctx context.Context, direction string) bool {
	acquired, err := s.locker.TryLock(ctx, fullSyncLockKey, fullSyncLockTTL)
	if err != nil {
		log.Error().Err(err).Msg("full sync lock unavailable")
		return false
	}
	if !acquired {
		s.audit.Printf("sync %s skipped: another full sync is in flight", direction)
		return false
	}
	return true
}

func (s *SyncService) unlockFullRun(ctx context.Context) {
	if err := s.locker.Unlock(ctx, fullSyncLockKey); err != nil {
		log.Error().Err(err).Msg("could not release full sync lock")
	}
}
