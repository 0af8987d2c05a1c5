package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/m4tinbeigi-official/didar-crm/internal/audit"
	"github.com/m4tinbeigi-official/didar-crm/internal/models"
	"github.com/m4tinbeigi-official/didar-crm/internal/repositories"
	"github.com/m4tinbeigi-official/didar-crm/internal/utils"
	"github.com/m4tinbeigi-official/didar-crm/pkg/didar"
)

const (
	searchPageSize = 100
	// maxSearchOffset is a safety cap against runaway pagination, not a
	// real limit on the contact set.
	maxSearchOffset      = 10000
	maxUsernameSuffix    = 100
	generatedPasswordLen = 12
)

// Account roles assigned to users created by inbound sync.
const (
	RoleCustomer   = "customer"
	RoleSubscriber = "subscriber"
)

// InboundService pulls the full remote contact set and reconciles each
// contact against the local store, matching by normalized email.
type InboundService struct {
	users    repositories.UserRepository
	client   ContactClient
	audit    *audit.Log
	notifier Notifier
}

// NewInboundService creates a new InboundService
func NewInboundService(users repositories.UserRepository, client ContactClient, auditLog *audit.Log, notifier Notifier) *InboundService {
	return &InboundService{users: users, client: client, audit: auditLog, notifier: notifier}
}

// Run paginates over all remote contacts and reconciles them. A search error
// ends the run but keeps the progress of earlier pages. The return value is
// the number of contacts successfully created or updated.
func (s *InboundService) Run(ctx context.Context, settings *models.SyncSettings) int {
	processed := 0
	for offset := 0; offset < maxSearchOffset; offset += searchPageSize {
		contacts, hasMore, err := s.client.SearchContacts(ctx, offset, searchPageSize)
		if err != nil {
			s.audit.Printf("didar contact search failed at offset %d: %v", offset, err)
			break
		}
		if len(contacts) == 0 {
			break
		}

		for i := range contacts {
			if err := s.reconcile(ctx, &contacts[i], settings); err != nil {
				s.logReconcileError(&contacts[i], err)
				continue
			}
			processed++
		}

		if !hasMore {
			break
		}
	}
	s.audit.Printf("sync from didar finished: %d contacts processed", processed)
	return processed
}

func (s *InboundService) reconcile(ctx context.Context, c *didar.Contact, settings *models.SyncSettings) error {
	email := utils.NormalizeEmail(c.Email)
	if email == "" {
		return errSkipContact
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return s.createUser(ctx, c, email, settings)
	}
	if err != nil {
		return fmt.Errorf("lookup %s: %w", email, err)
	}
	return s.updateUser(ctx, user, c)
}

// updateUser overwrites names, phone and the remote id on a matched local
// record. A stored remote id that differs from the incoming contact means the
// record is claimed by another contact; the update is blocked. A stored id of
// 0 (never synced) adopts the incoming id unconditionally.
func (s *InboundService) updateUser(ctx context.Context, user *models.User, c *didar.Contact) error {
	if user.OptOut {
		return fmt.Errorf("%w: %s", ErrOptedOut, user.Email)
	}
	if user.RemoteContactID != 0 && user.RemoteContactID != c.ID {
		return &ConflictError{Email: user.Email, StoredID: user.RemoteContactID, IncomingID: c.ID}
	}

	user.FirstName = c.FirstName
	user.LastName = c.LastName
	user.Phone = c.MobilePhone
	user.Billing.Phone = c.MobilePhone
	user.RemoteContactID = c.ID
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("update %s: %w", user.Email, err)
	}
	s.audit.Printf("updated local user %s from didar contact %d (email %s)", user.ID.Hex(), c.ID, user.Email)
	return nil
}

func (s *InboundService) createUser(ctx context.Context, c *didar.Contact, email string, settings *models.SyncSettings) error {
	username, err := s.uniqueUsername(ctx, c, email)
	if err != nil {
		return err
	}

	password, err := utils.GenerateRandomString(generatedPasswordLen)
	if err != nil {
		return fmt.Errorf("generate password: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	role := RoleSubscriber
	if settings.AutoSyncEcommerce {
		role = RoleCustomer
	}

	user := &models.User{
		Email:           email,
		Username:        username,
		FirstName:       c.FirstName,
		LastName:        c.LastName,
		Phone:           c.MobilePhone,
		Billing:         models.BillingProfile{Phone: c.MobilePhone},
		Role:            role,
		PasswordHash:    string(hash),
		RemoteContactID: c.ID,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return fmt.Errorf("create user for %s: %w", email, err)
	}

	s.notifier.NotifyNewUser(ctx, user)
	s.audit.Printf("created local user %s from didar contact %d (email %s)", user.ID.Hex(), c.ID, email)
	return nil
}

// uniqueUsername derives "first.last" from the contact name and appends
// numeric suffixes 1..100 until the username is free.
func (s *InboundService) uniqueUsername(ctx context.Context, c *didar.Contact, email string) (string, error) {
	base := utils.SanitizeUsername(c.FirstName + "." + c.LastName)
	if base == "" {
		if at := strings.Index(email, "@"); at > 0 {
			base = utils.SanitizeUsername(email[:at])
		}
	}
	if base == "" {
		base = "user"
	}

	candidate := base
	for i := 1; ; i++ {
		exists, err := s.users.UsernameExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("username lookup: %w", err)
		}
		if !exists {
			return candidate, nil
		}
		if i > maxUsernameSuffix {
			return "", &CapacityError{Email: email, Base: base}
		}
		candidate = base + strconv.Itoa(i)
	}
}

func (s *InboundService) logReconcileError(c *didar.Contact, err error) {
	var conflictErr *ConflictError
	var capErr *CapacityError
	switch {
	case errors.Is(err, errSkipContact):
		// Invalid email; dropped without a trace, matching outbound's
		// silent policy checks.
	case errors.Is(err, ErrOptedOut):
		s.audit.Printf("skipped update from didar contact %d: %v", c.ID, err)
	case errors.As(err, &conflictErr):
		s.audit.Printf("%v; update skipped", conflictErr)
	case errors.As(err, &capErr):
		s.audit.Printf("%v; contact skipped", capErr)
	default:
		log.Error().Err(err).Int64("contact", c.ID).Msg("inbound reconcile failed")
		s.audit.Printf("failed to reconcile didar contact %d: %v", c.ID, err)
	}
}
