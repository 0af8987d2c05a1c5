package services

import (
	"context"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/m4tinbeigi-official/didar-crm/internal/audit"
	"github.com/m4tinbeigi-official/didar-crm/internal/models"
	"github.com/m4tinbeigi-official/didar-crm/internal/repositories"
	"github.com/m4tinbeigi-official/didar-crm/pkg/didar"
)

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	users []*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{}
}

func (r *fakeUserRepo) add(u *models.User) *models.User {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	u.Email = strings.ToLower(u.Email)
	r.users = append(r.users, u)
	return u
}

func (r *fakeUserRepo) get(id primitive.ObjectID) *models.User {
	for _, u := range r.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	clone := *user
	r.add(&clone)
	user.ID = clone.ID
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	if u := r.get(id); u != nil {
		clone := *u
		return &clone, nil
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	email = strings.ToLower(email)
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) UsernameExists(_ context.Context, username string) (bool, error) {
	for _, u := range r.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	for i, u := range r.users {
		if u.ID == user.ID {
			clone := *user
			r.users[i] = &clone
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *fakeUserRepo) SetRemoteContactID(_ context.Context, id primitive.ObjectID, remoteID int64) error {
	if u := r.get(id); u != nil {
		u.RemoteContactID = remoteID
		return nil
	}
	return repositories.ErrNotFound
}

func (r *fakeUserRepo) SetOptOut(_ context.Context, id primitive.ObjectID, optOut bool) error {
	if u := r.get(id); u != nil {
		u.OptOut = optOut
		return nil
	}
	return repositories.ErrNotFound
}

func (r *fakeUserRepo) FindAll(_ context.Context) ([]*models.User, error) {
	out := make([]*models.User, 0, len(r.users))
	for _, u := range r.users {
		clone := *u
		out = append(out, &clone)
	}
	return out, nil
}

func (r *fakeUserRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

var _ repositories.UserRepository = (*fakeUserRepo)(nil)

// fakeSettingsRepo is an in-memory SyncSettingsRepository.
type fakeSettingsRepo struct {
	settings *models.SyncSettings
}

func (r *fakeSettingsRepo) Get(_ context.Context) (*models.SyncSettings, error) {
	clone := *r.settings
	return &clone, nil
}

func (r *fakeSettingsRepo) Update(_ context.Context, settings *models.SyncSettings) error {
	clone := *settings
	r.settings = &clone
	return nil
}

var _ repositories.SyncSettingsRepository = (*fakeSettingsRepo)(nil)

// fakeClient simulates the Didar API: SaveContact appends to the remote
// contact set, SearchContacts pages over it.
type fakeClient struct {
	contacts    []didar.Contact
	nextID      int64
	saveErr     error
	saved       []map[string]string
	searchErrAt map[int]error
	searchCalls []int
}

func newFakeClient() *fakeClient {
	return &fakeClient{nextID: 1000, searchErrAt: map[int]error{}}
}

func (c *fakeClient) SaveContact(_ context.Context, payload map[string]string) (int64, error) {
	if c.saveErr != nil {
		return 0, c.saveErr
	}
	c.nextID++
	c.saved = append(c.saved, payload)
	c.contacts = append(c.contacts, didar.Contact{
		ID:          c.nextID,
		Email:       payload["Email"],
		FirstName:   payload["FirstName"],
		LastName:    payload["LastName"],
		MobilePhone: payload["MobilePhone"],
	})
	return c.nextID, nil
}

func (c *fakeClient) SearchContacts(_ context.Context, offset, limit int) ([]didar.Contact, bool, error) {
	c.searchCalls = append(c.searchCalls, offset)
	if err, ok := c.searchErrAt[offset]; ok {
		return nil, false, err
	}
	if offset >= len(c.contacts) {
		return nil, false, nil
	}
	end := offset + limit
	if end > len(c.contacts) {
		end = len(c.contacts)
	}
	page := c.contacts[offset:end]
	return page, len(page) == limit, nil
}

var _ ContactClient = (*fakeClient)(nil)

// fakeNotifier records notified users.
type fakeNotifier struct {
	notified []*models.User
}

func (n *fakeNotifier) NotifyNewUser(_ context.Context, user *models.User) {
	n.notified = append(n.notified, user)
}

func testSettings() *models.SyncSettings {
	return &models.SyncSettings{
		APIKey:        "test-key",
		SyncDirection: models.PolicyBoth,
		CronFrequency: models.FrequencyDaily,
		FieldMapping:  models.DefaultFieldMapping(),
		LogEnabled:    true,
	}
}

func newTestAudit(t *testing.T) *audit.Log {
	t.Helper()
	return audit.New(t.TempDir()+"/didar-sync.log", true)
}

func auditContents(t *testing.T, log *audit.Log) string {
	t.Helper()
	contents, err := log.Read()
	if err != nil {
		t.Fatalf("reading audit log: %v", err)
	}
	return contents
}
