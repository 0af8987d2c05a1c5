package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/m4tinbeigi-official/didar-crm/internal/models"
)

// Notifier is the host's new-account notification hook, fired when inbound
// sync creates a local user.
type Notifier interface {
	NotifyNewUser(ctx context.Context, user *models.User)
}

type logNotifier struct{}

// NewLogNotifier returns a Notifier that only logs. Deployments with a mail
// gateway plug in their own implementation.
func NewLogNotifier() Notifier {
	return logNotifier{}
}

func (logNotifier) NotifyNewUser(_ context.Context, user *models.User) {
	log.Info().
		Str("email", user.Email).
		Str("username", user.Username).
		Msg("new account notification")
}
