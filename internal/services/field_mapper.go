package services

import (
	"strings"

	"github.com/m4tinbeigi-official/didar-crm/internal/models"
)

// MapperFlags adjust field resolution for a mapping pass.
type MapperFlags struct {
	// EcommerceProfile makes the billing profile override the core first
	// name, last name and email fields (merchant profile sync).
	EcommerceProfile bool
}

// MapLocalToRemote builds the Didar contact payload for a user from the
// configured field mapping. Fields whose resolved value is empty are omitted.
// The result may lack the email field; callers must treat such a record as
// unsyncable. The transform is pure and deterministic.
func MapLocalToRemote(user *models.User, mapping models.FieldMapping, flags MapperFlags) map[string]string {
	payload := make(map[string]string, len(mapping))
	for _, pair := range mapping {
		value := strings.TrimSpace(resolveField(user, pair.Local, flags))
		if value == "" {
			continue
		}
		payload[pair.Remote] = value
	}
	return payload
}

func resolveField(user *models.User, key string, flags MapperFlags) string {
	switch key {
	case models.FieldFirstName:
		if flags.EcommerceProfile && user.Billing.FirstName != "" {
			return user.Billing.FirstName
		}
		return user.FirstName
	case models.FieldLastName:
		if flags.EcommerceProfile && user.Billing.LastName != "" {
			return user.Billing.LastName
		}
		return user.LastName
	case models.FieldEmail:
		if flags.EcommerceProfile && user.Billing.Email != "" {
			return user.Billing.Email
		}
		return user.Email
	case models.FieldPhone:
		// Billing phone wins regardless of flags.
		if user.Billing.Phone != "" {
			return user.Billing.Phone
		}
		return user.Phone
	case models.FieldUsername:
		return user.Username
	default:
		return user.Meta[key]
	}
}
