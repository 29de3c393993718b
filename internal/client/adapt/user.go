package adapt

import (
	"github.com/vkozyrev/sharebox/internal/client/models"
)

// User maps a raw backend user payload into the canonical UserProfile.
// Common wrappers (user/data/profile/account) are unwrapped first.
func User(raw any) models.UserProfile {
	m := asMap(raw)
	if inner := pickMap(m, "user", "data", "profile", "account"); inner != nil {
		m = inner
	}

	username := pickString(m, "username", "user_name", "userName", "login", "handle")
	fullName := pickString(m, "fullName", "full_name", "name", "displayName", "display_name")
	if fullName == "" {
		fullName = username
	}

	return models.UserProfile{
		ID:        pickID(m, "id", "userId", "user_id", "_id", "uuid"),
		Username:  username,
		FullName:  fullName,
		Email:     pickString(m, "email", "emailAddress", "email_address", "mail"),
		CreatedAt: pickTime(m, "createdAt", "created_at", "registeredAt", "registered_at", "joinedAt", "joined_at"),
	}
}

// Users maps a list payload, tolerating bare arrays and paginated wrappers.
func Users(raw any) []models.UserProfile {
	items := listOf(raw, "users", "data", "items", "results", "records", "value")
	out := make([]models.UserProfile, 0, len(items))
	for _, item := range items {
		out = append(out, User(item))
	}
	return out
}
