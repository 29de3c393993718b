package adapt

import (
	"github.com/vkozyrev/sharebox/internal/client/models"
)

// AuthPayload is the canonical result of a login/signup response: the bearer
// token (empty when the backend issued none) and the user it belongs to.
type AuthPayload struct {
	Token string
	User  models.UserProfile
}

var tokenKeys = []string{"token", "accessToken", "access_token", "authToken", "auth_token", "jwt", "bearer"}

// Auth extracts the credential and user from a login/signup response,
// tolerating the envelope nesting observed across backend versions:
// flat {token, user}, wrapped {data: {token, user}}, and
// {auth: {...}} / {session: {...}} / {result: {...}} variants.
func Auth(raw any) AuthPayload {
	m := asMap(raw)

	token := pickString(m, tokenKeys...)
	if token == "" {
		if inner := pickMap(m, "data", "result", "auth", "session"); inner != nil {
			m = inner
			token = pickString(m, tokenKeys...)
		}
	}

	return AuthPayload{Token: token, User: User(m)}
}
