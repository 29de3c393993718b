// Package services contains the application services of the sharebox
// client: the session/auth orchestrator, the file operations service, and
// the duplicate-aware batch upload coordinator.
package services

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/vkozyrev/sharebox/internal/client/adapt"
	"github.com/vkozyrev/sharebox/internal/client/apperr"
	"github.com/vkozyrev/sharebox/internal/client/models"
	"github.com/vkozyrev/sharebox/internal/client/session"
	"github.com/vkozyrev/sharebox/internal/client/transport"
	"github.com/vkozyrev/sharebox/internal/logging"
)

// SignupData carries the create-account form fields.
type SignupData struct {
	Username string
	Password string
	FullName string
	Email    string
}

// LoginData carries the login form fields.
type LoginData struct {
	Username string
	Password string
}

// AuthResult is the outcome handed back to the UI. Field names the form
// input a failure belongs to; it is empty for non-field failures.
type AuthResult struct {
	Success bool
	Message string
	Field   string
	User    *models.UserProfile
	Token   string
}

// AuthService sequences signup/login/logout/profile-refresh, applies the
// response adapters, and keeps the persisted session consistent.
//
// Contract:
//   - Signup/Login: validate locally first; a validation failure returns a
//     field-tagged result without any network call.
//   - Logout: never fails; backend notification is best-effort only.
//   - HandleTokenExpired: teardown hook for authorization failures.
type AuthService interface {
	Signup(ctx context.Context, data SignupData) AuthResult
	Login(ctx context.Context, data LoginData) AuthResult
	Logout(ctx context.Context)
	IsLoggedIn(ctx context.Context) bool
	LoggedInUser(ctx context.Context) *models.UserProfile
	RefreshProfile(ctx context.Context) *models.UserProfile
	HandleTokenExpired(ctx context.Context)
}

type authService struct {
	client   transport.Client
	sessions *session.Store
	log      logging.Logger
}

func NewAuthService(client transport.Client, sessions *session.Store, log logging.Logger) AuthService {
	return &authService{client: client, sessions: sessions, log: log}
}

const (
	minUsernameLen = 3
	minPasswordLen = 6

	logoutNotifyTimeout = 5 * time.Second
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	emailPattern    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

func fieldFailure(field, message string) AuthResult {
	return AuthResult{Success: false, Field: field, Message: message}
}

func validateSignup(data SignupData) *AuthResult {
	if data.Username == "" || data.Password == "" {
		r := fieldFailure("", "Username and password are required")
		return &r
	}
	if len(data.Username) < minUsernameLen {
		r := fieldFailure("username", "Username must be at least 3 characters")
		return &r
	}
	if !usernamePattern.MatchString(data.Username) {
		r := fieldFailure("username", "Username may only contain letters, digits and underscores")
		return &r
	}
	if len(data.Password) < minPasswordLen {
		r := fieldFailure("password", "Password must be at least 6 characters")
		return &r
	}
	if data.Email != "" && !emailPattern.MatchString(data.Email) {
		r := fieldFailure("email", "Invalid email address")
		return &r
	}
	return nil
}

func (a *authService) Signup(ctx context.Context, data SignupData) AuthResult {
	if failure := validateSignup(data); failure != nil {
		return *failure
	}

	raw, err := a.client.SignUp(ctx, transport.SignUp{
		Username: data.Username,
		Password: data.Password,
		FullName: data.FullName,
		Email:    data.Email,
	})
	if err != nil {
		return a.signupFailure(err)
	}

	payload := adapt.Auth(raw)

	// Some backend versions return no credential from signup; obtain one
	// with an implicit follow-up login.
	if payload.Token == "" {
		loginRaw, err := a.client.SignIn(ctx, data.Username, data.Password)
		if err != nil {
			n := apperr.Normalize(err)
			return AuthResult{Success: false, Message: n.Message}
		}
		loginPayload := adapt.Auth(loginRaw)
		payload.Token = loginPayload.Token
		if loginPayload.User.ID != "" {
			payload.User = loginPayload.User
		}
	}

	if err := a.sessions.Save(ctx, payload.Token, payload.User); err != nil {
		n := apperr.Normalize(err)
		return AuthResult{Success: false, Message: n.Message}
	}

	a.log.Info(ctx, "account created", "username", payload.User.Username)
	user := payload.User
	return AuthResult{Success: true, Message: "Account created", User: &user, Token: payload.Token}
}

func (a *authService) signupFailure(err error) AuthResult {
	n := apperr.Normalize(err)

	code := strings.ToUpper(n.Code)
	msg := strings.ToLower(n.Message)
	switch {
	case strings.Contains(code, "USERNAME"):
		return fieldFailure("username", n.Message)
	case strings.Contains(code, "EMAIL"):
		return fieldFailure("email", n.Message)
	case n.Status == http.StatusConflict && strings.Contains(msg, "email"):
		return fieldFailure("email", n.Message)
	case n.Status == http.StatusConflict:
		return fieldFailure("username", n.Message)
	default:
		return AuthResult{Success: false, Message: n.Message}
	}
}

func (a *authService) Login(ctx context.Context, data LoginData) AuthResult {
	if data.Username == "" || data.Password == "" {
		return fieldFailure("", "Username and password are required")
	}

	raw, err := a.client.SignIn(ctx, data.Username, data.Password)
	if err != nil {
		return a.loginFailure(err)
	}

	payload := adapt.Auth(raw)
	if err := a.sessions.Save(ctx, payload.Token, payload.User); err != nil {
		n := apperr.Normalize(err)
		return AuthResult{Success: false, Message: n.Message}
	}

	a.log.Info(ctx, "logged in", "username", payload.User.Username)
	user := payload.User
	return AuthResult{Success: true, Message: "Logged in", User: &user, Token: payload.Token}
}

func (a *authService) loginFailure(err error) AuthResult {
	n := apperr.Normalize(err)

	message := n.Message
	if message == "" || message == "unknown error" {
		message = "Invalid username or password"
	}

	code := strings.ToUpper(n.Code)
	switch {
	case strings.Contains(code, "NOT_FOUND") || n.Status == http.StatusNotFound:
		return fieldFailure("username", message)
	case strings.Contains(code, "INVALID") || n.Status == http.StatusUnauthorized:
		return fieldFailure("password", message)
	default:
		return AuthResult{Success: false, Message: message}
	}
}

// Logout notifies the backend on a best-effort basis and unconditionally
// clears the local session. It never fails: a dead network must not keep
// the user logged in.
func (a *authService) Logout(ctx context.Context) {
	notifyCtx, cancel := context.WithTimeout(ctx, logoutNotifyTimeout)
	defer cancel()
	if err := a.client.SignOut(notifyCtx); err != nil {
		a.log.Warn(ctx, "backend logout notification failed", "err", err)
	}

	if err := a.sessions.Clear(ctx); err != nil {
		a.log.Error(ctx, "clearing local session failed", "err", err)
	}
}

func (a *authService) IsLoggedIn(ctx context.Context) bool {
	return a.sessions.IsLoggedIn(ctx)
}

// LoggedInUser returns the locally cached profile without a network call.
func (a *authService) LoggedInUser(ctx context.Context) *models.UserProfile {
	return a.sessions.User(ctx)
}

// RefreshProfile fetches the latest profile and overwrites the stored one,
// leaving the credential untouched. On failure it returns nil and the
// existing session stays intact: a stale profile beats none.
func (a *authService) RefreshProfile(ctx context.Context) *models.UserProfile {
	raw, err := a.client.Me(ctx)
	if err != nil {
		a.log.Warn(ctx, "profile refresh failed", "err", err)
		return nil
	}

	user := adapt.User(raw)
	if user.ID == "" && user.Username == "" {
		a.log.Warn(ctx, "profile refresh returned an unusable payload")
		return nil
	}

	if err := a.sessions.UpdateProfile(ctx, user); err != nil {
		a.log.Warn(ctx, "storing refreshed profile failed", "err", err)
		return nil
	}
	return &user
}

// HandleTokenExpired tears the session down after an authorization failure
// or a local expiry check, so the next IsLoggedIn reports false.
func (a *authService) HandleTokenExpired(ctx context.Context) {
	if err := a.sessions.Clear(ctx); err != nil {
		a.log.Error(ctx, "clearing expired session failed", "err", err)
	}
}
