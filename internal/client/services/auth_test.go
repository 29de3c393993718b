package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/vkozyrev/sharebox/internal/client/apperr"
	"github.com/vkozyrev/sharebox/internal/client/kvstore"
	"github.com/vkozyrev/sharebox/internal/client/models"
	"github.com/vkozyrev/sharebox/internal/client/session"
	"github.com/vkozyrev/sharebox/internal/client/token"
	"github.com/vkozyrev/sharebox/internal/client/transport"
	"github.com/vkozyrev/sharebox/internal/logging"
)

func userProfile(id, username string) models.UserProfile {
	return models.UserProfile{ID: id, Username: username}
}

func makeToken(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := token.Claims{UserID: "u-1"}
	claims.ExpiresAt = jwt.NewNumericDate(exp)
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	require.NoError(t, err)
	return s
}

func newAuthFixture(t *testing.T, client *fakeClient) (AuthService, *session.Store) {
	t.Helper()
	store := session.NewStore(kvstore.NewMemoryRepository())
	return NewAuthService(client, store, logging.NewNopLogger()), store
}

func TestLoginEmptyFieldsShortCircuit(t *testing.T) {
	client := &fakeClient{}
	svc, _ := newAuthFixture(t, client)

	res := svc.Login(context.Background(), LoginData{Username: "", Password: "secret1"})
	require.False(t, res.Success)
	require.Equal(t, "Username and password are required", res.Message)
	require.Empty(t, client.calls, "local validation must not reach the network")
}

func TestSignupShortUsernameTagsField(t *testing.T) {
	client := &fakeClient{}
	svc, _ := newAuthFixture(t, client)

	res := svc.Signup(context.Background(), SignupData{Username: "ab", Password: "secret1"})
	require.False(t, res.Success)
	require.Equal(t, "username", res.Field)
	require.Equal(t, "Username must be at least 3 characters", res.Message)
	require.Empty(t, client.calls)
}

func TestSignupRejectsBadCharactersAndEmail(t *testing.T) {
	client := &fakeClient{}
	svc, _ := newAuthFixture(t, client)

	res := svc.Signup(context.Background(), SignupData{Username: "a b!", Password: "secret1"})
	require.Equal(t, "username", res.Field)

	res = svc.Signup(context.Background(), SignupData{Username: "alice", Password: "secret1", Email: "not-an-email"})
	require.Equal(t, "email", res.Field)
	require.Equal(t, "Invalid email address", res.Message)
	require.Empty(t, client.calls)
}

func TestLoginSuccessPersistsSession(t *testing.T) {
	tok := makeToken(t, time.Now().Add(time.Hour))
	client := &fakeClient{
		signInFn: func(ctx context.Context, username, password string) (any, error) {
			return map[string]any{
				"token": tok,
				"user":  map[string]any{"id": 1, "username": username, "full_name": "Alice Smith"},
			}, nil
		},
	}
	svc, store := newAuthFixture(t, client)

	res := svc.Login(context.Background(), LoginData{Username: "alice", Password: "secret1"})
	require.True(t, res.Success)
	require.NotNil(t, res.User)
	require.Equal(t, "alice", res.User.Username)
	require.Equal(t, tok, res.Token)

	require.True(t, store.IsLoggedIn(context.Background()))
	got, err := store.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, tok, got)
}

func TestLoginFailureMapsToField(t *testing.T) {
	client := &fakeClient{
		signInFn: func(ctx context.Context, username, password string) (any, error) {
			return nil, apperr.FromResponse(401, []byte(`{"message":"Invalid credentials","code":"INVALID_CREDENTIALS"}`))
		},
	}
	svc, store := newAuthFixture(t, client)

	res := svc.Login(context.Background(), LoginData{Username: "alice", Password: "wrong"})
	require.False(t, res.Success)
	require.Equal(t, "password", res.Field)
	require.Equal(t, "Invalid credentials", res.Message)
	require.False(t, store.IsLoggedIn(context.Background()))
}

func TestSignupConflictCodeMapsToField(t *testing.T) {
	client := &fakeClient{
		signUpFn: func(ctx context.Context, req transport.SignUp) (any, error) {
			return nil, apperr.FromResponse(409, []byte(`{"error":"name taken","code":"USERNAME_TAKEN"}`))
		},
	}
	svc, _ := newAuthFixture(t, client)

	res := svc.Signup(context.Background(), SignupData{Username: "alice", Password: "secret1"})
	require.False(t, res.Success)
	require.Equal(t, "username", res.Field)
	require.Equal(t, "name taken", res.Message)
}

func TestSignupWithoutTokenDoesImplicitLogin(t *testing.T) {
	tok := makeToken(t, time.Now().Add(time.Hour))
	client := &fakeClient{
		signUpFn: func(ctx context.Context, req transport.SignUp) (any, error) {
			return map[string]any{"user": map[string]any{"id": 5, "username": req.Username}}, nil
		},
		signInFn: func(ctx context.Context, username, password string) (any, error) {
			return map[string]any{"token": tok, "user": map[string]any{"id": 5, "username": username}}, nil
		},
	}
	svc, store := newAuthFixture(t, client)

	res := svc.Signup(context.Background(), SignupData{Username: "alice", Password: "secret1"})
	require.True(t, res.Success)
	require.Equal(t, tok, res.Token)
	require.Equal(t, []string{"SignUp", "SignIn"}, client.calls)
	require.True(t, store.IsLoggedIn(context.Background()))
}

func TestLogoutAlwaysClearsEvenWhenBackendFails(t *testing.T) {
	tok := makeToken(t, time.Now().Add(time.Hour))
	client := &fakeClient{
		signOutFn: func(ctx context.Context) error { return errors.New("backend down") },
	}
	svc, store := newAuthFixture(t, client)

	require.NoError(t, store.Save(context.Background(), tok, userProfile("u-1", "alice")))
	require.True(t, svc.IsLoggedIn(context.Background()))

	svc.Logout(context.Background())
	require.False(t, svc.IsLoggedIn(context.Background()))
	require.Nil(t, svc.LoggedInUser(context.Background()))
}

func TestRefreshProfileKeepsCredential(t *testing.T) {
	tok := makeToken(t, time.Now().Add(time.Hour))
	client := &fakeClient{
		meFn: func(ctx context.Context) (any, error) {
			return map[string]any{"id": 1, "username": "alice", "full_name": "Alice Renamed"}, nil
		},
	}
	svc, store := newAuthFixture(t, client)
	require.NoError(t, store.Save(context.Background(), tok, userProfile("1", "alice")))

	user := svc.RefreshProfile(context.Background())
	require.NotNil(t, user)
	require.Equal(t, "Alice Renamed", user.FullName)

	got, err := store.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, tok, got)
}

func TestRefreshProfileFailureLeavesSessionIntact(t *testing.T) {
	tok := makeToken(t, time.Now().Add(time.Hour))
	client := &fakeClient{
		meFn: func(ctx context.Context) (any, error) { return nil, errors.New("boom") },
	}
	svc, store := newAuthFixture(t, client)
	require.NoError(t, store.Save(context.Background(), tok, userProfile("1", "alice")))

	require.Nil(t, svc.RefreshProfile(context.Background()))
	require.True(t, svc.IsLoggedIn(context.Background()))
}

func TestHandleTokenExpiredTearsDownSession(t *testing.T) {
	tok := makeToken(t, time.Now().Add(time.Hour))
	svc, store := newAuthFixture(t, &fakeClient{})
	require.NoError(t, store.Save(context.Background(), tok, userProfile("1", "alice")))

	svc.HandleTokenExpired(context.Background())
	require.False(t, svc.IsLoggedIn(context.Background()))
}
