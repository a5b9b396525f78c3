package chat

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	usermodel "pairlink/module/user/model"
	"pairlink/tools/errs"
	"pairlink/tools/security"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	users map[string]*usermodel.Summary
}

func (f *fakeResolver) Summary(_ context.Context, userID string) (*usermodel.Summary, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, errs.ErrUnknownAccount.WrapMsg("user", "id", userID)
	}
	return u, nil
}

func newTestAuthenticator(userIDs ...string) (*Authenticator, security.Options) {
	opts := security.DefaultOptions([]byte("test-secret"))
	users := make(map[string]*usermodel.Summary, len(userIDs))
	for _, id := range userIDs {
		users[id] = &usermodel.Summary{UserID: id, UserName: "user-" + id[:8]}
	}
	return NewAuthenticator(opts, &fakeResolver{users: users}), opts
}

func TestTokenFromRequest(t *testing.T) {
	req := require.New(t)

	r := httptest.NewRequest(http.MethodGet, "/ws?token=abc", nil)
	req.Equal("abc", TokenFromRequest(r))

	r = httptest.NewRequest(http.MethodGet, "/ws", nil)
	r.Header.Set("Authorization", "Bearer xyz")
	req.Equal("xyz", TokenFromRequest(r))

	// query data wins over the header
	r = httptest.NewRequest(http.MethodGet, "/ws?token=abc", nil)
	r.Header.Set("Authorization", "Bearer xyz")
	req.Equal("abc", TokenFromRequest(r))

	r = httptest.NewRequest(http.MethodGet, "/ws", nil)
	r.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	req.Equal("", TokenFromRequest(r))

	r = httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.Equal("", TokenFromRequest(r))
}

func TestAuthenticate_Success(t *testing.T) {
	req := require.New(t)
	userID := uuid.NewString()
	authn, opts := newTestAuthenticator(userID)

	token, _, err := security.Generate(opts, userID, nil)
	req.NoError(err)

	r := httptest.NewRequest(http.MethodGet, "/ws?token="+token, nil)
	user, err := authn.Authenticate(context.Background(), r)
	req.NoError(err)
	req.Equal(userID, user.UserID)
}

func TestAuthenticate_MissingCredential(t *testing.T) {
	req := require.New(t)
	authn, _ := newTestAuthenticator()

	r := httptest.NewRequest(http.MethodGet, "/ws", nil)
	_, err := authn.Authenticate(context.Background(), r)
	req.Error(err)
	req.True(errs.ErrMissingCredential.Is(err))
	req.Equal(http.StatusUnauthorized, HTTPStatus(err))
}

func TestAuthenticate_InvalidCredential(t *testing.T) {
	req := require.New(t)
	authn, _ := newTestAuthenticator()

	r := httptest.NewRequest(http.MethodGet, "/ws?token=not-a-jwt", nil)
	_, err := authn.Authenticate(context.Background(), r)
	req.Error(err)
	req.True(errs.ErrInvalidCredential.Is(err))
	req.Equal(http.StatusUnauthorized, HTTPStatus(err))
}

func TestAuthenticate_WrongSecret(t *testing.T) {
	req := require.New(t)
	userID := uuid.NewString()
	authn, _ := newTestAuthenticator(userID)

	other := security.DefaultOptions([]byte("other-secret"))
	token, _, err := security.Generate(other, userID, nil)
	req.NoError(err)

	r := httptest.NewRequest(http.MethodGet, "/ws?token="+token, nil)
	_, err = authn.Authenticate(context.Background(), r)
	req.Error(err)
	req.True(errs.ErrInvalidCredential.Is(err))
}

func TestAuthenticate_UnknownAccount(t *testing.T) {
	req := require.New(t)
	authn, opts := newTestAuthenticator() // no accounts registered

	token, _, err := security.Generate(opts, uuid.NewString(), nil)
	req.NoError(err)

	r := httptest.NewRequest(http.MethodGet, "/ws?token="+token, nil)
	_, err = authn.Authenticate(context.Background(), r)
	req.Error(err)
	req.True(errs.ErrUnknownAccount.Is(err))
	req.Equal(http.StatusForbidden, HTTPStatus(err))

	// both failures are members of the authentication family
	req.True(errs.ErrAuthentication.Is(err))
}

func TestAuthenticate_FamilyMatch(t *testing.T) {
	req := require.New(t)
	authn, _ := newTestAuthenticator()

	r := httptest.NewRequest(http.MethodGet, "/ws", nil)
	_, err := authn.Authenticate(context.Background(), r)
	req.True(errs.ErrAuthentication.Is(err))
}
