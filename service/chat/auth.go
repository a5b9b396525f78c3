package chat

import (
	"context"
	"net/http"
	"strings"

	usermodel "pairlink/module/user/model"
	"pairlink/tools/errs"
	"pairlink/tools/security"
)

// UserResolver is the external user-lookup collaborator: a verified identity
// must still resolve to an active account before the channel is admitted.
type UserResolver interface {
	Summary(ctx context.Context, userID string) (*usermodel.Summary, error)
}

// Authenticator validates the credential presented at channel-open time and
// resolves it to a user identity. Any failure refuses the channel before a
// single event is processed.
type Authenticator struct {
	Opts  security.Options
	Users UserResolver
}

func NewAuthenticator(opts security.Options, users UserResolver) *Authenticator {
	return &Authenticator{Opts: opts, Users: users}
}

// Authenticate reads the token from the handshake request and resolves it.
// The token may arrive as ?token= query data or as a bearer Authorization
// header.
func (a *Authenticator) Authenticate(ctx context.Context, r *http.Request) (*usermodel.Summary, error) {
	token := TokenFromRequest(r)
	if token == "" {
		return nil, errs.ErrMissingCredential.WrapMsg("no token in handshake")
	}
	claims, err := security.Verify(a.Opts, token)
	if err != nil {
		return nil, errs.ErrInvalidCredential.WrapMsg("verify", "cause", err)
	}
	userID := claims.UserID()
	if userID == "" {
		return nil, errs.ErrInvalidCredential.WrapMsg("token has no subject")
	}
	return a.Users.Summary(ctx, userID)
}

// TokenFromRequest extracts the handshake credential.
func TokenFromRequest(r *http.Request) string {
	if token := strings.TrimSpace(r.URL.Query().Get("token")); token != "" {
		return token
	}
	authz := strings.TrimSpace(r.Header.Get("Authorization"))
	if authz == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(authz), "bearer ") {
		return strings.TrimSpace(authz[len("bearer "):])
	}
	return ""
}

// HTTPStatus maps a handshake failure onto the refusal status code.
func HTTPStatus(err error) int {
	ce := errs.AsCodeError(err)
	switch ce.Code {
	case errs.MissingCredentialCode, errs.InvalidCredentialCode:
		return http.StatusUnauthorized
	case errs.UnknownAccountCode:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
