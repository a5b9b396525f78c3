package errs

import "errors"

// Error codes for the messaging core. Authentication members are related to
// the family code so errs.ErrAuthentication.Is(err) matches any of them.
const (
	AuthenticationErrorCode  = 1100
	MissingCredentialCode    = 1101
	InvalidCredentialCode    = 1102
	UnknownAccountCode       = 1103
	InvalidMessageCode       = 1201
	RecordNotFoundCode       = 1301
	RelayDeliveryFailureCode = 1401
	PersistenceErrorCode     = 1501
	ServerInternalErrorCode  = 1901
)

var (
	ErrAuthentication       = NewCodeError(AuthenticationErrorCode, "authentication failed")
	ErrMissingCredential    = NewCodeError(MissingCredentialCode, "no credential supplied")
	ErrInvalidCredential    = NewCodeError(InvalidCredentialCode, "credential verification failed")
	ErrUnknownAccount       = NewCodeError(UnknownAccountCode, "identity does not resolve to an account")
	ErrInvalidMessage       = NewCodeError(InvalidMessageCode, "invalid message")
	ErrRecordNotFound       = NewCodeError(RecordNotFoundCode, "record not found")
	ErrRelayDeliveryFailure = NewCodeError(RelayDeliveryFailureCode, "relay delivery failure")
	ErrPersistence          = NewCodeError(PersistenceErrorCode, "persistence failed")
	ErrServerInternal       = NewCodeError(ServerInternalErrorCode, "server internal error")
)

func init() {
	_ = DefaultCodeRelation.Add(AuthenticationErrorCode, MissingCredentialCode)
	_ = DefaultCodeRelation.Add(AuthenticationErrorCode, InvalidCredentialCode)
	_ = DefaultCodeRelation.Add(AuthenticationErrorCode, UnknownAccountCode)
}

// AsCodeError extracts a *CodeError from err, or wraps err under the internal
// server code so callers always have a code+msg pair to emit.
func AsCodeError(err error) *CodeError {
	if err == nil {
		return nil
	}
	var ce *CodeError
	if errors.As(err, &ce) {
		return ce
	}
	wrapped := ErrServerInternal.WithDetail(err.Error())
	return &wrapped
}
