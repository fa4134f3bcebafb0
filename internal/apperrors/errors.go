// Package apperrors holds the error taxonomy shared by the provisioning,
// authorization and finance layers. Handlers translate these into HTTP
// statuses with errors.Is/errors.As; services never map to statuses
// themselves.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks a missing local record or IdP account.
	ErrNotFound = errors.New("not found")
	// ErrUsernameTaken is returned when the IdP rejects a create because
	// the username already exists.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrForbidden marks an authenticated caller without entitlement.
	ErrForbidden = errors.New("forbidden")
	// ErrMalformedToken marks a token whose claims are missing or
	// unparseable.
	ErrMalformedToken = errors.New("malformed token")
)

// ValidationError is a caller-fault input error. No I/O has happened when
// one is returned.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func NewValidationError(msg string) error {
	return &ValidationError{Msg: msg}
}

func IsValidationError(err error) bool {
	var validationError *ValidationError
	return errors.As(err, &validationError)
}

// ProvisioningError wraps a failed IdP call. The two stores are still
// consistent when one is returned.
type ProvisioningError struct {
	Op  string
	Err error
}

func (e *ProvisioningError) Error() string {
	return fmt.Sprintf("identity provider %s failed: %v", e.Op, e.Err)
}

func (e *ProvisioningError) Unwrap() error {
	return e.Err
}

func NewProvisioningError(op string, err error) error {
	return &ProvisioningError{Op: op, Err: err}
}

func IsProvisioningError(err error) bool {
	var provisioningError *ProvisioningError
	return errors.As(err, &provisioningError)
}

// PartialProvisioningError means the local store and the IdP have diverged:
// an IdP account exists (or existed) with no matching local record. It is
// the one error class that needs operator attention rather than a caller
// retry, so it must stay distinguishable from ProvisioningError in logs.
type PartialProvisioningError struct {
	Username        string
	OrphanAccountID string
	Err             error
}

func (e *PartialProvisioningError) Error() string {
	return fmt.Sprintf("partial provisioning for %q (orphan idp account %q): %v", e.Username, e.OrphanAccountID, e.Err)
}

func (e *PartialProvisioningError) Unwrap() error {
	return e.Err
}

func IsPartialProvisioningError(err error) bool {
	var partialError *PartialProvisioningError
	return errors.As(err, &partialError)
}
