package service

import "errors"

// Error kinds returned by the service layer. Operations wrap these with
// fmt.Errorf("%w: ...") so callers match the kind with errors.Is while the
// message carries the specifics. The HTTP layer maps each kind to a status.
var (
	// ErrValidation covers malformed or semantically invalid input.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthorized means the caller presented no usable identity.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden means the caller is known but the operation is not
	// permitted: missing membership, missing grant, or a protected target.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound means the addressed resource does not exist in the
	// caller's view. Soft-deleted tenants surface as this too.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate means the operation would create a second copy of
	// something unique: a role name, a membership, a pending invitation.
	ErrDuplicate = errors.New("already exists")
)
