package models

import "github.com/cockroachdb/errors"

// Base errors, related to default API status codes
var (
	// BadParameterError is rendered with the http status code 400
	BadParameterError = errors.New("bad parameter")

	// UnAuthorizedError is rendered with the http status code 401
	UnAuthorizedError = errors.New("unauthorized")

	// ForbiddenError is rendered with the http status code 403
	ForbiddenError = errors.New("forbidden")

	// NotFoundError is rendered with the http status code 404
	NotFoundError = errors.New("not found")

	// ConflictError is rendered with the http status code 409
	ConflictError = errors.New("duplicate value")
)

// Change request related errors
var (
	// the record is already decided, or pending past its expiry date
	ErrChangeNotReviewable = errors.Wrap(ConflictError, "change request cannot be reviewed")

	ErrUnknownEntity    = errors.Wrap(BadParameterError, "unknown entity")
	ErrInvalidOperation = errors.Wrap(BadParameterError, "invalid operation")
	ErrMissingTargetId  = errors.Wrap(BadParameterError, "a target id is required for update and delete operations")
	ErrInvalidColumn    = errors.Wrap(BadParameterError, "invalid column name in proposed changes")
	ErrEmptyChanges     = errors.Wrap(BadParameterError, "proposed changes cannot be empty")
)
