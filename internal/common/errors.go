// Package common defines shared constants and sentinel errors used across
// client and server layers of StoreBox. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// ErrUnauthenticated means no session or user could be resolved.
	// Operations must fail with this before touching any data.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrUploadFailed means the blob was stored but the metadata record
	// could not be created (or vice versa). The orphaned half must have
	// been cleaned up by the time this is returned.
	ErrUploadFailed = errors.New("upload failed")

	// ErrBackendUnavailable marks transient failures of the database or
	// the object store.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// Validation errors.
	ErrorAlreadyExists = errors.New("already exists")
	ErrorValidation    = errors.New("validation error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
