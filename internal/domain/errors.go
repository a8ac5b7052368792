package domain

import "errors"

// Sentinel errors shared across services. Repositories and services wrap or
// return these so the delivery layer can map them to HTTP statuses with
// errors.Is.
var (
	// ErrNotFound is returned when a resource does not exist. It is also
	// returned for creator-only operations invoked by a non-creator, so the
	// response does not reveal whether the resource exists.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput wraps validation failures. The wrapped message describes
	// the offending field.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAlreadyRegistered is returned when a user enrolls in an event they
	// already participate in.
	ErrAlreadyRegistered = errors.New("already registered for this event")

	// ErrCertificateExists is returned when a certificate for the same
	// (user, event) pair already exists.
	ErrCertificateExists = errors.New("certificate already exists for this participant and event")

	// ErrAssetUnavailable indicates the certificate template image or font
	// could not be loaded.
	ErrAssetUnavailable = errors.New("certificate asset unavailable")
)
