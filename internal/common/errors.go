// Package common defines sentinel errors shared by the onboarding layers.
// Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound    = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// ErrStore marks any failure of the backing store during a commit.
	ErrStore = errors.New("store error")

	// Wizard errors.
	ErrValidation     = errors.New("validation error")
	ErrCommitInFlight = errors.New("commit in flight")
	ErrWizardFinished = errors.New("onboarding already completed")

	// Draft limits.
	ErrPhotoLimit    = errors.New("photo limit reached")
	ErrPhotoTooLarge = errors.New("photo too large")
	ErrTagLimit      = errors.New("selection limit reached")
	ErrUnknownOption = errors.New("unknown option")

	// Auth errors.
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrInvalidToken     = errors.New("invalid token")

	// Geolocation errors.
	ErrLocationUnsupported = errors.New("geolocation unsupported")
	ErrPermissionDenied    = errors.New("location permission denied")
	ErrLocationUnavailable = errors.New("location unavailable")
	ErrNoCandidates        = errors.New("no candidates")

	// ErrUpload is reported per photo and never aborts a commit.
	ErrUpload = errors.New("upload failed")
)
