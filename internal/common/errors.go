// Package common holds the sentinel errors shared by repositories, services
// and handlers. Callers match them with errors.Is.
package common

import (
	"errors"
	"fmt"
)

var (
	// Validation failures are detected locally; no remote call is made.
	ErrValidation = errors.New("validation error")

	ErrFileTooLarge     = fmt.Errorf("%w: file is too large", ErrValidation)
	ErrUnsupportedType  = fmt.Errorf("%w: invalid file type, please upload a PDF, DOC or DOCX", ErrValidation)
	ErrResumeRequired   = fmt.Errorf("%w: please attach your resume first", ErrValidation)
	ErrMissingFields    = fmt.Errorf("%w: please fill in all required fields", ErrValidation)
	ErrInvalidEmail     = fmt.Errorf("%w: invalid email address", ErrValidation)
	ErrPasswordMismatch = fmt.Errorf("%w: passwords do not match", ErrValidation)
	ErrWeakPassword     = fmt.Errorf("%w: password must be at least 6 characters", ErrValidation)

	// Repository errors.
	ErrNotFound   = errors.New("not found")
	ErrEmailTaken = errors.New("email already in use")

	// Auth errors.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("admin only")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")

	// Workflow errors.
	ErrSubmissionInFlight   = errors.New("a submission is already in progress")
	ErrConfirmationRequired = errors.New("deletion must be confirmed")
	ErrUploadFailed         = errors.New("upload failed, please try again")
	ErrUploadNotReady       = errors.New("resume upload has not completed")
	ErrUploadInProgress     = errors.New("an upload is already in progress")
)
