package models

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound               = errors.New("not found")
	ErrValidation             = errors.New("validation failed")
	ErrConflict               = errors.New("conflict")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrForbidden              = errors.New("forbidden")
	ErrInvalidCategoryForLink = errors.New("category is not allowed for this registration link")
	ErrRegistrationClosed     = errors.New("registration is closed")
	ErrLinkRejected           = errors.New("registration link rejected")
)

// LinkRejectReason names the gate a registration link failed.
type LinkRejectReason string

const (
	ReasonInactive       LinkRejectReason = "inactive"
	ReasonExpired        LinkRejectReason = "expired"
	ReasonUsageExhausted LinkRejectReason = "usage_exhausted"
	ReasonCampFull       LinkRejectReason = "camp_full"
)

// LinkRejectedError matches ErrLinkRejected under errors.Is.
type LinkRejectedError struct {
	Reason LinkRejectReason
}

func (e *LinkRejectedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrLinkRejected, e.Reason)
}

func (e *LinkRejectedError) Is(target error) bool {
	return target == ErrLinkRejected
}

func RejectLink(reason LinkRejectReason) error {
	return &LinkRejectedError{Reason: reason}
}

// ValidationError points at the offending input field. It matches
// ErrValidation under errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
