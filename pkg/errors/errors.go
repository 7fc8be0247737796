package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Transcript errors
var (
	ErrHeaderNotFound        = errors.New("header row not found")
	ErrRequiredColumnMissing = errors.New("required column missing")
	ErrEmptyData             = errors.New("no data rows after header")
	ErrNoValidCourses        = errors.New("no valid courses")
	ErrUnsupportedFormat     = errors.New("unsupported file format")
	ErrDecodeFailed          = errors.New("failed to decode spreadsheet")
)

// Retake errors
var (
	ErrInvalidGrade          = errors.New("invalid replacement grade")
	ErrPassNonPassNotAllowed = errors.New("pass/non-pass grade not allowed for retake")
	ErrDuplicateSelection    = errors.New("course selected more than once")
	ErrNoSelection           = errors.New("no course selected for retake")
	ErrSlotOutOfRange        = errors.New("retake slot out of range")
	ErrCourseNotFound        = errors.New("course not found")
	ErrCourseNotEligible     = errors.New("course not eligible for retake")
	ErrInvalidTier           = errors.New("invalid tier")
)

// Session errors
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionConflict = errors.New("session was modified concurrently")
)

// Account errors
var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrGPANotFound        = errors.New("gpa not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrExternalAPIError   = errors.New("external API error")
)

type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s' with value '%v': %s",
		e.Field, e.Value, e.Message)
}

// RequiredColumnError names the header label that could not be resolved.
type RequiredColumnError struct {
	Column string
}

func (e RequiredColumnError) Error() string {
	return fmt.Sprintf("required column missing: %s", e.Column)
}

func (e RequiredColumnError) Unwrap() error {
	return ErrRequiredColumnMissing
}

// NoValidCoursesError reports how many data rows were rejected.
type NoValidCoursesError struct {
	Skipped int
}

func (e NoValidCoursesError) Error() string {
	return fmt.Sprintf("no valid courses (%d rows skipped)", e.Skipped)
}

func (e NoValidCoursesError) Unwrap() error {
	return ErrNoValidCourses
}

// SlotError ties a retake validation failure to its slot.
type SlotError struct {
	Err      error
	Slot     int
	CourseID string
	Grade    string
}

func (e SlotError) Error() string {
	return fmt.Sprintf("slot %d (course %q, grade %q): %s", e.Slot+1, e.CourseID, e.Grade, e.Err.Error())
}

func (e SlotError) Unwrap() error {
	return e.Err
}

type DuplicateSelectionError struct {
	CourseID string
	Slots    []int
}

func (e DuplicateSelectionError) Error() string {
	slots := make([]string, len(e.Slots))
	for i, s := range e.Slots {
		slots[i] = fmt.Sprintf("%d", s+1)
	}
	return fmt.Sprintf("course %q selected in slots %s", e.CourseID, strings.Join(slots, ", "))
}

func (e DuplicateSelectionError) Unwrap() error {
	return ErrDuplicateSelection
}

// APIError is a non-2xx answer from the account API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e APIError) Error() string {
	return fmt.Sprintf("account API returned %d: %s", e.StatusCode, e.Message)
}

func (e APIError) Unwrap() error {
	switch e.StatusCode {
	case 401, 403:
		return ErrUnauthorized
	case 409:
		return ErrEmailAlreadyExists
	}
	return ErrExternalAPIError
}

type RetryableError struct {
	Err     error
	Message string
}

func (e RetryableError) Error() string {
	return fmt.Sprintf("retryable error: %s - %s", e.Message, e.Err.Error())
}

func (e RetryableError) Unwrap() error {
	return e.Err
}

func NewRetryableError(err error, message string) error {
	return RetryableError{
		Err:     err,
		Message: message,
	}
}

// Is reports whether err matches target or any of errList.
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}
	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
