// Package sdkdoc keeps a local Markdown mirror of an SDK documentation site.
// It crawls a fixed catalog of pages, converts their HTML into Markdown plus
// extracted API metadata, fingerprints the processed content so unchanged
// pages are skipped on the next run, and organizes and validates the
// resulting corpus.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, htmltomarkdown/).
package sdkdoc

import (
	"errors"
	"fmt"
)

// Application error codes.
const (
	ECONFLICT    = "conflict"
	EINTERNAL    = "internal"
	EINVALID     = "invalid"
	ENOTFOUND    = "not_found"
	EFORBIDDEN   = "forbidden"
	EUNAVAILABLE = "unavailable"
	ETRANSFORM   = "transform"
	EPERSIST     = "persist"
	ECORRUPT     = "corrupt"
)

// Error represents an application-specific error. Application errors can be
// unwrapped by the caller to extract out the code & message.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface. Not used by the application otherwise.
func (e *Error) Error() string {
	return fmt.Sprintf("sdkdoc error: code=%s message=%s", e.Code, e.Message)
}

// Errorf is a helper function to return an Error with a given code and
// formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error.".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// Retryable reports whether a failure may succeed on another attempt.
// Missing and forbidden pages are terminal; everything else that is not
// a local validation or transform problem is treated as transient.
func Retryable(err error) bool {
	switch ErrorCode(err) {
	case "", ENOTFOUND, EFORBIDDEN, EINVALID, ETRANSFORM:
		return false
	}
	return true
}
