// Package errors provides the error taxonomy shared by the bundle manager.
// Each typed error matches its sentinel through errors.Is, so callers can
// branch on the category without caring about the concrete type.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel categories.
var (
	// ErrFormat indicates a DAT file that matches no supported grammar.
	ErrFormat = errors.New("unrecognized dat format")

	// ErrArchiveUnreadable indicates an archive that could not be opened or read.
	ErrArchiveUnreadable = errors.New("archive unreadable")

	// ErrRepairSourceUnavailable indicates a donor archive that vanished or changed.
	ErrRepairSourceUnavailable = errors.New("repair source unavailable")

	// ErrNetwork indicates a remote request that did not complete with a 2xx status.
	ErrNetwork = errors.New("network error")

	// ErrNotFound indicates an unknown core, version or resource.
	ErrNotFound = errors.New("not found")
)

// FormatError represents DAT text that could not be turned into a database.
type FormatError struct {
	Source  string
	Message string
	Err     error
}

// Error implements the error interface
func (e *FormatError) Error() string {
	var b strings.Builder
	b.WriteString("invalid dat")
	if e.Source != "" {
		b.WriteString(" ")
		b.WriteString(e.Source)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error
func (e *FormatError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

// NewFormatError creates a new FormatError
func NewFormatError(source, message string, err error) *FormatError {
	return &FormatError{Source: source, Message: message, Err: err}
}

// ArchiveUnreadableError represents an archive excluded from the index.
type ArchiveUnreadableError struct {
	Path string
	Err  error
}

// Error implements the error interface
func (e *ArchiveUnreadableError) Error() string {
	return fmt.Sprintf("archive %s unreadable: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error
func (e *ArchiveUnreadableError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ArchiveUnreadableError) Is(target error) bool {
	return target == ErrArchiveUnreadable
}

// NewArchiveUnreadableError creates a new ArchiveUnreadableError
func NewArchiveUnreadableError(path string, err error) *ArchiveUnreadableError {
	return &ArchiveUnreadableError{Path: path, Err: err}
}

// RepairSourceUnavailableError represents a rom that could not be copied into a bundle.
type RepairSourceUnavailableError struct {
	Bundle string
	Rom    string
	CRC    string
	Source string
	Err    error
}

// Error implements the error interface
func (e *RepairSourceUnavailableError) Error() string {
	msg := fmt.Sprintf("cannot repair %s: rom %s (%s)", e.Bundle, e.Rom, e.CRC)
	if e.Source != "" {
		msg += " from " + e.Source
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error
func (e *RepairSourceUnavailableError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *RepairSourceUnavailableError) Is(target error) bool {
	return target == ErrRepairSourceUnavailable
}

// NetworkError represents a failed remote request.
type NetworkError struct {
	URL        string
	StatusCode int
	Err        error
}

// Error implements the error interface
func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("request %s returned %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("request %s failed: %v", e.URL, e.Err)
}

// Unwrap returns the underlying error
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// IsFormat reports whether err is a FormatError.
func IsFormat(err error) bool {
	return errors.Is(err, ErrFormat)
}

// IsArchiveUnreadable reports whether err is an ArchiveUnreadableError.
func IsArchiveUnreadable(err error) bool {
	return errors.Is(err, ErrArchiveUnreadable)
}

// IsRepairSourceUnavailable reports whether err is a RepairSourceUnavailableError.
func IsRepairSourceUnavailable(err error) bool {
	return errors.Is(err, ErrRepairSourceUnavailable)
}

// IsNetwork reports whether err is a NetworkError.
func IsNetwork(err error) bool {
	return errors.Is(err, ErrNetwork)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
