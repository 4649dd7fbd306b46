package types

import "fmt"

// ErrorKind classifies lifecycle failures
type ErrorKind string

const (
	// KindValidation is a precondition that was not met
	KindValidation ErrorKind = "validation"
	// KindArchive is a missing, unrecognised or unextractable archive
	KindArchive ErrorKind = "archive"
	// KindFilesystem is a refused deletion, failed rename or missing data
	KindFilesystem ErrorKind = "filesystem"
)

// LifecycleError is returned by every failed lifecycle operation
type LifecycleError struct {
	Kind    ErrorKind
	Package PackageIdentifier
	Message string
	Err     error
}

// NewLifecycleError creates a lifecycle error without an underlying cause
func NewLifecycleError(kind ErrorKind, pkg PackageIdentifier, message string) *LifecycleError {
	return &LifecycleError{Kind: kind, Package: pkg, Message: message}
}

// WrapLifecycleError creates a lifecycle error around a cause
func WrapLifecycleError(kind ErrorKind, pkg PackageIdentifier, message string, err error) *LifecycleError {
	return &LifecycleError{Kind: kind, Package: pkg, Message: message, Err: err}
}

func (e *LifecycleError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Package, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Package, e.Message)
}

// Unwrap returns the underlying cause
func (e *LifecycleError) Unwrap() error {
	return e.Err
}

// UserMessage is the queued form of the error, "<package>: <message>"
func (e *LifecycleError) UserMessage() string {
	return fmt.Sprintf("%s: %s", e.Package, e.Message)
}
