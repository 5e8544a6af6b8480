package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeInput represents malformed caller input (bad repository URL, missing path)
	ErrorTypeInput ErrorType = "input"
	// ErrorTypeGitHub represents failures talking to the GitHub REST API
	ErrorTypeGitHub ErrorType = "github"
	// ErrorTypeGraph represents graph assembly and export errors
	ErrorTypeGraph ErrorType = "graph"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeContext represents context cancellation/timeout errors
	ErrorTypeContext ErrorType = "context"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// Category reports the error category. Typed errors embedding *BaseError inherit it.
func (e *BaseError) Category() ErrorType {
	return e.Type
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Input Errors

// ErrInvalidRepoURL is returned when a repository URL cannot be parsed into owner/repo
type ErrInvalidRepoURL struct {
	*BaseError
	URL string
}

func NewInvalidRepoURL(url string) *ErrInvalidRepoURL {
	return &ErrInvalidRepoURL{
		BaseError: NewBaseError(ErrorTypeInput, fmt.Sprintf("invalid GitHub repository URL: %q", url), nil),
		URL:       url,
	}
}

// ErrInvalidArgument is returned when a required argument is empty or malformed
type ErrInvalidArgument struct {
	*BaseError
	Field string
}

func NewInvalidArgument(field, reason string) *ErrInvalidArgument {
	return &ErrInvalidArgument{
		BaseError: NewBaseError(ErrorTypeInput, fmt.Sprintf("invalid %s: %s", field, reason), nil),
		Field:     field,
	}
}

// GitHub Errors

// ErrGitHubRequestFailed is returned when a GitHub API call fails or answers with a non-2xx status
type ErrGitHubRequestFailed struct {
	*BaseError
	Endpoint   string
	StatusCode int
}

func NewGitHubRequestFailed(endpoint string, statusCode int, err error) *ErrGitHubRequestFailed {
	msg := fmt.Sprintf("GitHub request failed: %s", endpoint)
	if statusCode != 0 {
		msg = fmt.Sprintf("GitHub request failed: %s (status %d)", endpoint, statusCode)
	}
	return &ErrGitHubRequestFailed{
		BaseError:  NewBaseError(ErrorTypeGitHub, msg, err),
		Endpoint:   endpoint,
		StatusCode: statusCode,
	}
}

// ErrGitHubNotFound is returned when a repository, tree or file does not exist
type ErrGitHubNotFound struct {
	*BaseError
	Resource string
}

func NewGitHubNotFound(resource string) *ErrGitHubNotFound {
	return &ErrGitHubNotFound{
		BaseError: NewBaseError(ErrorTypeGitHub, fmt.Sprintf("not found: %s", resource), nil),
		Resource:  resource,
	}
}

// Graph Errors

// ErrGraphInvariantViolated is returned when an assembled graph breaks a structural invariant
type ErrGraphInvariantViolated struct {
	*BaseError
	Reason string
}

func NewGraphInvariantViolated(reason string) *ErrGraphInvariantViolated {
	return &ErrGraphInvariantViolated{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("graph invariant violated: %s", reason), nil),
		Reason:    reason,
	}
}

// ErrGraphExportFailed is returned when writing a graph snapshot to Neo4j fails
type ErrGraphExportFailed struct {
	*BaseError
	Repo string
}

func NewGraphExportFailed(repo string, err error) *ErrGraphExportFailed {
	return &ErrGraphExportFailed{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("failed to export graph for %s", repo), err),
		Repo:      repo,
	}
}

// ErrExportDisabled is returned when an export is requested without a configured sink
var ErrExportDisabled = NewBaseError(ErrorTypeConfig, "graph export is not configured", nil)

// Context Errors

// ErrContextCancelled is returned when context is cancelled
type ErrContextCancelled struct {
	*BaseError
	Operation string
}

func NewContextCancelled(operation string, err error) *ErrContextCancelled {
	return &ErrContextCancelled{
		BaseError: NewBaseError(ErrorTypeContext, fmt.Sprintf("context cancelled: %s", operation), err),
		Operation: operation,
	}
}

// Config Errors

// ErrConfigValidationFailed is returned when configuration validation fails
type ErrConfigValidationFailed struct {
	*BaseError
	Field  string
	Reason string
}

func NewConfigValidationFailed(field, reason string) *ErrConfigValidationFailed {
	return &ErrConfigValidationFailed{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("config validation failed: %s - %s", field, reason), nil),
		Field:     field,
		Reason:    reason,
	}
}

// ErrConfigMissingRequired is returned when a required config value is missing
type ErrConfigMissingRequired struct {
	*BaseError
	Field string
}

func NewConfigMissingRequired(field string) *ErrConfigMissingRequired {
	return &ErrConfigMissingRequired{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("missing required config: %s", field), nil),
		Field:     field,
	}
}

// Helper functions

type categorized interface {
	Category() ErrorType
}

// IsErrorType checks whether any error in err's chain belongs to errType
func IsErrorType(err error, errType ErrorType) bool {
	var c categorized
	if stderrors.As(err, &c) {
		return c.Category() == errType
	}
	return false
}

// IsNotFound reports whether err signals a missing GitHub resource
func IsNotFound(err error) bool {
	var nf *ErrGitHubNotFound
	return stderrors.As(err, &nf)
}
