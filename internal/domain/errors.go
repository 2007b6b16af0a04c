package domain

import (
	"errors"
	"fmt"
)

// ErrorCode classifies failures reported by the audit operations.
type ErrorCode string

const (
	CodeServicePathNotFound ErrorCode = "SERVICE_PATH_NOT_FOUND"
	CodeTemplateLoadFailed  ErrorCode = "TEMPLATE_LOAD_FAILED"
	CodeInspectionError     ErrorCode = "INSPECTION_ERROR"
	CodeInvalidArgument     ErrorCode = "INVALID_ARGUMENT"
)

// Sentinel errors matching each code, for use with errors.Is.
var (
	ErrServicePathNotFound = errors.New("service path not found")
	ErrTemplateLoad        = errors.New("template load failed")
	ErrInspection          = errors.New("inspection failed")
	ErrInvalidArgument     = errors.New("invalid argument")
)

// AuditError is a coded failure tied to one target.
type AuditError struct {
	Code    ErrorCode `json:"code"`
	Service string    `json:"service,omitempty"`
	Message string    `json:"message"`

	cause error
}

// NewAuditError wraps cause with a code and the target it concerns.
func NewAuditError(code ErrorCode, service string, cause error) *AuditError {
	msg := string(code)
	if cause != nil {
		msg = cause.Error()
	}
	return &AuditError{Code: code, Service: service, Message: msg, cause: cause}
}

func (e *AuditError) Error() string {
	if e.Service != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Service, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AuditError) Unwrap() error { return e.cause }

// Is lets errors.Is match an AuditError against its code's sentinel.
func (e *AuditError) Is(target error) bool {
	return target == sentinelFor(e.Code)
}

func sentinelFor(code ErrorCode) error {
	switch code {
	case CodeServicePathNotFound:
		return ErrServicePathNotFound
	case CodeTemplateLoadFailed:
		return ErrTemplateLoad
	case CodeInvalidArgument:
		return ErrInvalidArgument
	default:
		return ErrInspection
	}
}

// CodeOf extracts the error code carried by err, defaulting to INSPECTION_ERROR.
func CodeOf(err error) ErrorCode {
	var ae *AuditError
	if errors.As(err, &ae) {
		return ae.Code
	}
	switch {
	case errors.Is(err, ErrServicePathNotFound):
		return CodeServicePathNotFound
	case errors.Is(err, ErrTemplateLoad):
		return CodeTemplateLoadFailed
	case errors.Is(err, ErrInvalidArgument):
		return CodeInvalidArgument
	default:
		return CodeInspectionError
	}
}
