// Package apperr defines the error taxonomy shared by every operation.
// Services return these; the HTTP layer maps them onto the response
// envelope and status codes without inspecting error strings.
package apperr

import "fmt"

// ValidationError carries per-field messages from schema validation.
// It never wraps store errors.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

// UnauthorizedError means no session exists where one is required.
type UnauthorizedError struct{}

func (e *UnauthorizedError) Error() string { return "unauthorized" }

// ForbiddenError means the caller is authenticated but not permitted.
type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string {
	if e.Reason == "" {
		return "forbidden"
	}
	return e.Reason
}

// NotFoundError means a referenced target/question/answer is absent.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

// ConflictError is reserved for compare-and-swap failures. Not returned
// by any operation today.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	if e.Reason == "" {
		return "conflict"
	}
	return e.Reason
}

// TransactionError wraps a store-level failure inside a transaction.
type TransactionError struct {
	Op  string
	Err error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("transaction failed during %s: %v", e.Op, e.Err)
}

func (e *TransactionError) Unwrap() error { return e.Err }
