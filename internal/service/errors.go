package service

import "fmt"

// ValidationError means the caller broke a business rule. Nothing was
// persisted; the caller can correct the input and resubmit.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// ServiceError means a call to the external rules engine failed or returned
// something unreadable. The enclosing operation was aborted without touching
// stored state, so the caller may retry the whole operation.
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NotFoundError means a referenced agreement, request or uplift order does not
// exist in the store.
type NotFoundError struct {
	Kind string
	ID   uint64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}
