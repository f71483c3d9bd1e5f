package domain

import "errors"

// Error kinds surfaced by the screens. Match them with errors.Is.
var (
	ErrValidation = errors.New("validation error")
	ErrUpload     = errors.New("upload error")
	ErrSubmission = errors.New("submission error")
	ErrFetch      = errors.New("fetch error")
	ErrLogin      = errors.New("login error")
)

// ErrUnexpectedStatus marks a remote call that reached the server but got a non-2xx answer.
var ErrUnexpectedStatus = errors.New("unexpected response status")

// WorkflowError carries a kind sentinel and the underlying cause, if any.
type WorkflowError struct {
	Kind error
	Err  error
}

// NewWorkflowError wraps err under kind.
func NewWorkflowError(kind, err error) *WorkflowError {
	return &WorkflowError{Kind: kind, Err: err}
}

func (e *WorkflowError) Error() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Err.Error()
}

func (e *WorkflowError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
