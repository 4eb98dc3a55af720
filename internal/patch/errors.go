package patch

import "fmt"

// ErrorKind classifies engine errors for the caller
type ErrorKind int

const (
	// ErrorRequest - the input was malformed (missing fields, bad hints).
	// The caller can fix the request and resubmit.
	ErrorRequest ErrorKind = iota

	// ErrorContract - an internal precondition was violated (mismatched
	// match/edit counts, span beyond document bounds). Indicates a
	// programming error in the caller, not a recoverable condition.
	ErrorContract
)

// PatchError is an error type that classifies errors as request or contract
// violations and optionally carries structured details for host rendering.
type PatchError struct {
	Kind    ErrorKind
	Message string
	Details map[string]any
}

// Error implements the error interface
func (e *PatchError) Error() string {
	return e.Message
}

// ToJSON returns a structured representation for hosts that render errors
// as machine-readable output.
func (e *PatchError) ToJSON() map[string]any {
	result := map[string]any{
		"success": false,
		"error":   e.Message,
	}
	for k, v := range e.Details {
		result[k] = v
	}
	return result
}

// RequestError creates a request error (caller can fix and resubmit)
func RequestError(msg string) *PatchError {
	return &PatchError{Kind: ErrorRequest, Message: msg}
}

// RequestErrorf creates a formatted request error
func RequestErrorf(format string, args ...any) *PatchError {
	return &PatchError{Kind: ErrorRequest, Message: fmt.Sprintf(format, args...)}
}

// RequestErrorWithDetails creates a request error with structured details
func RequestErrorWithDetails(msg string, details map[string]any) *PatchError {
	return &PatchError{Kind: ErrorRequest, Message: msg, Details: details}
}

// ContractError creates a contract error (programming error in the caller)
func ContractError(msg string) *PatchError {
	return &PatchError{Kind: ErrorContract, Message: msg}
}

// ContractErrorf creates a formatted contract error
func ContractErrorf(format string, args ...any) *PatchError {
	return &PatchError{Kind: ErrorContract, Message: fmt.Sprintf(format, args...)}
}

// IsRequestError reports whether err is a PatchError caused by malformed input
func IsRequestError(err error) bool {
	if pe, ok := err.(*PatchError); ok {
		return pe.Kind == ErrorRequest
	}
	return false
}

// IsContractError reports whether err is a PatchError caused by an internal
// precondition violation
func IsContractError(err error) bool {
	if pe, ok := err.(*PatchError); ok {
		return pe.Kind == ErrorContract
	}
	return false
}
