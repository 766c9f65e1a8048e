package shared

// DomainError is a business-rule violation with a stable machine-readable
// code. The HTTP layer maps codes to status codes; messages are for
// humans and may change.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Errors shared across aggregates. Module-specific codes (INVALID_AMOUNT,
// NO_OUTSTANDING_DEBT, ...) are constructed where they occur.
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
)
