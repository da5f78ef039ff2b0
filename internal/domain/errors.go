package domain

// errors.go defines domain-specific error types.
type domainErr struct {
	message string
}

// Error returns the error message.
func (e domainErr) Error() string {
	return e.message
}

// NotFoundErr represents an error when a requested entity is not found.
type NotFoundErr struct {
	domainErr
}

// NewNotFoundErr creates a new NotFoundErr with the given message.
func NewNotFoundErr(message string) *NotFoundErr {
	return &NotFoundErr{
		domainErr: domainErr{message: message},
	}
}

// ValidationErr represents an error when validation fails.
type ValidationErr struct {
	domainErr
}

// NewValidationErr creates a new ValidationErr with the given message.
func NewValidationErr(message string) *ValidationErr {
	return &ValidationErr{
		domainErr: domainErr{message: message},
	}
}

// GatewayErr represents a model endpoint failure. It aborts the current
// turn; there is no local recovery without a model response.
type GatewayErr struct {
	domainErr
	cause error
}

// NewGatewayErr creates a new GatewayErr wrapping the transport failure.
func NewGatewayErr(message string, cause error) *GatewayErr {
	return &GatewayErr{
		domainErr: domainErr{message: message},
		cause:     cause,
	}
}

// Unwrap exposes the underlying transport error.
func (e *GatewayErr) Unwrap() error {
	return e.cause
}

// LoopLimitErr is returned when a turn exceeds the configured maximum number
// of tool-call rounds.
type LoopLimitErr struct {
	domainErr
}

// NewLoopLimitErr creates a new LoopLimitErr with the given message.
func NewLoopLimitErr(message string) *LoopLimitErr {
	return &LoopLimitErr{
		domainErr: domainErr{message: message},
	}
}
