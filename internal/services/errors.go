package services

// ValidationError marks missing or malformed caller input; handlers
// translate it to a 400 with the message as-is.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

// Validation builds a ValidationError.
func Validation(msg string) error { return &ValidationError{msg: msg} }
