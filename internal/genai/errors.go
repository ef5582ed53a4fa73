package genai

import (
	"errors"
	"fmt"
)

var (
	// ErrUpstream covers transport and non-2xx failures talking to the
	// generation service.
	ErrUpstream = errors.New("generation service unavailable")

	// ErrGenerationBlocked means the upstream refused the prompt on
	// safety/policy grounds.
	ErrGenerationBlocked = errors.New("generation blocked by upstream safety policy")

	// ErrGenerationTruncated means the output still hit the token
	// ceiling after all continuation attempts.
	ErrGenerationTruncated = errors.New("generation truncated after maximum continuation attempts")

	// ErrMalformedResponse means no JSON array could be extracted or
	// the extracted slice did not parse.
	ErrMalformedResponse = errors.New("generation returned data in an unexpected format")

	// ErrInvalidStepSchema is the target for errors.Is on step
	// validation failures; the concrete error is a StepSchemaError.
	ErrInvalidStepSchema = errors.New("generation returned an invalid step structure")
)

// StepSchemaError reports which element of the parsed array violated
// the step schema. Index is -1 when the array itself is empty.
type StepSchemaError struct {
	Index  int
	Reason string
}

func (e *StepSchemaError) Error() string {
	if e.Index < 0 {
		return "invalid learning path: " + e.Reason
	}
	return fmt.Sprintf("invalid learning path step %d: %s", e.Index+1, e.Reason)
}

func (e *StepSchemaError) Unwrap() error { return ErrInvalidStepSchema }
