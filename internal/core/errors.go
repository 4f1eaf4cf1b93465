package core

import "errors"

var (
	// ErrEmptyResponse is returned when the provider answers with no content
	ErrEmptyResponse = errors.New("empty response from LLM")
	// ErrContractViolation is returned when a structured response does not
	// match the assessment schema the provider was asked to satisfy
	ErrContractViolation = errors.New("response violates assessment schema")
)
