package core

import (
	"context"
	"time"
)

// LLMClient defines the interface for interacting with LLM services
type LLMClient interface {
	// Assess sends a schema-constrained completion request and returns the
	// parsed assessment. The turns must already include any system messages.
	Assess(ctx context.Context, turns []Turn) (*Assessment, error)

	// Converse sends an unconstrained completion request and returns the
	// reply text.
	Converse(ctx context.Context, turns []Turn) (string, error)
}

// AssessmentStore persists assessment records
type AssessmentStore interface {
	// Save writes one record. An empty filename lets the store derive one
	// from the record's timestamp.
	Save(record *Record, filename string) error
}

// PrescreenCache caches pre-screen verdicts by input
type PrescreenCache interface {
	Get(ctx context.Context, key string) (bool, bool)
	Set(ctx context.Context, key string, scamRelated bool, ttl time.Duration)
}
