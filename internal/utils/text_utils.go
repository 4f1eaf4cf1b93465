package utils

import (
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// TextProcessor prepares user-supplied text before it goes into a prompt.
type TextProcessor struct {
	logger     *zap.Logger
	anonymizer *Anonymizer
}

// NewTextProcessor creates a new TextProcessor. anonymizer may be nil, in
// which case Prepare passes identifiers through untouched.
func NewTextProcessor(logger *zap.Logger, anonymizer *Anonymizer) *TextProcessor {
	return &TextProcessor{logger: logger, anonymizer: anonymizer}
}

// Truncate caps text at maxSize bytes without splitting a UTF-8 sequence.
// A non-positive maxSize disables the limit.
func (tp *TextProcessor) Truncate(text string, maxSize int) string {
	if maxSize <= 0 || len(text) <= maxSize {
		return text
	}

	truncated := text[:maxSize]
	for !utf8.ValidString(truncated) && len(truncated) > 0 {
		truncated = truncated[:len(truncated)-1]
	}

	tp.logger.Debug("Input truncated",
		zap.Int("original_size", len(text)),
		zap.Int("truncated_size", len(truncated)))

	return truncated + "\n[... truncated ...]"
}

// Sanitize strips invalid UTF-8 sequences so the prompt never carries
// undecodable bytes to the provider.
func (tp *TextProcessor) Sanitize(text string) string {
	if utf8.ValidString(text) {
		return text
	}
	return strings.ToValidUTF8(text, "")
}

// Prepare sanitizes, scrubs identifiers when an anonymizer is configured,
// and truncates in one pass.
func (tp *TextProcessor) Prepare(text string, maxSize int) string {
	text = tp.Sanitize(text)
	if tp.anonymizer != nil {
		text = tp.anonymizer.Scrub(text)
	}
	return tp.Truncate(text, maxSize)
}
