package model

import "fmt"

// ValidationError reports a row whose identity fields are missing or invalid.
// The row is skipped; the batch continues.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s %s", e.Field, e.Reason)
}

// AIServiceError reports a failed or non-conforming call to the reasoning
// service. It is absorbed into a degraded AIAdjustment and never reaches the
// caller of a batch.
type AIServiceError struct {
	Op  string
	Err error
}

func (e *AIServiceError) Error() string {
	return fmt.Sprintf("ai service: %s: %v", e.Op, e.Err)
}

func (e *AIServiceError) Unwrap() error {
	return e.Err
}

// IngestionError reports an unreadable upload or one with no usable schema.
// It aborts the batch.
type IngestionError struct {
	Source string
	Err    error
}

func (e *IngestionError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("ingestion: %v", e.Err)
	}
	return fmt.Sprintf("ingestion: %s: %v", e.Source, e.Err)
}

func (e *IngestionError) Unwrap() error {
	return e.Err
}

// ExportError reports an unsupported export target or a serialization
// failure. It fails only the export call.
type ExportError struct {
	Target string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export %s: %v", e.Target, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
