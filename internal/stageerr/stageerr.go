// Package stageerr defines the closed set of failure kinds a pipeline stage
// can report.
package stageerr

import (
	"errors"
	"fmt"
)

// Kind classifies a stage failure.
type Kind int

const (
	// KindTransport covers any failure of the external model call.
	KindTransport Kind = iota
	// KindParse means the reply was not valid JSON after fence stripping.
	KindParse
	// KindSchema means the reply parsed but did not have the expected shape.
	KindSchema
	// KindEmpty means the reply had no usable content.
	KindEmpty
	// KindPersistence means an artifact could not be written.
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport_failure"
	case KindParse:
		return "parse_failure"
	case KindSchema:
		return "schema_mismatch"
	case KindEmpty:
		return "empty_response"
	case KindPersistence:
		return "persistence_failure"
	default:
		return "unknown"
	}
}

// Stage names used in errors and logs.
const (
	StageExpand    = "expand"
	StageAnswers   = "answers"
	StageScore     = "score"
	StageEvaluate  = "evaluate"
	StageRecommend = "recommend"
	StagePersist   = "persist"
)

// Error is returned by every stage. It wraps the underlying cause.
type Error struct {
	Stage string
	Kind  Kind
	Err   error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Stage, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Stage, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a stage error.
func New(stage string, kind Kind, err error) *Error {
	return &Error{Stage: stage, Kind: kind, Err: err}
}

// Errorf builds a stage error with a formatted cause.
func Errorf(stage string, kind Kind, format string, args ...any) *Error {
	return &Error{Stage: stage, Kind: kind, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the kind of the first stage error in err's chain.
// Errors that are not stage errors count as transport failures.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindTransport
}

// Is reports whether err carries a stage error of the given kind.
func Is(err error, kind Kind) bool {
	var se *Error
	return errors.As(err, &se) && se.Kind == kind
}

// UserMessage returns a short message suitable for the learner. Transport
// failures are reported generically; the cause goes to the log. Errors that
// are not stage errors come from input checks and are shown as is.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var se *Error
	if !errors.As(err, &se) {
		return err.Error()
	}
	switch se.Kind {
	case KindParse:
		return "The model's reply could not be read as JSON. Please retry this step."
	case KindSchema:
		return "The model's reply did not have the expected structure. Please retry this step."
	case KindEmpty:
		return "The model returned an empty reply. Please retry this step."
	case KindPersistence:
		return fmt.Sprintf("Could not save results: %v", se.Err)
	default:
		return "The language model could not be reached. Please try again."
	}
}
