package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/learnify/internal/stageerr"
)

// Reply failures come in three flavours that stages report differently:
// nothing usable came back, the text was not JSON, or the JSON had the
// wrong shape.

// ErrEmptyResponse means the provider answered without any text.
type ErrEmptyResponse struct {
	Provider string
}

func (e *ErrEmptyResponse) Error() string {
	if e.Provider == "" {
		return "empty reply from model"
	}
	return fmt.Sprintf("empty reply from %s", e.Provider)
}

// ErrMalformedJSON means a reply that should be JSON does not parse.
type ErrMalformedJSON struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrMalformedJSON) Error() string {
	return fmt.Sprintf("reply is not JSON: %v", e.Err)
}

func (e *ErrMalformedJSON) Unwrap() error { return e.Err }

// ErrInvalidResponse means the reply parsed but does not satisfy the named
// schema.
type ErrInvalidResponse struct {
	Schema  string
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	if e.Schema == "" {
		return fmt.Sprintf("reply does not match schema: %v", e.Err)
	}
	return fmt.Sprintf("reply does not match %s: %v", e.Schema, e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded means the reply was cut off at the token limit. The
// partial text is kept for the request log.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return fmt.Sprintf("reply truncated at the token limit after %d bytes", len(e.Content))
}

// ErrRateLimit is a 429 from the provider.
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited, retry after %s: %v", e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("rate limited: %v", e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrProviderUnavailable covers outages, network failures and a provider
// that was never configured.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
	}
	return "LLM provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// StageKind maps a model call failure onto the kind a stage reports.
// A truncated reply cannot be parsed, so it counts as a parse failure.
func StageKind(err error) stageerr.Kind {
	var (
		empty     *ErrEmptyResponse
		malformed *ErrMalformedJSON
		invalid   *ErrInvalidResponse
		truncated *ErrMaxTokensExceeded
	)
	switch {
	case errors.As(err, &empty):
		return stageerr.KindEmpty
	case errors.As(err, &malformed), errors.As(err, &truncated):
		return stageerr.KindParse
	case errors.As(err, &invalid):
		return stageerr.KindSchema
	default:
		return stageerr.KindTransport
	}
}

// replyFault reports whether err concerns the content of a reply rather
// than the call itself.
func replyFault(err error) bool {
	switch StageKind(err) {
	case stageerr.KindEmpty, stageerr.KindSchema:
		return true
	case stageerr.KindParse:
		var truncated *ErrMaxTokensExceeded
		return !errors.As(err, &truncated)
	}
	return false
}

// cancelled reports whether err came from the caller's context.
func cancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
