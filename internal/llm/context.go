package llm

import (
	"context"
	"fmt"
	"strings"
)

// Purpose labels a model call with the pipeline stage it serves. The label
// is stored with every logged request and is what `llm list --purpose`
// filters on.
type Purpose string

const (
	PurposeExpand    Purpose = "expand"
	PurposeScore     Purpose = "score"
	PurposeRecommend Purpose = "recommend"
	PurposeUnknown   Purpose = "unknown"
)

// Purposes lists the stage purposes in pipeline order.
var Purposes = []Purpose{PurposeExpand, PurposeScore, PurposeRecommend}

// ParsePurpose accepts a stage purpose name, case-insensitively.
func ParsePurpose(s string) (Purpose, error) {
	for _, p := range Purposes {
		if strings.EqualFold(s, string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown purpose %q (want expand, score or recommend)", s)
}

type contextKey int

const (
	purposeKey contextKey = iota
	runIDKey
)

// WithPurpose tags ctx with the stage a model call serves.
func WithPurpose(ctx context.Context, p Purpose) context.Context {
	return context.WithValue(ctx, purposeKey, p)
}

// PurposeFrom returns the purpose on ctx, or PurposeUnknown.
func PurposeFrom(ctx context.Context) Purpose {
	if p, ok := ctx.Value(purposeKey).(Purpose); ok {
		return p
	}
	return PurposeUnknown
}

// WithRunID attaches the pipeline run ID so logged requests can be grouped
// by run.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// RunIDFrom returns the run ID attached to ctx, or "".
func RunIDFrom(ctx context.Context) string {
	v, _ := ctx.Value(runIDKey).(string)
	return v
}
