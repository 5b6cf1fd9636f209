package screen

import (
	"context"

	tea "charm.land/bubbletea/v2"
)

// StageDoneMsg reports the end of a background pipeline call.
type StageDoneMsg struct {
	Stage string
	Err   error
}

// RunStage runs fn off the UI loop and reports the result as a
// StageDoneMsg. The screen that starts it must ignore input until the
// message arrives, since fn mutates the pipeline.
func RunStage(stage string, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return StageDoneMsg{Stage: stage, Err: fn(context.Background())}
	}
}
