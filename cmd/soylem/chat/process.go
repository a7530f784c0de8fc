// Package chat provides the interactive TUI chat interface for soylem.
// This file turns user utterances into pipeline runs.
package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const processTimeout = 30 * time.Second

// processInput runs the pipeline off the update loop and reports back
// with a replyMsg.
func (m Model) processInput(input string) tea.Cmd {
	pipe := m.pipe
	history := m.turns()

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
		defer cancel()

		result := pipe.Process(ctx, input, history, nil)
		return replyMsg{result: result}
	}
}
