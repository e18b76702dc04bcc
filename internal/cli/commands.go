package cli

import (
	"github.com/randalmurphal/taskbook/internal/task"
)

// Helper functions

func stateIcon(state task.State) string {
	switch state {
	case task.StateDoing:
		return "○"
	case task.StateDone:
		return "●"
	case task.StateDead:
		return "✗"
	default:
		return "?"
	}
}

// truncate shortens s to maxLen runes, marking the cut with "...".
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if maxLen < 4 || len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
