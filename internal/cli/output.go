package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/randalmurphal/taskbook/internal/config"
	"github.com/randalmurphal/taskbook/internal/task"
)

const emptyHint = `No tasks yet. Create one with: taskbook -n "Your task"`

const (
	defaultContentWidth = 60
	minContentWidth     = 10
)

var (
	doneStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	deadStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Strikethrough(true)
)

// listOptions controls how printTasks renders the book.
type listOptions struct {
	format       string
	color        bool
	contentWidth int
}

// listOptionsFor derives list options from the output format and, for
// table output, from the terminal behind out.
func listOptionsFor(out io.Writer, format string) listOptions {
	opts := listOptions{format: format, contentWidth: defaultContentWidth}
	f, ok := out.(*os.File)
	if !ok || !isatty.IsTerminal(f.Fd()) {
		return opts
	}
	opts.color = true
	if width, _, err := term.GetSize(int(f.Fd())); err == nil {
		// id and state columns plus padding take roughly 16 cells.
		opts.contentWidth = max(width-16, minContentWidth)
	}
	return opts
}

// printTasks writes tasks in the requested format. Tasks are expected in
// id order.
// JSON output holds only task records; an empty book prints nothing.
func printTasks(w io.Writer, tasks []task.Task, opts listOptions) error {
	if opts.format == config.FormatJSON {
		return printTasksJSON(w, tasks)
	}
	if len(tasks) == 0 {
		fmt.Fprintln(w, emptyHint)
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATE\tCONTENT")
	fmt.Fprintln(tw, "──\t─────\t───────")
	for _, t := range tasks {
		content := truncate(t.Content, opts.contentWidth)
		if opts.color {
			content = styleFor(t.State).Render(content)
		}
		fmt.Fprintf(tw, "%d\t%s %s\t%s\n", t.ID, stateIcon(t.State), t.State, content)
	}
	return tw.Flush()
}

func styleFor(state task.State) lipgloss.Style {
	switch state {
	case task.StateDone:
		return doneStyle
	case task.StateDead:
		return deadStyle
	default:
		return lipgloss.NewStyle()
	}
}

// printTasksJSON writes each task as its own indented JSON object.
func printTasksJSON(w io.Writer, tasks []task.Task) error {
	for _, t := range tasks {
		data, err := json.MarshalIndent(t, "", "  ")
		if err != nil {
			return fmt.Errorf("encode task %d: %w", t.ID, err)
		}
		if _, err := fmt.Fprintln(w, string(data)); err != nil {
			return err
		}
	}
	return nil
}
