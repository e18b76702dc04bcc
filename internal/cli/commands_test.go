package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/taskbook/internal/config"
	"github.com/randalmurphal/taskbook/internal/task"
)

func TestTruncate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"a longer piece of text", 10, "a longe..."},
		{"héllo wörld", 8, "héllo..."},
		{"tiny", 2, "tiny"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, truncate(tt.in, tt.max), tt.in)
	}
}

func TestStateIcon(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "○", stateIcon(task.StateDoing))
	assert.Equal(t, "●", stateIcon(task.StateDone))
	assert.Equal(t, "✗", stateIcon(task.StateDead))
	assert.Equal(t, "?", stateIcon(task.State("Paused")))
}

func TestListOptionsFor_NonTerminal(t *testing.T) {
	t.Parallel()
	opts := listOptionsFor(&bytes.Buffer{}, config.FormatTable)
	assert.False(t, opts.color)
	assert.Equal(t, defaultContentWidth, opts.contentWidth)
	assert.Equal(t, config.FormatTable, opts.format)
}

func TestPrintTasks_Table(t *testing.T) {
	t.Parallel()
	tasks := []task.Task{
		{ID: 0, Content: "first", State: task.StateDoing},
		{ID: 12, Content: "a task with a rather long description", State: task.StateDone},
	}
	var buf bytes.Buffer
	require.NoError(t, printTasks(&buf, tasks, listOptions{format: config.FormatTable, contentWidth: 20}))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 4)
	assert.Contains(t, string(lines[2]), "first")
	assert.Contains(t, string(lines[3]), "a task with a rat...")
	assert.Contains(t, string(lines[3]), "● Done")
}

func TestPrintTasks_JSON(t *testing.T) {
	t.Parallel()
	tasks := []task.Task{{ID: 3, Content: "x", State: task.StateDead}}
	var buf bytes.Buffer
	require.NoError(t, printTasks(&buf, tasks, listOptions{format: config.FormatJSON}))
	assert.Equal(t, "{\n  \"id\": 3,\n  \"content\": \"x\",\n  \"state\": \"Dead\"\n}\n", buf.String())
}

func TestPrintTasks_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, printTasks(&buf, nil, listOptions{format: config.FormatTable}))
	assert.Equal(t, emptyHint+"\n", buf.String())

	buf.Reset()
	require.NoError(t, printTasks(&buf, nil, listOptions{format: config.FormatJSON}))
	assert.Empty(t, buf.String(), "json output carries records only")
}
