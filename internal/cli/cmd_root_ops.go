package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/taskbook/internal/book"
	tberrors "github.com/randalmurphal/taskbook/internal/errors"
	"github.com/randalmurphal/taskbook/internal/storage"
	"github.com/randalmurphal/taskbook/internal/task"
)

// opFlags holds the root command's operation flags. At most one may be set.
type opFlags struct {
	newTask string
	check   []string
	uncheck []string
	kill    []string
	del     string
}

func (o *opFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&o.newTask, "new", "n", "", "create a new task")
	f.StringSliceVarP(&o.check, "check", "c", nil, "mark tasks as done")
	f.StringSliceVarP(&o.uncheck, "uncheck", "u", nil, "mark tasks as doing")
	f.StringSliceVarP(&o.kill, "kill", "k", nil, "mark tasks as dead")
	f.StringVarP(&o.del, "delete", "d", "", "delete a task")
}

type opKind int

const (
	opList opKind = iota
	opCreate
	opSetState
	opDelete
)

// operation is the validated intent of one invocation.
type operation struct {
	kind    opKind
	content string
	ids     []task.ID
	state   task.State
}

// parseOperation turns flags and trailing args into a single operation.
// Trailing args are extra ids for --check, --uncheck and --kill, so that
// "taskbook -c 1 2 3" works.
func parseOperation(cmd *cobra.Command, o *opFlags, args []string) (operation, error) {
	var set []string
	for _, name := range []string{"new", "check", "uncheck", "kill", "delete"} {
		if cmd.Flags().Changed(name) {
			set = append(set, "--"+name)
		}
	}
	if len(set) > 1 {
		return operation{}, tberrors.ErrUsage("only one operation per run, got " + strings.Join(set, ", "))
	}

	stateFlags := map[string]struct {
		values []string
		state  task.State
	}{
		"check":   {o.check, task.StateDone},
		"uncheck": {o.uncheck, task.StateDoing},
		"kill":    {o.kill, task.StateDead},
	}

	switch {
	case cmd.Flags().Changed("new"):
		if len(args) > 0 {
			return operation{}, tberrors.ErrUsage(fmt.Sprintf("unexpected arguments %q; quote the task text", args))
		}
		return operation{kind: opCreate, content: o.newTask}, nil

	case cmd.Flags().Changed("delete"):
		if len(args) > 0 {
			return operation{}, tberrors.ErrUsage("--delete takes a single id")
		}
		id, err := task.ParseID(o.del)
		if err != nil {
			return operation{}, err
		}
		return operation{kind: opDelete, ids: []task.ID{id}}, nil
	}

	for name, sf := range stateFlags {
		if !cmd.Flags().Changed(name) {
			continue
		}
		ids, err := parseIDs(append(slices.Clone(sf.values), args...))
		if err != nil {
			return operation{}, err
		}
		return operation{kind: opSetState, ids: ids, state: sf.state}, nil
	}

	if len(args) > 0 {
		return operation{}, tberrors.ErrUsage(fmt.Sprintf("unexpected arguments %q", args))
	}
	return operation{kind: opList}, nil
}

// parseIDs parses task ids, skipping empty entries left by "1,,2".
func parseIDs(values []string) ([]task.ID, error) {
	ids := make([]task.ID, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		id, err := task.ParseID(v)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, tberrors.ErrUsage("no task ids given")
	}
	return ids, nil
}

// runRoot performs one operation: load the book, apply, save, close.
func runRoot(cmd *cobra.Command, g *globals, o *opFlags, args []string) error {
	op, err := parseOperation(cmd, o, args)
	if err != nil {
		return err
	}

	tc, err := g.resolveConfig(cmd)
	if err != nil {
		return err
	}
	cfg := tc.Config

	backend, err := storage.NewBackend(cfg.Store)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	tb := book.New(backend)
	defer func() { _ = tb.Close() }()

	if err := tb.Load(ctx); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch op.kind {
	case opCreate:
		id, err := tb.CreateTask(ctx, op.content)
		if err != nil {
			return err
		}
		if err := tb.Save(ctx); err != nil {
			return err
		}
		fmt.Fprintf(out, "Created task %d\n", id)

	case opSetState:
		applied, err := tb.SetTaskState(ctx, op.ids, op.state)
		if err != nil {
			return err
		}
		if err := tb.Save(ctx); err != nil {
			return err
		}
		if skipped := missingIDs(op.ids, applied); len(skipped) > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "Skipped unknown task ids: %s\n", joinIDs(skipped))
		}
		fmt.Fprintf(out, "Marked %d task(s) %s\n", len(applied), op.state)

	case opDelete:
		id := op.ids[0]
		deleted, err := tb.DeleteTask(ctx, id)
		if err != nil {
			return err
		}
		if !deleted {
			return tberrors.ErrTaskNotFound(uint64(id))
		}
		if err := tb.Save(ctx); err != nil {
			return err
		}
		fmt.Fprintf(out, "Deleted task %d\n", id)

	default:
		return printTasks(out, tb.List(), listOptionsFor(out, cfg.Output.Format))
	}
	return nil
}

// missingIDs returns the requested ids that were not applied.
func missingIDs(requested, applied []task.ID) []task.ID {
	var missing []task.ID
	for _, id := range requested {
		if !slices.Contains(applied, id) && !slices.Contains(missing, id) {
			missing = append(missing, id)
		}
	}
	return missing
}

func joinIDs(ids []task.ID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ", ")
}
