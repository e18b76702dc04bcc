package cli

import (
	"fmt"
	"io"

	tberrors "github.com/randalmurphal/taskbook/internal/errors"
)

// PrintError prints an error to w with appropriate formatting.
// A TaskbookError uses the user-friendly format; in verbose mode the
// code and cause follow.
func PrintError(w io.Writer, err error, verbose bool) {
	if tbErr := tberrors.AsTaskbookError(err); tbErr != nil {
		fmt.Fprintln(w, tbErr.UserMessage())
		if verbose {
			fmt.Fprintf(w, "\nCode: %s\n", tbErr.Code)
			if tbErr.Cause != nil {
				fmt.Fprintf(w, "Cause: %v\n", tbErr.Cause)
			}
		}
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}
