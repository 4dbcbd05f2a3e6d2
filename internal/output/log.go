package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/twiced-technology-gmbh/weekgrid/internal/board"
)

const logTimeLayout = "2006-01-02 15:04:05"

// LogTable renders activity log entries, oldest first.
func LogTable(w io.Writer, entries []board.LogEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "No activity recorded.")
		return
	}

	const timeW, actionW, idW = 20, 8, 10
	header := fmt.Sprintf("%-*s %-*s %-*s %s", timeW, "TIME", actionW, "ACTION", idW, "TASK", "DETAIL")
	fmt.Fprintln(w, headerStyle.Render(header))
	for _, e := range entries {
		id := ShortID(e.TaskID)
		if id == "" {
			id = "--"
		}
		fmt.Fprintf(w, "%-*s %-*s %s %s\n",
			timeW, e.Timestamp.Local().Format(logTimeLayout),
			actionW, e.Action,
			padRight(dimStyle.Render(id), idW),
			e.Detail)
	}
}

// LogCompact renders one entry per line.
func LogCompact(w io.Writer, entries []board.LogEntry) {
	for _, e := range entries {
		id := ShortID(e.TaskID)
		if id == "" {
			id = "--"
		}
		fmt.Fprintf(w, "%s %s %s %s\n", e.Timestamp.UTC().Format(time.RFC3339), e.Action, id, e.Detail)
	}
}
