package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/matst80/escape-finder/pkg/common"
	"github.com/matst80/escape-finder/pkg/format"
	"github.com/matst80/escape-finder/pkg/index"
	"github.com/matst80/escape-finder/pkg/sorting"
	"github.com/matst80/escape-finder/pkg/types"
	"github.com/spf13/cobra"
)

const defaultSearchDelay = 200 * time.Millisecond

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

func printResults(w io.Writer, idx *index.RoomIndex, sr types.SearchRequest) {
	rooms := sorting.Sort(idx.Filter(&sr.Criteria), sr.SortKey)
	var b strings.Builder
	b.WriteString(format.ResultSummary(len(rooms), idx.Len()))
	b.WriteByte('\n')
	for i := range rooms {
		room := &rooms[i]
		b.WriteString("  " + format.Title(room))
		if label := format.StatusLabel(room); label != "" {
			b.WriteString("  " + label)
		}
		if date := format.FormatDate(room.Date); date != "" {
			b.WriteString("  " + date)
		}
		b.WriteByte('\n')
	}
	io.WriteString(w, b.String())
}

// newSearchCmd reads one query per input line. Results are printed once
// input pauses for the delay, and for the last line when input ends.
func newSearchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search interactively, one query per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := a.request()
			if err != nil {
				return err
			}
			idx, err := a.load(cmd.Context())
			if err != nil {
				return err
			}
			out := &lockedWriter{w: cmd.OutOrStdout()}
			d := common.NewDebouncer(a.debounce)
			defer d.Flush()

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				sr := *base
				sr.Criteria.Query = strings.TrimSpace(scanner.Text())
				d.Trigger(func() {
					printResults(out, idx, sr)
				})
			}
			if err := scanner.Err(); err != nil {
				d.Stop()
				return fmt.Errorf("read queries: %w", err)
			}
			return nil
		},
	}
	addFilterFlags(cmd, &a.filters)
	cmd.Flags().DurationVar(&a.debounce, "delay", defaultSearchDelay, "pause before a query runs")
	return cmd
}
