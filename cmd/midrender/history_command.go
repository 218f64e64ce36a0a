package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent submissions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.ensureHistory()
			if err != nil {
				return err
			}
			if store == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Submission history is disabled.")
				return nil
			}

			records, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No submissions recorded.")
				return nil
			}

			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				rows = append(rows, []string{
					time.UnixMilli(rec.SubmittedAtMS).Local().Format("2006-01-02 15:04:05"),
					rec.JobName,
					fmt.Sprintf("%d-%d", rec.FrameStart, rec.FrameEnd),
					strconv.Itoa(rec.ChunkSize),
					strconv.Itoa(rec.Priority),
					shortBatchID(rec.BatchID),
				})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Submitted", "Job", "Frames", "Chunk", "Priority", "Batch"},
				rows,
				alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft,
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of submissions to show")

	return cmd
}

func shortBatchID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
