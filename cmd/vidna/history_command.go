package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"vidna/internal/catalog"
)

// staleRunAge is how long a run may stay running before history marks it
// abandoned.
const staleRunAge = 24 * time.Hour

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent encode, decode and draw runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := catalog.Open(cfg.CatalogPath())
			if err != nil {
				return fmt.Errorf("open catalog: %w", err)
			}
			defer store.Close()

			if _, err := store.AbandonStale(cmd.Context(), time.Now().Add(-staleRunAge)); err != nil {
				return err
			}
			runs, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Kind", "Status", "Started", "Input", "Level", "Mutation", "Frames", "Duration"},
				historyRows(runs),
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show (0 for all)")
	return cmd
}

func historyRows(runs []*catalog.Run) [][]string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		id := run.ID
		if len(id) > 8 {
			id = id[:8]
		}
		duration := "-"
		if run.FinishedAt != nil {
			duration = run.Duration().Round(time.Millisecond).String()
		}
		rows = append(rows, []string{
			id,
			titleLabel(string(run.Kind)),
			titleLabel(string(run.Status)),
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.Input,
			titleLabel(run.Posterization),
			titleLabel(run.Mutation),
			strconv.Itoa(run.Frames),
			duration,
		})
	}
	return rows
}
