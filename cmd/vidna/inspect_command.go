package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"vidna/internal/workflow"
)

func newInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "inspect <encoding>",
		Short:       "Show the header of a base sequence file",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := workflow.Inspect(args[0])
			if err != nil {
				return err
			}
			h := info.Header
			frameSymbols := int64(h.FrameSize() * h.Level.SymbolsPerPixel())
			rows := [][]string{
				{"File", info.Path},
				{"Posterization", titleLabel(h.Level.String())},
				{"Frame rate", fmt.Sprintf("%d fps", h.FPS)},
				{"Frame size", fmt.Sprintf("%dx%d", h.Width, h.Height)},
				{"Symbols", fmt.Sprintf("%d", info.Symbols)},
				{"Raw frame symbols", fmt.Sprintf("%d", frameSymbols)},
				{"Compressed", yesNo(info.Compressed)},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows, []columnAlignment{alignLeft, alignLeft}))
			return nil
		},
	}
}
