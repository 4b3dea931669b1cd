package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"vidna/internal/deps"
	"vidna/internal/glyph"
	"vidna/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check ffmpeg binaries and output directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := glyph.ShouldColorize(out)

			var lines []string
			lines = append(lines, renderSectionHeader("Dependencies", colorize)...)
			statuses := preflight.CheckSystemDeps(cmd.Context(), cfg)
			for _, status := range statuses {
				lines = append(lines, renderStatusLine(status.Name, dependencyKind(status), dependencyMessage(status), colorize))
			}
			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Directories", colorize)...)
			dirs := []preflight.Result{
				preflight.CheckDirectoryAccess("Encodings", cfg.Paths.EncodingsDir),
				preflight.CheckDirectoryAccess("Decoded", cfg.Paths.DecodedDir),
				preflight.CheckDirectoryAccess("Data", cfg.Paths.DataDir),
			}
			for _, r := range dirs {
				kind := statusOK
				if !r.Passed {
					kind = statusError
				}
				lines = append(lines, renderStatusLine(r.Name, kind, r.Detail, colorize))
			}
			fmt.Fprintln(out, strings.Join(lines, "\n"))

			problems := len(deps.Missing(statuses)) + len(preflight.Failed(dirs))
			if problems > 0 {
				return fmt.Errorf("doctor found %d problem(s)", problems)
			}
			return nil
		},
	}
}

func dependencyKind(status deps.Status) statusKind {
	switch {
	case status.Available:
		return statusOK
	case status.Optional:
		return statusWarn
	default:
		return statusError
	}
}

func dependencyMessage(status deps.Status) string {
	if status.Available {
		return status.Path
	}
	if status.Description != "" {
		return fmt.Sprintf("%s (%s)", status.Detail, status.Description)
	}
	return status.Detail
}
