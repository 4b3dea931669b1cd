package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"vidna/internal/glyph"
	"vidna/internal/workflow"
)

func newEncodeCommand(ctx *commandContext) *cobra.Command {
	var req workflow.EncodeRequest
	var skipPreflight bool

	cmd := &cobra.Command{
		Use:   "encode <video>",
		Short: "Encode a video into a base sequence",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, closeFn, err := ctx.openManager(cmd)
			if err != nil {
				return err
			}
			defer closeFn()
			if !skipPreflight {
				if err := manager.Preflight(cmd.Context()); err != nil {
					return err
				}
			}
			req.Input = args[0]
			res, err := manager.Encode(cmd.Context(), req)
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), "Encoded", res)
			fmt.Fprintf(cmd.OutOrStdout(), "  sha256:  %s\n", res.Checksum)
			return nil
		},
	}

	cmd.Flags().StringVarP(&req.Posterization, "posterization", "p", "", "Posterization level (high, medium, low, none)")
	cmd.Flags().StringVarP(&req.Output, "output", "o", "", "Destination file (default: encodings_dir/<video>_<level>_encoding.txt)")
	cmd.Flags().Uint64Var(&req.Seed, "seed", 0, "Random seed for high posterization (0 uses the configured seed)")
	cmd.Flags().BoolVar(&req.Compress, "compress", false, "Write a zstd-compressed encoding")
	cmd.Flags().BoolVar(&skipPreflight, "skip-preflight", false, "Skip directory and ffmpeg checks")
	return cmd
}

func newDecodeCommand(ctx *commandContext) *cobra.Command {
	var req workflow.DecodeRequest
	var skipPreflight bool

	cmd := &cobra.Command{
		Use:   "decode <encoding>",
		Short: "Rebuild a video from a base sequence",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, closeFn, err := ctx.openManager(cmd)
			if err != nil {
				return err
			}
			defer closeFn()
			if !skipPreflight {
				if err := manager.Preflight(cmd.Context()); err != nil {
					return err
				}
			}
			req.Input = args[0]
			res, err := manager.Decode(cmd.Context(), req)
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), "Decoded", res)
			if res.Stats.Mutated > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "  mutated: %d\n", res.Stats.Mutated)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&req.Mutation, "mutation", "m", "", "Mutation (none, recessive, sickle1, sickle2, sickle, rip)")
	cmd.Flags().StringVarP(&req.Output, "output", "o", "", "Destination video (default: decoded_dir/<name>_<level>_<mutation>.<container>)")
	cmd.Flags().Uint64Var(&req.Seed, "seed", 0, "Random seed for the recessive mutation (0 uses the configured seed)")
	cmd.Flags().BoolVar(&skipPreflight, "skip-preflight", false, "Skip directory and ffmpeg checks")
	return cmd
}

func newDrawCommand(ctx *commandContext) *cobra.Command {
	var req workflow.DrawRequest
	var noColor bool

	cmd := &cobra.Command{
		Use:   "draw <video|encoding>",
		Short: "Render frames as base letters in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, closeFn, err := ctx.openManager(cmd)
			if err != nil {
				return err
			}
			defer closeFn()
			out := cmd.OutOrStdout()
			req.Input = args[0]
			req.Writer = out
			req.Color = !noColor && glyph.ShouldColorize(out)
			_, err = manager.Draw(cmd.Context(), req)
			return err
		},
	}

	cmd.Flags().StringVarP(&req.Mutation, "mutation", "m", "", "Mutation applied when drawing an encoding")
	cmd.Flags().Uint64Var(&req.Seed, "seed", 0, "Random seed for the recessive mutation")
	cmd.Flags().BoolVar(&req.Animate, "animate", false, "Redraw in place at the stream frame rate")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable coloured letters")
	return cmd
}

func printResult(out io.Writer, verb string, res *workflow.Result) {
	fmt.Fprintf(out, "%s %s -> %s\n", verb, res.Input, res.Output)
	if res.RunID != "" {
		fmt.Fprintf(out, "  run:     %s\n", res.RunID)
	}
	h := res.Stats.Header
	fmt.Fprintf(out, "  level:   %s\n", titleLabel(h.Level.String()))
	fmt.Fprintf(out, "  frames:  %d (%dx%d @ %d fps)\n", res.Stats.Frames, h.Width, h.Height, h.FPS)
	fmt.Fprintf(out, "  symbols: %d\n", res.Stats.Symbols)
	fmt.Fprintf(out, "  seed:    %d\n", res.Seed)
	fmt.Fprintf(out, "  elapsed: %s\n", res.Stats.Duration.Round(time.Millisecond))
}
