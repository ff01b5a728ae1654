package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hkva/ghidra-directx-data/internal/options"
	"github.com/hkva/ghidra-directx-data/internal/pipeline"
	"github.com/hkva/ghidra-directx-data/internal/profile"
	"github.com/hkva/ghidra-directx-data/internal/target"
)

var optionsCmd = &cobra.Command{
	Use:   "options <header> <32|64>",
	Short: "Generate the parser-options file without flattening",
	Args:  cobra.ExactArgs(2),
	RunE:  optionsExecution,
}

func optionsExecution(cmd *cobra.Command, args []string) error {
	outDir, err := cmd.Flags().GetString("out-dir")
	if err != nil {
		return err
	}
	profilePath, err := cmd.Flags().GetString("profile")
	if err != nil {
		return err
	}
	printCommands, err := cmd.Flags().GetBool("print-commands")
	if err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return err
	}

	desc, err := target.Parse(args[0], args[1])
	if err != nil {
		return err
	}
	prof, err := profile.Load(profilePath)
	if err != nil {
		return err
	}
	gcc, err := newCompiler(prof, desc.Arch, printCommands)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	if !quiet {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), "Generating parser options..."); err != nil {
			return err
		}
	}
	start := time.Now()
	path, count, err := options.File(cmd.Context(), gcc, prof, desc, outDir)
	if err != nil {
		return err
	}
	if showTimings {
		var timings pipeline.Timings
		timings.Set(pipeline.StageOptions, time.Since(start))
		if err := printStageTimings(os.Stdout, timings); err != nil {
			return err
		}
	}
	if !quiet {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d options)\n", path, count); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	optionsCmd.Flags().String("out-dir", ".", "directory receiving the options file")
	optionsCmd.Flags().String("profile", "", "extra TOML profile merged over the builtin one")
	optionsCmd.Flags().Bool("print-commands", false, "print compiler invocations")
}
