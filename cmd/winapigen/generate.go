package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/hkva/ghidra-directx-data/internal/pipeline"
	"github.com/hkva/ghidra-directx-data/internal/profile"
	"github.com/hkva/ghidra-directx-data/internal/target"
)

func generateExecution(cmd *cobra.Command, args []string) error {
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
	uiValue, err := cmd.Flags().GetString("ui")
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

	uiModeValue, err := readUIMode(uiValue)
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

	if !quiet {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Generating profile %s (%s-bit)\n", desc.Name, desc.Arch); err != nil {
			return err
		}
	}

	req := pipeline.Request{
		Target:        desc,
		Profile:       prof,
		OutDir:        outDir,
		PrintCommands: printCommands,
	}

	files := []string{desc.HeaderFile(), desc.OptionsFile()}
	useTUI := shouldUseTUI(uiModeValue) && !quiet

	var res pipeline.Result
	if useTUI {
		res, err = runGenerateWithUI(cmd.Context(), "winapigen "+desc.Name, files, &req)
	} else {
		req.Progress = plainSink{out: cmd.OutOrStdout(), quiet: quiet}
		res, err = pipeline.Generate(cmd.Context(), &req)
	}
	if showTimings {
		if printErr := printStageTimings(os.Stdout, res.Timings); printErr != nil {
			return printErr
		}
	}
	if err != nil {
		return err
	}

	if !quiet {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\nwrote %s (%d options)\n", res.HeaderPath, res.OptionsPath, res.OptionCount); err != nil {
			return err
		}
	}
	return nil
}

// plainSink prints the classic stage announcements when the TUI is off.
type plainSink struct {
	out   io.Writer
	quiet bool
}

func (s plainSink) OnEvent(evt pipeline.Event) {
	if s.quiet || s.out == nil || evt.File != "" || evt.Status != pipeline.StatusWorking {
		return
	}
	switch evt.Stage {
	case pipeline.StageFlatten:
		fmt.Fprintln(s.out, "Processing sources...")
	case pipeline.StageOptions:
		fmt.Fprintln(s.out, "Generating parser options...")
	}
}

func init() {
	rootCmd.Flags().String("out-dir", ".", "directory receiving the generated files")
	rootCmd.Flags().String("profile", "", "extra TOML profile merged over the builtin one")
	rootCmd.Flags().Bool("print-commands", false, "print compiler invocations")
	rootCmd.Flags().String("ui", "auto", "user interface (auto|on|off)")
}
