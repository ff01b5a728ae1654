// Package main implements the winapigen CLI.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/hkva/ghidra-directx-data/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "winapigen <header> <32|64>",
	Short: "Generate Ghidra data type archive inputs for Windows API headers",
	Long: `winapigen flattens a Windows API header with the MinGW-w64 cross
preprocessor, patches the constructs Ghidra's C parser rejects, and emits
the matching parser-options file for the "Parse C Source" dialog.`,
	Args: cobra.ExactArgs(2),
	RunE: generateExecution,
}

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(flattenCmd)
	rootCmd.AddCommand(optionsCmd)
	rootCmd.AddCommand(targetsCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal reports whether the file is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
