package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/hkva/ghidra-directx-data/internal/profile"
	"github.com/hkva/ghidra-directx-data/internal/target"
)

type targetStatus struct {
	Arch     string `json:"arch"`
	Compiler string `json:"compiler"`
	Found    bool   `json:"found"`
	Path     string `json:"path,omitempty"`
	Version  string `json:"version,omitempty"`
}

var (
	targetsFormat  string
	targetsProfile string
)

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "Show the known cross-compiler targets and their availability",
	Args:  cobra.NoArgs,
	RunE:  targetsExecution,
}

func init() {
	targetsCmd.Flags().StringVar(&targetsFormat, "format", "pretty", "output format (pretty|json)")
	targetsCmd.Flags().StringVar(&targetsProfile, "profile", "", "extra TOML profile merged over the builtin one")
}

func targetsExecution(cmd *cobra.Command, args []string) error {
	format := strings.ToLower(targetsFormat)
	switch format {
	case "pretty", "json":
		// supported
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", targetsFormat)
	}

	prof, err := profile.Load(targetsProfile)
	if err != nil {
		return err
	}

	statuses, err := probeTargets(cmd.Context(), prof)
	if err != nil {
		return err
	}

	if format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(statuses)
	}

	out := cmd.OutOrStdout()
	okMark := color.New(color.FgGreen).Sprint("ok")
	missingMark := color.New(color.FgRed).Sprint("missing")
	anyMissing := false
	for _, st := range statuses {
		mark := okMark
		detail := st.Version
		if detail == "" {
			detail = st.Path
		}
		if !st.Found {
			mark = missingMark
			detail = ""
			anyMissing = true
		}
		if _, err := fmt.Fprintf(out, "%-3s %-24s %-8s %s\n", st.Arch, st.Compiler, mark, detail); err != nil {
			return err
		}
	}
	if anyMissing {
		if _, err := fmt.Fprintln(out, "install the MinGW-w64 cross toolchain (e.g. apt-get install gcc-mingw-w64)"); err != nil {
			return err
		}
	}
	return nil
}

// probeTargets resolves every known cross compiler and, when present, asks
// each for its version banner. The probes run concurrently; a missing binary
// is a result, not an error.
func probeTargets(ctx context.Context, prof *profile.Profile) ([]targetStatus, error) {
	archs := target.Known()
	statuses := make([]targetStatus, len(archs))
	g, ctx := errgroup.WithContext(ctx)
	for i, arch := range archs {
		i, arch := i, arch
		g.Go(func() error {
			bin := prof.BinaryFor(arch)
			st := targetStatus{Arch: string(arch), Compiler: bin}
			if path, err := exec.LookPath(bin); err == nil {
				st.Found = true
				st.Path = path
				st.Version = compilerVersion(ctx, bin)
			}
			statuses[i] = st
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return statuses, nil
}

func compilerVersion(ctx context.Context, bin string) string {
	out, err := exec.CommandContext(ctx, bin, "--version").Output()
	if err != nil {
		return ""
	}
	line, _, _ := strings.Cut(string(out), "\n")
	return strings.TrimSpace(line)
}
