// Package toolchain wraps a MinGW cross-compiler invoked as a preprocessor.
// Every invocation feeds the source text on standard input and buffers both
// output streams fully in memory. A failing invocation surfaces the
// compiler's own diagnostics; a hung compiler hangs the run.
package toolchain

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Request describes a single preprocessor invocation.
type Request struct {
	// Flags follow the compiler's base flags on the command line.
	Flags []string
	// Stdin is the source text fed to the compiler; the argument list
	// always ends with "-" so the compiler reads it.
	Stdin string
}

// Result carries both captured streams of a finished invocation. Include-path
// discovery reads Stderr (that is where -v prints the search list); everything
// else reads Stdout.
type Result struct {
	Stdout string
	Stderr string
}

// Invoker runs the cross-compiler. *GCC implements it; tests substitute
// stubs.
type Invoker interface {
	Invoke(ctx context.Context, req Request) (Result, error)
}

// GCC invokes one cross-compiler binary.
type GCC struct {
	// Binary is the compiler executable, e.g. "x86_64-w64-mingw32-gcc".
	Binary string
	// BaseFlags are prepended to every invocation.
	BaseFlags []string
	// CommandLog, when non-nil, receives one line per invocation with the
	// full command being run.
	CommandLog io.Writer
}

// NewGCC returns an invoker for the given binary and base flag list.
func NewGCC(binary string, baseFlags []string) *GCC {
	return &GCC{Binary: binary, BaseFlags: append([]string(nil), baseFlags...)}
}

// Available reports whether the compiler binary resolves on the system path.
func (g *GCC) Available() error {
	if _, err := exec.LookPath(g.Binary); err != nil {
		return fmt.Errorf("%s not found; install the MinGW-w64 cross toolchain (e.g. apt-get install gcc-mingw-w64)", g.Binary)
	}
	return nil
}

// Invoke runs the compiler once, blocking until it exits. On a non-zero exit
// the returned error carries the captured standard error text; the partial
// Result is still returned for callers that want to inspect it.
func (g *GCC) Invoke(ctx context.Context, req Request) (Result, error) {
	args := make([]string, 0, len(g.BaseFlags)+len(req.Flags)+1)
	args = append(args, g.BaseFlags...)
	args = append(args, req.Flags...)
	args = append(args, "-")

	if g.CommandLog != nil {
		fmt.Fprintf(g.CommandLog, "%s %s\n", g.Binary, strings.Join(args, " "))
	}

	cmd := exec.CommandContext(ctx, g.Binary, args...)
	cmd.Stdin = strings.NewReader(req.Stdin)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
		msg := strings.TrimSpace(res.Stderr)
		if msg == "" {
			return res, fmt.Errorf("%s: %w", g.Binary, err)
		}
		return res, fmt.Errorf("%s: %s", g.Binary, msg)
	}
	return Result{Stdout: stdout.String(), Stderr: stderr.String()}, nil
}
