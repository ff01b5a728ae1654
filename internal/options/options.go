// Package options assembles the parser-options file that accompanies a
// flattened header. The static part comes from the profile's define groups;
// the dynamic part is discovered from the cross toolchain itself at run
// time, so the options always describe the exact compiler that flattened
// the header: its include search path and its builtin macro set.
package options

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/renameio/v2"

	"github.com/hkva/ghidra-directx-data/internal/profile"
	"github.com/hkva/ghidra-directx-data/internal/target"
	"github.com/hkva/ghidra-directx-data/internal/toolchain"
)

// dummySource is a do-nothing translation unit. The discovery invocations
// only read the compiler's self-reporting, never the preprocessed input.
const dummySource = " /* :) */ "

// Marker lines framing the include search path in the compiler's verbose
// stderr output. Both must match a full line exactly.
const (
	searchStart = "#include <...> search starts here:"
	searchEnd   = "End of search list."
)

var defineLine = regexp.MustCompile(`#define ([^ ]*) (.*)`)

// IncludePaths asks the compiler for its builtin include search path: a
// verbose preprocessor run prints the directories on stderr, one per line,
// strictly between the two marker lines. Leading indentation is trimmed.
// A dump without both markers is an error.
func IncludePaths(ctx context.Context, inv toolchain.Invoker) ([]string, error) {
	res, err := inv.Invoke(ctx, toolchain.Request{
		Flags: []string{"-xc", "-E", "-v"},
		Stdin: dummySource,
	})
	if err != nil {
		return nil, err
	}
	lines := strings.Split(res.Stderr, "\n")
	start := -1
	for i, line := range lines {
		if line == searchStart {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return nil, fmt.Errorf("compiler output is missing the %q marker", searchStart)
	}
	var paths []string
	for _, line := range lines[start:] {
		if line == searchEnd {
			return paths, nil
		}
		paths = append(paths, strings.TrimSpace(line))
	}
	return nil, fmt.Errorf("compiler output is missing the %q marker", searchEnd)
}

// Macros asks the compiler to dump its builtin macro set and re-emits each
// definition as a -D flag with the body in double quotes, the form Ghidra's
// parser-options dialog expects. Blank lines are skipped; anything else that
// is not a #define is an error.
func Macros(ctx context.Context, inv toolchain.Invoker) ([]string, error) {
	res, err := inv.Invoke(ctx, toolchain.Request{
		Flags: []string{"-dM", "-E"},
		Stdin: dummySource,
	})
	if err != nil {
		return nil, err
	}
	var defs []string
	for _, line := range strings.Split(res.Stdout, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		m := defineLine.FindStringSubmatch(line)
		if m == nil {
			return nil, fmt.Errorf("unexpected line in macro dump: %q", line)
		}
		defs = append(defs, fmt.Sprintf(`-D%s="%s"`, m[1], m[2]))
	}
	return defs, nil
}

// Lines assembles the complete option list for a target in emission order:
// the profile's static groups, then -I flags for every discovered include
// path, then -D flags for every discovered macro. Nothing is deduplicated
// and nothing is sorted; order is part of the file format.
func Lines(ctx context.Context, inv toolchain.Invoker, prof *profile.Profile, desc target.Descriptor) ([]string, error) {
	opts := prof.BaseOptions(desc.Arch)
	paths, err := IncludePaths(ctx, inv)
	if err != nil {
		return nil, err
	}
	for _, p := range paths {
		opts = append(opts, "-I"+p)
	}
	defs, err := Macros(ctx, inv)
	if err != nil {
		return nil, err
	}
	return append(opts, defs...), nil
}

// File generates the parser options and writes them into dir as
// <name>_<arch>_parser_options.txt, one flag per line, returning the path
// and the number of flags written. Like the header writer, the content goes
// through a temp file and a rename so a failed discovery leaves no partial
// file.
func File(ctx context.Context, inv toolchain.Invoker, prof *profile.Profile, desc target.Descriptor, dir string) (string, int, error) {
	lines, err := Lines(ctx, inv, prof, desc)
	if err != nil {
		return "", 0, err
	}
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	path := filepath.Join(dir, desc.OptionsFile())
	if err := renameio.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		return "", 0, fmt.Errorf("write parser options: %w", err)
	}
	return path, len(lines), nil
}
