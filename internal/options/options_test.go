package options

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/hkva/ghidra-directx-data/internal/profile"
	"github.com/hkva/ghidra-directx-data/internal/target"
	"github.com/hkva/ghidra-directx-data/internal/toolchain"
)

// fakeCompiler answers the two discovery invocations from canned output.
type fakeCompiler struct {
	verbose    toolchain.Result
	verboseErr error
	dump       toolchain.Result
	dumpErr    error
	stdins     []string
}

func (f *fakeCompiler) Invoke(_ context.Context, req toolchain.Request) (toolchain.Result, error) {
	f.stdins = append(f.stdins, req.Stdin)
	if len(req.Flags) > 0 && req.Flags[0] == "-xc" {
		return f.verbose, f.verboseErr
	}
	return f.dump, f.dumpErr
}

const verboseStderr = `Using built-in specs.
COLLECT_GCC=x86_64-w64-mingw32-gcc
Target: x86_64-w64-mingw32
ignoring nonexistent directory "/usr/lib/gcc/x86_64-w64-mingw32/10-win32/../include-fixed"
#include "..." search starts here:
#include <...> search starts here:
 /usr/lib/gcc/x86_64-w64-mingw32/10-win32/include
 /usr/x86_64-w64-mingw32/include
End of search list.
COMPILER_PATH=/usr/lib/gcc/x86_64-w64-mingw32/10-win32/
 /this/line/must/not/be/collected
`

const macroStdout = `#define __STDC__ 1
#define __MINGW64__ 1
#define __VERSION__ "10-win32"
#define _WIN64 1
`

func mustTarget(t *testing.T, name, arch string) target.Descriptor {
	t.Helper()
	desc, err := target.Parse(name, arch)
	if err != nil {
		t.Fatalf("Parse(%q, %q): %v", name, arch, err)
	}
	return desc
}

func TestIncludePaths(t *testing.T) {
	fake := &fakeCompiler{verbose: toolchain.Result{Stderr: verboseStderr}}

	paths, err := IncludePaths(context.Background(), fake)
	if err != nil {
		t.Fatalf("IncludePaths: %v", err)
	}
	want := []string{
		"/usr/lib/gcc/x86_64-w64-mingw32/10-win32/include",
		"/usr/x86_64-w64-mingw32/include",
	}
	if !slices.Equal(paths, want) {
		t.Errorf("paths = %v, want %v", paths, want)
	}
	if len(fake.stdins) != 1 || fake.stdins[0] != dummySource {
		t.Errorf("stdin = %v, want the dummy source", fake.stdins)
	}
}

func TestIncludePathsMissingStartMarker(t *testing.T) {
	fake := &fakeCompiler{verbose: toolchain.Result{Stderr: "Target: x86_64-w64-mingw32\nEnd of search list.\n"}}
	_, err := IncludePaths(context.Background(), fake)
	if err == nil {
		t.Fatal("IncludePaths succeeded without markers")
	}
	if !strings.Contains(err.Error(), "search starts here") {
		t.Errorf("error does not name the marker: %v", err)
	}
}

func TestIncludePathsMissingEndMarker(t *testing.T) {
	fake := &fakeCompiler{verbose: toolchain.Result{Stderr: "#include <...> search starts here:\n /usr/include\n"}}
	_, err := IncludePaths(context.Background(), fake)
	if err == nil {
		t.Fatal("IncludePaths succeeded without the end marker")
	}
	if !strings.Contains(err.Error(), "End of search list.") {
		t.Errorf("error does not name the marker: %v", err)
	}
}

func TestMacros(t *testing.T) {
	fake := &fakeCompiler{dump: toolchain.Result{Stdout: macroStdout}}

	defs, err := Macros(context.Background(), fake)
	if err != nil {
		t.Fatalf("Macros: %v", err)
	}
	want := []string{
		`-D__STDC__="1"`,
		`-D__MINGW64__="1"`,
		`-D__VERSION__=""10-win32""`,
		`-D_WIN64="1"`,
	}
	if !slices.Equal(defs, want) {
		t.Errorf("defs = %v, want %v", defs, want)
	}
}

func TestMacrosMultiWordAndEmptyValues(t *testing.T) {
	fake := &fakeCompiler{dump: toolchain.Result{Stdout: "#define A B C\n#define EMPTY \n"}}

	defs, err := Macros(context.Background(), fake)
	if err != nil {
		t.Fatalf("Macros: %v", err)
	}
	want := []string{`-DA="B C"`, `-DEMPTY=""`}
	if !slices.Equal(defs, want) {
		t.Errorf("defs = %v, want %v", defs, want)
	}
}

func TestMacrosRejectsGarbageLines(t *testing.T) {
	fake := &fakeCompiler{dump: toolchain.Result{Stdout: "#define A 1\nnot a define\n"}}
	_, err := Macros(context.Background(), fake)
	if err == nil {
		t.Fatal("Macros accepted a non-#define line")
	}
	if !strings.Contains(err.Error(), "not a define") {
		t.Errorf("error does not quote the offending line: %v", err)
	}
}

func TestLinesOrder(t *testing.T) {
	fake := &fakeCompiler{
		verbose: toolchain.Result{Stderr: verboseStderr},
		dump:    toolchain.Result{Stdout: macroStdout},
	}
	prof := profile.Builtin()
	desc := mustTarget(t, "d3d11", "64")

	lines, err := Lines(context.Background(), fake, prof, desc)
	if err != nil {
		t.Fatalf("Lines: %v", err)
	}

	base := prof.BaseOptions(target.Arch64)
	if len(lines) != len(base)+2+4 {
		t.Fatalf("got %d lines, want %d", len(lines), len(base)+2+4)
	}
	if !slices.Equal(lines[:len(base)], base) {
		t.Errorf("static groups not first or reordered:\n%v", lines[:len(base)])
	}
	if got, want := lines[len(base)], "-I/usr/lib/gcc/x86_64-w64-mingw32/10-win32/include"; got != want {
		t.Errorf("first include flag = %q, want %q", got, want)
	}
	if got, want := lines[len(lines)-1], `-D_WIN64="1"`; got != want {
		t.Errorf("last define flag = %q, want %q", got, want)
	}
}

func TestLinesKeepsDuplicates(t *testing.T) {
	// A discovered macro may repeat a static define. Both stay; order is
	// part of the file format and consumers resolve conflicts themselves.
	fake := &fakeCompiler{
		verbose: toolchain.Result{Stderr: "#include <...> search starts here:\nEnd of search list.\n"},
		dump:    toolchain.Result{Stdout: "#define CONST const\n"},
	}
	prof := profile.Builtin()
	desc := mustTarget(t, "d3d11", "32")

	lines, err := Lines(context.Background(), fake, prof, desc)
	if err != nil {
		t.Fatalf("Lines: %v", err)
	}
	n := 0
	for _, l := range lines {
		if l == `-DCONST="const"` {
			n++
		}
	}
	if n != 2 {
		t.Errorf("want the duplicate define kept (2 occurrences), got %d", n)
	}
}

func TestFileWritesOneFlagPerLine(t *testing.T) {
	dir := t.TempDir()
	fake := &fakeCompiler{
		verbose: toolchain.Result{Stderr: verboseStderr},
		dump:    toolchain.Result{Stdout: macroStdout},
	}
	prof := profile.Builtin()
	desc := mustTarget(t, "d3d9", "64")

	path, count, err := File(context.Background(), fake, prof, desc, dir)
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	if got, want := filepath.Base(path), "d3d9_64_parser_options.txt"; got != want {
		t.Errorf("file name = %q, want %q", got, want)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	text := string(data)
	if !strings.HasSuffix(text, "\n") {
		t.Error("file does not end with a newline")
	}
	got := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	want, err := Lines(context.Background(), fake, prof, desc)
	if err != nil {
		t.Fatalf("Lines: %v", err)
	}
	if !slices.Equal(got, want) {
		t.Errorf("file content diverges from Lines:\n%v\n%v", got, want)
	}
	if count != len(want) {
		t.Errorf("count = %d, want %d", count, len(want))
	}
}

func TestFileLeavesNothingOnFailure(t *testing.T) {
	dir := t.TempDir()
	fake := &fakeCompiler{
		verbose: toolchain.Result{Stderr: verboseStderr},
		dumpErr: errors.New("x86_64-w64-mingw32-gcc: unknown option"),
	}
	prof := profile.Builtin()
	desc := mustTarget(t, "d3d11", "64")

	if _, _, err := File(context.Background(), fake, prof, desc, dir); err == nil {
		t.Fatal("File succeeded with a failing macro dump")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("output directory not empty after failure: %v", entries)
	}
}
