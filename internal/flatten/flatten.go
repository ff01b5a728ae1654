// Package flatten produces the single-file header that Ghidra's "Parse C
// Source" dialog consumes: the cross-preprocessor expands every nested
// include of the requested Windows header into one translation unit, the
// sanitizer patches the constructs Ghidra rejects, and a fixed prologue
// supplies the handful of types the parser needs defined up front.
package flatten

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/renameio/v2"

	"github.com/hkva/ghidra-directx-data/internal/sanitize"
	"github.com/hkva/ghidra-directx-data/internal/target"
	"github.com/hkva/ghidra-directx-data/internal/toolchain"
)

// Prologue is written verbatim ahead of the preprocessor output. The manual
// definitions cover builtins MinGW headers rely on but Ghidra's parser does
// not know: _Float16 gets a dummy struct layout, __bf16 an integer stand-in.
const Prologue = `
// This file was generated by https://github.com/hkva/ghidra-directx-data

// BEGIN MANUAL DEFINITIONS

typedef struct _Float16 {
    float m[16];
} _Float16;

typedef unsigned short __bf16;

// END MANUAL DEFINITIONS

`

// Text flattens the target header and returns the complete file content:
// the prologue followed by the sanitized preprocessor output. The header is
// never opened directly; a synthetic #include fed on stdin lets the compiler
// resolve it from its own search paths.
func Text(ctx context.Context, inv toolchain.Invoker, desc target.Descriptor) (string, error) {
	res, err := inv.Invoke(ctx, toolchain.Request{
		Flags: []string{"-P", "-E"},
		Stdin: desc.Include(),
	})
	if err != nil {
		return "", err
	}
	return Prologue + sanitize.Apply(res.Stdout), nil
}

// File generates the flattened header and writes it into dir as
// <name>_<arch>.h, returning the written path. The content lands in a temp
// file first and is renamed into place, so a failed run leaves no partial
// header behind.
func File(ctx context.Context, inv toolchain.Invoker, desc target.Descriptor, dir string) (string, error) {
	text, err := Text(ctx, inv, desc)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, desc.HeaderFile())
	if err := renameio.WriteFile(path, []byte(text), 0o600); err != nil {
		return "", fmt.Errorf("write flattened header: %w", err)
	}
	return path, nil
}
