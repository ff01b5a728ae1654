package main

import (
	"os"

	"github.com/hkva/ghidra-directx-data/internal/profile"
	"github.com/hkva/ghidra-directx-data/internal/target"
	"github.com/hkva/ghidra-directx-data/internal/toolchain"
)

// newCompiler resolves the cross-compiler for the architecture and verifies
// it is installed before any work starts.
func newCompiler(prof *profile.Profile, arch target.Arch, printCommands bool) (*toolchain.GCC, error) {
	gcc := toolchain.NewGCC(prof.BinaryFor(arch), prof.InvocationFlags())
	if printCommands {
		gcc.CommandLog = os.Stdout
	}
	if err := gcc.Available(); err != nil {
		return nil, err
	}
	return gcc, nil
}
