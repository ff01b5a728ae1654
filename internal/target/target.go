// Package target identifies what one generation run produces: a Windows API
// header name paired with a cross-compiler architecture. The descriptor
// resolves the MinGW-w64 toolchain binary and the names of both output files.
package target

import "fmt"

// Arch selects the cross-compiler word size.
type Arch string

const (
	// Arch32 targets i686 (32-bit) Windows.
	Arch32 Arch = "32"
	// Arch64 targets x86_64 (64-bit) Windows.
	Arch64 Arch = "64"
)

// Known returns the supported architectures in display order.
func Known() []Arch {
	return []Arch{Arch32, Arch64}
}

// ParseArch validates an architecture argument.
func ParseArch(s string) (Arch, error) {
	switch Arch(s) {
	case Arch32, Arch64:
		return Arch(s), nil
	default:
		return "", fmt.Errorf("architecture must be either 32 or 64 (got %q)", s)
	}
}

// Triple is the MinGW-w64 target triple for the architecture.
func (a Arch) Triple() string {
	if a == Arch64 {
		return "x86_64-w64-mingw32"
	}
	return "i686-w64-mingw32"
}

// Compiler is the cross-compiler binary name for the architecture.
func (a Arch) Compiler() string {
	return a.Triple() + "-gcc"
}

// Descriptor names one generation target.
type Descriptor struct {
	// Name is the header stem, e.g. "d3d11" for <d3d11.h>.
	Name string
	Arch Arch
}

// Parse builds a descriptor from the two positional CLI arguments.
func Parse(name, arch string) (Descriptor, error) {
	a, err := ParseArch(arch)
	if err != nil {
		return Descriptor{}, err
	}
	if name == "" {
		return Descriptor{}, fmt.Errorf("header name must not be empty")
	}
	return Descriptor{Name: name, Arch: a}, nil
}

// Include is the synthetic translation unit fed to the preprocessor. The
// header is never opened directly; the compiler resolves it from its own
// search paths.
func (d Descriptor) Include() string {
	return fmt.Sprintf("#include <%s.h>", d.Name)
}

// HeaderFile is the flattened header output name.
func (d Descriptor) HeaderFile() string {
	return fmt.Sprintf("%s_%s.h", d.Name, d.Arch)
}

// OptionsFile is the parser-options output name.
func (d Descriptor) OptionsFile() string {
	return fmt.Sprintf("%s_%s_parser_options.txt", d.Name, d.Arch)
}
