// Package profile holds the option groups fed to the cross-compiler and
// emitted into parser-options files. The built-in groups are immutable
// configuration data parsed once at startup from an embedded TOML document;
// a user profile file may append to them but never rewrite them.
package profile

import (
	"fmt"
	"strings"
	"sync"

	_ "embed"

	"github.com/BurntSushi/toml"

	"github.com/hkva/ghidra-directx-data/internal/target"
)

//go:embed defaults.toml
var defaultsTOML string

// Group is an ordered list of compiler option strings. Order is preserved
// verbatim and duplicates are never removed.
type Group struct {
	Options []string `toml:"options"`
}

// Compiler configures how the cross-compiler is invoked.
type Compiler struct {
	// Flags are prepended to every invocation.
	Flags []string `toml:"flags"`
	// Binary optionally overrides the cross-compiler per architecture,
	// keyed by "32" or "64". Usually empty; the target package supplies
	// the MinGW defaults.
	Binary map[string]string `toml:"binary"`
}

// Profile is the full option configuration for a generation run.
type Profile struct {
	Mingw    Group            `toml:"mingw"`
	Arch     map[string]Group `toml:"arch"`
	Compiler Compiler         `toml:"compiler"`
	// Extra holds user-supplied additions. Empty in the built-in profile.
	Extra Group `toml:"extra"`
}

var (
	builtinOnce sync.Once
	builtin     Profile
)

// Builtin returns the embedded default profile. The result is a copy; the
// caller may not observe or cause mutation of the shared tables.
func Builtin() *Profile {
	builtinOnce.Do(func() {
		if _, err := toml.Decode(defaultsTOML, &builtin); err != nil {
			panic(fmt.Sprintf("embedded defaults.toml is invalid: %v", err))
		}
	})
	return builtin.clone()
}

// overlay is the subset of Profile a user profile file may define.
type overlay struct {
	Extra    Group `toml:"extra"`
	Compiler struct {
		Binary map[string]string `toml:"binary"`
	} `toml:"compiler"`
}

// Load returns the built-in profile, extended with the user profile at path
// when path is non-empty. User profiles may only define [extra] and
// [compiler.binary]; attempting to redefine a built-in group is an error.
func Load(path string) (*Profile, error) {
	p := Builtin()
	if path == "" {
		return p, nil
	}
	var o overlay
	meta, err := toml.DecodeFile(path, &o)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: user profiles may only set [extra] and [compiler.binary] (found %s)",
			path, strings.Join(keys, ", "))
	}
	p.Extra.Options = append(p.Extra.Options, o.Extra.Options...)
	if len(o.Compiler.Binary) > 0 {
		if p.Compiler.Binary == nil {
			p.Compiler.Binary = make(map[string]string, len(o.Compiler.Binary))
		}
		for arch, bin := range o.Compiler.Binary {
			if _, err := target.ParseArch(arch); err != nil {
				return nil, fmt.Errorf("%s: [compiler.binary] key %q: %w", path, arch, err)
			}
			p.Compiler.Binary[arch] = bin
		}
	}
	return p, nil
}

// ArchOptions returns the default define group for the architecture.
func (p *Profile) ArchOptions(a target.Arch) []string {
	g, ok := p.Arch[string(a)]
	if !ok {
		return nil
	}
	return append([]string(nil), g.Options...)
}

// BaseOptions assembles the static portion of a parser-options file:
// the MinGW group, then the architecture group, then user extras.
func (p *Profile) BaseOptions(a target.Arch) []string {
	opts := append([]string(nil), p.Mingw.Options...)
	opts = append(opts, p.ArchOptions(a)...)
	opts = append(opts, p.Extra.Options...)
	return opts
}

// InvocationFlags returns the flags prepended to every compiler invocation:
// the generic compiler flags followed by user extras.
func (p *Profile) InvocationFlags() []string {
	flags := append([]string(nil), p.Compiler.Flags...)
	flags = append(flags, p.Extra.Options...)
	return flags
}

// BinaryFor resolves the cross-compiler binary for an architecture, honoring
// a user override when one is configured.
func (p *Profile) BinaryFor(a target.Arch) string {
	if bin := p.Compiler.Binary[string(a)]; bin != "" {
		return bin
	}
	return a.Compiler()
}

func (p *Profile) clone() *Profile {
	out := Profile{
		Mingw: Group{Options: append([]string(nil), p.Mingw.Options...)},
		Extra: Group{Options: append([]string(nil), p.Extra.Options...)},
		Compiler: Compiler{
			Flags: append([]string(nil), p.Compiler.Flags...),
		},
	}
	if p.Arch != nil {
		out.Arch = make(map[string]Group, len(p.Arch))
		for k, g := range p.Arch {
			out.Arch[k] = Group{Options: append([]string(nil), g.Options...)}
		}
	}
	if p.Compiler.Binary != nil {
		out.Compiler.Binary = make(map[string]string, len(p.Compiler.Binary))
		for k, v := range p.Compiler.Binary {
			out.Compiler.Binary[k] = v
		}
	}
	return &out
}
