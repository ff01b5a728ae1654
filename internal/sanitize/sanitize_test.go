package sanitize

import (
	"strings"
	"testing"
)

func TestApplyAsmStatement(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "bare call",
			in:   `static void nop(void) { __asm__("nop"); }`,
			want: `static void nop(void) { (void)123; /* GHIDRA: Removed __asm__ statement */ }`,
		},
		{
			name: "volatile qualifier",
			in:   `__asm__ __volatile__("cpuid");`,
			want: `(void)123; /* GHIDRA: Removed __asm__ statement */`,
		},
		{
			name: "space before argument list",
			in:   `__asm__ ("int $3");`,
			want: `(void)123; /* GHIDRA: Removed __asm__ statement */`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(tt.in)
			if got != tt.want {
				t.Errorf("Apply(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestApplyInt128(t *testing.T) {
	got := Apply(`__int128 x;`)
	want := `long /* GHIDRA: Removed __int128 */ x;`
	if got != want {
		t.Fatalf("Apply = %q, want %q", got, want)
	}
}

func TestApplyInt128Unsigned(t *testing.T) {
	got := Apply(`typedef unsigned __int128 u128;`)
	want := `typedef unsigned long /* GHIDRA: Removed __int128 */ u128;`
	if got != want {
		t.Fatalf("Apply = %q, want %q", got, want)
	}
}

func TestApplyF16Literal(t *testing.T) {
	got := Apply(`static const _Float16 kOne = 1.0f16;`)
	want := `static const _Float16 kOne = 1.0f /* GHIDRA: Removed f16 */;`
	if got != want {
		t.Fatalf("Apply = %q, want %q", got, want)
	}
}

func TestApplyLeavesPlainSourceAlone(t *testing.T) {
	src := strings.Join([]string{
		`typedef struct tagPOINT { long x; long y; } POINT;`,
		`extern int GetSystemMetrics(int nIndex);`,
		`#define WINAPI __stdcall`,
	}, "\n")
	if got := Apply(src); got != src {
		t.Fatalf("Apply changed text with nothing to rewrite:\n%s", got)
	}
}

func TestApplyIdempotent(t *testing.T) {
	src := strings.Join([]string{
		`__asm__("nop");`,
		`__int128 wide;`,
		`float half = 1.0f16;`,
		`int untouched;`,
	}, "\n")
	once := Apply(src)
	twice := Apply(once)
	if twice != once {
		t.Fatalf("second pass changed output:\nonce:  %q\ntwice: %q", once, twice)
	}
	if strings.Count(twice, "GHIDRA: Removed __int128") != 1 {
		t.Errorf("marker comment duplicated: %q", twice)
	}
}

func TestApplyRewritesEachLine(t *testing.T) {
	src := "__int128 a;\n__int128 b;\n"
	got := Apply(src)
	want := "long /* GHIDRA: Removed __int128 */ a;\nlong /* GHIDRA: Removed __int128 */ b;\n"
	if got != want {
		t.Fatalf("Apply = %q, want %q", got, want)
	}
}

func TestEnsureUTF8DecodesWindows1252(t *testing.T) {
	// 0xA9 is the copyright sign in Windows-1252 and an invalid byte on
	// its own in UTF-8.
	in := "/* " + string([]byte{0xA9}) + " Microsoft Corporation */"
	got := EnsureUTF8(in)
	want := "/* © Microsoft Corporation */"
	if got != want {
		t.Fatalf("EnsureUTF8 = %q, want %q", got, want)
	}
}

func TestEnsureUTF8KeepsValidInput(t *testing.T) {
	in := "/* already fine: © */"
	if got := EnsureUTF8(in); got != in {
		t.Fatalf("EnsureUTF8 rewrote valid text: %q", got)
	}
}
