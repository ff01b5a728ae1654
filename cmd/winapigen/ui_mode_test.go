package main

import "testing"

func TestReadUIMode(t *testing.T) {
	cases := []struct {
		input string
		want  uiMode
		fails bool
	}{
		{"auto", uiModeAuto, false},
		{"", uiModeAuto, false},
		{"on", uiModeOn, false},
		{"ON", uiModeOn, false},
		{" off ", uiModeOff, false},
		{"tui", "", true},
	}
	for _, tc := range cases {
		got, err := readUIMode(tc.input)
		if tc.fails {
			if err == nil {
				t.Errorf("readUIMode(%q) should fail", tc.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("readUIMode(%q): %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("readUIMode(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}
