package compact

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCompact(t *testing.T) {
	tests := []struct {
		base   string
		code   string
		maxLen int
		want   string
	}{
		{"ODP-BDG-01", "1/2", 25, "ODP-BDG-01-1/2"},
		{"ODP-BDG-FO-12/34", "12/34", 25, "ODP-BDG-FO-12/34"},
		{"PELANGGAN", "3/4", 25, "PELANGGAN-3/4"},
		{"-3/4", "3/4", 25, "JMP-3/4"},
		// Later segments are reduced to their first character.
		{"ODP-CIMAHI-UTARA-CITEUREUP", "5/16", 25, "ODP-CIMAHI-UTARA-C-5/16"},
		// Second segment is shortened during search.
		{"ODP-JAKARTA-SELATAN-PERUMAHAN-BLOK-A", "12/34", 25,
			"ODP-JAK-S-P-B-A-12/34"},
		// Only two segments, second one shortened by final pass.
		{"ODP-JAKARTASELATANPERUMAHAN", "12/34", 15, "ODP-JAKAR-12/34"},
		// Fits without shortening.
		{"ODP-JAKARTASELATANPERUMAHAN", "12/34", 40,
			"ODP-JAKARTASELATANPERUMAHAN-12/34"},
		// Empty segments are kept.
		{"A--B", "1/1", 25, "A--B-1/1"},
		// Characters, not bytes, are counted.
		{"ÖDP-MÜNCHEN-SÜD", "1/2", 15, "ÖDP-MÜNCH-S-1/2"},
	}
	for _, tc := range tests {
		t.Run(tc.base, func(t *testing.T) {
			eq(t, tc.want, Compact(tc.base, tc.code, tc.maxLen))
		})
	}
}

func TestCompactScenario(t *testing.T) {
	got := Compact("ODP-JAKARTA-SELATAN-PERUMAHAN-BLOK-A", "12/34", 25)
	if !Fits(got, 25) {
		t.Errorf("%q is longer than 25", got)
	}
	if !strings.HasSuffix(got, "-12/34") {
		t.Errorf("%q doesn't end with code", got)
	}
	if !strings.HasPrefix(got, "ODP-JAK") {
		t.Errorf("%q lost prefix of first two segments", got)
	}
}

// The final pass never cuts the second segment below three characters,
// so some inputs can't be made to fit.
func TestCompactOverLength(t *testing.T) {
	got := Compact("A-VERYLONGSECONDSEGMENTXYZ-C", "1/1", 10)
	eq(t, "A-VER-C-1/1", got)
	if Fits(got, 10) {
		t.Errorf("expected %q to exceed limit", got)
	}
}

func TestCompactProperties(t *testing.T) {
	words := []string{
		"ODP", "JAKARTA", "SELATAN", "PERUMAHAN", "BLOK", "A", "CIBUBUR",
		"GRIYA", "PERMATA", "X", "KAVLING", "NO",
	}
	codes := []string{"1/2", "12/34", "123/456"}
	var violations []string
	for n := 1; n <= len(words); n++ {
		for start := 0; start+n <= len(words); start++ {
			parts := words[start : start+n]
			base := strings.Join(parts, "-")
			for _, code := range codes {
				for _, maxLen := range []int{15, 20, 25, 30} {
					got := Compact(base, code, maxLen)
					checkShape(t, parts, code, got)
					if !Fits(got, maxLen) {
						violations = append(violations,
							fmt.Sprintf("%s %s %d: %s", base, code, maxLen, got))
					}
				}
			}
		}
	}
	// Surface inputs that exceed the length budget.
	for _, v := range violations {
		t.Log("over length:", v)
	}
}

// Result must end with code and must have the same number of
// segments in same order, each being a prefix of the original one.
func checkShape(t *testing.T, parts []string, code, got string) {
	t.Helper()
	rest, found := strings.CutSuffix(got, "-"+code)
	if !found {
		t.Fatalf("%q doesn't end with %q", got, "-"+code)
	}
	l := strings.Split(rest, "-")
	if len(l) != len(parts) {
		t.Fatalf("%q has %d segments, want %d", got, len(l), len(parts))
	}
	for i, p := range l {
		if p == "" || !strings.HasPrefix(parts[i], p) {
			t.Errorf("segment %q of %q is no prefix of %q", p, got, parts[i])
		}
	}
}

func TestPrefix(t *testing.T) {
	eq(t, "", prefix("abc", 0))
	eq(t, "ab", prefix("abc", 2))
	eq(t, "abc", prefix("abc", 5))
	eq(t, "Ü", prefix("ÜBER", 1))
}

func eq(t *testing.T, expected, got string) {
	t.Helper()
	if d := cmp.Diff(expected, got); d != "" {
		t.Error(d)
	}
}
