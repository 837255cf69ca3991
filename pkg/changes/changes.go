// Package changes shows the lines changed by a rewrite.
package changes

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/diff/edit"
	"github.com/pkg/diff/myers"
)

type linesPair struct {
	a, b []string
}

func (ab *linesPair) LenA() int { return len(ab.a) }
func (ab *linesPair) LenB() int { return len(ab.b) }

func (ab *linesPair) Equal(ai, bi int) bool {
	return ab.a[ai] == ab.b[bi]
}

// Write shows the differences between documents a and b as hunks of
// removed and added lines, without context.
// Nothing is written if a and b are equal.
func Write(w io.Writer, aName, bName, a, b string) (changed bool, err error) {
	ab := &linesPair{a: lines(a), b: lines(b)}
	s := myers.Diff(context.Background(), ab)
	var hunk []edit.Range
	bw := bufio.NewWriter(w)
	flush := func() {
		if len(hunk) == 0 {
			return
		}
		if !changed {
			fmt.Fprintf(bw, "--- %s\n+++ %s\n", aName, bName)
			changed = true
		}
		lowA, highA := hunk[0].LowA, hunk[len(hunk)-1].HighA
		lowB, highB := hunk[0].LowB, hunk[len(hunk)-1].HighB
		fmt.Fprintf(bw, "@@ -%s +%s @@\n", span(lowA, highA), span(lowB, highB))
		for _, l := range ab.a[lowA:highA] {
			fmt.Fprintln(bw, "-"+l)
		}
		for _, l := range ab.b[lowB:highB] {
			fmt.Fprintln(bw, "+"+l)
		}
		hunk = nil
	}
	for _, r := range s.Ranges {
		if r.IsDelete() || r.IsInsert() {
			hunk = append(hunk, r)
		} else {
			flush()
		}
	}
	flush()
	return changed, bw.Flush()
}

// span formats line range like unified diff.
func span(low, high int) string {
	switch n := high - low; n {
	case 0:
		return fmt.Sprintf("%d,0", low)
	case 1:
		return fmt.Sprintf("%d", low+1)
	default:
		return fmt.Sprintf("%d,%d", low+1, n)
	}
}

func lines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
