package block

import (
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSegments(t *testing.T) {
	isIntf := Keyword("interface")
	tests := []struct {
		title string
		in    string
		out   []Segment
	}{
		{
			title: "Empty document",
			in:    "",
			out:   nil,
		},
		{
			title: "No block",
			in:    "hostname olt\n!\n",
			out:   []Segment{{Preamble: "hostname olt\n!\n"}},
		},
		{
			title: "Preamble and blocks",
			in: `hostname olt
interface gpon-onu_1/2/1:1
  name A
!
  interface gpon-onu_1/2/1:2
  name B
`,
			out: []Segment{
				{
					Preamble: "hostname olt\n",
					Header:   "interface gpon-onu_1/2/1:1\n",
					Body:     "  name A\n!\n",
				},
				{
					Header: "  interface gpon-onu_1/2/1:2\n",
					Body:   "  name B\n",
				},
			},
		},
		{
			title: "Unterminated last line",
			in:    "interface a\n  name A\ninterface b",
			out: []Segment{
				{Header: "interface a\n", Body: "  name A\n"},
				{Header: "interface b"},
			},
		},
		{
			title: "CRLF line ends",
			in:    "interface a\r\n  name A\r\n",
			out: []Segment{
				{Header: "interface a\r\n", Body: "  name A\r\n"},
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.title, func(t *testing.T) {
			got := slices.Collect(Segments(tc.in, isIntf))
			if d := cmp.Diff(tc.out, got); d != "" {
				t.Error(d)
			}
			var b strings.Builder
			for _, s := range got {
				b.WriteString(s.Preamble + s.Header + s.Body)
			}
			if d := cmp.Diff(tc.in, b.String()); d != "" {
				t.Error(d)
			}
		})
	}
}

func TestSegmentsRestart(t *testing.T) {
	seq := Segments("interface a\ninterface b\ninterface c\n", Keyword("interface"))
	var first []string
	for s := range seq {
		first = append(first, s.Header)
		if len(first) == 2 {
			break
		}
	}
	var all []string
	for s := range seq {
		all = append(all, s.Header)
	}
	if d := cmp.Diff([]string{"interface a\n", "interface b\n"}, first); d != "" {
		t.Error(d)
	}
	if d := cmp.Diff(
		[]string{"interface a\n", "interface b\n", "interface c\n"}, all); d != "" {
		t.Error(d)
	}
}

func TestRewrite(t *testing.T) {
	in := `hostname olt
pon-onu-mng gpon-onu_1/2/1:1
  service HSI gemport 1 vlan 3020
pon-onu-mng
pon-onu-mng gpon-onu_1/2/1:2
  service HSI gemport 1 vlan 3022
`
	want := `hostname olt
pon-onu-mng gpon-onu_1/2/1:1
SERVICE HSI GEMPORT 1 VLAN 3020
PON-ONU-MNG
pon-onu-mng gpon-onu_1/2/1:2
SERVICE HSI GEMPORT 1 VLAN 3022
`
	// Header without reference doesn't start a block.
	start := func(line string) bool {
		return len(strings.Fields(line)) >= 2 && Keyword("pon-onu-mng")(line)
	}
	got := Rewrite(in, start, func(_, body string) string {
		return strings.ToUpper(strings.TrimLeft(body, " "))
	})
	if d := cmp.Diff(want, got); d != "" {
		t.Error(d)
	}
}
