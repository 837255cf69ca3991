// Package rules holds stateless rewrite rules applied to the body of
// interface blocks.
package rules

import (
	"fmt"
	"regexp"
	"strings"
)

type Rule interface {
	Apply(body string) string
}

// Set applies its rules in order.
type Set []Rule

func (s Set) Apply(body string) string {
	for _, r := range s {
		body = r.Apply(body)
	}
	return body
}

// Default returns the rules used if no configuration is given.
func Default() Set {
	return Set{
		NewInsertAfter(
			"service-port 2 vport 1 user-vlan 1001 vlan 1001",
			"service-port 3 vport 1 user-vlan 1002 vlan 1002"),
		Replace{From: "GARUDAMEDIA", To: "UNNET"},
		NewVlanRemap(1, 1, 1000, 3020),
		NewVlanRemap(2, 1, 1001, 3022),
		NewVlanRemap(3, 1, 1002, 100),
	}
}

// Replace substitutes every occurrence of From by To.
type Replace struct {
	From string
	To   string
}

func (r Replace) Apply(body string) string {
	if r.From == "" {
		return body
	}
	return strings.ReplaceAll(body, r.From, r.To)
}

// InsertAfter inserts a directive after each line matching another
// directive. Nothing is inserted if the following line already is the
// inserted directive, hence applying the rule twice is a no-op.
type InsertAfter struct {
	after  *regexp.Regexp
	exists *regexp.Regexp
	insert string
}

// NewInsertAfter takes both directives as words separated by spaces.
// Lines match independent of indentation and amount of whitespace.
func NewInsertAfter(after, insert string) *InsertAfter {
	return &InsertAfter{
		after:  regexp.MustCompile(`^(\s*)` + wordsPattern(after) + `\s*$`),
		exists: regexp.MustCompile(`^\s*` + wordsPattern(insert) + `\s*$`),
		insert: strings.Join(strings.Fields(insert), " "),
	}
}

func (r *InsertAfter) Apply(body string) string {
	lines := splitLines(body)
	var b strings.Builder
	for i, line := range lines {
		b.WriteString(line)
		m := r.after.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if i+1 < len(lines) && r.exists.MatchString(lines[i+1]) {
			continue
		}
		if !strings.HasSuffix(line, "\n") {
			b.WriteString("\n")
		}
		b.WriteString(m[1] + r.insert + "\n")
	}
	return b.String()
}

// VlanRemap changes both vlan values of line
// "service-port PORT vport VPORT user-vlan FROM vlan FROM" to TO.
// Indentation and whitespace of the line are kept.
type VlanRemap struct {
	re   *regexp.Regexp
	repl string
}

func NewVlanRemap(port, vport, from, to int) *VlanRemap {
	p := fmt.Sprintf(
		`^(\s*service-port\s+%d\s+vport\s+%d\s+user-vlan\s*)%d(\s+vlan\s*)%d(\s*)$`,
		port, vport, from, from)
	return &VlanRemap{
		re:   regexp.MustCompile(p),
		repl: fmt.Sprintf("${1}%d${2}%d${3}", to, to),
	}
}

func (r *VlanRemap) Apply(body string) string {
	lines := splitLines(body)
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(r.re.ReplaceAllString(line, r.repl))
	}
	return b.String()
}

// wordsPattern converts "a b c" to `a\s+b\s+c`.
func wordsPattern(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	return strings.Join(words, `\s+`)
}

// splitLines splits s after each newline. Last line may be
// unterminated.
func splitLines(s string) []string {
	var result []string
	for s != "" {
		line, rest, found := strings.Cut(s, "\n")
		if found {
			line += "\n"
		}
		result = append(result, line)
		s = rest
	}
	return result
}
