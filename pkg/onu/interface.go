package onu

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"github.com/unnet/onu-rewrite/pkg/compact"
)

var (
	intfKeyRE = regexp.MustCompile(`^\s*interface\s+(\S+)`)
	nameRE    = regexp.MustCompile(`^(\s*)name\s+(\S+)\s*$`)
	descrRE   = regexp.MustCompile(
		`(?i)^\s*description\s+ODP-[^-]+-(\d+/\d+)\s*$`)
)

// nameField is the first line "name VALUE" in body of interface.
type nameField struct {
	index  int // line index in body
	indent string
	value  string
}

// interfaceBody rewrites body of interface block with given header.
// If body has a name and a description with code, the name is compacted
// and returned as second value, otherwise "".
// Rewrite rules are applied in any case.
func (r *Rewriter) interfaceBody(
	log *zerolog.Logger, header, body string) (string, string) {

	m := intfKeyRE.FindStringSubmatch(header)
	if m == nil {
		log.Debug().Str("header", strings.TrimSpace(header)).
			Msg("interface without name, applying rules only")
		return r.rules.Apply(body), ""
	}
	key := m[1]
	lines := splitLines(body)
	nf, code, ok := findFields(lines)
	if !ok {
		log.Debug().Str("interface", key).
			Msg("missing name or description, applying rules only")
		return r.rules.Apply(body), ""
	}
	final := compact.Compact(nf.value, code, r.maxLen)
	log.Debug().Str("interface", key).Str("from", nf.value).Str("to", final).
		Msg("compacted name")
	line := lines[nf.index]
	lines[nf.index] = nf.indent + "name " + final + lineEnd(line)
	return r.rules.Apply(strings.Join(lines, "")), final
}

// findFields returns first name field and code of first description
// field found in lines.
func findFields(lines []string) (nameField, string, bool) {
	var nf nameField
	code := ""
	foundName := false
	for i, line := range lines {
		text := strings.TrimRight(line, "\r\n")
		if !foundName {
			if m := nameRE.FindStringSubmatch(text); m != nil {
				nf = nameField{index: i, indent: m[1], value: m[2]}
				foundName = true
			}
		}
		if code == "" {
			if m := descrRE.FindStringSubmatch(text); m != nil {
				code = m[1]
			}
		}
	}
	return nf, code, foundName && code != ""
}
