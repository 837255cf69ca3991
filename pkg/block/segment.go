// Package block splits a configuration dump into blocks.
//
// A block starts at a header line and ends immediately before the next
// header line or at end of document. Blocks of one kind never nest.
package block

import (
	"iter"
	"regexp"
	"strings"
)

// Matcher reports whether line starts a new block.
// Line is given without line terminator.
type Matcher func(line string) bool

// Keyword returns a Matcher for lines starting with word, optionally
// preceeded by whitespace.
func Keyword(word string) Matcher {
	re := regexp.MustCompile(`^\s*` + regexp.QuoteMeta(word))
	return re.MatchString
}

// Segment is a block together with the text preceeding it.
// Only the first segment may have a preamble.
// Header is empty only if the document has no block at all.
type Segment struct {
	Preamble string
	Header   string
	Body     string
}

// Segments returns the blocks of doc. Concatenation of Preamble, Header
// and Body of all segments gives doc.
func Segments(doc string, start Matcher) iter.Seq[Segment] {
	return func(yield func(Segment) bool) {
		// Collects preamble while outside of block, body while inside.
		var buf strings.Builder
		var preamble, header string
		inBlock := false
		for rest := doc; rest != ""; {
			line, next, found := strings.Cut(rest, "\n")
			rest = next
			text := line
			if found {
				text += "\n"
			}
			if !start(strings.TrimSuffix(line, "\r")) {
				buf.WriteString(text)
				continue
			}
			if inBlock {
				if !yield(Segment{preamble, header, buf.String()}) {
					return
				}
				preamble = ""
			} else {
				preamble = buf.String()
				inBlock = true
			}
			buf.Reset()
			header = text
		}
		if inBlock {
			yield(Segment{preamble, header, buf.String()})
		} else if buf.Len() > 0 {
			yield(Segment{Preamble: buf.String()})
		}
	}
}

// Rewrite replaces the body of each block with the result of f
// and returns the resulting document.
// Headers and preamble are left unchanged.
func Rewrite(doc string, start Matcher, f func(header, body string) string) string {
	var b strings.Builder
	for s := range Segments(doc, start) {
		b.WriteString(s.Preamble)
		if s.Header == "" {
			continue
		}
		b.WriteString(s.Header)
		b.WriteString(f(s.Header, s.Body))
	}
	return b.String()
}
