// Package onu rewrites configuration dumps of an OLT.
//
// Names of ONU interfaces are compacted and the compacted names are
// used as PPPoE credentials in the corresponding pon-onu-mng blocks.
// This needs two passes over the document: the first one processes
// interface blocks and collects the compacted names, the second one
// processes pon-onu-mng blocks of the result of the first pass.
package onu

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/unnet/onu-rewrite/pkg/block"
	"github.com/unnet/onu-rewrite/pkg/compact"
	"github.com/unnet/onu-rewrite/pkg/rules"
)

const DefaultMaxLength = 25

var (
	interfaceStart = block.Keyword("interface")
	ponMngStart    = block.Matcher(ponMngKeyRE.MatchString)
)

type Options struct {
	MaxLength int
	// Applied to body of each interface block.
	Rules rules.Set
	TR069 TR069
}

type Rewriter struct {
	maxLen int
	rules  rules.Set
	tr069  TR069
}

func New(o Options) *Rewriter {
	if o.MaxLength <= 0 {
		o.MaxLength = DefaultMaxLength
	}
	return &Rewriter{maxLen: o.MaxLength, rules: o.Rules, tr069: o.TR069}
}

type Stats struct {
	Interfaces int      // interface blocks
	Compacted  int      // interface names compacted
	TooLong    []string // compacted names still longer than allowed
	PonMngs    int      // pon-onu-mng blocks
	Linked     int      // pon-onu-mng blocks with known interface
	Unresolved []string // references of pon-onu-mng blocks to unknown interface
}

type Result struct {
	Output string
	Names  Names
	Stats
}

// Rewrite processes all interface blocks of doc and afterwards all
// pon-onu-mng blocks of the intermediate result.
func (r *Rewriter) Rewrite(ctx context.Context, doc string) *Result {
	res := &Result{}
	tmp, names := r.interfaces(ctx, doc, &res.Stats)
	res.Names = names
	res.Output = r.ponMngs(ctx, tmp, names, &res.Stats)
	return res
}

// interfaces is the first pass. It is the only place, where Names are
// built.
func (r *Rewriter) interfaces(
	ctx context.Context, doc string, st *Stats) (string, Names) {

	log := zerolog.Ctx(ctx)
	m := make(map[string]string)
	out := block.Rewrite(doc, interfaceStart, func(header, body string) string {
		st.Interfaces++
		body, final := r.interfaceBody(log, header, body)
		if final == "" {
			return body
		}
		key := intfKeyRE.FindStringSubmatch(header)[1]
		if prev, found := m[key]; found {
			log.Debug().Str("interface", key).Str("previous", prev).
				Msg("duplicate interface, overwriting name")
		}
		m[key] = final
		st.Compacted++
		if !compact.Fits(final, r.maxLen) {
			st.TooLong = append(st.TooLong, final)
		}
		return body
	})
	return out, Names{m: m}
}

// ponMngs is the second pass.
func (r *Rewriter) ponMngs(
	ctx context.Context, doc string, names Names, st *Stats) string {

	log := zerolog.Ctx(ctx)
	return block.Rewrite(doc, ponMngStart, func(header, body string) string {
		st.PonMngs++
		ref := ponMngKeyRE.FindStringSubmatch(header)[1]
		final, found := names.Lookup(ref)
		if !found {
			log.Debug().Str("pon-onu-mng", ref).Msg("unknown interface")
			st.Unresolved = append(st.Unresolved, ref)
			return body
		}
		st.Linked++
		log.Debug().Str("pon-onu-mng", ref).Str("name", final).
			Msg("linked to interface")
		return r.ponMngBody(body, final)
	})
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

// lineEnd returns the line terminator of line.
func lineEnd(line string) string {
	switch {
	case strings.HasSuffix(line, "\r\n"):
		return "\r\n"
	case strings.HasSuffix(line, "\n"):
		return "\n"
	}
	return ""
}
