package onu

import (
	"regexp"
	"strings"
)

var (
	ponMngKeyRE = regexp.MustCompile(`^\s*pon-onu-mng\s+(\S+)`)
	userRE      = regexp.MustCompile(`\b(user\s+)\S+`)
	passwordRE  = regexp.MustCompile(`\b(password\s+)\S+`)
)

// TR069 describes the management directives inserted into pon-onu-mng
// blocks.
type TR069 struct {
	// After each line containing HotspotMarker, line Service is inserted.
	HotspotMarker string
	Service       string
	// After last line containing WifiMarker, lines Mgmt are inserted.
	WifiMarker string
	Mgmt       []string
}

func DefaultTR069() TR069 {
	return TR069{
		HotspotMarker: "service HOTSPOT",
		Service:       "  service TR069 gemport 1 vlan 100",
		WifiMarker:    "vlan port wifi",
		Mgmt: []string{
			"  tr069-mgmt 1 state unlock",
			"  tr069-mgmt 1 acs http://172.17.11.6:7547 validate basic" +
				" username unnet.acs password unnet.acs123",
			"  tr069-mgmt 1 tag pri 0 vlan 100",
		},
	}
}

// ponMngBody rewrites body of pon-onu-mng block, where final is the
// compacted name of referenced interface.
// PPPoE credentials are set to final and TR069 directives are added.
func (r *Rewriter) ponMngBody(body, final string) string {
	var out []string
	lastWifi := -1
	add := func(line string) {
		// Previous line may be last line without newline.
		if l := len(out); l > 0 && !strings.HasSuffix(out[l-1], "\n") {
			out[l-1] += "\n"
		}
		out = append(out, line)
	}
	// Don't expand "$" in name.
	repl := "${1}" + strings.ReplaceAll(final, "$", "$$")
	for _, line := range splitLines(body) {
		line = userRE.ReplaceAllString(line, repl)
		line = passwordRE.ReplaceAllString(line, repl)
		add(line)
		if m := r.tr069.HotspotMarker; m != "" && strings.Contains(line, m) {
			add(r.tr069.Service + "\n")
		}
		if m := r.tr069.WifiMarker; m != "" && strings.Contains(line, m) {
			lastWifi = len(out) - 1
		}
	}
	if lastWifi >= 0 && len(r.tr069.Mgmt) > 0 {
		var mgmt []string
		for _, l := range r.tr069.Mgmt {
			mgmt = append(mgmt, l+"\n")
		}
		if !strings.HasSuffix(out[lastWifi], "\n") {
			out[lastWifi] += "\n"
		}
		out = append(out[:lastWifi+1], append(mgmt, out[lastWifi+1:]...)...)
	}
	return strings.Join(out, "")
}
