package program

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"

	"github.com/unnet/onu-rewrite/pkg/onu"
	"github.com/unnet/onu-rewrite/pkg/rules"
	"gopkg.in/yaml.v3"
)

type Config struct {
	MaxLength   int           `yaml:"max_length"`
	Replace     []ReplaceConf `yaml:"replace"`
	InsertAfter []InsertConf  `yaml:"insert_after"`
	VlanRemap   []RemapConf   `yaml:"vlan_remap"`
	TR069       TR069Conf     `yaml:"tr069"`
	// Name of file, where config was read from.
	File string `yaml:"-"`
}

type ReplaceConf struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

type InsertConf struct {
	After  string `yaml:"after"`
	Insert string `yaml:"insert"`
}

type RemapConf struct {
	Port  int `yaml:"port"`
	VPort int `yaml:"vport"`
	From  int `yaml:"from"`
	To    int `yaml:"to"`
}

type TR069Conf struct {
	HotspotMarker string   `yaml:"hotspot_marker"`
	Service       string   `yaml:"service"`
	WifiMarker    string   `yaml:"wifi_marker"`
	Mgmt          []string `yaml:"mgmt"`
}

func Default() *Config {
	t := onu.DefaultTR069()
	return &Config{
		MaxLength: onu.DefaultMaxLength,
		Replace:   []ReplaceConf{{From: "GARUDAMEDIA", To: "UNNET"}},
		InsertAfter: []InsertConf{{
			After:  "service-port 2 vport 1 user-vlan 1001 vlan 1001",
			Insert: "service-port 3 vport 1 user-vlan 1002 vlan 1002",
		}},
		VlanRemap: []RemapConf{
			{Port: 1, VPort: 1, From: 1000, To: 3020},
			{Port: 2, VPort: 1, From: 1001, To: 3022},
			{Port: 3, VPort: 1, From: 1002, To: 100},
		},
		TR069: TR069Conf{
			HotspotMarker: t.HotspotMarker,
			Service:       t.Service,
			WifiMarker:    t.WifiMarker,
			Mgmt:          t.Mgmt,
		},
	}
}

func confPaths() []string {
	home, _ := os.UserHomeDir()
	return []string{
		path.Join(home, ".onu-rewrite.yaml"),
		"/usr/local/etc/onu-rewrite.yaml",
		"/etc/onu-rewrite.yaml",
	}
}

// LoadConfig reads given file or, if file is empty, the most specific
// config file found; others are ignored.
// Without any config file, default values are used.
// Keys missing in config file keep their default value.
func LoadConfig(file string) (*Config, error) {
	var data []byte
	if file != "" {
		var err error
		data, err = os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("Can't %v", err)
		}
	} else {
		for _, p := range confPaths() {
			var err error
			data, err = os.ReadFile(p)
			if err == nil {
				file = p
				break
			}
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("Can't %v", err)
			}
		}
	}
	c := Default()
	if data == nil {
		return c, nil
	}
	c.File = file
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("While reading %s: %v", file, err)
	}
	if err := c.check(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) check() error {
	invalid := func(key, format string, args ...any) error {
		return fmt.Errorf("Invalid '%s' in %s: %s",
			key, c.File, fmt.Sprintf(format, args...))
	}
	if c.MaxLength < 1 {
		return invalid("max_length", "must be positive, got %d", c.MaxLength)
	}
	for _, r := range c.Replace {
		if r.From == "" {
			return invalid("replace", "missing value for 'from'")
		}
	}
	for _, r := range c.InsertAfter {
		if r.After == "" || r.Insert == "" {
			return invalid("insert_after", "need both 'after' and 'insert'")
		}
	}
	for _, r := range c.VlanRemap {
		if r.Port < 0 || r.VPort < 0 || r.From < 0 || r.To < 0 {
			return invalid("vlan_remap", "negative number in %+v", r)
		}
	}
	return nil
}

// Rules returns the rewrite rules for interface blocks in fixed order:
// insertions, replacements, vlan remapping.
func (c *Config) Rules() rules.Set {
	var s rules.Set
	for _, r := range c.InsertAfter {
		s = append(s, rules.NewInsertAfter(r.After, r.Insert))
	}
	for _, r := range c.Replace {
		s = append(s, rules.Replace{From: r.From, To: r.To})
	}
	for _, r := range c.VlanRemap {
		s = append(s, rules.NewVlanRemap(r.Port, r.VPort, r.From, r.To))
	}
	return s
}

func (c *Config) Options() onu.Options {
	return onu.Options{
		MaxLength: c.MaxLength,
		Rules:     c.Rules(),
		TR069: onu.TR069{
			HotspotMarker: c.TR069.HotspotMarker,
			Service:       c.TR069.Service,
			WifiMarker:    c.TR069.WifiMarker,
			Mgmt:          c.TR069.Mgmt,
		},
	}
}
