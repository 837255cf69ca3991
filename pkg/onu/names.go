package onu

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Names maps interface keys to compacted names.
// It is filled while interface blocks are processed
// and is read only afterwards.
type Names struct {
	m map[string]string
}

func (n Names) Lookup(key string) (string, bool) {
	name, found := n.m[key]
	return name, found
}

func (n Names) Len() int {
	return len(n.m)
}

// Keys returns the interface keys in sorted order.
func (n Names) Keys() []string {
	keys := maps.Keys(n.m)
	slices.Sort(keys)
	return keys
}
