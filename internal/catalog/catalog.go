// Package catalog holds the read-only reference inputs consulted while
// finalizing line items. Both are built per batch and passed into the
// parsing calls, never mutated during a run.
package catalog

import (
	"bufio"
	"os"
	"sort"
	"strings"
)

// Catalog is the set of canonical package-description strings supplied
// by the ERP (e.g. "500,000 SEEDS"). Entries are uppercase, trimmed,
// deduplicated and sorted.
type Catalog struct {
	entries []string
	set     map[string]struct{}
}

// New builds a catalog from raw entries.
func New(raw []string) *Catalog {
	set := make(map[string]struct{}, len(raw))
	entries := make([]string, 0, len(raw))
	for _, e := range raw {
		e = strings.ToUpper(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if _, ok := set[e]; ok {
			continue
		}
		set[e] = struct{}{}
		entries = append(entries, e)
	}
	sort.Strings(entries)
	return &Catalog{entries: entries, set: set}
}

// Contains reports exact (normalized) membership.
func (c *Catalog) Contains(s string) bool {
	_, ok := c.set[strings.ToUpper(strings.TrimSpace(s))]
	return ok
}

// Canonical returns the catalog spelling of s when present.
func (c *Catalog) Canonical(s string) (string, bool) {
	key := strings.ToUpper(strings.TrimSpace(s))
	if _, ok := c.set[key]; ok {
		return key, true
	}
	return "", false
}

// Entries returns the sorted canonical strings. Callers must not
// mutate the returned slice.
func (c *Catalog) Entries() []string {
	return c.entries
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// LoadLines reads one entry per line from a plain-text file, skipping
// blanks and '#' comments. Used by the CLI; service deployments get
// these lists from the ERP client instead.
func LoadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out, sc.Err()
}
