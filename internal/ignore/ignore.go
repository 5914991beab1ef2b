// Package ignore narrows a local file enumeration using glob rules read
// from an ignore file. Filtering is fail-open: a missing or unreadable
// rules file means everything syncs.
package ignore

import (
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	log "github.com/sirupsen/logrus"
)

// Load reads glob rules from path, one per line. Blank lines and lines
// starting with '#' are skipped. A missing or unreadable file yields no
// rules rather than an error.
func Load(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.WithError(err).WithField("path", path).Warn("ignore file unreadable, syncing everything")
		}
		return nil
	}

	var rules []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rules = append(rules, line)
	}
	return rules
}

// Filter returns the paths matching none of the rules, preserving input
// order. With no rules the input is returned unchanged. Rules are shell
// globs evaluated against the whole slash-separated path as one flat
// string, so `*` and `?` cross directory separators: `*.aux` excludes
// aux files at any depth. A malformed rule matches nothing.
func Filter(paths []string, rules []string) []string {
	if len(rules) == 0 {
		return paths
	}

	kept := make([]string, 0, len(paths))
	for _, p := range paths {
		if !matchesAny(p, rules) {
			kept = append(kept, p)
		}
	}
	return kept
}

// separatorStandIn replaces '/' in both rule and path before matching.
// The glob engine treats '/' as a segment boundary that `*` cannot
// cross; swapping it for a byte that never occurs in file names makes
// the match flat.
const separatorStandIn = "\x00"

func flatten(s string) string {
	return strings.ReplaceAll(s, "/", separatorStandIn)
}

func matchesAny(path string, rules []string) bool {
	flat := flatten(path)
	for _, rule := range rules {
		ok, err := doublestar.Match(flatten(rule), flat)
		if err == nil && ok {
			return true
		}
	}
	return false
}
