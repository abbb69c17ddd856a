// Package classify maps archive entry names to record kinds and join keys.
package classify

import (
	"path"
	"strings"

	"github.com/huangsam/scanreport/schema"
)

// Rule recognizes entries whose stem starts with Prefix. The join key is
// the stem with its first Strip bytes removed.
type Rule struct {
	Prefix string
	Kind   schema.RecordKind
	Strip  int
}

// Match is a classified entry.
type Match struct {
	Kind schema.RecordKind
	Key  string
}

// Table is an ordered list of rules; the first matching prefix wins.
type Table []Rule

// DefaultTable is the naming scheme of scanner report archives.
var DefaultTable = Table{
	{Prefix: "component", Kind: schema.UnitKind, Strip: len("component-")},
	{Prefix: "issues", Kind: schema.FindingKind, Strip: len("issues-")},
	{Prefix: "coverages", Kind: schema.CoverageKind, Strip: len("coverages-")},
	{Prefix: "duplications", Kind: schema.DuplicationKind, Strip: len("duplications-")},
	{Prefix: "activerules", Kind: schema.RuleActivationKind, Strip: len("activerules")},
}

// Classify uses DefaultTable.
func Classify(name string) (Match, bool) {
	return DefaultTable.Classify(name)
}

// Classify returns the kind and key for an entry name. Only the first
// rule whose prefix matches is considered; a stem shorter than that
// rule's strip length is unrecognized.
func (t Table) Classify(name string) (Match, bool) {
	s := Stem(name)
	for _, rule := range t {
		if !strings.HasPrefix(s, rule.Prefix) {
			continue
		}
		if len(s) < rule.Strip {
			return Match{}, false
		}
		return Match{Kind: rule.Kind, Key: s[rule.Strip:]}, true
	}
	return Match{}, false
}

// Stem is the base name of an entry without its last extension.
// A leading dot is part of the stem, so ".pb" has stem ".pb".
func Stem(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "/" || base == "." {
		return ""
	}
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		return base[:i]
	}
	return base
}
