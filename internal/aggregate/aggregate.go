// Package aggregate joins decoded report parts into one report keyed by
// component ref.
package aggregate

import (
	"fmt"
	"maps"
	"slices"

	"github.com/huangsam/scanreport/internal/classify"
	"github.com/huangsam/scanreport/internal/reportpb"
	"github.com/huangsam/scanreport/internal/wire"
	"github.com/huangsam/scanreport/schema"
)

// Aggregator collects decoded records per join key. It is not safe for
// concurrent use; the pipeline feeds it one entry at a time.
type Aggregator struct {
	limits       wire.Limits
	units        map[string]schema.Component
	issues       map[string][]schema.Issue
	coverages    map[string][]schema.LineCoverage
	duplications map[string][]schema.Duplication
	rules        map[string]int
	assembled    bool
}

// New returns an empty Aggregator that decodes with the given limits.
func New(limits wire.Limits) *Aggregator {
	return &Aggregator{
		limits:       limits,
		units:        make(map[string]schema.Component),
		issues:       make(map[string][]schema.Issue),
		coverages:    make(map[string][]schema.LineCoverage),
		duplications: make(map[string][]schema.Duplication),
		rules:        make(map[string]int),
	}
}

// PutUnit stores a unit under key, replacing any earlier unit.
func (a *Aggregator) PutUnit(key string, c schema.Component) {
	a.units[key] = c
}

// PutIssues stores the findings of one entry. A nil slice is kept as
// present-but-empty.
func (a *Aggregator) PutIssues(key string, issues []schema.Issue) {
	a.issues[key] = present(issues)
}

// PutCoverages stores the coverage lines of one entry.
func (a *Aggregator) PutCoverages(key string, lines []schema.LineCoverage) {
	a.coverages[key] = present(lines)
}

// PutDuplications stores the duplication blocks of one entry.
func (a *Aggregator) PutDuplications(key string, blocks []schema.Duplication) {
	a.duplications[key] = present(blocks)
}

// CountRules adds one to the histogram for each activation's repository.
func (a *Aggregator) CountRules(rules []schema.ActiveRule) {
	for _, r := range rules {
		a.rules[r.RuleRepository]++
	}
}

// Apply decodes data as the matched kind and folds it in. The kind picks
// the framing: one whole message, or a stream of length-delimited ones.
// On error nothing is folded and the error is returned.
func (a *Aggregator) Apply(m classify.Match, data []byte) error {
	if m.Kind.Delimited() {
		return a.applyDelimited(m, data)
	}
	return a.applyWhole(m, data)
}

func (a *Aggregator) applyWhole(m classify.Match, data []byte) error {
	if m.Kind != schema.UnitKind {
		return fmt.Errorf("aggregate: unsupported record kind %s", m.Kind)
	}
	c, err := wire.DecodeWhole(data, reportpb.UnmarshalComponent)
	if err != nil {
		return err
	}
	a.PutUnit(m.Key, c)
	return nil
}

func (a *Aggregator) applyDelimited(m classify.Match, data []byte) error {
	switch m.Kind {
	case schema.FindingKind:
		issues, err := wire.DecodeDelimited(data, a.limits, reportpb.UnmarshalIssue)
		if err != nil {
			return err
		}
		a.PutIssues(m.Key, issues)
	case schema.CoverageKind:
		lines, err := wire.DecodeDelimited(data, a.limits, reportpb.UnmarshalLineCoverage)
		if err != nil {
			return err
		}
		a.PutCoverages(m.Key, lines)
	case schema.DuplicationKind:
		blocks, err := wire.DecodeDelimited(data, a.limits, reportpb.UnmarshalDuplication)
		if err != nil {
			return err
		}
		a.PutDuplications(m.Key, blocks)
	case schema.RuleActivationKind:
		rules, err := wire.DecodeDelimited(data, a.limits, reportpb.UnmarshalActiveRule)
		if err != nil {
			return err
		}
		a.CountRules(rules)
	default:
		return fmt.Errorf("aggregate: unsupported record kind %s", m.Kind)
	}
	return nil
}

// Orphans counts keyed list entries that have no unit. They are dropped
// by Assemble.
func (a *Aggregator) Orphans() int {
	return orphans(a.units, a.issues) + orphans(a.units, a.coverages) + orphans(a.units, a.duplications)
}

// Assemble builds the report with units in ascending key order. The
// collections are consumed; a second call returns an empty report.
func (a *Aggregator) Assemble() schema.Report {
	if a.assembled {
		return schema.Report{Rules: map[string]int{}, Units: []schema.UnitReport{}}
	}
	a.assembled = true

	keys := slices.Sorted(maps.Keys(a.units))
	units := make([]schema.UnitReport, 0, len(keys))
	for _, k := range keys {
		u := schema.UnitReport{Key: k, Component: a.units[k]}
		u.Issues = take(a.issues, k)
		u.Coverages = take(a.coverages, k)
		u.Duplications = take(a.duplications, k)
		units = append(units, u)
	}
	report := schema.Report{Rules: a.rules, Units: units}

	a.units = make(map[string]schema.Component)
	a.issues = make(map[string][]schema.Issue)
	a.coverages = make(map[string][]schema.LineCoverage)
	a.duplications = make(map[string][]schema.Duplication)
	a.rules = make(map[string]int)
	return report
}

func present[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func orphans[T any](units map[string]schema.Component, m map[string][]T) int {
	n := 0
	for k := range m {
		if _, ok := units[k]; !ok {
			n++
		}
	}
	return n
}

func take[T any](m map[string][]T, key string) []T {
	v, ok := m[key]
	if !ok {
		return nil
	}
	delete(m, key)
	return v
}
