package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func boolPtr(b bool) *bool    { return &b }
func int32Ptr(v int32) *int32 { return &v }

func TestSummarize(t *testing.T) {
	u := UnitReport{
		Key:       "3",
		Component: Component{Ref: 3, Key: "proj:src/a.go", ProjectRelativePath: "src/a.go"},
		Issues:    []Issue{{RuleRepository: "go"}, {RuleRepository: "go"}},
		Coverages: []LineCoverage{
			{Line: 1, Hits: boolPtr(true), Conditions: 2, CoveredConditions: int32Ptr(1)},
			{Line: 2, Hits: boolPtr(false), Conditions: 0},
			{Line: 3, Conditions: 4, CoveredConditions: int32Ptr(4)},
		},
		Duplications: []Duplication{
			{Duplicates: []Duplicate{{OtherFileRef: 4}, {}}},
			{Duplicates: []Duplicate{{OtherFileRef: 5}}},
		},
	}

	s := Summarize(u)

	assert.Equal(t, "3", s.Key)
	assert.Equal(t, int32(3), s.Ref)
	assert.Equal(t, "src/a.go", s.Path)
	assert.False(t, s.IsRoot)
	assert.Equal(t, 2, s.Issues)
	assert.True(t, s.HasCoverage)
	assert.Equal(t, 3, s.ExecutableLines)
	assert.Equal(t, 1, s.CoveredLines)
	assert.Equal(t, 6, s.Conditions)
	assert.Equal(t, 5, s.CoveredConditions)
	assert.True(t, s.HasDuplications)
	assert.Equal(t, 2, s.DuplicatedBlocks)
	assert.Equal(t, 3, s.DuplicatePlaces)
	assert.InDelta(t, 1.0/3.0, s.LineCoverageRatio(), 1e-9)
}

func TestSummarizeAbsentVersusEmpty(t *testing.T) {
	absent := Summarize(UnitReport{Component: Component{Ref: 1}})
	assert.True(t, absent.IsRoot)
	assert.False(t, absent.HasCoverage)
	assert.False(t, absent.HasDuplications)
	assert.Zero(t, absent.LineCoverageRatio())

	empty := Summarize(UnitReport{
		Component:    Component{Ref: 2, ProjectRelativePath: "b.go"},
		Coverages:    []LineCoverage{},
		Duplications: []Duplication{},
	})
	assert.False(t, empty.IsRoot)
	assert.True(t, empty.HasCoverage)
	assert.True(t, empty.HasDuplications)
	assert.Zero(t, empty.ExecutableLines)
}

func TestRecordKind(t *testing.T) {
	assert.Equal(t, "unit", UnitKind.String())
	assert.Equal(t, "rule-activation", RuleActivationKind.String())
	assert.Equal(t, "unknown", UnknownKind.String())
	assert.False(t, UnitKind.Delimited())
	assert.True(t, FindingKind.Delimited())
	assert.True(t, CoverageKind.Delimited())
	assert.True(t, DuplicationKind.Delimited())
	assert.True(t, RuleActivationKind.Delimited())
	assert.Equal(t, "CRITICAL", CritSeverity.String())
}
