package outwriter

import (
	"testing"

	"github.com/huangsam/scanreport/internal/contract"
	"github.com/huangsam/scanreport/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

// sampleResult returns a root, a source file with coverage, issues and a
// duplication, and a test file with an empty coverage entry.
func sampleResult() schema.ScanResult {
	return schema.ScanResult{
		Archive: "/tmp/report.zip",
		Digest:  "feedface",
		Report: schema.Report{
			Rules: map[string]int{"go": 2, "common-go": 1},
			Units: []schema.UnitReport{
				{Key: "1", Component: schema.Component{Ref: 1, Key: "demo"}},
				{
					Key:       "2",
					Component: schema.Component{Ref: 2, Key: "demo:src/main.go", ProjectRelativePath: "src/main.go"},
					Issues:    []schema.Issue{{RuleKey: "S1"}, {RuleKey: "S2"}},
					Coverages: []schema.LineCoverage{
						{Line: 1, Hits: boolPtr(true), Conditions: 2},
						{Line: 2, Hits: boolPtr(false)},
					},
					Duplications: []schema.Duplication{{Duplicates: []schema.Duplicate{{}, {OtherFileRef: 3}}}},
				},
				{
					Key:       "3",
					Component: schema.Component{Ref: 3, Key: "demo:src/main_test.go", ProjectRelativePath: "src/main_test.go", IsTest: true},
					Coverages: []schema.LineCoverage{},
				},
			},
		},
		Stats: schema.ScanStats{Entries: 8, Decoded: 7, Unrecognized: 1},
	}
}

func TestFilterSummaries(t *testing.T) {
	all := schema.SummarizeUnits(sampleResult().Report.Units)

	tests := []struct {
		name string
		cfg  contract.Config
		keys []string
	}{
		{"everything", contract.Config{IncludeTests: true}, []string{"1", "2", "3"}},
		{"no tests", contract.Config{}, []string{"1", "2"}},
		{"path filter", contract.Config{IncludeTests: true, PathFilter: "src/"}, []string{"2", "3"}},
		{"limit", contract.Config{IncludeTests: true, ResultLimit: 2}, []string{"1", "2"}},
		{"filter and limit", contract.Config{IncludeTests: true, PathFilter: "src/", ResultLimit: 1}, []string{"2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterSummaries(all, &tt.cfg)
			keys := make([]string, 0, len(got))
			for _, s := range got {
				keys = append(keys, s.Key)
			}
			assert.Equal(t, tt.keys, keys)
		})
	}
}

func TestBuildReportView(t *testing.T) {
	cfg := &contract.Config{IncludeTests: true}
	view := BuildReportView(sampleResult(), cfg)

	assert.Equal(t, "/tmp/report.zip", view.Archive)
	assert.Equal(t, 2, view.Rules["go"])
	require.Len(t, view.Units, 3)
	assert.Equal(t, 1, view.Units[0].Rank)
	assert.Equal(t, schema.NoCoverageLabel, view.Units[0].Label)
	assert.Equal(t, schema.FairCoverageLabel, view.Units[1].Label)
	require.NotNil(t, view.Stats)
	assert.Equal(t, 7, view.Stats.Decoded)
}

func TestGetMaxTablePathWidth(t *testing.T) {
	assert.Equal(t, 15, GetMaxTablePathWidth(&contract.Config{Width: 40}))
	assert.Equal(t, 70, GetMaxTablePathWidth(&contract.Config{Width: 400}))
	assert.Equal(t, 40, GetMaxTablePathWidth(&contract.Config{Width: 100}))
	assert.Less(t, GetMaxTablePathWidth(&contract.Config{Width: 130, Detail: true}), GetMaxTablePathWidth(&contract.Config{Width: 130}))
}
