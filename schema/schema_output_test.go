package schema_test

import (
	"testing"

	"github.com/huangsam/scanreport/schema"
	"github.com/stretchr/testify/assert"
)

func TestGetCoverageLabel(t *testing.T) {
	tests := []struct {
		name     string
		summary  schema.UnitSummary
		expected string
	}{
		{"No Coverage Entry", schema.UnitSummary{}, "None"},
		{"Empty Coverage Entry", schema.UnitSummary{HasCoverage: true}, "None"},
		{"Good Upper", schema.UnitSummary{HasCoverage: true, ExecutableLines: 10, CoveredLines: 10}, "Good"},
		{"Good Lower", schema.UnitSummary{HasCoverage: true, ExecutableLines: 10, CoveredLines: 8}, "Good"},
		{"Fair Upper", schema.UnitSummary{HasCoverage: true, ExecutableLines: 10, CoveredLines: 7}, "Fair"},
		{"Fair Lower", schema.UnitSummary{HasCoverage: true, ExecutableLines: 10, CoveredLines: 5}, "Fair"},
		{"Low", schema.UnitSummary{HasCoverage: true, ExecutableLines: 10, CoveredLines: 1}, "Low"},
		{"Nothing Covered", schema.UnitSummary{HasCoverage: true, ExecutableLines: 3}, "Low"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, schema.GetCoverageLabel(tt.summary))
		})
	}
}

func TestEnrichUnits(t *testing.T) {
	units := []schema.UnitSummary{
		{Key: "1", HasCoverage: true, ExecutableLines: 4, CoveredLines: 4},
		{Key: "2"},
		{Key: "3", HasCoverage: true, ExecutableLines: 4, CoveredLines: 1},
	}

	enriched := schema.EnrichUnits(units)

	assert.Len(t, enriched, 3)
	assert.Equal(t, 1, enriched[0].Rank)
	assert.Equal(t, "Good", enriched[0].Label)
	assert.Equal(t, 2, enriched[1].Rank)
	assert.Equal(t, "None", enriched[1].Label)
	assert.Equal(t, 3, enriched[2].Rank)
	assert.Equal(t, "Low", enriched[2].Label)
	assert.Equal(t, "3", enriched[2].Key)
}
