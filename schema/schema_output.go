package schema

// EnrichedUnitSummary adds presentation data to a UnitSummary.
type EnrichedUnitSummary struct {
	Rank  int    `json:"rank"`
	Label string `json:"coverage_label"`
	UnitSummary
}

// ReportView is the JSON shape of a fully rendered report.
type ReportView struct {
	Archive string                `json:"archive"`
	Rules   map[string]int        `json:"rules"`
	Units   []EnrichedUnitSummary `json:"units"`
	Stats   *ScanStats            `json:"stats,omitempty"`
}

// Coverage label values.
const (
	NoCoverageLabel   = "None"
	LowCoverageLabel  = "Low"
	FairCoverageLabel = "Fair"
	GoodCoverageLabel = "Good"
)

// GetCoverageLabel returns a plain text label for a unit's line coverage.
// This is the core logic used for CSV, JSON, and table printing.
func GetCoverageLabel(s UnitSummary) string {
	if !s.HasCoverage || s.ExecutableLines == 0 {
		return NoCoverageLabel
	}
	ratio := s.LineCoverageRatio()
	switch {
	case ratio >= 0.8:
		return GoodCoverageLabel
	case ratio >= 0.5:
		return FairCoverageLabel
	default:
		return LowCoverageLabel
	}
}

// EnrichUnits adds rank and label to a list of unit summaries.
func EnrichUnits(units []UnitSummary) []EnrichedUnitSummary {
	output := make([]EnrichedUnitSummary, len(units))
	for i, u := range units {
		output[i] = EnrichedUnitSummary{
			Rank:        i + 1,
			Label:       GetCoverageLabel(u),
			UnitSummary: u,
		}
	}
	return output
}
