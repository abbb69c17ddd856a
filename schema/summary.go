package schema

// UnitSummary condenses one UnitReport into the counters shown to users.
type UnitSummary struct {
	Key               string `json:"key"`
	Ref               int32  `json:"ref"`
	Path              string `json:"path"`
	ComponentKey      string `json:"component_key"`
	IsRoot            bool   `json:"is_root"`
	IsTest            bool   `json:"is_test"`
	Issues            int    `json:"issues"`
	HasCoverage       bool   `json:"has_coverage"`
	ExecutableLines   int    `json:"executable_lines"`
	CoveredLines      int    `json:"covered_lines"`
	Conditions        int    `json:"conditions"`
	CoveredConditions int    `json:"covered_conditions"`
	HasDuplications   bool   `json:"has_duplications"`
	DuplicatedBlocks  int    `json:"duplicated_blocks"`
	DuplicatePlaces   int    `json:"duplicate_places"`
}

// IsRootComponent reports whether a component is the project root.
// The scanner always writes the root as ref 1 without a relative path.
func IsRootComponent(c Component) bool {
	return c.Ref == 1 && c.ProjectRelativePath == ""
}

// Summarize computes the counters for a single unit.
func Summarize(u UnitReport) UnitSummary {
	s := UnitSummary{
		Key:             u.Key,
		Ref:             u.Component.Ref,
		Path:            u.Component.ProjectRelativePath,
		ComponentKey:    u.Component.Key,
		IsRoot:          IsRootComponent(u.Component),
		IsTest:          u.Component.IsTest,
		Issues:          len(u.Issues),
		HasCoverage:     u.Coverages != nil,
		HasDuplications: u.Duplications != nil,
	}
	for _, c := range u.Coverages {
		s.ExecutableLines++
		if c.Hits != nil && *c.Hits {
			s.CoveredLines++
		}
		s.Conditions += int(c.Conditions)
		if c.CoveredConditions != nil {
			s.CoveredConditions += int(*c.CoveredConditions)
		}
	}
	s.DuplicatedBlocks = len(u.Duplications)
	for _, d := range u.Duplications {
		s.DuplicatePlaces += len(d.Duplicates)
	}
	return s
}

// SummarizeUnits summarizes every unit of a report, keeping report order.
func SummarizeUnits(units []UnitReport) []UnitSummary {
	out := make([]UnitSummary, len(units))
	for i, u := range units {
		out[i] = Summarize(u)
	}
	return out
}

// LineCoverageRatio returns covered/executable lines in [0, 1].
// Units without executable lines report 0.
func (s UnitSummary) LineCoverageRatio() float64 {
	if s.ExecutableLines == 0 {
		return 0
	}
	return float64(s.CoveredLines) / float64(s.ExecutableLines)
}
