package schema

// ComponentType mirrors the scanner's component type enum.
type ComponentType int32

// Component types written by the scanner.
const (
	UnsetComponent   ComponentType = 0
	ProjectComponent ComponentType = 1
	ModuleComponent  ComponentType = 2
	DirComponent     ComponentType = 3
	FileComponent    ComponentType = 4
)

// Severity mirrors the scanner's severity enum.
type Severity int32

// Severities written by the scanner.
const (
	UnsetSeverity Severity = 0
	InfoSeverity  Severity = 1
	MinorSeverity Severity = 2
	MajorSeverity Severity = 3
	CritSeverity  Severity = 4
	BlockSeverity Severity = 5
)

// String returns the scanner's upper-case severity name.
func (s Severity) String() string {
	switch s {
	case InfoSeverity:
		return "INFO"
	case MinorSeverity:
		return "MINOR"
	case MajorSeverity:
		return "MAJOR"
	case CritSeverity:
		return "CRITICAL"
	case BlockSeverity:
		return "BLOCKER"
	default:
		return "UNSET"
	}
}

// Component is one analyzed file or the project root (a "unit").
type Component struct {
	Ref                 int32         `json:"ref" cbor:"1,keyasint"`
	Name                string        `json:"name,omitempty" cbor:"2,keyasint,omitempty"`
	Type                ComponentType `json:"type" cbor:"3,keyasint"`
	IsTest              bool          `json:"is_test" cbor:"4,keyasint"`
	Language            string        `json:"language,omitempty" cbor:"5,keyasint,omitempty"`
	ChildRefs           []int32       `json:"child_refs,omitempty" cbor:"6,keyasint,omitempty"`
	Key                 string        `json:"key" cbor:"7,keyasint"`
	Lines               int32         `json:"lines,omitempty" cbor:"8,keyasint,omitempty"`
	Status              int32         `json:"status,omitempty" cbor:"9,keyasint,omitempty"`
	ProjectRelativePath string        `json:"project_relative_path" cbor:"10,keyasint"` // Empty for the root unit
}

// TextRange locates a span of a source file.
type TextRange struct {
	StartLine   int32 `json:"start_line" cbor:"1,keyasint"`
	EndLine     int32 `json:"end_line" cbor:"2,keyasint"`
	StartOffset int32 `json:"start_offset" cbor:"3,keyasint"`
	EndOffset   int32 `json:"end_offset" cbor:"4,keyasint"`
}

// FlowLocation is one step of an issue flow.
type FlowLocation struct {
	ComponentRef int32      `json:"component_ref" cbor:"1,keyasint"`
	TextRange    *TextRange `json:"text_range,omitempty" cbor:"2,keyasint,omitempty"`
	Msg          string     `json:"msg,omitempty" cbor:"3,keyasint,omitempty"`
}

// Flow is an ordered list of secondary issue locations.
type Flow struct {
	Locations []FlowLocation `json:"locations" cbor:"1,keyasint"`
}

// Issue is a single finding raised on a unit.
type Issue struct {
	RuleRepository string     `json:"rule_repository" cbor:"1,keyasint"`
	RuleKey        string     `json:"rule_key" cbor:"2,keyasint"`
	Msg            string     `json:"msg,omitempty" cbor:"3,keyasint,omitempty"`
	Severity       Severity   `json:"severity" cbor:"4,keyasint"`
	Gap            float64    `json:"gap,omitempty" cbor:"5,keyasint,omitempty"`
	TextRange      *TextRange `json:"text_range,omitempty" cbor:"6,keyasint,omitempty"`
	Flows          []Flow     `json:"flows,omitempty" cbor:"7,keyasint,omitempty"`
}

// LineCoverage is the coverage of one executable line.
// Hits and CoveredConditions are oneof fields on the wire: nil means the
// field was not written, which is different from false or zero.
type LineCoverage struct {
	Line              int32  `json:"line" cbor:"1,keyasint"`
	Hits              *bool  `json:"hits,omitempty" cbor:"2,keyasint,omitempty"`
	Conditions        int32  `json:"conditions" cbor:"3,keyasint"`
	CoveredConditions *int32 `json:"covered_conditions,omitempty" cbor:"4,keyasint,omitempty"`
}

// Duplicate is one place a duplicated block also appears.
type Duplicate struct {
	OtherFileRef int32      `json:"other_file_ref,omitempty" cbor:"1,keyasint,omitempty"` // Zero when in the same file
	Range        *TextRange `json:"range,omitempty" cbor:"2,keyasint,omitempty"`
}

// Duplication is one duplicated block and all of its copies.
type Duplication struct {
	OriginPosition *TextRange  `json:"origin_position,omitempty" cbor:"1,keyasint,omitempty"`
	Duplicates     []Duplicate `json:"duplicates" cbor:"2,keyasint"`
}

// ActiveRule is one rule enabled in the quality profile used by the scan.
type ActiveRule struct {
	RuleRepository string            `json:"rule_repository"`
	RuleKey        string            `json:"rule_key"`
	Severity       Severity          `json:"severity"`
	Params         map[string]string `json:"params,omitempty"`
	UpdatedAt      int64             `json:"updated_at,omitempty"`
	QProfileKey    string            `json:"q_profile_key,omitempty"`
}
