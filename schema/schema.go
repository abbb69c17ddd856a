// Package schema has configs, models and global constants for all parts of scanreport.
package schema

// RecordKind is the classification of a report part inside the archive.
type RecordKind int

// All record kinds found in a scanner report archive.
const (
	UnknownKind        RecordKind = iota
	UnitKind                      // component-<ref>.pb, one whole message
	FindingKind                   // issues-<ref>.pb, length-delimited
	CoverageKind                  // coverages-<ref>.pb, length-delimited
	DuplicationKind               // duplications-<ref>.pb, length-delimited
	RuleActivationKind            // activerules.pb, length-delimited
)

// String returns the name used in logs and diagnostics.
func (k RecordKind) String() string {
	switch k {
	case UnitKind:
		return "unit"
	case FindingKind:
		return "finding"
	case CoverageKind:
		return "coverage"
	case DuplicationKind:
		return "duplication"
	case RuleActivationKind:
		return "rule-activation"
	default:
		return "unknown"
	}
}

// Delimited reports whether entries of this kind hold a stream of
// length-delimited messages rather than a single whole message.
func (k RecordKind) Delimited() bool {
	switch k {
	case FindingKind, CoverageKind, DuplicationKind, RuleActivationKind:
		return true
	default:
		return false
	}
}

// Report is the assembled view of a whole scanner report archive.
// It is built once and only read afterwards.
type Report struct {
	Rules map[string]int `json:"rules" cbor:"1,keyasint"` // Rule repository -> activation count
	Units []UnitReport   `json:"units" cbor:"2,keyasint"` // Ordered by ascending join key
}

// UnitReport pairs one component with the data that referenced its key.
// A nil slice means no entry was found for the unit; a non-nil empty slice
// means the entry was present but held zero records.
type UnitReport struct {
	Key          string         `json:"key" cbor:"1,keyasint"`
	Component    Component      `json:"component" cbor:"2,keyasint"`
	Issues       []Issue        `json:"issues" cbor:"3,keyasint"`
	Coverages    []LineCoverage `json:"coverages" cbor:"4,keyasint"`
	Duplications []Duplication  `json:"duplications" cbor:"5,keyasint"`
}

// ScanStats counts what happened to each archive entry during a scan.
type ScanStats struct {
	Entries      int `json:"entries"`       // Entries visited (files only)
	Decoded      int `json:"decoded"`       // Entries folded into the report
	Unrecognized int `json:"unrecognized"`  // Names matching no known prefix
	ReadErrors   int `json:"read_errors"`   // Entries that could not be read
	DecodeErrors int `json:"decode_errors"` // Entries dropped on malformed bytes
	Orphans      int `json:"orphans"`       // Keyed entries with no matching unit
}

// ScanResult is one decoded archive plus how it was produced.
type ScanResult struct {
	Archive  string    // Absolute archive path
	Digest   string    // BLAKE3 hex digest of the archive bytes
	Report   Report    // Assembled report
	Stats    ScanStats // Per-entry outcome counters
	CacheHit bool      // Report came from the cache store
}
