package schema

import "time"

// RunRecord represents a row from the scanreport_runs table.
type RunRecord struct {
	RunID         int64
	ArchivePath   string
	ArchiveDigest string
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	TotalUnits    int32
	DecodeErrors  int32
	ConfigParams  *string
}

// UnitSummaryRecord represents a row from the scanreport_unit_summaries table.
type UnitSummaryRecord struct {
	RunID             int64
	UnitKey           string
	Ref               int32
	Path              string
	IsTest            bool
	Issues            int32
	HasCoverage       bool
	ExecutableLines   int32
	CoveredLines      int32
	Conditions        int32
	CoveredConditions int32
	DuplicatedBlocks  int32
	DuplicatePlaces   int32
}
