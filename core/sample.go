package core

import (
	"fmt"
	"io"
	"os"

	"github.com/huangsam/scanreport/internal/reportpb"
	"github.com/huangsam/scanreport/internal/wire"
	"github.com/huangsam/scanreport/schema"
	"github.com/klauspost/compress/zip"
)

// sampleEntry is one file of the demo archive.
type sampleEntry struct {
	name string
	data []byte
}

func delimited(msgs ...[]byte) []byte {
	out := []byte{}
	for _, m := range msgs {
		out = wire.AppendDelimited(out, m)
	}
	return out
}

func boolPtr(b bool) *bool    { return &b }
func int32Ptr(v int32) *int32 { return &v }

// sampleEntries builds a small project: a root, one covered source file,
// one test file with an empty coverage entry, and an orphan issue list.
func sampleEntries() []sampleEntry {
	source := schema.Component{
		Ref: 2, Name: "main.go", Type: schema.FileComponent, Language: "go",
		Key: "demo:src/main.go", Lines: 42, ProjectRelativePath: "src/main.go",
	}
	test := schema.Component{
		Ref: 3, Name: "main_test.go", Type: schema.FileComponent, Language: "go", IsTest: true,
		Key: "demo:src/main_test.go", Lines: 18, ProjectRelativePath: "src/main_test.go",
	}
	root := schema.Component{
		Ref: 1, Name: "demo", Type: schema.ProjectComponent, Key: "demo", ChildRefs: []int32{2, 3},
	}

	issues := delimited(
		reportpb.MarshalIssue(schema.Issue{
			RuleRepository: "go", RuleKey: "S1186", Msg: "Add a nested comment explaining why this function is empty.",
			Severity: schema.CritSeverity, TextRange: &schema.TextRange{StartLine: 12, EndLine: 12, EndOffset: 20},
		}),
		reportpb.MarshalIssue(schema.Issue{
			RuleRepository: "go", RuleKey: "S3776", Msg: "Refactor this function to reduce its Cognitive Complexity.",
			Severity: schema.MajorSeverity, Gap: 5, TextRange: &schema.TextRange{StartLine: 20, EndLine: 20},
			Flows: []schema.Flow{{Locations: []schema.FlowLocation{
				{ComponentRef: 2, TextRange: &schema.TextRange{StartLine: 24, EndLine: 24}, Msg: "+1"},
			}}},
		}),
	)
	coverages := delimited(
		reportpb.MarshalLineCoverage(schema.LineCoverage{Line: 10, Hits: boolPtr(true)}),
		reportpb.MarshalLineCoverage(schema.LineCoverage{Line: 11, Hits: boolPtr(true), Conditions: 2, CoveredConditions: int32Ptr(1)}),
		reportpb.MarshalLineCoverage(schema.LineCoverage{Line: 12, Hits: boolPtr(false)}),
		reportpb.MarshalLineCoverage(schema.LineCoverage{Line: 20, Hits: boolPtr(true)}),
	)
	duplications := delimited(reportpb.MarshalDuplication(schema.Duplication{
		OriginPosition: &schema.TextRange{StartLine: 30, EndLine: 40},
		Duplicates: []schema.Duplicate{
			{Range: &schema.TextRange{StartLine: 50, EndLine: 60}},
			{OtherFileRef: 3, Range: &schema.TextRange{StartLine: 5, EndLine: 15}},
		},
	}))
	rules := delimited(
		reportpb.MarshalActiveRule(schema.ActiveRule{RuleRepository: "go", RuleKey: "S1186", Severity: schema.CritSeverity, QProfileKey: "demo-way"}),
		reportpb.MarshalActiveRule(schema.ActiveRule{RuleRepository: "go", RuleKey: "S3776", Severity: schema.CritSeverity,
			Params: map[string]string{"threshold": "15"}, QProfileKey: "demo-way"}),
		reportpb.MarshalActiveRule(schema.ActiveRule{RuleRepository: "common-go", RuleKey: "DuplicatedBlocks", Severity: schema.MajorSeverity, QProfileKey: "demo-way"}),
	)
	orphan := delimited(reportpb.MarshalIssue(schema.Issue{RuleRepository: "go", RuleKey: "S100"}))

	return []sampleEntry{
		{"metadata.pb", []byte{}},
		{"component-1.pb", reportpb.MarshalComponent(root)},
		{"component-2.pb", reportpb.MarshalComponent(source)},
		{"component-3.pb", reportpb.MarshalComponent(test)},
		{"issues-2.pb", issues},
		{"coverages-2.pb", coverages},
		{"coverages-3.pb", []byte{}},
		{"duplications-2.pb", duplications},
		{"issues-9.pb", orphan},
		{"activerules.pb", rules},
	}
}

// WriteSampleArchive writes a small, valid report archive to w.
func WriteSampleArchive(w io.Writer) error {
	zw := zip.NewWriter(w)
	for _, e := range sampleEntries() {
		fw, err := zw.Create(e.name)
		if err != nil {
			return fmt.Errorf("sample %s: %w", e.name, err)
		}
		if _, err := fw.Write(e.data); err != nil {
			return fmt.Errorf("sample %s: %w", e.name, err)
		}
	}
	return zw.Close()
}

// ExecuteSample writes the demo archive to path.
// It serves as the main entry point for the 'sample' command.
func ExecuteSample(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteSampleArchive(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
