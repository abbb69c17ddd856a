package reportpb

import (
	"slices"

	"github.com/huangsam/scanreport/schema"
	"google.golang.org/protobuf/encoding/protowire"
)

// MarshalComponent encodes a Component message.
func MarshalComponent(c schema.Component) []byte {
	var b []byte
	b = appendInt32(b, 1, c.Ref)
	b = appendString(b, 3, c.Name)
	b = appendInt32(b, 4, int32(c.Type))
	b = appendBool(b, 5, c.IsTest)
	b = appendString(b, 6, c.Language)
	b = appendPackedInt32s(b, 7, c.ChildRefs)
	b = appendString(b, 10, c.Key)
	b = appendInt32(b, 11, c.Lines)
	b = appendInt32(b, 13, c.Status)
	b = appendString(b, 14, c.ProjectRelativePath)
	return b
}

// MarshalTextRange encodes a TextRange message.
func MarshalTextRange(t schema.TextRange) []byte {
	var b []byte
	b = appendInt32(b, 1, t.StartLine)
	b = appendInt32(b, 2, t.EndLine)
	b = appendInt32(b, 3, t.StartOffset)
	b = appendInt32(b, 4, t.EndOffset)
	return b
}

func appendTextRange(b []byte, num protowire.Number, t *schema.TextRange) []byte {
	if t == nil {
		return b
	}
	return appendMessage(b, num, MarshalTextRange(*t))
}

// MarshalIssue encodes an Issue message.
func MarshalIssue(i schema.Issue) []byte {
	var b []byte
	b = appendString(b, 1, i.RuleRepository)
	b = appendString(b, 2, i.RuleKey)
	b = appendString(b, 3, i.Msg)
	b = appendInt32(b, 4, int32(i.Severity))
	b = appendDouble(b, 5, i.Gap)
	b = appendTextRange(b, 6, i.TextRange)
	for _, f := range i.Flows {
		var flow []byte
		for _, l := range f.Locations {
			var loc []byte
			loc = appendInt32(loc, 1, l.ComponentRef)
			loc = appendTextRange(loc, 2, l.TextRange)
			loc = appendString(loc, 3, l.Msg)
			flow = appendMessage(flow, 1, loc)
		}
		b = appendMessage(b, 7, flow)
	}
	return b
}

// MarshalLineCoverage encodes a LineCoverage message.
// Set oneof fields are written even when they hold a zero value.
func MarshalLineCoverage(c schema.LineCoverage) []byte {
	var b []byte
	b = appendInt32(b, 1, c.Line)
	if c.Hits != nil {
		b = appendOneofVarint(b, 2, protowire.EncodeBool(*c.Hits))
	}
	b = appendInt32(b, 3, c.Conditions)
	if c.CoveredConditions != nil {
		b = appendOneofVarint(b, 4, uint64(int64(*c.CoveredConditions)))
	}
	return b
}

// MarshalDuplication encodes a Duplication message.
func MarshalDuplication(d schema.Duplication) []byte {
	var b []byte
	b = appendTextRange(b, 1, d.OriginPosition)
	for _, dup := range d.Duplicates {
		var m []byte
		m = appendInt32(m, 1, dup.OtherFileRef)
		m = appendTextRange(m, 2, dup.Range)
		b = appendMessage(b, 2, m)
	}
	return b
}

// MarshalActiveRule encodes an ActiveRule message. Params are written in key order.
func MarshalActiveRule(a schema.ActiveRule) []byte {
	var b []byte
	b = appendString(b, 1, a.RuleRepository)
	b = appendString(b, 2, a.RuleKey)
	b = appendInt32(b, 3, int32(a.Severity))
	keys := make([]string, 0, len(a.Params))
	for k := range a.Params {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		var e []byte
		e = appendString(e, 1, k)
		e = appendString(e, 2, a.Params[k])
		b = appendMessage(b, 4, e)
	}
	b = appendInt64(b, 5, a.UpdatedAt)
	b = appendString(b, 6, a.QProfileKey)
	return b
}
