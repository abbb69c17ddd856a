package reportpb

import "github.com/huangsam/scanreport/schema"

// UnmarshalComponent decodes a Component message.
func UnmarshalComponent(b []byte) (schema.Component, error) {
	var c schema.Component
	r := newFieldReader(b)
	for r.next() {
		switch r.num {
		case 1:
			c.Ref = r.int32()
		case 3:
			c.Name = r.string()
		case 4:
			c.Type = schema.ComponentType(r.int32())
		case 5:
			c.IsTest = r.bool()
		case 6:
			c.Language = r.string()
		case 7:
			c.ChildRefs = r.int32s(c.ChildRefs)
		case 10:
			c.Key = r.string()
		case 11:
			c.Lines = r.int32()
		case 13:
			c.Status = r.int32()
		case 14:
			c.ProjectRelativePath = r.string()
		default:
			r.skip()
		}
	}
	if r.err != nil {
		return schema.Component{}, r.err
	}
	return c, nil
}

// UnmarshalTextRange decodes a TextRange message.
func UnmarshalTextRange(b []byte) (schema.TextRange, error) {
	var t schema.TextRange
	r := newFieldReader(b)
	for r.next() {
		switch r.num {
		case 1:
			t.StartLine = r.int32()
		case 2:
			t.EndLine = r.int32()
		case 3:
			t.StartOffset = r.int32()
		case 4:
			t.EndOffset = r.int32()
		default:
			r.skip()
		}
	}
	if r.err != nil {
		return schema.TextRange{}, r.err
	}
	return t, nil
}

func unmarshalTextRangeRef(b []byte) (*schema.TextRange, error) {
	t, err := UnmarshalTextRange(b)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func unmarshalFlowLocation(b []byte) (schema.FlowLocation, error) {
	var l schema.FlowLocation
	r := newFieldReader(b)
	for r.next() {
		switch r.num {
		case 1:
			l.ComponentRef = r.int32()
		case 2:
			l.TextRange = embedded(r, unmarshalTextRangeRef)
		case 3:
			l.Msg = r.string()
		default:
			r.skip()
		}
	}
	if r.err != nil {
		return schema.FlowLocation{}, r.err
	}
	return l, nil
}

func unmarshalFlow(b []byte) (schema.Flow, error) {
	var f schema.Flow
	r := newFieldReader(b)
	for r.next() {
		switch r.num {
		case 1:
			loc := embedded(r, unmarshalFlowLocation)
			if r.err == nil {
				f.Locations = append(f.Locations, loc)
			}
		default:
			r.skip()
		}
	}
	if r.err != nil {
		return schema.Flow{}, r.err
	}
	return f, nil
}

// UnmarshalIssue decodes an Issue message.
func UnmarshalIssue(b []byte) (schema.Issue, error) {
	var i schema.Issue
	r := newFieldReader(b)
	for r.next() {
		switch r.num {
		case 1:
			i.RuleRepository = r.string()
		case 2:
			i.RuleKey = r.string()
		case 3:
			i.Msg = r.string()
		case 4:
			i.Severity = schema.Severity(r.int32())
		case 5:
			i.Gap = r.double()
		case 6:
			i.TextRange = embedded(r, unmarshalTextRangeRef)
		case 7:
			flow := embedded(r, unmarshalFlow)
			if r.err == nil {
				i.Flows = append(i.Flows, flow)
			}
		default:
			r.skip()
		}
	}
	if r.err != nil {
		return schema.Issue{}, r.err
	}
	return i, nil
}

// UnmarshalLineCoverage decodes a LineCoverage message.
// Hits and CoveredConditions stay nil unless their oneof was written.
func UnmarshalLineCoverage(b []byte) (schema.LineCoverage, error) {
	var c schema.LineCoverage
	r := newFieldReader(b)
	for r.next() {
		switch r.num {
		case 1:
			c.Line = r.int32()
		case 2:
			hits := r.bool()
			c.Hits = &hits
		case 3:
			c.Conditions = r.int32()
		case 4:
			covered := r.int32()
			c.CoveredConditions = &covered
		default:
			r.skip()
		}
	}
	if r.err != nil {
		return schema.LineCoverage{}, r.err
	}
	return c, nil
}

func unmarshalDuplicate(b []byte) (schema.Duplicate, error) {
	var d schema.Duplicate
	r := newFieldReader(b)
	for r.next() {
		switch r.num {
		case 1:
			d.OtherFileRef = r.int32()
		case 2:
			d.Range = embedded(r, unmarshalTextRangeRef)
		default:
			r.skip()
		}
	}
	if r.err != nil {
		return schema.Duplicate{}, r.err
	}
	return d, nil
}

// UnmarshalDuplication decodes a Duplication message.
func UnmarshalDuplication(b []byte) (schema.Duplication, error) {
	var d schema.Duplication
	r := newFieldReader(b)
	for r.next() {
		switch r.num {
		case 1:
			d.OriginPosition = embedded(r, unmarshalTextRangeRef)
		case 2:
			dup := embedded(r, unmarshalDuplicate)
			if r.err == nil {
				d.Duplicates = append(d.Duplicates, dup)
			}
		default:
			r.skip()
		}
	}
	if r.err != nil {
		return schema.Duplication{}, r.err
	}
	return d, nil
}

type paramEntry struct {
	key, value string
}

func unmarshalParamEntry(b []byte) (paramEntry, error) {
	var e paramEntry
	r := newFieldReader(b)
	for r.next() {
		switch r.num {
		case 1:
			e.key = r.string()
		case 2:
			e.value = r.string()
		default:
			r.skip()
		}
	}
	return e, r.err
}

// UnmarshalActiveRule decodes an ActiveRule message.
func UnmarshalActiveRule(b []byte) (schema.ActiveRule, error) {
	var a schema.ActiveRule
	r := newFieldReader(b)
	for r.next() {
		switch r.num {
		case 1:
			a.RuleRepository = r.string()
		case 2:
			a.RuleKey = r.string()
		case 3:
			a.Severity = schema.Severity(r.int32())
		case 4:
			e := embedded(r, unmarshalParamEntry)
			if r.err == nil {
				if a.Params == nil {
					a.Params = make(map[string]string)
				}
				a.Params[e.key] = e.value
			}
		case 5:
			a.UpdatedAt = r.int64()
		case 6:
			a.QProfileKey = r.string()
		default:
			r.skip()
		}
	}
	if r.err != nil {
		return schema.ActiveRule{}, r.err
	}
	return a, nil
}
