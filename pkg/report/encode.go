package report

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// fields is an insertion-ordered JSON object. Setting an existing key keeps
// its position, so derived values overwrite native attributes in place.
type fields struct {
	keys []string
	vals map[string]any
}

func newFields(capacity int) *fields {
	return &fields{keys: make([]string, 0, capacity), vals: make(map[string]any, capacity)}
}

func (f *fields) set(key string, val any) {
	if _, ok := f.vals[key]; !ok {
		f.keys = append(f.keys, key)
	}
	f.vals[key] = val
}

func (f *fields) remove(key string) {
	if _, ok := f.vals[key]; !ok {
		return
	}
	delete(f.vals, key)
	for i, k := range f.keys {
		if k == key {
			f.keys = append(f.keys[:i], f.keys[i+1:]...)
			return
		}
	}
}

func (f *fields) setString(key, val string) {
	if val != "" {
		f.set(key, val)
	}
}

func (f *fields) setCount(key string, n int) {
	if n > 0 {
		f.set(key, n)
	}
}

func (f *fields) setList(key string, vals []string) {
	if len(vals) > 0 {
		f.set(key, vals)
	}
}

// orderedFields lays out the record: native attributes first, then derived
// counts, the renamed name fields, invocation context and classification.
func (r *Record) orderedFields() *fields {
	f := newFields(len(r.Attrs) + 16)
	for _, a := range r.Attrs {
		f.set(a.Name, a.Value)
	}

	f.setCount("num_errors", r.NumErrors)
	f.setCount("num_failures", r.NumFailures)
	f.setCount("num_skipped", r.NumSkipped)
	if r.HasTime {
		if r.Time != nil {
			f.set("time", *r.Time)
		} else {
			f.set("time", nil)
		}
	}
	f.setList("parsing_errors", r.ParsingErrors)

	if r.TestName != nil {
		f.remove("name")
		f.set("test_name", *r.TestName)
	}
	if r.ClassName != nil {
		f.remove("classname")
		f.set("class_name", *r.ClassName)
	}

	f.setString("language", r.Language)
	f.setString("cxx_rel_test_binary", r.CxxRelTestBinary)
	f.setString("log_path", r.LogPath)
	f.setString("junit_xml_path", r.JUnitXMLPath)
	f.setList("fatal_details_paths", r.FatalDetailsPaths)
	f.setString("test_descriptor", r.TestDescriptor)
	f.setString("extra_error_log_path", r.ExtraErrorLogPath)

	f.setList("fail_tags", r.FailTags)
	f.setList("processing_errors", r.ProcessingErrors)
	return f
}

// MarshalJSON encodes the record with a stable key order.
func (r *Record) MarshalJSON() ([]byte, error) {
	f := r.orderedFields()
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range f.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeValue(&buf, k); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeValue(&buf, f.vals[k]); err != nil {
			return nil, fmt.Errorf("encode %s: %w", k, err)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// writeValue encodes v without HTML escaping.
func writeValue(buf *bytes.Buffer, v any) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}

// Encode serializes the report. A single record is written as an object,
// anything else as an array in record order.
func Encode(records []*Record) ([]byte, error) {
	var v any
	if len(records) == 1 {
		v = records[0]
	} else {
		list := make([]*Record, len(records))
		copy(list, records)
		v = list
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}
	return buf.Bytes(), nil
}
