package report

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

func floatptr(f float64) *float64 { return &f }

func TestMarshalJSON_KeyOrder(t *testing.T) {
	rec := &Record{
		Attrs: []Attr{
			{Name: "classname", Value: "StringUtilTest"},
			{Name: "name", Value: "TestCollectionToString"},
			{Name: "status", Value: "run"},
			{Name: "time", Value: "0.125"},
		},
		NumFailures:  1,
		HasTime:      true,
		Time:         floatptr(0.125),
		TestName:     strptr("TestCollectionToString"),
		ClassName:    strptr("StringUtilTest"),
		Language:     "cxx",
		LogPath:      "build/test.log",
		JUnitXMLPath: "build/test.xml",
		FailTags:     []string{"gtest"},
	}

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Equal(t,
		`{"status":"run","time":0.125,"num_failures":1,"test_name":"TestCollectionToString",`+
			`"class_name":"StringUtilTest","language":"cxx","log_path":"build/test.log",`+
			`"junit_xml_path":"build/test.xml","fail_tags":["gtest"]}`,
		string(data))
}

func TestMarshalJSON_SparseFields(t *testing.T) {
	rec := &Record{
		Attrs:    []Attr{{Name: "name", Value: "ok"}},
		TestName: strptr("ok"),
		Language: "java",
	}

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	for _, key := range []string{"num_errors", "num_failures", "num_skipped", "fail_tags",
		"processing_errors", "parsing_errors", "time", "fatal_details_paths", "name"} {
		assert.NotContains(t, got, key)
	}
	assert.Equal(t, "ok", got["test_name"])
}

func TestMarshalJSON_UnparsableTimeIsNull(t *testing.T) {
	rec := &Record{
		Attrs:         []Attr{{Name: "time", Value: "abc"}},
		HasTime:       true,
		ParsingErrors: []string{"Could not parse time: abc."},
	}

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Equal(t, `{"time":null,"parsing_errors":["Could not parse time: abc."]}`, string(data))
}

func TestMarshalJSON_DerivedOverwritesNativeInPlace(t *testing.T) {
	rec := &Record{
		Attrs:    []Attr{{Name: "language", Value: "native"}, {Name: "x", Value: "<y>"}},
		Language: "cxx",
	}

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Equal(t, `{"language":"cxx","x":"<y>"}`, string(data))
}

func TestEncode_SingleRecordIsObject(t *testing.T) {
	data, err := Encode([]*Record{{Language: "cxx"}})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"language\": \"cxx\"\n}\n", string(data))
}

func TestEncode_ManyRecordsIsArray(t *testing.T) {
	data, err := Encode([]*Record{{TestName: strptr("a")}, {TestName: strptr("b")}})
	require.NoError(t, err)

	var got []map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0]["test_name"])
	assert.Equal(t, "b", got[1]["test_name"])
}

func TestEncode_NoRecordsIsEmptyArray(t *testing.T) {
	data, err := Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"build/test-results/TEST-foo.xml", "build/test-results/TEST-foo_test_report.json"},
		{"out/archive.tar.xml", "out/archive.tar_test_report.json"},
		{"out/noext", "out/noext_test_report.json"},
		{"out/.hidden", "out/.hidden_test_report.json"},
		{"out/..dots.xml", "out/..dots_test_report.json"},
		{"dir.d/result", "dir.d/result_test_report.json"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, OutputPath(tt.in))
		})
	}
}

func TestEmitter_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "r_test_report.json")
	err := NewEmitter(nil).Emit([]*Record{{Language: "java"}}, path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"language":"java"}`, string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestEmitter_ValidationFailureWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "r_test_report.json")
	boom := errors.New("boom")
	err := NewEmitter(func([]byte) error { return boom }).Emit([]*Record{{}}, path)
	require.ErrorIs(t, err, boom)
	assert.NoFileExists(t, path)
}

func TestRecord_StatusAndName(t *testing.T) {
	assert.Equal(t, "fail", (&Record{NumErrors: 1}).Status())
	assert.Equal(t, "skip", (&Record{NumSkipped: 1}).Status())
	assert.Equal(t, "pass", (&Record{}).Status())
	assert.Equal(t, "A.b", (&Record{ClassName: strptr("A"), TestName: strptr("b")}).DisplayName())
	assert.Equal(t, "b", (&Record{TestName: strptr("b")}).DisplayName())
}

func TestRecord_AddProcessingErrorDeduplicates(t *testing.T) {
	r := &Record{}
	r.AddProcessingError("x")
	r.AddProcessingError("x")
	r.AddProcessingError("y")
	assert.Equal(t, []string{"x", "y"}, r.ProcessingErrors)
}
