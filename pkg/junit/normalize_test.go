package junit_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yugabyte/testreport/pkg/junit"
	"github.com/yugabyte/testreport/pkg/report"
)

const cxxFailure = `<?xml version="1.0" ?>
<testsuites disabled="0" errors="0" failures="1" name="AllTests" tests="1" time="0.125" timestamp="2019-03-07T23:04:23">
  <testsuite disabled="0" errors="0" failures="1" name="StringUtilTest" tests="1" time="0.125">
    <testcase classname="StringUtilTest" name="TestCollectionToString" status="run" time="0.125">
      <failure message="../../src/yb/gutil/strings/string_util-test.cc:110&#x0A;Failed" type=""><![CDATA[../../src/yb/gutil/strings/string_util-test.cc:110
Failed]]></failure>
    </testcase>
  </testsuite>
</testsuites>`

const javaSuite = `<?xml version="1.0" encoding="UTF-8"?>
<testsuite name="com.yugabyte.jedis.TestReadFromFollowers" time="11.383" tests="3" errors="1" skipped="1" failures="0">
  <properties>
    <property name="java.version" value="1.8"/>
  </properties>
  <testcase name="testSameZoneOps[1]" classname="com.yugabyte.jedis.TestReadFromFollowers" time="11.209">
    <error message="Could not get a resource from the pool" type="redis.clients.jedis.exceptions.JedisConnectionException">
      redis.clients.jedis.exceptions.JedisConnectionException
    </error>
    <system-out>...</system-out>
  </testcase>
  <testcase name="testPassing" classname="com.yugabyte.jedis.TestReadFromFollowers" time="1,275.516"/>
  <testcase name="testSkipped" classname="com.yugabyte.jedis.TestReadFromFollowers" time="0">
    <skipped/>
  </testcase>
</testsuite>`

func parse(t *testing.T, doc string) []*report.Record {
	t.Helper()
	root, err := junit.Parse(strings.NewReader(doc))
	require.NoError(t, err)
	return junit.Normalize(root)
}

func TestNormalize_CxxFailure(t *testing.T) {
	t.Parallel()

	records := parse(t, cxxFailure)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, 1, rec.NumFailures)
	assert.Zero(t, rec.NumErrors)
	assert.Zero(t, rec.NumSkipped)
	require.NotNil(t, rec.Time)
	assert.InDelta(t, 0.125, *rec.Time, 1e-9)
	require.NotNil(t, rec.TestName)
	assert.Equal(t, "TestCollectionToString", *rec.TestName)
	require.NotNil(t, rec.ClassName)
	assert.Equal(t, "StringUtilTest", *rec.ClassName)
	status, ok := rec.Attr("status")
	assert.True(t, ok)
	assert.Equal(t, "run", status)
	assert.True(t, rec.HasFailures())
}

func TestNormalize_JavaSuiteOrderAndCounts(t *testing.T) {
	t.Parallel()

	records := parse(t, javaSuite)
	require.Len(t, records, 3)

	assert.Equal(t, "testSameZoneOps[1]", *records[0].TestName)
	assert.Equal(t, 1, records[0].NumErrors)
	assert.Equal(t, "testPassing", *records[1].TestName)
	assert.False(t, records[1].HasFailures())
	assert.Equal(t, "testSkipped", *records[2].TestName)
	assert.Equal(t, 1, records[2].NumSkipped)
}

func TestNormalize_TimeWithThousandsSeparator(t *testing.T) {
	t.Parallel()

	records := parse(t, javaSuite)
	rec := records[1]
	require.NotNil(t, rec.Time)
	assert.InDelta(t, 1275.516, *rec.Time, 1e-9)
	assert.Empty(t, rec.ParsingErrors)
}

func TestNormalize_UnparsableTime(t *testing.T) {
	t.Parallel()

	records := parse(t, `<testsuite><testcase name="a" time="abc"/></testsuite>`)
	require.Len(t, records, 1)
	rec := records[0]
	assert.True(t, rec.HasTime)
	assert.Nil(t, rec.Time)
	require.Len(t, rec.ParsingErrors, 1)
	assert.Contains(t, rec.ParsingErrors[0], "Could not parse time: abc.")
	require.NotNil(t, rec.TestName, "record is kept after a parse error")
}

func TestNormalize_SkipCounting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
		want int
	}{
		{"notrun status", `<testsuite><testcase name="a" status="notrun"/></testsuite>`, 1},
		{"two skipped markers", `<testsuite><testcase name="a"><skipped/><skipped/></testcase></testsuite>`, 2},
		{"notrun plus marker", `<testsuite><testcase name="a" status="notrun"><skipped/></testcase></testsuite>`, 2},
		{"neither", `<testsuite><testcase name="a" status="run"/></testsuite>`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := parse(t, tt.doc)
			require.Len(t, records, 1)
			assert.Equal(t, tt.want, records[0].NumSkipped)
		})
	}
}

func TestNormalize_MultipleFailureMarkers(t *testing.T) {
	t.Parallel()

	records := parse(t, `<testsuite><testcase name="a"><failure/><failure/><error/></testcase></testsuite>`)
	require.Len(t, records, 1)
	assert.Equal(t, 2, records[0].NumFailures)
	assert.Equal(t, 1, records[0].NumErrors)
}

func TestNormalize_NestedSuitesInDocumentOrder(t *testing.T) {
	t.Parallel()

	doc := `<testsuites>
  <testsuite name="A"><testcase name="a1"/><testcase name="a2"/></testsuite>
  <testsuite name="B"><testsuite name="B.inner"><testcase name="b1"/></testsuite><testcase name="b2"/></testsuite>
</testsuites>`
	records := parse(t, doc)
	var names []string
	for _, r := range records {
		names = append(names, *r.TestName)
	}
	assert.Equal(t, []string{"a1", "a2", "b1", "b2"}, names)
}

func TestNormalize_MissingNameAttributes(t *testing.T) {
	t.Parallel()

	records := parse(t, `<testsuite><testcase time="1"/></testsuite>`)
	require.Len(t, records, 1)
	assert.Nil(t, records[0].TestName)
	assert.Nil(t, records[0].ClassName)
}

func TestNormalize_NoTestCases(t *testing.T) {
	t.Parallel()

	assert.Empty(t, parse(t, `<testsuites/>`))
}

func TestParse_Malformed(t *testing.T) {
	t.Parallel()

	for _, doc := range []string{
		"",
		"not xml at all",
		"<testsuite><testcase></testsuite>",
		"<testsuite>",
		"<a/><b/>",
	} {
		_, err := junit.Parse(strings.NewReader(doc))
		assert.ErrorIs(t, err, junit.ErrMalformedDocument, "%q", doc)
	}
}

func TestParse_Latin1Encoding(t *testing.T) {
	t.Parallel()

	doc := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?><testsuite><testcase name=\"caf\xe9\"/></testsuite>"
	records := parse(t, doc)
	require.Len(t, records, 1)
	assert.Equal(t, "café", *records[0].TestName)
}

func TestNormalizeFile_Missing(t *testing.T) {
	t.Parallel()

	_, err := junit.NormalizeFile(filepath.Join(t.TempDir(), "missing.xml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseTime(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"0.125", 0.125, false},
		{"1,275.516", 1275.516, false},
		{" 3 ", 3, false},
		{"abc", 0, true},
		{"", 0, true},
		{"NaN", 0, true},
		{"1e400", 0, true},
	}
	for _, tt := range tests {
		got, err := junit.ParseTime(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.InDelta(t, tt.want, got, 1e-9, tt.in)
	}
}
