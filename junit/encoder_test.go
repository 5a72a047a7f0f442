package junit

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_GivenReport_WhenMarshalling_ThenWritesIndentedJunitXML(t *testing.T) {
	// Given
	report := TestSuites{TestSuites: []TestSuite{
		{
			Name:       "F1",
			Package:    "F1",
			ID:         "f1",
			Timestamp:  "--",
			Hostname:   Hostname,
			Tests:      2,
			Failures:   1,
			Duration:   5 * time.Microsecond,
			Properties: []Property{TagProperty("@smoke")},
			TestCases: []TestCase{
				{Name: "S1", Classname: "F1", Duration: 2 * time.Microsecond},
				{Name: "S2", Classname: "F1", Duration: 3 * time.Microsecond, Failure: NewFailure("Error: expected true")},
			},
		},
	}}

	// When
	out, err := Marshal(report, Options{})

	// Then
	require.NoError(t, err)
	expected := `<testsuites>
    <testsuite name="F1" package="F1" id="f1" timestamp="--" hostname="localhost" tests="2" failures="1" errors="0" time="0.005">
        <property name="@smoke" value="true"/>
        <testcase name="S1" classname="F1" time="0.002"></testcase>
        <testcase name="S2" classname="F1" time="0.003">
            <failure message="Error: expected true" type="Error:">Error: expected true</failure>
        </testcase>
    </testsuite>
</testsuites>`
	assert.Equal(t, expected, string(out))
}

func Test_GivenSkippedCase_WhenMarshalling_ThenWritesSkippedElement(t *testing.T) {
	// Given
	report := TestSuites{TestSuites: []TestSuite{
		{Name: "F", TestCases: []TestCase{{Name: "S", Classname: "F", Skipped: &Skipped{}}}},
	}}

	// When
	out, err := Marshal(report, Options{Indent: "  "})

	// Then
	require.NoError(t, err)
	assert.Contains(t, string(out), "\n    <testcase name=\"S\" classname=\"F\" time=\"0\">\n      <skipped message=\"\"/>\n    </testcase>")
}

func Test_GivenNoSuites_WhenMarshalling_ThenWritesPlaceholderSuite(t *testing.T) {
	// When
	out, err := Marshal(TestSuites{}, Options{})

	// Then
	require.NoError(t, err)
	assert.Equal(t, "<testsuites>\n    <testsuite></testsuite>\n</testsuites>", string(out))
}

func Test_GivenDeclaration_WhenMarshalling_ThenWritesItFirst(t *testing.T) {
	tests := []struct {
		name        string
		declaration Declaration
		expected    string
	}{
		{
			name:        "defaults to UTF-8",
			declaration: Declaration{},
			expected:    `<?xml version="1.0" encoding="UTF-8"?>`,
		},
		{
			name:        "custom encoding and standalone",
			declaration: Declaration{Encoding: "ISO-8859-1", Standalone: "yes"},
			expected:    `<?xml version="1.0" encoding="ISO-8859-1" standalone="yes"?>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			declaration := tt.declaration

			out, err := Marshal(TestSuites{}, Options{Declaration: &declaration})

			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(string(out), tt.expected+"\n<testsuites>"), string(out))
		})
	}
}

func Test_GivenSpecialCharacters_WhenMarshalling_ThenEscapesThem(t *testing.T) {
	// Given
	report := TestSuites{TestSuites: []TestSuite{
		{
			Name: `a "quoted" <name> & more`,
			TestCases: []TestCase{
				{Name: "S", Failure: NewFailure("Error: <b> & \"c\"\nsecond line")},
			},
		},
	}}

	// When
	out, err := Marshal(report, Options{})

	// Then
	require.NoError(t, err)
	assert.Contains(t, string(out), `name="a &#34;quoted&#34; &lt;name&gt; &amp; more"`)
	assert.Contains(t, string(out), `message="Error: &lt;b&gt; &amp; &#34;c&#34;" type="Error:">Error: &lt;b&gt; &amp; &#34;c&#34;`+"\nsecond line</failure>")
}

type countingWriter struct {
	bytes.Buffer
	writes int
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.writes++
	return w.Buffer.Write(p)
}

func Test_GivenStreamMode_WhenEncodingSuites_ThenFlushesEachSuite(t *testing.T) {
	// Given
	w := &countingWriter{}
	enc := NewEncoder(w, Options{Stream: true})
	require.NoError(t, enc.Begin())

	// When
	require.NoError(t, enc.EncodeSuite(TestSuite{Name: "first"}))
	afterFirst := w.String()
	require.NoError(t, enc.EncodeSuite(TestSuite{Name: "second"}))
	require.NoError(t, enc.End())

	// Then
	assert.Contains(t, afterFirst, `name="first"`)
	assert.NotContains(t, afterFirst, `name="second"`)
	assert.GreaterOrEqual(t, w.writes, 3)
	assert.True(t, strings.HasSuffix(w.String(), "</testsuites>"))
}

func Test_GivenEncoderNotStarted_WhenEncodingSuite_ThenFails(t *testing.T) {
	enc := NewEncoder(&bytes.Buffer{}, Options{})

	assert.Error(t, enc.EncodeSuite(TestSuite{}))
	assert.Error(t, enc.End())
}

func Test_GivenTaggedSkippedCase_WhenMarshalling_ThenSelfClosesEmptyElements(t *testing.T) {
	// Given
	report := TestSuites{TestSuites: []TestSuite{
		{
			Name: "F",
			TestCases: []TestCase{{
				Name:       "S",
				Classname:  "F",
				Properties: []Property{TagProperty("@wip")},
				Skipped:    &Skipped{},
			}},
		},
	}}

	// When
	out, err := Marshal(report, Options{Indent: "  "})

	// Then
	require.NoError(t, err)
	expected := `<testsuites>
  <testsuite name="F" package="" id="" timestamp="" hostname="" tests="0" failures="0" errors="0" time="0">
    <testcase name="S" classname="F" time="0">
      <property name="@wip" value="true"/>
      <skipped message=""/>
    </testcase>
  </testsuite>
</testsuites>`
	assert.Equal(t, expected, string(out))
}

func Test_GivenControlCharactersInFailure_WhenMarshalling_ThenEscapesLikeEncodingXML(t *testing.T) {
	// Given
	report := TestSuites{TestSuites: []TestSuite{
		{Name: "F", TestCases: []TestCase{{Name: "S", Failure: NewFailure("Boom\r\n\tat x")}}},
	}}

	// When
	out, err := Marshal(report, Options{})

	// Then
	require.NoError(t, err)
	assert.Contains(t, string(out), `<failure message="Boom" type="Boom">Boom&#xD;`+"\n"+`&#x9;at x</failure>`)
}
