package junit

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// DefaultIndent ...
const DefaultIndent = "    "

// Declaration describes the <?xml ...?> header, a nil declaration omits it.
type Declaration struct {
	// Encoding defaults to UTF-8.
	Encoding   string
	Standalone string
}

// String ...
func (d Declaration) String() string {
	encoding := d.Encoding
	if encoding == "" {
		encoding = "UTF-8"
	}

	decl := fmt.Sprintf(`<?xml version="1.0" encoding="%s"`, encoding)
	if d.Standalone != "" {
		decl += fmt.Sprintf(` standalone="%s"`, d.Standalone)
	}
	return decl + "?>"
}

// Options ...
type Options struct {
	// Indent is written once per nesting level, empty means DefaultIndent.
	Indent      string
	Declaration *Declaration
	// Stream flushes the output after every test suite instead of once at the end.
	Stream bool
}

// Encoder writes a JUnit report suite by suite.
// Elements that never have content, property and skipped, are self-closed.
type Encoder struct {
	w      *bufio.Writer
	opts   Options
	indent string
	began  bool
	suites int
}

// NewEncoder ...
func NewEncoder(w io.Writer, opts Options) *Encoder {
	indent := opts.Indent
	if indent == "" {
		indent = DefaultIndent
	}

	return &Encoder{
		w:      bufio.NewWriter(w),
		opts:   opts,
		indent: indent,
	}
}

// Marshal renders the whole report.
func Marshal(report TestSuites, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	enc := NewEncoder(&buf, opts)

	if err := enc.Begin(); err != nil {
		return nil, err
	}
	for _, suite := range report.TestSuites {
		if err := enc.EncodeSuite(suite); err != nil {
			return nil, err
		}
	}
	if err := enc.End(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Begin writes the declaration and opens the root element.
func (e *Encoder) Begin() error {
	if e.began {
		return errors.New("report already started")
	}
	e.began = true

	if e.opts.Declaration != nil {
		if _, err := e.w.WriteString(e.opts.Declaration.String() + "\n"); err != nil {
			return fmt.Errorf("failed to write xml declaration: %w", err)
		}
	}

	_, err := e.w.WriteString("<testsuites>")
	return err
}

// EncodeSuite writes one testsuite element.
func (e *Encoder) EncodeSuite(suite TestSuite) error {
	if !e.began {
		return errors.New("report not started")
	}

	e.encodeSuite(suite)
	e.suites++

	if e.opts.Stream {
		if err := e.w.Flush(); err != nil {
			return fmt.Errorf("failed to write test suite (%s): %w", suite.Name, err)
		}
	}
	return nil
}

// End closes the root element, writing a placeholder suite first if the report had none.
func (e *Encoder) End() error {
	if !e.began {
		return errors.New("report not started")
	}

	if e.suites == 0 {
		e.encodeSuite(EmptySuite())
	}

	e.newline(0)
	e.w.WriteString("</testsuites>") //nolint:errcheck
	return e.w.Flush()
}

// Write errors are kept by the bufio.Writer and reported by the next Flush.
func (e *Encoder) encodeSuite(suite TestSuite) {
	var attrs []xml.Attr
	if !suite.IsPlaceholder() {
		attrs = []xml.Attr{
			attr("name", suite.Name),
			attr("package", suite.Package),
			attr("id", suite.ID),
			attr("timestamp", suite.Timestamp),
			attr("hostname", suite.Hostname),
			attr("tests", strconv.Itoa(suite.Tests)),
			attr("failures", strconv.Itoa(suite.Failures)),
			attr("errors", strconv.Itoa(suite.Errors)),
			attr("time", formatTime(suite.Time())),
		}
	}

	e.newline(1)
	e.startElement("testsuite", attrs)

	hasChildren := len(suite.Properties) > 0 || len(suite.TestCases) > 0
	e.encodeProperties(suite.Properties, 2)
	for _, testCase := range suite.TestCases {
		e.encodeTestCase(testCase)
	}

	if hasChildren {
		e.newline(1)
	}
	e.endElement("testsuite")
}

func (e *Encoder) encodeTestCase(testCase TestCase) {
	e.newline(2)
	e.startElement("testcase", []xml.Attr{
		attr("name", testCase.Name),
		attr("classname", testCase.Classname),
		attr("time", formatTime(testCase.Time())),
	})

	hasChildren := len(testCase.Properties) > 0 || testCase.Failure != nil || testCase.Skipped != nil
	e.encodeProperties(testCase.Properties, 3)

	if testCase.Failure != nil {
		e.newline(3)
		e.startElement("failure", []xml.Attr{
			attr("message", testCase.Failure.Message),
			attr("type", testCase.Failure.Type),
		})
		e.charData(testCase.Failure.Body)
		e.endElement("failure")
	}

	if testCase.Skipped != nil {
		e.newline(3)
		e.emptyElement("skipped", []xml.Attr{attr("message", testCase.Skipped.Message)})
	}

	if hasChildren {
		e.newline(2)
	}
	e.endElement("testcase")
}

func (e *Encoder) encodeProperties(properties []Property, depth int) {
	for _, property := range properties {
		e.newline(depth)
		e.emptyElement("property", []xml.Attr{
			attr("name", property.Name),
			attr("value", property.Value),
		})
	}
}

func (e *Encoder) newline(depth int) {
	e.w.WriteByte('\n') //nolint:errcheck
	for i := 0; i < depth; i++ {
		e.w.WriteString(e.indent) //nolint:errcheck
	}
}

func (e *Encoder) startElement(name string, attrs []xml.Attr) {
	e.openTag(name, attrs)
	e.w.WriteByte('>') //nolint:errcheck
}

func (e *Encoder) emptyElement(name string, attrs []xml.Attr) {
	e.openTag(name, attrs)
	e.w.WriteString("/>") //nolint:errcheck
}

func (e *Encoder) endElement(name string) {
	e.w.WriteString("</" + name + ">") //nolint:errcheck
}

func (e *Encoder) openTag(name string, attrs []xml.Attr) {
	e.w.WriteString("<" + name) //nolint:errcheck
	for _, a := range attrs {
		e.w.WriteString(" " + a.Name.Local + `="`)
		_ = xml.EscapeText(e.w, []byte(a.Value))
		e.w.WriteByte('"')
	}
}

// charData escapes text the way encoding/xml escapes character data: newlines are kept verbatim.
func (e *Encoder) charData(text string) {
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			e.w.WriteByte('\n') //nolint:errcheck
		}
		_ = xml.EscapeText(e.w, []byte(line))
	}
}

func attr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}

func formatTime(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', -1, 64)
}
