package converter

import (
	"time"

	"github.com/bitrise-steplib/steps-cucumber-junit/junit"
)

// Options ...
type Options struct {
	// Indent defaults to four spaces.
	Indent string
	// Strict reports pending and undefined steps as failures instead of skips.
	Strict bool
	// Stream flushes the XML output after every test suite.
	Stream      bool
	Declaration *junit.Declaration
	// StripANSI removes terminal escape sequences from error messages.
	StripANSI bool
	// Clock is read for suite timestamps, nil means time.Now.
	Clock func() time.Time
}

// DefaultOptions ...
func DefaultOptions() Options {
	return Options{
		Indent:      junit.DefaultIndent,
		Declaration: &junit.Declaration{Encoding: "UTF-8"},
	}
}

func (o Options) now() time.Time {
	if o.Clock == nil {
		return time.Now()
	}
	return o.Clock()
}

func (o Options) encoderOptions() junit.Options {
	return junit.Options{
		Indent:      o.Indent,
		Declaration: o.Declaration,
		Stream:      o.Stream,
	}
}
