package cucumber

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ParseError is returned when the report is not a valid Cucumber JSON document.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid cucumber report: %v", e.Err)
}

// Unwrap ...
func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsParseError checks if the error is or wraps a ParseError
func IsParseError(err error) bool {
	var parseErr *ParseError
	return err != nil && errors.As(err, &parseErr)
}

// Parse decodes a full report. Empty or blank input yields no features.
func Parse(data []byte) ([]Feature, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var features []Feature
	if err := json.Unmarshal(data, &features); err != nil {
		return nil, &ParseError{Err: err}
	}
	return features, nil
}

// Decode reads the report from r and calls fn with each feature as soon as it is decoded,
// without holding the whole report in memory. Empty or blank input calls fn zero times.
func Decode(r io.Reader, fn func(Feature) error) error {
	decoder := json.NewDecoder(r)

	token, err := decoder.Token()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return &ParseError{Err: err}
	}
	// null decodes to no features, as it does in Parse.
	if token == nil {
		return checkTrailingData(decoder)
	}
	if delim, ok := token.(json.Delim); !ok || delim != '[' {
		return &ParseError{Err: fmt.Errorf("expected an array of features, got: %v", token)}
	}

	for decoder.More() {
		var feature Feature
		if err := decoder.Decode(&feature); err != nil {
			return &ParseError{Err: err}
		}
		if err := fn(feature); err != nil {
			return err
		}
	}

	if _, err := decoder.Token(); err != nil {
		return &ParseError{Err: err}
	}

	return checkTrailingData(decoder)
}

// checkTrailingData fails on anything but whitespace after the top level value.
func checkTrailingData(decoder *json.Decoder) error {
	rest, err := io.ReadAll(decoder.Buffered())
	if err != nil {
		return &ParseError{Err: err}
	}
	if strings.TrimSpace(string(rest)) != "" {
		return &ParseError{Err: errors.New("unexpected data after the feature list")}
	}

	return nil
}
