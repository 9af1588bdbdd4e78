package fileutils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// ParseJSON unmarshals the data in r into v.
func ParseJSON(r io.Reader, v any) error {
	// Read the entire content of the io.Reader first to check for errors even if valid json is first.
	buf, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("error reading from io.Reader: %v", err)
	}

	err = json.Unmarshal(buf, v)
	if err != nil {
		return fmt.Errorf("couldn't parse JSON: %v", err)
	}
	return nil
}

// ReadJSONDocument reads a JSON document from path.
// Numbers are decoded as json.Number so that untouched values round-trip exactly.
func ReadJSONDocument(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %v", path, err)
	}

	return DecodeJSONDocument(data)
}

// DecodeJSONDocument decodes a JSON document, keeping numbers as json.Number.
func DecodeJSONDocument(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %v", err)
	}

	// Trailing content after the document is not a valid report.
	if dec.More() {
		return nil, fmt.Errorf("invalid JSON: trailing data after document")
	}

	return doc, nil
}

// WriteJSONDocument marshals doc with indentation and writes it atomically to path.
func WriteJSONDocument(path string, doc any) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("could not marshal document: %v", err)
	}

	return AtomicWrite(path, append(data, '\n'))
}
