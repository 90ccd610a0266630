package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/kailas-cloud/swiftype"
)

// print writes the indented JSON body, preceded by the status with --status.
func (a *app) print(resp *swiftype.Response) error {
	if a.showStatus {
		if _, err := fmt.Fprintf(a.out, "HTTP %d\n", resp.Status); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
	if !resp.HasBody() {
		return nil
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, resp.Raw, "", "  "); err != nil {
		return fmt.Errorf("format response: %w", err)
	}
	buf.WriteByte('\n')
	if _, err := buf.WriteTo(a.out); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// readJSON decodes a JSON value from path, or from stdin when path is "" or "-".
func (a *app) readJSON(path string) (any, error) {
	var r io.Reader = a.in
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	dec := json.NewDecoder(r)
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("parse JSON input: %w", err)
	}
	return v, nil
}
