package rest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
)

// encodeBody serializes a request body. Empty bodies (nil, empty slice, map or
// array) are sent as an empty string.
func encodeBody(body any, enc Encoding) ([]byte, error) {
	if isEmpty(body) {
		return nil, nil
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal body: %w", err)
	}

	if enc == EncodeObject {
		return forceObject(data)
	}
	return data, nil
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}

// forceObject rewrites a top-level JSON array into an object keyed by index.
// Objects and scalars pass through unchanged. Only the top level is rewritten:
// nested arrays such as search filter values stay arrays.
func forceObject(data []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return data, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, fmt.Errorf("force object: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, item := range items {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(strconv.Itoa(i)))
		buf.WriteByte(':')
		buf.Write(item)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// parseBody decodes a 2xx response body. A blank body or a JSON null yields
// (nil, nil, nil). Trailing data after the top-level value is an error.
func parseBody(data []byte) (any, json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, nil, err //nolint:wrapcheck // wrapped by the caller as a malformed response
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, nil, errors.New("invalid character after top-level value")
	}
	if v == nil {
		return nil, nil, nil
	}
	return v, json.RawMessage(trimmed), nil
}
