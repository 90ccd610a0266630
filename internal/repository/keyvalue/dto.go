package keyvalue

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/kailas-cloud/swiftype/internal/domain/document"
	"github.com/kailas-cloud/swiftype/internal/domain/engine"
)

const (
	fieldName      = "name"
	fieldLanguage  = "language"
	fieldCreatedAt = "created_at"
	fieldSeq       = "seq"
)

// docRow is the JSON value stored per document id in the engine's documents hash.
type docRow struct {
	Seq    int64          `json:"seq"`
	Fields map[string]any `json:"fields"`
}

func engineToHash(e engine.Engine) map[string]string {
	return map[string]string{
		fieldLanguage:  e.Language(),
		fieldCreatedAt: strconv.FormatInt(e.CreatedAt().UnixMilli(), 10),
	}
}

func hashToEngine(m map[string]string) (engine.Engine, error) {
	name := m[fieldName]
	if name == "" {
		return engine.Engine{}, fmt.Errorf("engine hash has no name")
	}
	var createdAt time.Time
	if raw := m[fieldCreatedAt]; raw != "" {
		ms, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return engine.Engine{}, fmt.Errorf("engine %q: parse created_at: %w", name, err)
		}
		createdAt = time.UnixMilli(ms).UTC()
	}
	return engine.Reconstruct(name, m[fieldLanguage], createdAt), nil
}

func encodeDoc(seq int64, d document.Document) (string, error) {
	data, err := json.Marshal(docRow{Seq: seq, Fields: d.Fields()})
	if err != nil {
		return "", fmt.Errorf("marshal document %q: %w", d.ID(), err)
	}
	return string(data), nil
}

// decodeDoc keeps numbers as json.Number so stored values round-trip unchanged.
func decodeDoc(id, raw string) (docRow, document.Document, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var row docRow
	if err := dec.Decode(&row); err != nil {
		return docRow{}, document.Document{}, fmt.Errorf("unmarshal document %q: %w", id, err)
	}
	return row, document.Reconstruct(id, row.Fields), nil
}
