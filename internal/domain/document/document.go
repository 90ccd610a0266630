package document

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
)

var (
	fieldRegex     = regexp.MustCompile(`^[a-z0-9_]+$`)
	reservedFields = map[string]bool{
		"external_id": true, "engine_id": true, "highlight": true,
		"or": true, "and": true, "not": true, "any": true, "all": true, "none": true,
		"_meta": true,
	}
)

// Limits enforced on indexed documents.
const (
	MaxFields   = 64
	MaxIDLength = 800
	// IDField is the field identifying a document.
	IDField = "id"
)

// Document is the document aggregate (immutable value object).
// Fields never contain IDField; ID() returns it.
type Document struct {
	id     string
	fields map[string]any
}

// New validates a raw JSON object. A missing id is filled by newID.
// All problems are reported, so a batch response can list every error per item.
func New(raw map[string]any, newID func() string) (Document, []error) {
	var errs []error

	id, err := parseID(raw[IDField], newID)
	if err != nil {
		errs = append(errs, err)
	}

	fields := make(map[string]any, len(raw))
	for name, v := range raw {
		if name == IDField {
			continue
		}
		if err := validateField(name); err != nil {
			errs = append(errs, err)
			continue
		}
		fields[name] = v
	}
	if len(fields) > MaxFields {
		errs = append(errs, fmt.Errorf("too many fields (max %d)", MaxFields))
	}

	if len(errs) > 0 {
		return Document{id: id}, errs
	}
	return Document{id: id, fields: fields}, nil
}

// Reconstruct creates a Document without validation (storage hydration).
func Reconstruct(id string, fields map[string]any) Document {
	return Document{id: id, fields: fields}
}

func parseID(v any, newID func() string) (string, error) {
	switch id := v.(type) {
	case nil:
		return newID(), nil
	case string:
		if id == "" {
			return newID(), nil
		}
		if len(id) > MaxIDLength {
			return id, fmt.Errorf("id is too long (max %d)", MaxIDLength)
		}
		return id, nil
	case json.Number:
		if _, err := id.Int64(); err != nil {
			return id.String(), fmt.Errorf("id must be a string or integer, got %s", id)
		}
		return id.String(), nil
	default:
		return "", fmt.Errorf("id must be a string or integer, got %T", v)
	}
}

func validateField(name string) error {
	if !fieldRegex.MatchString(name) {
		return fmt.Errorf("invalid field name: %s (lowercase letters, numbers and underscores only)", name)
	}
	if reservedFields[name] {
		return fmt.Errorf("invalid field name: %s is reserved", name)
	}
	return nil
}

// ID returns the document identifier.
func (d *Document) ID() string { return d.id }

// Fields returns the indexed fields without the id.
func (d *Document) Fields() map[string]any { return d.fields }

// FieldNames returns the field names in sorted order.
func (d *Document) FieldNames() []string {
	names := make([]string, 0, len(d.fields))
	for name := range d.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Map returns the document as a JSON object including the id.
func (d *Document) Map() map[string]any {
	out := make(map[string]any, len(d.fields)+1)
	for k, v := range d.fields {
		out[k] = v
	}
	out[IDField] = d.id
	return out
}
