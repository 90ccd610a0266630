package engine

import (
	"strings"
	"testing"
)

func TestNew_ValidNames(t *testing.T) {
	for _, name := range []string{"books", "national-parks", "a", "v2-catalog", strings.Repeat("a", MaxNameLength)} {
		e, err := New(name, "")
		if err != nil {
			t.Errorf("New(%q): %v", name, err)
			continue
		}
		if e.Name() != name {
			t.Errorf("Name() = %q, want %q", e.Name(), name)
		}
		if e.Type() != TypeDefault {
			t.Errorf("Type() = %q", e.Type())
		}
		if e.CreatedAt().IsZero() {
			t.Error("CreatedAt() is zero")
		}
	}
}

func TestNew_InvalidNames(t *testing.T) {
	for _, name := range []string{"", "Books", "-books", "books_2", "my engine", strings.Repeat("a", MaxNameLength+1)} {
		if _, err := New(name, ""); err == nil {
			t.Errorf("New(%q): expected error", name)
		}
	}
}

func TestNew_Language(t *testing.T) {
	e, err := New("books", "en")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if e.Language() != "en" {
		t.Errorf("Language() = %q", e.Language())
	}
}
