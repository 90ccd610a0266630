package version

import "testing"

func TestUserAgent(t *testing.T) {
	if got := UserAgent(); got != "swiftype-go/"+Version {
		t.Errorf("UserAgent() = %q", got)
	}
}

func TestString(t *testing.T) {
	want := Version + " (commit " + Commit + ", built " + Date + ")"
	if got := String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
