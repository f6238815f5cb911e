package logging

import (
	"errors"
	"strings"
	"testing"
)

func TestOperationAttr(t *testing.T) {
	attr := Operation("calendar.list")
	if attr.Key != KeyOperation {
		t.Errorf("Operation key = %q, want %q", attr.Key, KeyOperation)
	}
	if attr.Value.String() != "calendar.list" {
		t.Errorf("Operation value = %q, want %q", attr.Value.String(), "calendar.list")
	}
}

func TestStatusAttr(t *testing.T) {
	attr := Status(StatusSuccess)
	if attr.Key != KeyStatus {
		t.Errorf("Status key = %q, want %q", attr.Key, KeyStatus)
	}
	if attr.Value.String() != "success" {
		t.Errorf("Status value = %q, want %q", attr.Value.String(), "success")
	}
}

func TestErrAttr(t *testing.T) {
	attr := Err(errors.New("boom"))
	if attr.Key != KeyError {
		t.Errorf("Err key = %q, want %q", attr.Key, KeyError)
	}
	if attr.Value.String() != "boom" {
		t.Errorf("Err value = %q, want %q", attr.Value.String(), "boom")
	}
}

func TestErrAttrNil(t *testing.T) {
	attr := Err(nil)
	if attr.Key != "" {
		t.Errorf("Err(nil) key = %q, want empty group", attr.Key)
	}
}

func TestAnonymizeIdentity(t *testing.T) {
	hash := AnonymizeIdentity("user@example.com")
	if !strings.HasPrefix(hash, "user:") {
		t.Errorf("AnonymizeIdentity = %q, want user: prefix", hash)
	}
	if strings.Contains(hash, "example.com") {
		t.Errorf("AnonymizeIdentity leaked the identity: %q", hash)
	}

	// Same input produces same hash for correlation
	if hash != AnonymizeIdentity("user@example.com") {
		t.Error("AnonymizeIdentity is not deterministic")
	}

	// Different input produces a different hash
	if hash == AnonymizeIdentity("other@example.com") {
		t.Error("AnonymizeIdentity collided for distinct identities")
	}
}

func TestAnonymizeIdentityEmpty(t *testing.T) {
	if got := AnonymizeIdentity(""); got != "" {
		t.Errorf("AnonymizeIdentity(\"\") = %q, want empty", got)
	}
}

func TestSanitizeToken(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		expected string
	}{
		{name: "empty token", token: "", expected: "<empty>"},
		{name: "short token", token: "abc", expected: "[token:3 chars]"},
		{name: "long token", token: strings.Repeat("x", 128), expected: "[token:128 chars]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeToken(tt.token); got != tt.expected {
				t.Errorf("SanitizeToken(%q) = %q, want %q", tt.token, got, tt.expected)
			}
		})
	}
}
