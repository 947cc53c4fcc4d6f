package auth

import "testing"

func TestNewKeyStore(t *testing.T) {
	ks := NewKeyStore("voice-agent:sk-abc,ops-console:sk-def")

	tests := []struct {
		key    string
		caller string
		ok     bool
	}{
		{"sk-abc", "voice-agent", true},
		{"sk-def", "ops-console", true},
		{"sk-unknown", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		caller, ok := ks.Lookup(tt.key)
		if ok != tt.ok {
			t.Errorf("Lookup(%q) ok=%v, want %v", tt.key, ok, tt.ok)
		}
		if caller != tt.caller {
			t.Errorf("Lookup(%q) caller=%q, want %q", tt.key, caller, tt.caller)
		}
	}
	if ks.Len() != 2 {
		t.Errorf("expected 2 keys, got %d", ks.Len())
	}
}

func TestNewKeyStore_Empty(t *testing.T) {
	ks := NewKeyStore("")
	if _, ok := ks.Lookup("anything"); ok {
		t.Error("empty store should not match")
	}
	if ks.Len() != 0 {
		t.Errorf("expected no keys, got %d", ks.Len())
	}
}

func TestNewKeyStore_Whitespace(t *testing.T) {
	ks := NewKeyStore(" voice-agent : sk-abc , ops-console : sk-def ")
	if caller, ok := ks.Lookup("sk-abc"); !ok || caller != "voice-agent" {
		t.Error("should handle whitespace in key pairs")
	}
}

func TestNewKeyStore_SkipsMalformedPairs(t *testing.T) {
	ks := NewKeyStore("nocolon,:sk-orphan,voice-agent:,ok:sk-1")
	if ks.Len() != 1 {
		t.Errorf("expected only the well-formed pair, got %d keys", ks.Len())
	}
	if _, ok := ks.Lookup("sk-orphan"); ok {
		t.Error("key without caller should be skipped")
	}
}
