package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// KeyStore maps hashed API keys to caller names, e.g. the voice agent bridge
// or an operator console. Only SHA-256 digests of keys are held in memory.
// It is built once at startup and read-only afterwards.
type KeyStore struct {
	keys map[string]string // SHA-256(apiKey) → caller
}

// NewKeyStore parses a comma-separated "caller:key" list.
// Example: "voice-agent:sk-abc,ops-console:sk-def"
// Pairs without a colon or with an empty caller or key are skipped.
func NewKeyStore(raw string) *KeyStore {
	ks := &KeyStore{keys: make(map[string]string)}
	for _, pair := range strings.Split(raw, ",") {
		caller, key, ok := strings.Cut(strings.TrimSpace(pair), ":")
		caller, key = strings.TrimSpace(caller), strings.TrimSpace(key)
		if !ok || caller == "" || key == "" {
			continue
		}
		ks.keys[hashKey(key)] = caller
	}
	return ks
}

// Lookup returns the caller a key belongs to.
func (ks *KeyStore) Lookup(apiKey string) (caller string, ok bool) {
	if apiKey == "" {
		return "", false
	}
	caller, ok = ks.keys[hashKey(apiKey)]
	return
}

// Len reports how many keys are configured.
func (ks *KeyStore) Len() int {
	return len(ks.keys)
}

func hashKey(key string) string {
	h := sha256.Sum256([]byte(key))
	return hex.EncodeToString(h[:])
}
