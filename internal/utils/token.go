package utils

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
)

const codeTokenBytes = 20

// NewCodeToken returns a fresh opaque reward-code token. Tokens are random,
// so neither issue order nor neighboring codes can be inferred from one.
func NewCodeToken() (string, error) {
	buf := make([]byte, codeTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// CodeLookupHash derives the deterministic lookup key stored next to a code
// token. Claims search by this column only; the HMAC key keeps anyone with
// database access from forging lookups for tokens they have not seen.
func CodeLookupHash(key, token string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}
