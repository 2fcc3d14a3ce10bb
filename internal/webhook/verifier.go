package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Verify checks the gateway's signature over the exact raw notification
// body. The signature header carries a hex HMAC-SHA256 of the body keyed
// with the shared webhook secret; comparison is constant-time so an
// attacker cannot probe the expected value byte by byte.
//
// An empty secret disables verification and treats every notification as
// trusted. That is an operational escape hatch for merchants who have not
// configured a secret yet, not a recommended mode.
func Verify(rawBody []byte, signature, secret string) bool {
	if secret == "" {
		return true
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(rawBody)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
