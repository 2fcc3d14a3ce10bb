package paidyet

import (
	"crypto/sha256"
	"encoding/hex"
)

// Credentials identify one merchant API key pair. The raw key is only ever
// sent to the login endpoint; everywhere else the credentials are referred to
// by their CredentialKey.
type Credentials struct {
	MerchantID string
	APIKey     string
	Env        Environment
}

// CredentialKey is the cache lookup key for a credential set. It carries a
// fingerprint of the API key instead of the key itself, so the token cache
// never retains raw secrets.
type CredentialKey struct {
	MerchantID  string
	Fingerprint string
	Env         Environment
}

// Key derives the cache key for these credentials.
func (c Credentials) Key() CredentialKey {
	sum := sha256.Sum256([]byte(c.APIKey))
	return CredentialKey{
		MerchantID:  c.MerchantID,
		Fingerprint: hex.EncodeToString(sum[:]),
		Env:         c.Env,
	}
}

// String renders the key for use as a singleflight/log identifier.
func (k CredentialKey) String() string {
	return k.MerchantID + ":" + k.Fingerprint + ":" + string(k.Env)
}
