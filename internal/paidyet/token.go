package paidyet

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// IssuedToken is what the login exchange returns: the bearer token and the
// lifetime the issuer reported for it.
type IssuedToken struct {
	Value    string
	Lifetime time.Duration
}

// TokenIssuer performs the login exchange for a credential set.
type TokenIssuer interface {
	Issue(ctx context.Context, creds Credentials) (IssuedToken, error)
}

// CachedToken is one cache entry. Usable iff now < ExpiresAt - skew.
type CachedToken struct {
	Value     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenStore caches bearer tokens per CredentialKey and coalesces concurrent
// refreshes so at most one issuance per key is in flight at a time. Entries
// are never evicted on a timer; an expired entry is a miss on next lookup.
type TokenStore struct {
	issuer TokenIssuer
	skew   time.Duration

	mu     sync.RWMutex
	tokens map[CredentialKey]CachedToken

	group singleflight.Group

	// issueTimeout bounds a coalesced issuance independently of any single
	// waiter's context.
	issueTimeout time.Duration

	now func() time.Time
}

// NewTokenStore builds a store over the given issuer. skew is subtracted
// from the issuer-reported lifetime when judging whether an entry is still
// live (5 minutes for PaidYET's 60-minute tokens, so cached tokens are used
// for at most 55 minutes).
func NewTokenStore(issuer TokenIssuer, skew, issueTimeout time.Duration) *TokenStore {
	return &TokenStore{
		issuer:       issuer,
		skew:         skew,
		tokens:       make(map[CredentialKey]CachedToken),
		issueTimeout: issueTimeout,
		now:          time.Now,
	}
}

// Token returns a live bearer token for the credentials, issuing a new one
// if the cache has no usable entry. Concurrent callers for the same key
// share a single issuance; callers for different keys never block on each
// other. An issuance failure is propagated to every waiter of that flight
// and is not cached.
func (s *TokenStore) Token(ctx context.Context, creds Credentials) (string, error) {
	key := creds.Key()

	if tok, ok := s.lookup(key); ok {
		return tok, nil
	}
	return s.refresh(ctx, creds, key)
}

// Refresh drops any cached entry for the credentials and issues a fresh
// token. Used when the gateway rejects a token the cache considered live.
func (s *TokenStore) Refresh(ctx context.Context, creds Credentials) (string, error) {
	key := creds.Key()

	s.mu.Lock()
	delete(s.tokens, key)
	s.mu.Unlock()

	return s.refresh(ctx, creds, key)
}

func (s *TokenStore) lookup(key CredentialKey) (string, bool) {
	s.mu.RLock()
	entry, ok := s.tokens[key]
	s.mu.RUnlock()
	if !ok {
		return "", false
	}
	if !s.now().Before(entry.ExpiresAt.Add(-s.skew)) {
		return "", false
	}
	return entry.Value, true
}

func (s *TokenStore) refresh(ctx context.Context, creds Credentials, key CredentialKey) (string, error) {
	ch := s.group.DoChan(key.String(), func() (interface{}, error) {
		// Another waiter of an earlier flight may have repopulated the
		// entry between our lookup and this flight starting.
		if tok, ok := s.lookup(key); ok {
			return tok, nil
		}

		// The flight is shared by every waiter for this key, so it runs on
		// its own deadline rather than any one caller's context.
		issueCtx, cancel := context.WithTimeout(context.Background(), s.issueTimeout)
		defer cancel()

		issued, err := s.issuer.Issue(issueCtx, creds)
		if err != nil {
			return nil, &AuthError{Cause: err}
		}

		now := s.now()
		entry := CachedToken{
			Value:     issued.Value,
			IssuedAt:  now,
			ExpiresAt: now.Add(issued.Lifetime),
		}
		s.mu.Lock()
		s.tokens[key] = entry
		s.mu.Unlock()

		return issued.Value, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		// Abandon this waiter only; the flight keeps running for the others.
		return "", ctx.Err()
	}
}
