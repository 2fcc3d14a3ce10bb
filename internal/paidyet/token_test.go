package paidyet

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingIssuer is a TokenIssuer test double that records every issuance.
type countingIssuer struct {
	calls int32
	delay time.Duration
	err   error
	// errOnce fails only the first issuance.
	errOnce error
	gate    chan struct{} // when set, Issue blocks until the gate closes
}

func (i *countingIssuer) Issue(ctx context.Context, creds Credentials) (IssuedToken, error) {
	n := atomic.AddInt32(&i.calls, 1)
	if i.gate != nil {
		<-i.gate
	}
	if i.delay > 0 {
		time.Sleep(i.delay)
	}
	if i.err != nil {
		return IssuedToken{}, i.err
	}
	if i.errOnce != nil && n == 1 {
		return IssuedToken{}, i.errOnce
	}
	return IssuedToken{
		Value:    fmt.Sprintf("tok-%s-%d", creds.MerchantID, n),
		Lifetime: time.Hour,
	}, nil
}

func (i *countingIssuer) count() int32 { return atomic.LoadInt32(&i.calls) }

func testCreds(merchant string) Credentials {
	return Credentials{MerchantID: merchant, APIKey: "sk_" + merchant, Env: Sandbox}
}

func TestTokenStoreCoalescesConcurrentRefreshes(t *testing.T) {
	issuer := &countingIssuer{delay: 30 * time.Millisecond}
	store := NewTokenStore(issuer, 5*time.Minute, time.Second)

	creds := testCreds("m1")

	const waiters = 20
	tokens := make([]string, waiters)
	var wg sync.WaitGroup
	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tok, err := store.Token(context.Background(), creds)
			require.NoError(t, err)
			tokens[i] = tok
		}(i)
	}
	wg.Wait()

	assert.EqualValues(t, 1, issuer.count(), "concurrent callers must share one issuance")
	for _, tok := range tokens {
		assert.Equal(t, tokens[0], tok)
	}
}

func TestTokenStoreFastPathSkipsIssuer(t *testing.T) {
	issuer := &countingIssuer{}
	store := NewTokenStore(issuer, 5*time.Minute, time.Second)

	creds := testCreds("m1")

	first, err := store.Token(context.Background(), creds)
	require.NoError(t, err)

	second, err := store.Token(context.Background(), creds)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, issuer.count())
}

func TestTokenStoreRefreshSkewBoundary(t *testing.T) {
	issuer := &countingIssuer{}
	store := NewTokenStore(issuer, 5*time.Minute, time.Second)

	var mu sync.Mutex
	now := time.Now()
	store.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	advance := func(d time.Duration) {
		mu.Lock()
		now = now.Add(d)
		mu.Unlock()
	}

	creds := testCreds("m1")

	_, err := store.Token(context.Background(), creds)
	require.NoError(t, err)
	require.EqualValues(t, 1, issuer.count())

	// 54 minutes into a 60-minute lifetime: still inside the usable window.
	advance(54 * time.Minute)
	_, err = store.Token(context.Background(), creds)
	require.NoError(t, err)
	assert.EqualValues(t, 1, issuer.count())

	// At the 55-minute skew boundary the entry is treated as a miss.
	advance(time.Minute)
	_, err = store.Token(context.Background(), creds)
	require.NoError(t, err)
	assert.EqualValues(t, 2, issuer.count())
}

func TestTokenStoreFailureNotCached(t *testing.T) {
	issuer := &countingIssuer{errOnce: errors.New("login rejected")}
	store := NewTokenStore(issuer, 5*time.Minute, time.Second)

	creds := testCreds("m1")

	_, err := store.Token(context.Background(), creds)
	require.Error(t, err)

	var aerr *AuthError
	assert.True(t, errors.As(err, &aerr), "issuance failure must surface as AuthError")

	// Next call retries from scratch and succeeds.
	tok, err := store.Token(context.Background(), creds)
	require.NoError(t, err)
	assert.NotEmpty(t, tok)
	assert.EqualValues(t, 2, issuer.count())
}

func TestTokenStoreRefreshBypassesCache(t *testing.T) {
	issuer := &countingIssuer{}
	store := NewTokenStore(issuer, 5*time.Minute, time.Second)

	creds := testCreds("m1")

	first, err := store.Token(context.Background(), creds)
	require.NoError(t, err)

	second, err := store.Refresh(context.Background(), creds)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.EqualValues(t, 2, issuer.count())
}

// issuerFunc adapts a function to the TokenIssuer interface.
type issuerFunc func(ctx context.Context, creds Credentials) (IssuedToken, error)

func (f issuerFunc) Issue(ctx context.Context, creds Credentials) (IssuedToken, error) {
	return f(ctx, creds)
}

func TestTokenStoreKeysDoNotBlockEachOther(t *testing.T) {
	gate := make(chan struct{})
	issuer := issuerFunc(func(ctx context.Context, creds Credentials) (IssuedToken, error) {
		if creds.MerchantID == "slow" {
			<-gate
		}
		return IssuedToken{Value: "tok-" + creds.MerchantID, Lifetime: time.Hour}, nil
	})
	store := NewTokenStore(issuer, 5*time.Minute, 5*time.Second)

	go func() {
		_, _ = store.Token(context.Background(), testCreds("slow"))
	}()
	time.Sleep(10 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		tok, err := store.Token(context.Background(), testCreds("fast"))
		assert.NoError(t, err)
		assert.Equal(t, "tok-fast", tok)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("independent credential key blocked behind another key's issuance")
	}
	close(gate)
}

func TestTokenStoreWaiterTimeoutDoesNotCancelFlight(t *testing.T) {
	gate := make(chan struct{})
	issuer := &countingIssuer{gate: gate}
	store := NewTokenStore(issuer, 5*time.Minute, time.Second)

	creds := testCreds("m1")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := store.Token(ctx, creds)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	// The abandoned flight finishes and populates the cache; the next call
	// is a hit with no second issuance.
	close(gate)
	require.Eventually(t, func() bool {
		tok, terr := store.Token(context.Background(), creds)
		return terr == nil && tok != ""
	}, time.Second, 10*time.Millisecond)
	assert.EqualValues(t, 1, issuer.count())
}
