package paidyet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// RetryPolicy bounds how transport failures are retried. Attempts is the
// total call ceiling including the first try; Delay is the fixed wait
// between attempts.
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
}

// Dispatcher turns a transaction intent into exactly one classified Outcome.
// It owns no durable state; tokens come from the store, calls go through the
// client, and everything else is per-call.
type Dispatcher struct {
	store  *TokenStore
	client GatewayClient
	retry  RetryPolicy
	logger *zap.Logger

	sleep func(time.Duration)
}

// NewDispatcher wires a dispatcher over its collaborators.
func NewDispatcher(store *TokenStore, client GatewayClient, retry RetryPolicy, logger *zap.Logger) *Dispatcher {
	if retry.Attempts < 1 {
		retry.Attempts = 1
	}
	return &Dispatcher{
		store:  store,
		client: client,
		retry:  retry,
		logger: logger,
		sleep:  time.Sleep,
	}
}

// Dispatch validates the intent, acquires a token, performs the gateway call
// and classifies the result.
//
// Failure handling:
//   - malformed intent: *ValidationError, no network activity
//   - token issuance failure: *AuthError, surfaced unretried
//   - transport failure: retried up to the policy ceiling for query, void
//     and capture; surfaced as a TransientFailure outcome for sale and
//     refund, which must not be resubmitted blindly
//   - token rejected by the gateway: one forced refresh and one re-call; a
//     second rejection is a FatalFailure
//   - gateway decline: a Declined outcome, terminal
func (d *Dispatcher) Dispatch(ctx context.Context, creds Credentials, intent Intent) (Outcome, error) {
	if err := intent.Validate(); err != nil {
		return Outcome{}, err
	}

	token, err := d.store.Token(ctx, creds)
	if err != nil {
		return Outcome{}, err
	}

	attempts := 1
	if intent.idempotentSafe() {
		attempts = d.retry.Attempts
	}

	refreshed := false
	justRefreshed := false
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		// The re-call after a forced token refresh is not a transport
		// retry, so it gets no delay.
		if attempt > 1 && !justRefreshed {
			d.sleep(d.retry.Delay)
			d.logger.Info("retrying gateway call",
				zap.String("op", string(intent.Kind)),
				zap.Int("attempt", attempt),
			)
		}
		justRefreshed = false

		resp, callErr := d.call(ctx, token, intent)
		if callErr != nil {
			var terr *TransportError
			if errors.As(callErr, &terr) {
				lastErr = callErr
				continue
			}
			return Outcome{}, callErr
		}

		if resp.TokenRejected() {
			if refreshed {
				return fatalOutcome(fmt.Errorf("gateway rejected a freshly issued token"), resp), nil
			}
			refreshed = true
			justRefreshed = true
			token, err = d.store.Refresh(ctx, creds)
			if err != nil {
				return Outcome{}, err
			}
			// The rejected call consumed no attempt against the
			// transport-retry ceiling.
			attempt--
			continue
		}

		return classify(resp), nil
	}

	if intent.idempotentSafe() {
		return fatalOutcome(fmt.Errorf("retry ceiling reached after %d attempts: %w", attempts, lastErr), nil), nil
	}
	return transientOutcome(lastErr), nil
}

func (d *Dispatcher) call(ctx context.Context, token string, intent Intent) (*GatewayResponse, error) {
	switch intent.Kind {
	case IntentSale:
		return d.client.Create(ctx, token, BuildSalePayload(intent))
	case IntentRefund:
		return d.client.Refund(ctx, token, intent.TransactionID, BuildRefundPayload(intent))
	case IntentCapture:
		return d.client.Capture(ctx, token, intent.TransactionID, BuildCapturePayload(intent))
	case IntentVoid:
		return d.client.Void(ctx, token, intent.TransactionID)
	case IntentQuery:
		return d.client.Query(ctx, token, intent.TransactionID)
	default:
		return nil, &ValidationError{Msg: "unknown intent kind"}
	}
}

// classify maps a received gateway response onto an outcome. Anything that
// is not an approval is a decline: the gateway answered, so the result is a
// business outcome rather than a fault.
func classify(resp *GatewayResponse) Outcome {
	switch resp.Status {
	case "approved", "accepted":
		return approvedOutcome(resp)
	default:
		return declinedOutcome(resp)
	}
}
