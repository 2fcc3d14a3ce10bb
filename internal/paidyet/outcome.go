package paidyet

// OutcomeKind tags the dispatch result variants.
type OutcomeKind string

const (
	// Approved: the gateway accepted the transaction.
	Approved OutcomeKind = "approved"
	// Declined: the gateway processed the transaction and said no. A
	// decline is a business outcome, not a fault, and is never retried.
	Declined OutcomeKind = "declined"
	// TransientFailure: the call produced no response and the operation is
	// not safe to resubmit blindly (sale/refund without an idempotency
	// key). The caller reconciles via a query.
	TransientFailure OutcomeKind = "transient_failure"
	// FatalFailure: the retry ceiling was exhausted, or the gateway
	// rejected a freshly issued token.
	FatalFailure OutcomeKind = "fatal_failure"
)

// Outcome is the single classified result of one dispatch call. Exactly one
// Outcome (or one classified error) is produced per call, and it is never
// mutated afterwards.
type Outcome struct {
	Kind OutcomeKind

	// Approved.
	TransactionID string
	Status        string

	// Declined.
	ReasonCode string
	Message    string

	// Transient/Fatal.
	Cause error

	// Raw gateway response, when one was received.
	Response *GatewayResponse
}

func approvedOutcome(resp *GatewayResponse) Outcome {
	return Outcome{
		Kind:          Approved,
		TransactionID: resp.ID,
		Status:        resp.Status,
		Response:      resp,
	}
}

func declinedOutcome(resp *GatewayResponse) Outcome {
	msg := resp.Message
	if msg == "" {
		msg = "Payment declined"
	}
	return Outcome{
		Kind:       Declined,
		Status:     resp.Status,
		ReasonCode: resp.ReasonCode,
		Message:    msg,
		Response:   resp,
	}
}

func transientOutcome(cause error) Outcome {
	return Outcome{Kind: TransientFailure, Cause: cause}
}

func fatalOutcome(cause error, resp *GatewayResponse) Outcome {
	return Outcome{Kind: FatalFailure, Cause: cause, Response: resp}
}
