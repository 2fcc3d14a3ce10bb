package webhook

import "encoding/json"

// Event types PaidYET delivers. Anything else is acknowledged and ignored.
const (
	EventTransactionApproved = "transaction.approved"
	EventTransactionDeclined = "transaction.declined"
	EventTransactionRefunded = "transaction.refunded"
	EventTransactionVoided   = "transaction.voided"
	EventBatchClosed         = "batch.closed"
)

// SignatureHeader is the request header carrying the HMAC of the body.
const SignatureHeader = "X-Paidyet-Signature"

// Envelope is one inbound notification: the exact bytes the signature was
// computed over plus the decoded routing fields. It lives for the duration
// of a single request and holds no retained state.
type Envelope struct {
	RawBody   []byte
	Signature string

	EventID       string `json:"event_id"`
	EventType     string `json:"event_type"`
	TransactionID string `json:"transaction_id"`
	BatchID       string `json:"batch_id"`
	OrderID       string `json:"order_id"`
	Status        string `json:"status"`
}

// Parse decodes a raw notification body into an envelope. The raw bytes are
// kept verbatim: verification must run over exactly what arrived, not over
// a re-serialization.
func Parse(rawBody []byte, signature string) (*Envelope, error) {
	env := &Envelope{
		RawBody:   rawBody,
		Signature: signature,
	}
	if err := json.Unmarshal(rawBody, env); err != nil {
		return nil, err
	}
	return env, nil
}

// Known reports whether the event type is one the service understands.
func (e *Envelope) Known() bool {
	switch e.EventType {
	case EventTransactionApproved, EventTransactionDeclined,
		EventTransactionRefunded, EventTransactionVoided, EventBatchClosed:
		return true
	}
	return false
}
