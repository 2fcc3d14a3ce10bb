package paidyet

import "github.com/shopspring/decimal"

// IntentKind tags the transaction intent variants.
type IntentKind string

const (
	IntentSale    IntentKind = "sale"
	IntentRefund  IntentKind = "refund"
	IntentCapture IntentKind = "capture"
	IntentVoid    IntentKind = "void"
	IntentQuery   IntentKind = "query"
)

// BillingAddress mirrors the card billing fields the gateway accepts.
// All fields are optional.
type BillingAddress struct {
	Address string
	City    string
	State   string
	Postal  string
}

// Customer carries the optional cardholder identity fields.
type Customer struct {
	FirstName string
	LastName  string
	Email     string
}

// Intent is a tagged variant over the five transaction operations. Amounts
// are exact decimals (minor-unit precision), never binary floats, so refund
// and capture totals cannot drift from what the storefront charged.
//
// Intents are immutable once constructed: the dispatcher reads them, never
// writes them.
type Intent struct {
	Kind IntentKind

	// Sale fields.
	Amount       decimal.Decimal
	Currency     string
	CardToken    string
	Billing      BillingAddress
	Customer     Customer
	OrderID      string
	MerchantUUID string // optional, partner-level API keys only

	// Refund/Capture/Void/Query target.
	TransactionID string

	// Capture: whether Amount carries a partial-capture value.
	HasAmount bool
}

// NewSale builds a sale intent.
func NewSale(cardToken, orderID, currency string, amount decimal.Decimal, billing BillingAddress, customer Customer) Intent {
	return Intent{
		Kind:      IntentSale,
		Amount:    amount,
		Currency:  currency,
		CardToken: cardToken,
		Billing:   billing,
		Customer:  customer,
		OrderID:   orderID,
		HasAmount: true,
	}
}

// NewRefund builds a refund intent against a settled transaction.
func NewRefund(transactionID, orderID string, amount decimal.Decimal) Intent {
	return Intent{
		Kind:          IntentRefund,
		TransactionID: transactionID,
		OrderID:       orderID,
		Amount:        amount,
		HasAmount:     true,
	}
}

// NewCapture builds a capture intent. amount is nil for a full capture.
func NewCapture(transactionID string, amount *decimal.Decimal) Intent {
	in := Intent{
		Kind:          IntentCapture,
		TransactionID: transactionID,
	}
	if amount != nil {
		in.Amount = *amount
		in.HasAmount = true
	}
	return in
}

// NewVoid builds a void intent.
func NewVoid(transactionID string) Intent {
	return Intent{Kind: IntentVoid, TransactionID: transactionID}
}

// NewQuery builds a status query intent.
func NewQuery(transactionID string) Intent {
	return Intent{Kind: IntentQuery, TransactionID: transactionID}
}

// Validate checks the intent's structural constraints. It runs before any
// token or gateway call, so a malformed intent costs no network activity.
func (in Intent) Validate() error {
	switch in.Kind {
	case IntentSale:
		if in.CardToken == "" {
			return &ValidationError{Field: "token", Msg: "card token is required"}
		}
		if in.OrderID == "" {
			return &ValidationError{Field: "order_id", Msg: "order id is required"}
		}
		if !in.HasAmount || in.Amount.IsNegative() || in.Amount.IsZero() {
			return &ValidationError{Field: "amount", Msg: "amount must be positive"}
		}
	case IntentRefund:
		if in.TransactionID == "" {
			return &ValidationError{Field: "transaction_id", Msg: "transaction id is required"}
		}
		if !in.HasAmount || in.Amount.IsNegative() || in.Amount.IsZero() {
			return &ValidationError{Field: "amount", Msg: "amount must be positive"}
		}
	case IntentCapture:
		if in.TransactionID == "" {
			return &ValidationError{Field: "transaction_id", Msg: "transaction id is required"}
		}
		if in.HasAmount && in.Amount.IsNegative() {
			return &ValidationError{Field: "amount", Msg: "amount must not be negative"}
		}
	case IntentVoid, IntentQuery:
		if in.TransactionID == "" {
			return &ValidationError{Field: "transaction_id", Msg: "transaction id is required"}
		}
	default:
		return &ValidationError{Msg: "unknown intent kind"}
	}
	return nil
}

// idempotentSafe reports whether a transport failure of this intent may be
// retried without risking a duplicate submission. Query, void and capture
// repeat harmlessly; a sale or refund whose response was lost might already
// have reached the gateway, and PaidYET offers no idempotency key to make
// resubmission safe.
func (in Intent) idempotentSafe() bool {
	switch in.Kind {
	case IntentQuery, IntentVoid, IntentCapture:
		return true
	default:
		return false
	}
}
