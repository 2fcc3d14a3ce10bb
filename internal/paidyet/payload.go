package paidyet

import (
	"encoding/json"
	"strings"
)

// CustomField is a key/value pair the gateway stores alongside a
// transaction.
type CustomField struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

const platformName = "shopify"

// SalePayload is the canonical POST /transaction body.
type SalePayload struct {
	Type         string        `json:"type"`
	Amount       json.Number   `json:"amount"`
	Currency     string        `json:"currency,omitempty"`
	CreditCard   CreditCard    `json:"credit_card"`
	Email        string        `json:"email"`
	OrderID      string        `json:"order_id"`
	Invoice      string        `json:"invoice"`
	Source       string        `json:"source"`
	CustomFields []CustomField `json:"custom_fields"`
	MerchantUUID string        `json:"merchant_uuid,omitempty"`
}

// CreditCard carries the tokenized card reference plus billing details.
type CreditCard struct {
	Token          string         `json:"token"`
	BillingAddress billingAddress `json:"billing_address"`
	Name           string         `json:"name"`
	Email          string         `json:"email"`
}

type billingAddress struct {
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Postal  string `json:"postal"`
}

// RefundPayload is the POST /transaction/refund/:id body.
type RefundPayload struct {
	Type    string      `json:"type"`
	Amount  json.Number `json:"amount"`
	OrderID string      `json:"order_id,omitempty"`
}

// CapturePayload is the PUT /transaction/capture/:id body. Amount is empty
// for a full capture.
type CapturePayload struct {
	Amount json.Number `json:"amount,omitempty"`
}

// BuildSalePayload shapes a sale intent into the canonical gateway body.
// The platform and order-id custom fields are always attached, exactly once
// each, regardless of which optional billing/customer fields are present.
func BuildSalePayload(in Intent) SalePayload {
	name := strings.TrimSpace(in.Customer.FirstName + " " + in.Customer.LastName)

	return SalePayload{
		Type:     "sale",
		Amount:   json.Number(in.Amount.String()),
		Currency: in.Currency,
		CreditCard: CreditCard{
			Token: in.CardToken,
			BillingAddress: billingAddress{
				Address: in.Billing.Address,
				City:    in.Billing.City,
				State:   in.Billing.State,
				Postal:  in.Billing.Postal,
			},
			Name:  name,
			Email: in.Customer.Email,
		},
		Email:   in.Customer.Email,
		OrderID: in.OrderID,
		Invoice: in.OrderID,
		Source:  platformName,
		CustomFields: []CustomField{
			{Key: "platform", Value: platformName},
			{Key: "order_id", Value: in.OrderID},
		},
		MerchantUUID: in.MerchantUUID,
	}
}

// BuildRefundPayload shapes a refund intent into the gateway body.
func BuildRefundPayload(in Intent) RefundPayload {
	return RefundPayload{
		Type:    "refund",
		Amount:  json.Number(in.Amount.String()),
		OrderID: in.OrderID,
	}
}

// BuildCapturePayload shapes a capture intent into the gateway body.
func BuildCapturePayload(in Intent) CapturePayload {
	if !in.HasAmount {
		return CapturePayload{}
	}
	return CapturePayload{Amount: json.Number(in.Amount.String())}
}
