package authnet

import (
	"bytes"
	"encoding/json"
)

// MerchantAuthentication carries the gateway credentials on every request.
type MerchantAuthentication struct {
	Name           string `json:"name"`
	TransactionKey string `json:"transactionKey"`
}

// Message is a single entry from the response messages envelope.
type Message struct {
	Code string `json:"code"`
	Text string `json:"text"`
}

// TransactionError is a transaction-level hard error. These can appear
// even when the envelope resultCode is Ok (e.g. a declined card).
type TransactionError struct {
	ErrorCode string `json:"errorCode"`
	ErrorText string `json:"errorText"`
}

// OneOrMany normalizes the gateway's singular-vs-plural payload shapes.
// A single element arrives as a bare object, multiple as a list, and the
// XML-derived shapes wrap either in a single-key object ({"batch": ...},
// {"string": ...}). All of them decode into a plain slice so business
// code never branches on shape.
type OneOrMany[T any] []T

func (m *OneOrMany[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*m = nil
		return nil
	}
	if data[0] == '[' {
		var items []T
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*m = items
		return nil
	}
	if data[0] == '{' {
		var wrapper map[string]json.RawMessage
		if err := json.Unmarshal(data, &wrapper); err == nil && len(wrapper) == 1 {
			for _, inner := range wrapper {
				var nested OneOrMany[T]
				if err := json.Unmarshal(inner, &nested); err == nil {
					*m = nested
					return nil
				}
			}
		}
	}
	var single T
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*m = OneOrMany[T]{single}
	return nil
}

// First returns the first element when present.
func (m OneOrMany[T]) First() (T, bool) {
	if len(m) == 0 {
		var zero T
		return zero, false
	}
	return m[0], true
}

// BillTo is the billing address block. Empty optional fields are omitted
// because the gateway rejects blank strings.
type BillTo struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Company   string `json:"company,omitempty"`
	Address   string `json:"address,omitempty"`
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`
	Zip       string `json:"zip,omitempty"`
	Country   string `json:"country,omitempty"`
}

// ShipTo mirrors BillTo for the shipping address block.
type ShipTo struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Company   string `json:"company,omitempty"`
	Address   string `json:"address,omitempty"`
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`
	Zip       string `json:"zip,omitempty"`
	Country   string `json:"country,omitempty"`
}

// OpaqueData is a one-time tokenized card or bank account.
type OpaqueData struct {
	DataDescriptor string `json:"dataDescriptor"`
	DataValue      string `json:"dataValue"`
}

// CreditCard is the masked card reference required on refunds.
type CreditCard struct {
	CardNumber     string `json:"cardNumber"`
	ExpirationDate string `json:"expirationDate"`
}

// PaymentData is the payment element of a transaction or payment profile.
// Exactly one member is set.
type PaymentData struct {
	OpaqueData *OpaqueData `json:"opaqueData,omitempty"`
	CreditCard *CreditCard `json:"creditCard,omitempty"`
}

// LineItem is a single itemized order line.
type LineItem struct {
	ItemID    string `json:"itemId"`
	Name      string `json:"name"`
	Quantity  string `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
}

// LineItems wraps the line item list the way the transaction schema wants.
type LineItems struct {
	LineItem []LineItem `json:"lineItem"`
}

// ExtendedAmount is a tax or shipping total.
type ExtendedAmount struct {
	Amount string `json:"amount"`
	Name   string `json:"name,omitempty"`
}

// OrderData identifies the order on a transaction.
type OrderData struct {
	InvoiceNumber string `json:"invoiceNumber"`
}

// PaymentProfileRef references a stored payment profile to charge.
type PaymentProfileRef struct {
	PaymentProfileID string `json:"paymentProfileId"`
}

// ProfileRef references a stored customer profile to charge.
type ProfileRef struct {
	CustomerProfileID string            `json:"customerProfileId"`
	PaymentProfile    PaymentProfileRef `json:"paymentProfile"`
}

// PaymentProfile is a payment method being stored under a customer profile.
type PaymentProfile struct {
	CustomerType string      `json:"customerType,omitempty"`
	BillTo       *BillTo     `json:"billTo,omitempty"`
	Payment      PaymentData `json:"payment"`
}

// Profile is a customer profile being created, optionally embedding one
// payment profile.
type Profile struct {
	MerchantCustomerID string           `json:"merchantCustomerId"`
	Email              string           `json:"email,omitempty"`
	PaymentProfiles    []PaymentProfile `json:"paymentProfiles,omitempty"`
}
