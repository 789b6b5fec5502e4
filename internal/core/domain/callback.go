package domain

import (
	"encoding/base64"
	"encoding/json"
	"net/url"
)

type PaymentOutcome string

const (
	OutcomeSuccess PaymentOutcome = "success"
	OutcomeFailure PaymentOutcome = "failure"
)

// EncodedPayload is the gateway's base64/JSON callback body, carried under
// a generic "data" query parameter.
type EncodedPayload struct {
	TransactionCode  string `json:"transaction_code"`
	Status           string `json:"status"`
	TotalAmount      string `json:"total_amount"`
	TransactionUUID  string `json:"transaction_uuid"`
	ProductCode      string `json:"product_code"`
	SignedFieldNames string `json:"signed_field_names"`
	Signature        string `json:"signature"`
}

// Callback is an inbound gateway notification. The same request may carry
// the transaction identifier both inside an encoded payload and as plain
// query parameters; resolution prefers the encoded form.
type Callback struct {
	Encoded         *EncodedPayload // nil when absent or undecodable
	TransactionUUID string
	Status          string
	RefID           string
}

// ParseCallback sniffs both known callback shapes from raw query values.
// A malformed encoded payload degrades to the plain parameters instead of
// rejecting the request.
func ParseCallback(values url.Values) Callback {
	cb := Callback{
		TransactionUUID: values.Get("transaction_uuid"),
		Status:          values.Get("status"),
		RefID:           values.Get("refId"),
	}

	if data := values.Get("data"); data != "" {
		raw, err := base64.StdEncoding.DecodeString(data)
		if err != nil {
			raw, err = base64.URLEncoding.DecodeString(data)
		}
		if err == nil {
			var payload EncodedPayload
			if json.Unmarshal(raw, &payload) == nil && payload.TransactionUUID != "" {
				cb.Encoded = &payload
			}
		}
	}

	return cb
}

// ReferenceID picks the gateway-supplied reference, falling back to the
// transaction identifier echoed in the callback.
func (c Callback) ReferenceID() string {
	if c.Encoded != nil && c.Encoded.TransactionCode != "" {
		return c.Encoded.TransactionCode
	}
	if c.RefID != "" {
		return c.RefID
	}
	if c.Encoded != nil && c.Encoded.TransactionUUID != "" {
		return c.Encoded.TransactionUUID
	}
	return c.TransactionUUID
}

// PaymentRequest is the signed payload handed to the client to forward to
// the gateway. Field set and naming follow the gateway form contract.
type PaymentRequest struct {
	Amount           string `json:"amount"`
	TotalAmount      string `json:"total_amount"`
	TransactionUUID  string `json:"transaction_uuid"`
	ProductCode      string `json:"product_code"`
	SuccessURL       string `json:"success_url"`
	FailureURL       string `json:"failure_url"`
	SignedFieldNames string `json:"signed_field_names"`
	Signature        string `json:"signature"`
}

// TransactionStatus is the gateway's answer to an out-of-band status query.
type TransactionStatus struct {
	ProductCode     string `json:"product_code"`
	TransactionUUID string `json:"transaction_uuid"`
	TotalAmount     string `json:"total_amount"`
	Status          string `json:"status"`
	RefID           string `json:"ref_id"`
}
