package esewa

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"github.com/merobazar/payrecon/internal/core/domain"
)

// SignedFieldNames is the field list the gateway expects to be covered by
// the signature, in this exact order.
const SignedFieldNames = "total_amount,transaction_uuid,product_code"

// Sign produces the gateway signature: base64 of HMAC-SHA256 over the
// canonical message
//
//	total_amount=<a>,transaction_uuid=<t>,product_code=<p>
//
// The message must match the gateway's documented format byte for byte or
// the payment request is rejected. Deterministic, no side effects.
func Sign(totalAmount, transactionUUID, productCode, secret string) (string, error) {
	if totalAmount == "" || transactionUUID == "" || productCode == "" || secret == "" {
		return "", domain.ErrSignatureFields
	}

	message := fmt.Sprintf("total_amount=%s,transaction_uuid=%s,product_code=%s",
		totalAmount, transactionUUID, productCode)

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(message))

	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}
