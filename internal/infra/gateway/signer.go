package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"github.com/manojneupaneweb/GoGain-sub000/internal/domain"
)

// signedFieldNames is the exact order the provider verifies the signature
// over. This is a wire-format contract: the canonical string must be built
// in this order with "=" and "," separators or verification fails remotely.
const signedFieldNames = "total_amount,transaction_uuid,product_code"

// SignedFields is the input to the signer: the three values bound together
// by the signature.
type SignedFields struct {
	TotalAmount     int64
	TransactionUUID string
	ProductCode     string
}

// Sign computes the keyed MAC the redirect-form provider expects:
// HMAC-SHA256 over "total_amount=<v>,transaction_uuid=<v>,product_code=<v>",
// base64 standard encoding. Pure; the secret never leaves this function.
//
// The upstream storefront shipped this secret to browsers. Here it stays in
// service config, but production deployments should still treat it as a
// provider-shared credential, not an app secret.
func Sign(f SignedFields, secret string) (string, error) {
	if f.TotalAmount <= 0 {
		return "", domain.ErrMissingAmount
	}
	if f.TransactionUUID == "" || f.ProductCode == "" || secret == "" {
		return "", domain.ErrMissingSignedField
	}

	msg := fmt.Sprintf("total_amount=%d,transaction_uuid=%s,product_code=%s",
		f.TotalAmount, f.TransactionUUID, f.ProductCode)

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(msg))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}
