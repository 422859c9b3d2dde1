package gateway

import (
	"context"
	"strconv"

	"github.com/google/uuid"

	"github.com/manojneupaneweb/GoGain-sub000/internal/domain/model"
	"github.com/manojneupaneweb/GoGain-sub000/internal/domain/ports/adapter"
)

var _ adapter.PaymentGateway = (*EsewaGateway)(nil)

// EsewaGateway implements the redirect-form provider: the user leaves the
// app through a signed HTML form POST and the provider renders its own UI.
type EsewaGateway struct {
	formURL     string
	productCode string
	secret      string
}

// NewEsewaGateway creates the redirect-form gateway. Sandbox selects the
// provider's test form endpoint.
func NewEsewaGateway(productCode, secret string, sandbox bool) *EsewaGateway {
	formURL := "https://epay.esewa.com.np/api/epay/main/v2/form"
	if sandbox {
		formURL = "https://rc-epay.esewa.com.np/api/epay/main/v2/form"
	}
	return &EsewaGateway{formURL: formURL, productCode: productCode, secret: secret}
}

func (g *EsewaGateway) Name() model.Provider { return model.ProviderEsewa }

// Initiate builds the signed form-post redirect for a staged intent. A
// fresh transaction UUID is generated per initiation; the signature binds
// it to the amount and product code, so no field may change afterwards
// without re-signing.
func (g *EsewaGateway) Initiate(ctx context.Context, intent *model.PaymentIntent, returnURL string) (*adapter.Redirect, error) {
	if err := intent.Validate(); err != nil {
		return nil, err
	}

	txnUUID := uuid.NewString()
	sig, err := Sign(SignedFields{
		TotalAmount:     intent.Amount,
		TransactionUUID: txnUUID,
		ProductCode:     g.productCode,
	}, g.secret)
	if err != nil {
		return nil, err
	}

	amount := strconv.FormatInt(intent.Amount, 10)
	fields := []adapter.FormField{
		{Name: "amount", Value: amount},
		{Name: "tax_amount", Value: "0"},
		{Name: "total_amount", Value: amount},
		{Name: "transaction_uuid", Value: txnUUID},
		{Name: "product_service_charge", Value: "0"},
		{Name: "product_delivery_charge", Value: "0"},
		{Name: "product_code", Value: g.productCode},
		{Name: "success_url", Value: returnURL},
		{Name: "failure_url", Value: returnURL},
		{Name: "signed_field_names", Value: signedFieldNames},
		{Name: "signature", Value: sig},
	}

	return &adapter.Redirect{
		Kind:            adapter.RedirectForm,
		URL:             g.formURL,
		Fields:          fields,
		TransactionUUID: txnUUID,
		CorrelationID:   txnUUID,
	}, nil
}
