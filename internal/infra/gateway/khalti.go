package gateway

import (
	"context"
	"fmt"

	"github.com/manojneupaneweb/GoGain-sub000/internal/domain"
	"github.com/manojneupaneweb/GoGain-sub000/internal/domain/model"
	"github.com/manojneupaneweb/GoGain-sub000/internal/domain/ports/adapter"
)

var _ adapter.PaymentGateway = (*KhaltiGateway)(nil)

// KhaltiGateway implements the token-initiate provider. The commerce
// backend holds the provider's server-side key and performs the actual
// initiate call; this adapter only converts the amount and follows the
// returned payment URL.
type KhaltiGateway struct {
	backend adapter.CommerceBackend
}

func NewKhaltiGateway(backend adapter.CommerceBackend) *KhaltiGateway {
	return &KhaltiGateway{backend: backend}
}

func (g *KhaltiGateway) Name() model.Provider { return model.ProviderKhalti }

// Initiate obtains an opaque payment URL from the backend. The provider
// bills in paisa, so the rupee amount is converted here: amount x 100,
// integer exact.
func (g *KhaltiGateway) Initiate(ctx context.Context, intent *model.PaymentIntent, returnURL string) (*adapter.Redirect, error) {
	if err := intent.Validate(); err != nil {
		return nil, err
	}

	// The initiate contract wants a product reference. A plan or a single
	// line item has a natural one; a multi-line cart is identified by the
	// intent id, which is also the ledger row id.
	productID := intent.ID
	if intent.Plan != nil {
		productID = intent.Plan.ID
	} else if len(intent.Items) == 1 {
		productID = intent.Items[0].ProductID
	}

	amountPaisa := intent.Amount * 100
	payURL, pidx, err := g.backend.InitiatePayment(ctx, model.ProviderKhalti, amountPaisa, productID, returnURL)
	if err != nil {
		return nil, fmt.Errorf("khalti initiate: %w", err)
	}
	if payURL == "" {
		return nil, fmt.Errorf("khalti initiate: %w", domain.ErrInitiationFailed)
	}

	return &adapter.Redirect{
		Kind:          adapter.RedirectURL,
		URL:           payURL,
		CorrelationID: pidx,
	}, nil
}
