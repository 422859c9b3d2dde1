package gateway

import (
	"context"
	"fmt"
	"sync"

	"github.com/manojneupaneweb/GoGain-sub000/internal/domain/model"
	"github.com/manojneupaneweb/GoGain-sub000/internal/domain/ports/adapter"
)

var _ adapter.PaymentGateway = (*NoopGateway)(nil)

// NoopGateway is a simple in-memory gateway for tests and dev mode.
type NoopGateway struct {
	mu  sync.Mutex
	seq int64
}

func NewNoopGateway() *NoopGateway { return &NoopGateway{} }

func (g *NoopGateway) Name() model.Provider { return model.Provider("noop") }

func (g *NoopGateway) Initiate(ctx context.Context, intent *model.PaymentIntent, returnURL string) (*adapter.Redirect, error) {
	if err := intent.Validate(); err != nil {
		return nil, err
	}
	g.mu.Lock()
	g.seq++
	token := fmt.Sprintf("noop-%d", g.seq)
	g.mu.Unlock()
	return &adapter.Redirect{
		Kind:          adapter.RedirectURL,
		URL:           "https://example.test/pay/" + token,
		CorrelationID: token,
	}, nil
}
