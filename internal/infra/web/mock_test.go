//go:build !integration

package web_test

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"github.com/manojneupaneweb/GoGain-sub000/internal/domain/model"
	"github.com/manojneupaneweb/GoGain-sub000/internal/domain/ports/adapter"
	"github.com/manojneupaneweb/GoGain-sub000/internal/usecase"
)

type MockCheckoutUC struct {
	BeginCartCheckoutFunc func(ctx context.Context, sessionID string, provider model.Provider, items []model.CartLineItem, returnURL string) (*adapter.Redirect, error)
	BeginPlanPurchaseFunc func(ctx context.Context, sessionID string, provider model.Provider, plan *model.PlanItem, returnURL string) (*adapter.Redirect, error)
}

var _ usecase.CheckoutUseCase = (*MockCheckoutUC)(nil)

func (m *MockCheckoutUC) BeginCartCheckout(ctx context.Context, sessionID string, provider model.Provider, items []model.CartLineItem, returnURL string) (*adapter.Redirect, error) {
	if m.BeginCartCheckoutFunc != nil {
		return m.BeginCartCheckoutFunc(ctx, sessionID, provider, items, returnURL)
	}
	return &adapter.Redirect{Kind: adapter.RedirectURL, URL: "https://pay.example/x", CorrelationID: "CORR-1"}, nil
}

func (m *MockCheckoutUC) BeginPlanPurchase(ctx context.Context, sessionID string, provider model.Provider, plan *model.PlanItem, returnURL string) (*adapter.Redirect, error) {
	if m.BeginPlanPurchaseFunc != nil {
		return m.BeginPlanPurchaseFunc(ctx, sessionID, provider, plan, returnURL)
	}
	return &adapter.Redirect{Kind: adapter.RedirectURL, URL: "https://pay.example/x", CorrelationID: "CORR-1"}, nil
}

type MockSettlementUC struct {
	SettleCalls int
	SettleFunc  func(ctx context.Context, sessionID string, provider model.Provider, correlationID string) (*model.Settlement, error)
}

var _ usecase.SettlementUseCase = (*MockSettlementUC)(nil)

func (m *MockSettlementUC) Settle(ctx context.Context, sessionID string, provider model.Provider, correlationID string) (*model.Settlement, error) {
	m.SettleCalls++
	if m.SettleFunc != nil {
		return m.SettleFunc(ctx, sessionID, provider, correlationID)
	}
	return &model.Settlement{Kind: model.IntentCartCheckout, OrderID: "order-1", RefID: "TXN-1"}, nil
}

type MockCartUC struct {
	ItemsVal     []model.CartLineItem            // shared default when Carts is nil
	Carts        map[string][]model.CartLineItem // per-session line items
	SeenSessions []string

	RefreshFunc        func(ctx context.Context, sessionID string) ([]model.CartLineItem, error)
	AddItemFunc        func(ctx context.Context, sessionID string, item model.CartLineItem) error
	UpdateQuantityFunc func(ctx context.Context, sessionID, productID string, quantity int) error
	RemoveItemFunc     func(ctx context.Context, sessionID, productID string) error
}

var _ usecase.CartUseCase = (*MockCartUC)(nil)

func (m *MockCartUC) see(sessionID string) []model.CartLineItem {
	m.SeenSessions = append(m.SeenSessions, sessionID)
	if m.Carts != nil {
		return m.Carts[sessionID]
	}
	return m.ItemsVal
}

func (m *MockCartUC) Refresh(ctx context.Context, sessionID string) ([]model.CartLineItem, error) {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, sessionID)
	}
	return m.see(sessionID), nil
}

func (m *MockCartUC) Items(sessionID string) []model.CartLineItem { return m.see(sessionID) }

func (m *MockCartUC) Totals(sessionID string) model.CartTotals {
	return model.DefaultShippingPolicy.Totals(m.see(sessionID))
}

func (m *MockCartUC) AddItem(ctx context.Context, sessionID string, item model.CartLineItem) error {
	if m.AddItemFunc != nil {
		return m.AddItemFunc(ctx, sessionID, item)
	}
	m.ItemsVal = append(m.ItemsVal, item)
	return nil
}

func (m *MockCartUC) UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) error {
	if m.UpdateQuantityFunc != nil {
		return m.UpdateQuantityFunc(ctx, sessionID, productID, quantity)
	}
	for i := range m.ItemsVal {
		if m.ItemsVal[i].ProductID == productID {
			m.ItemsVal[i].Quantity = quantity
		}
	}
	return nil
}

func (m *MockCartUC) RemoveItem(ctx context.Context, sessionID, productID string) error {
	if m.RemoveItemFunc != nil {
		return m.RemoveItemFunc(ctx, sessionID, productID)
	}
	kept := m.ItemsVal[:0]
	for _, li := range m.ItemsVal {
		if li.ProductID != productID {
			kept = append(kept, li)
		}
	}
	m.ItemsVal = kept
	return nil
}

func (m *MockCartUC) ClearLocal(sessionID string) {
	if m.Carts != nil {
		delete(m.Carts, sessionID)
		return
	}
	m.ItemsVal = nil
}

func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}
