//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/manojneupaneweb/GoGain-sub000/internal/domain"
	"github.com/manojneupaneweb/GoGain-sub000/internal/domain/model"
	"github.com/manojneupaneweb/GoGain-sub000/internal/domain/ports/adapter"
	"github.com/manojneupaneweb/GoGain-sub000/internal/domain/ports/repository"
)

// --- Mock payment gateway

type MockGateway struct {
	NameVal      model.Provider
	InitiateFunc func(ctx context.Context, intent *model.PaymentIntent, returnURL string) (*adapter.Redirect, error)
}

var _ adapter.PaymentGateway = (*MockGateway)(nil)

func (m *MockGateway) Name() model.Provider {
	if m.NameVal == "" {
		return model.Provider("mockpay")
	}
	return m.NameVal
}

func (m *MockGateway) Initiate(ctx context.Context, intent *model.PaymentIntent, returnURL string) (*adapter.Redirect, error) {
	if m.InitiateFunc != nil {
		return m.InitiateFunc(ctx, intent, returnURL)
	}
	token := "TOK-" + uuid.NewString()
	return &adapter.Redirect{
		Kind:          adapter.RedirectURL,
		URL:           "https://pay.example/" + token,
		CorrelationID: token,
	}, nil
}

// --- Mock commerce backend

type MockBackend struct {
	mu   sync.Mutex
	cart []model.CartLineItem

	createOrderCalls int
	createPlanCalls  int

	InitiatePaymentFunc func(ctx context.Context, provider model.Provider, amountMinor int64, productID, redirectLink string) (string, string, error)
	VerifyPaymentFunc   func(ctx context.Context, provider model.Provider, correlationID string) (*model.VerificationResult, error)
	CreateOrderFunc     func(ctx context.Context, v *model.VerificationResult, items []model.CartLineItem) (string, error)
	CreatePlanFunc      func(ctx context.Context, v *model.VerificationResult, plan *model.PlanItem) (string, error)
	FetchCartFunc       func(ctx context.Context) ([]model.CartLineItem, error)
	UpdateCartItemFunc  func(ctx context.Context, productID string, quantity int) error
	RemoveCartItemFunc  func(ctx context.Context, productID string) error
}

var _ adapter.CommerceBackend = (*MockBackend)(nil)

func NewMockBackend() *MockBackend { return &MockBackend{} }

func (m *MockBackend) SetCart(items []model.CartLineItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cart = append([]model.CartLineItem(nil), items...)
}

func (m *MockBackend) CreateOrderCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createOrderCalls
}

func (m *MockBackend) CreatePlanCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createPlanCalls
}

func (m *MockBackend) InitiatePayment(ctx context.Context, provider model.Provider, amountMinor int64, productID, redirectLink string) (string, string, error) {
	if m.InitiatePaymentFunc != nil {
		return m.InitiatePaymentFunc(ctx, provider, amountMinor, productID, redirectLink)
	}
	pidx := "PIDX-" + uuid.NewString()
	return "https://pay.example/" + pidx, pidx, nil
}

func (m *MockBackend) VerifyPayment(ctx context.Context, provider model.Provider, correlationID string) (*model.VerificationResult, error) {
	if m.VerifyPaymentFunc != nil {
		return m.VerifyPaymentFunc(ctx, provider, correlationID)
	}
	return &model.VerificationResult{Success: true, ProviderStatus: "Completed", CorrelationID: correlationID, TransactionID: "TXN-" + correlationID}, nil
}

func (m *MockBackend) CreateOrder(ctx context.Context, v *model.VerificationResult, items []model.CartLineItem) (string, error) {
	m.mu.Lock()
	m.createOrderCalls++
	m.mu.Unlock()
	if m.CreateOrderFunc != nil {
		return m.CreateOrderFunc(ctx, v, items)
	}
	return "order-" + uuid.NewString(), nil
}

func (m *MockBackend) CreatePlan(ctx context.Context, v *model.VerificationResult, plan *model.PlanItem) (string, error) {
	m.mu.Lock()
	m.createPlanCalls++
	m.mu.Unlock()
	if m.CreatePlanFunc != nil {
		return m.CreatePlanFunc(ctx, v, plan)
	}
	return "plan-" + uuid.NewString(), nil
}

func (m *MockBackend) FetchCart(ctx context.Context) ([]model.CartLineItem, error) {
	if m.FetchCartFunc != nil {
		return m.FetchCartFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.CartLineItem(nil), m.cart...), nil
}

func (m *MockBackend) UpdateCartItem(ctx context.Context, productID string, quantity int) error {
	if m.UpdateCartItemFunc != nil {
		return m.UpdateCartItemFunc(ctx, productID, quantity)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.cart {
		if m.cart[i].ProductID == productID {
			m.cart[i].Quantity = quantity
			return nil
		}
	}
	m.cart = append(m.cart, model.CartLineItem{ProductID: productID, Quantity: quantity})
	return nil
}

func (m *MockBackend) RemoveCartItem(ctx context.Context, productID string) error {
	if m.RemoveCartItemFunc != nil {
		return m.RemoveCartItemFunc(ctx, productID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.cart[:0]
	for _, li := range m.cart {
		if li.ProductID != productID {
			kept = append(kept, li)
		}
	}
	m.cart = kept
	return nil
}

// --- In-memory single-use intent store

type MemIntentStore struct {
	mu    sync.Mutex
	store map[string]*model.PaymentIntent

	StageFunc func(ctx context.Context, sessionID string, intent *model.PaymentIntent) error
	TakeFunc  func(ctx context.Context, sessionID string) (*model.PaymentIntent, error)
}

var _ repository.PendingIntentStore = (*MemIntentStore)(nil)

func NewMemIntentStore() *MemIntentStore {
	return &MemIntentStore{store: map[string]*model.PaymentIntent{}}
}

func (s *MemIntentStore) Stage(ctx context.Context, sessionID string, intent *model.PaymentIntent) error {
	if s.StageFunc != nil {
		return s.StageFunc(ctx, sessionID, intent)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *intent
	s.store[sessionID] = &cp
	return nil
}

func (s *MemIntentStore) Take(ctx context.Context, sessionID string) (*model.PaymentIntent, error) {
	if s.TakeFunc != nil {
		return s.TakeFunc(ctx, sessionID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	intent, ok := s.store[sessionID]
	if !ok {
		return nil, domain.ErrNoStagedIntent
	}
	delete(s.store, sessionID)
	return intent, nil
}

// --- In-memory payment ledger

type MockLedger struct {
	mu     sync.Mutex
	data   map[string]*model.PaymentRecord
	byCorr map[string]string

	SaveFunc                  func(ctx context.Context, qx repository.Tx, rec *model.PaymentRecord) error
	UpdateStatusIfPendingFunc func(ctx context.Context, qx repository.Tx, id string, status model.PaymentStatus, refID *string, paidAt *time.Time) (bool, error)
}

var _ repository.PaymentLedger = (*MockLedger)(nil)

func NewMockLedger() *MockLedger {
	return &MockLedger{data: map[string]*model.PaymentRecord{}, byCorr: map[string]string{}}
}

func (r *MockLedger) Save(ctx context.Context, qx repository.Tx, rec *model.PaymentRecord) error {
	if r.SaveFunc != nil {
		return r.SaveFunc(ctx, qx, rec)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *rec
	r.data[rec.ID] = &cp
	if rec.CorrelationID != "" {
		r.byCorr[rec.CorrelationID] = rec.ID
	}
	return nil
}

func (r *MockLedger) FindByID(ctx context.Context, qx repository.Tx, id string) (*model.PaymentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.data[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (r *MockLedger) FindByCorrelationID(ctx context.Context, qx repository.Tx, correlationID string) (*model.PaymentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byCorr[correlationID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *r.data[id]
	return &cp, nil
}

func (r *MockLedger) UpdateStatusIfPending(ctx context.Context, qx repository.Tx, id string, status model.PaymentStatus, refID *string, paidAt *time.Time) (bool, error) {
	if r.UpdateStatusIfPendingFunc != nil {
		return r.UpdateStatusIfPendingFunc(ctx, qx, id, status, refID, paidAt)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.data[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	if rec.Status != model.PaymentStatusInitiated && rec.Status != model.PaymentStatusPending {
		return false, nil
	}
	rec.Status = status
	if refID != nil {
		rec.RefID = *refID
	}
	if paidAt != nil {
		rec.PaidAt = paidAt
	}
	rec.UpdatedAt = time.Now()
	return true, nil
}

func (r *MockLedger) MarkSettled(ctx context.Context, qx repository.Tx, id string, orderID string, settledAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.data[id]
	if !ok {
		return domain.ErrNotFound
	}
	rec.Status = model.PaymentStatusSettled
	rec.OrderID = orderID
	rec.SettledAt = &settledAt
	return nil
}

func (r *MockLedger) ListPendingOlderThan(ctx context.Context, qx repository.Tx, cutoff time.Time, limit int) ([]*model.PaymentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.PaymentRecord
	for _, rec := range r.data {
		if len(out) >= limit {
			break
		}
		if (rec.Status == model.PaymentStatusInitiated || rec.Status == model.PaymentStatusPending) && rec.CreatedAt.Before(cutoff) {
			cp := *rec
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *MockLedger) MarkExpired(ctx context.Context, qx repository.Tx, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.data[id]
	if !ok {
		return domain.ErrNotFound
	}
	if rec.Status == model.PaymentStatusInitiated || rec.Status == model.PaymentStatusPending {
		rec.Status = model.PaymentStatusExpired
	}
	return nil
}

// --- In-memory locker

type MemLocker struct {
	mu   sync.Mutex
	held map[string]string
}

func NewMemLocker() *MemLocker { return &MemLocker{held: map[string]string{}} }

func (l *MemLocker) TryLock(ctx context.Context, key string, ttl time.Duration) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, taken := l.held[key]; taken {
		return "", domain.ErrSettlementInFlight
	}
	token := uuid.NewString()
	l.held[key] = token
	return token, nil
}

func (l *MemLocker) Unlock(ctx context.Context, key, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] == token {
		delete(l.held, key)
		return nil
	}
	return errors.New("unlock token mismatch")
}

// newTestLogger creates a silent zerolog.Logger for use in tests.
func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}
