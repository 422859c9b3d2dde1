// File: internal/usecase/cart_uc.go
package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/manojneupaneweb/GoGain-sub000/internal/domain"
	"github.com/manojneupaneweb/GoGain-sub000/internal/domain/model"
	"github.com/manojneupaneweb/GoGain-sub000/internal/domain/ports/adapter"
	"github.com/manojneupaneweb/GoGain-sub000/internal/infra/metrics"
)

// Compile-time check
var _ CartUseCase = (*cartUC)(nil)

// CartUseCase is the optimistic cart store, keyed by session so one
// shopper's snapshot never leaks into another's checkout. Mutations apply
// locally first, then go to the backend; a rejection rolls the session's
// state back to a fresh server snapshot rather than undoing the local
// change, because concurrent mutations make algebraic undo unsound.
type CartUseCase interface {
	Refresh(ctx context.Context, sessionID string) ([]model.CartLineItem, error)
	Items(sessionID string) []model.CartLineItem
	Totals(sessionID string) model.CartTotals
	AddItem(ctx context.Context, sessionID string, item model.CartLineItem) error
	UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) error
	RemoveItem(ctx context.Context, sessionID, productID string) error
	ClearLocal(sessionID string)
}

// cartIdleTTL bounds how long an untouched session's snapshot is kept.
// The backend remains the source of truth, so dropping an idle snapshot
// only costs one refetch on the shopper's next visit.
const cartIdleTTL = time.Hour

// cartState is one session's optimistic view of its cart.
type cartState struct {
	items     []model.CartLineItem
	confirmed []model.CartLineItem // last server-confirmed snapshot
	touched   time.Time
}

type cartUC struct {
	backend  adapter.CommerceBackend
	shipping model.ShippingPolicy
	log      *zerolog.Logger

	mu       sync.Mutex
	sessions map[string]*cartState
}

// NewCartUseCase builds the session-keyed cart store; callers inject it
// rather than sharing an ambient singleton so tests get one store per case.
func NewCartUseCase(backend adapter.CommerceBackend, shipping model.ShippingPolicy, logger *zerolog.Logger) *cartUC {
	if shipping == (model.ShippingPolicy{}) {
		shipping = model.DefaultShippingPolicy
	}
	return &cartUC{
		backend:  backend,
		shipping: shipping,
		log:      logger,
		sessions: make(map[string]*cartState),
	}
}

func cloneItems(items []model.CartLineItem) []model.CartLineItem {
	out := make([]model.CartLineItem, len(items))
	copy(out, items)
	return out
}

// state returns the session's entry, creating it when absent. Callers must
// hold u.mu. Idle entries past cartIdleTTL are pruned on the way in.
func (u *cartUC) state(sessionID string) *cartState {
	now := time.Now()
	for sid, st := range u.sessions {
		if now.Sub(st.touched) > cartIdleTTL {
			delete(u.sessions, sid)
		}
	}
	st, ok := u.sessions[sessionID]
	if !ok {
		st = &cartState{}
		u.sessions[sessionID] = st
	}
	st.touched = now
	return st
}

// Refresh replaces the session's local state with the backend's cart. The
// backend call carries the caller's credential from ctx, so each session
// fetches its own cart.
func (u *cartUC) Refresh(ctx context.Context, sessionID string) ([]model.CartLineItem, error) {
	items, err := u.backend.FetchCart(ctx)
	if err != nil {
		return nil, err
	}
	u.mu.Lock()
	st := u.state(sessionID)
	st.items = cloneItems(items)
	st.confirmed = cloneItems(items)
	u.mu.Unlock()
	return items, nil
}

func (u *cartUC) Items(sessionID string) []model.CartLineItem {
	u.mu.Lock()
	defer u.mu.Unlock()
	return cloneItems(u.state(sessionID).items)
}

func (u *cartUC) Totals(sessionID string) model.CartTotals {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.shipping.Totals(u.state(sessionID).items)
}

func (u *cartUC) AddItem(ctx context.Context, sessionID string, item model.CartLineItem) error {
	if err := item.Validate(); err != nil {
		return err
	}
	qty := item.Quantity
	u.mu.Lock()
	st := u.state(sessionID)
	found := false
	for i := range st.items {
		if st.items[i].ProductID == item.ProductID {
			st.items[i].Quantity += item.Quantity
			qty = st.items[i].Quantity
			found = true
			break
		}
	}
	if !found {
		st.items = append(st.items, item)
	}
	u.mu.Unlock()

	return u.confirmMutation(ctx, sessionID, "add", func() error {
		return u.backend.UpdateCartItem(ctx, item.ProductID, qty)
	})
}

func (u *cartUC) UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) error {
	if productID == "" || quantity <= 0 {
		return domain.ErrInvalidArgument
	}
	u.mu.Lock()
	st := u.state(sessionID)
	for i := range st.items {
		if st.items[i].ProductID == productID {
			st.items[i].Quantity = quantity
			break
		}
	}
	u.mu.Unlock()

	return u.confirmMutation(ctx, sessionID, "update", func() error {
		return u.backend.UpdateCartItem(ctx, productID, quantity)
	})
}

func (u *cartUC) RemoveItem(ctx context.Context, sessionID, productID string) error {
	if productID == "" {
		return domain.ErrInvalidArgument
	}
	u.mu.Lock()
	st := u.state(sessionID)
	kept := st.items[:0]
	for _, li := range st.items {
		if li.ProductID != productID {
			kept = append(kept, li)
		}
	}
	st.items = kept
	u.mu.Unlock()

	return u.confirmMutation(ctx, sessionID, "remove", func() error {
		return u.backend.RemoveCartItem(ctx, productID)
	})
}

// confirmMutation finishes an optimistic mutation: on backend acceptance
// the session's local state becomes its confirmed snapshot; on rejection
// the session reverts to a fresh server fetch (or, if even that fails, the
// last confirmed snapshot).
func (u *cartUC) confirmMutation(ctx context.Context, sessionID, op string, call func() error) error {
	if err := call(); err != nil {
		metrics.IncCartMutation(op, "rejected")
		if _, rerr := u.Refresh(ctx, sessionID); rerr != nil {
			u.mu.Lock()
			st := u.state(sessionID)
			st.items = cloneItems(st.confirmed)
			u.mu.Unlock()
			u.log.Warn().Err(rerr).Str("op", op).Msg("rollback refetch failed; restored last confirmed snapshot")
		}
		return fmt.Errorf("%w: %v", domain.ErrCartRejected, err)
	}
	u.mu.Lock()
	st := u.state(sessionID)
	st.confirmed = cloneItems(st.items)
	u.mu.Unlock()
	metrics.IncCartMutation(op, "ok")
	return nil
}

// ClearLocal drops the session's line items after settlement confirmed an
// order was created from them. Backend-side cleanup is the backend's job.
func (u *cartUC) ClearLocal(sessionID string) {
	u.mu.Lock()
	delete(u.sessions, sessionID)
	u.mu.Unlock()
}
