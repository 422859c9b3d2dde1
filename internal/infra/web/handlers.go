package web

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/manojneupaneweb/GoGain-sub000/internal/domain"
	"github.com/manojneupaneweb/GoGain-sub000/internal/domain/model"
	"github.com/manojneupaneweb/GoGain-sub000/internal/domain/ports/adapter"
)

// errorBody is the wire shape of every failure response. Kind is the
// classification from the error taxonomy; Message may carry the upstream
// provider text verbatim but never replaces Kind.
type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// classify maps a pipeline error onto its HTTP status and error kind.
// Support-required failures keep their own kind so the client can not
// render them as "try again".
func classify(err error) (int, errorBody) {
	switch {
	case errors.Is(err, domain.ErrMissingAmount),
		errors.Is(err, domain.ErrEmptyCart),
		errors.Is(err, domain.ErrUnknownProvider),
		errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest, errorBody{Kind: "validation", Message: err.Error()}
	case errors.Is(err, domain.ErrInitiationFailed):
		return http.StatusBadGateway, errorBody{Kind: "initiation_failed", Message: err.Error()}
	case errors.Is(err, domain.ErrNoPaymentReference):
		return http.StatusBadRequest, errorBody{Kind: "missing_reference", Message: "no payment reference"}
	case errors.Is(err, domain.ErrNoStagedIntent):
		return http.StatusNotFound, errorBody{Kind: "nothing_to_settle", Message: "nothing to verify for this session"}
	case errors.Is(err, domain.ErrIntentExpired):
		return http.StatusGone, errorBody{Kind: "intent_expired", Message: "the pending payment has expired"}
	case errors.Is(err, domain.ErrVerificationFailed):
		return http.StatusPaymentRequired, errorBody{Kind: "verification_failed", Message: err.Error()}
	case errors.Is(err, domain.ErrSettlementInFlight):
		return http.StatusConflict, errorBody{Kind: "in_flight", Message: "settlement already in progress"}
	case errors.Is(err, domain.ErrAlreadySettled):
		return http.StatusConflict, errorBody{Kind: "already_settled", Message: "payment already settled"}
	case errors.Is(err, domain.ErrSupportRequired):
		return http.StatusInternalServerError, errorBody{
			Kind:    "support_required",
			Message: "your payment was received but the order could not be created; please contact support with your payment reference",
		}
	case errors.Is(err, domain.ErrCartRejected):
		return http.StatusConflict, errorBody{Kind: "cart_rejected", Message: err.Error()}
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, errorBody{Kind: "unauthorized", Message: "missing or invalid session"}
	default:
		return http.StatusInternalServerError, errorBody{Kind: "internal", Message: "internal error"}
	}
}

func writeError(w http.ResponseWriter, err error) {
	status, body := classify(err)
	writeJSON(w, status, body)
}

// gatewayFormTmpl renders the auto-submitting form that performs the real
// HTTP POST navigation to the redirect-form provider.
var gatewayFormTmpl = template.Must(template.New("gateway_form").Parse(`<!DOCTYPE html>
<html><body onload="document.forms[0].submit()">
<form action="{{.URL}}" method="POST">
{{range .Fields}}<input type="hidden" name="{{.Name}}" value="{{.Value}}">
{{end}}<noscript><button type="submit">Continue to payment</button></noscript>
</form></body></html>`))

// renderRedirect hands the gateway redirect back to the caller. Browsers
// asking for HTML get the navigation directly (auto-submit form or 303);
// API callers get the redirect description as JSON.
func renderRedirect(w http.ResponseWriter, r *http.Request, rd *adapter.Redirect) {
	wantsHTML := strings.Contains(r.Header.Get("Accept"), "text/html")
	if wantsHTML {
		if rd.Kind == adapter.RedirectForm {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_ = gatewayFormTmpl.Execute(w, rd)
			return
		}
		http.Redirect(w, r, rd.URL, http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"kind":             rd.Kind,
		"url":              rd.URL,
		"fields":           rd.Fields,
		"transaction_uuid": rd.TransactionUUID,
		"correlation_id":   rd.CorrelationID,
	})
}

type checkoutCartRequest struct {
	Provider string `json:"provider"`
}

func (s *Server) checkoutCartHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req checkoutCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrInvalidArgument)
		return
	}
	provider, err := model.ParseProvider(req.Provider)
	if err != nil {
		writeError(w, err)
		return
	}

	sid := sessionID(ctx)
	items := s.cartUC.Items(sid)
	if len(items) == 0 {
		if items, err = s.cartUC.Refresh(ctx, sid); err != nil {
			writeError(w, err)
			return
		}
	}

	rd, err := s.checkoutUC.BeginCartCheckout(ctx, sid, provider, items, s.returnURL)
	if err != nil {
		writeError(w, err)
		return
	}
	renderRedirect(w, r, rd)
}

type checkoutPlanRequest struct {
	Provider string          `json:"provider"`
	Plan     *model.PlanItem `json:"plan"`
}

func (s *Server) checkoutPlanHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req checkoutPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrInvalidArgument)
		return
	}
	provider, err := model.ParseProvider(req.Provider)
	if err != nil {
		writeError(w, err)
		return
	}

	rd, err := s.checkoutUC.BeginPlanPurchase(ctx, sessionID(ctx), provider, req.Plan, s.returnURL)
	if err != nil {
		writeError(w, err)
		return
	}
	renderRedirect(w, r, rd)
}

// returnBody reports the terminal state of the return flow. On success the
// client shows a short countdown and then navigates to RedirectTo.
type returnBody struct {
	State            ReturnState `json:"state"`
	Kind             string      `json:"kind,omitempty"`
	Message          string      `json:"message,omitempty"`
	OrderID          string      `json:"order_id,omitempty"`
	RedirectTo       string      `json:"redirect_to,omitempty"`
	CountdownSeconds int         `json:"countdown_seconds,omitempty"`
}

// returnHandler runs when the browser comes back from the gateway. It
// drives the Verifying -> Settling -> Done machine; a missing correlation
// token is a terminal error before any network call is made.
func (s *Server) returnHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	flow := newReturnFlow()

	token, provider := correlationFromQuery(r)
	if token == "" {
		flow.fail()
		status, body := classify(domain.ErrNoPaymentReference)
		writeJSON(w, status, returnBody{State: flow.State(), Kind: body.Kind, Message: body.Message})
		return
	}

	log := s.log.With().Str("correlation_id", token).Str("provider", string(provider)).Logger()
	log.Info().Str("state", string(flow.State())).Msg("return callback")

	// Settle verifies first and only then consumes the intent, so the
	// observable transition to Settling happens when verification holds.
	settlement, err := s.settlementUC.Settle(ctx, sessionID(ctx), provider, token)
	if err != nil {
		flow.fail()
		status, body := classify(err)
		log.Warn().Err(err).Str("kind", body.Kind).Msg("return flow failed")
		writeJSON(w, status, returnBody{State: flow.State(), Kind: body.Kind, Message: body.Message})
		return
	}
	if err := flow.advance(StateSettling); err != nil {
		flow.fail()
		writeError(w, err)
		return
	}
	if err := flow.advance(StateDone); err != nil {
		flow.fail()
		writeError(w, err)
		return
	}

	redirectTo := "/profile/orders"
	if settlement.Kind == model.IntentPlanPurchase {
		redirectTo = "/profile/plan"
	}
	log.Info().Str("state", string(flow.State())).Str("order_id", settlement.OrderID).Msg("return flow done")
	writeJSON(w, http.StatusOK, returnBody{
		State:            flow.State(),
		OrderID:          settlement.OrderID,
		RedirectTo:       redirectTo,
		CountdownSeconds: 5,
	})
}

// correlationFromQuery pulls the provider token off the return URL:
// pidx for the token-initiate provider, transaction_uuid for the
// redirect-form one.
func correlationFromQuery(r *http.Request) (string, model.Provider) {
	q := r.URL.Query()
	if v := q.Get("pidx"); v != "" {
		return v, model.ProviderKhalti
	}
	if v := q.Get("transaction_uuid"); v != "" {
		return v, model.ProviderEsewa
	}
	return "", ""
}

// ---- cart handlers ----

type cartBody struct {
	Items  []model.CartLineItem `json:"items"`
	Totals model.CartTotals     `json:"totals"`
}

func (s *Server) getCartHandler(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(r.Context())
	if _, err := s.cartUC.Refresh(r.Context(), sid); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cartBody{Items: s.cartUC.Items(sid), Totals: s.cartUC.Totals(sid)})
}

func (s *Server) addCartItemHandler(w http.ResponseWriter, r *http.Request) {
	var item model.CartLineItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeError(w, domain.ErrInvalidArgument)
		return
	}
	sid := sessionID(r.Context())
	if err := s.cartUC.AddItem(r.Context(), sid, item); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cartBody{Items: s.cartUC.Items(sid), Totals: s.cartUC.Totals(sid)})
}

func (s *Server) updateCartItemHandler(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, domain.ErrInvalidArgument)
		return
	}
	sid := sessionID(r.Context())
	if err := s.cartUC.UpdateQuantity(r.Context(), sid, productID, req.Quantity); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cartBody{Items: s.cartUC.Items(sid), Totals: s.cartUC.Totals(sid)})
}

func (s *Server) removeCartItemHandler(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")
	sid := sessionID(r.Context())
	if err := s.cartUC.RemoveItem(r.Context(), sid, productID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cartBody{Items: s.cartUC.Items(sid), Totals: s.cartUC.Totals(sid)})
}
