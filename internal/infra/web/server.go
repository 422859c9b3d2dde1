package web

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/manojneupaneweb/GoGain-sub000/internal/infra/commerce"
	"github.com/manojneupaneweb/GoGain-sub000/internal/usecase"
)

type Server struct {
	checkoutUC   usecase.CheckoutUseCase
	settlementUC usecase.SettlementUseCase
	cartUC       usecase.CartUseCase
	auth         *AuthManager
	returnURL    string
	log          *zerolog.Logger
}

func NewServer(
	checkoutUC usecase.CheckoutUseCase,
	settlementUC usecase.SettlementUseCase,
	cartUC usecase.CartUseCase,
	auth *AuthManager,
	returnURL string,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		checkoutUC:   checkoutUC,
		settlementUC: settlementUC,
		cartUC:       cartUC,
		auth:         auth,
		returnURL:    returnURL,
		log:          logger,
	}
}

// Router wires all routes. The return route takes the session from the
// cookie when present but never requires one: the gateway redirect is a
// bare navigation, and a token-only settlement is still legitimate.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/api/v1/session", s.sessionHandler)
	r.Get("/payment/return", s.withOptionalSession(s.returnHandler))

	r.Group(func(pr chi.Router) {
		pr.Use(s.requireSession)
		pr.Post("/api/v1/checkout/cart", s.checkoutCartHandler)
		pr.Post("/api/v1/checkout/plan", s.checkoutPlanHandler)
		pr.Get("/api/v1/cart", s.getCartHandler)
		pr.Post("/api/v1/cart/items", s.addCartItemHandler)
		pr.Put("/api/v1/cart/items/{productID}", s.updateCartItemHandler)
		pr.Delete("/api/v1/cart/items/{productID}", s.removeCartItemHandler)
	})

	return r
}

type sessionKey struct{}

func sessionID(ctx context.Context) string {
	if v, ok := ctx.Value(sessionKey{}).(string); ok {
		return v
	}
	return ""
}

// requireSession rejects requests without a valid session credential and
// forwards the raw bearer token to the commerce backend client.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := s.auth.ParseFromRequest(r)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorBody{Kind: "unauthorized", Message: "missing or invalid session"})
			return
		}
		ctx := context.WithValue(r.Context(), sessionKey{}, claims.SessionID)
		ctx = commerce.WithCredential(ctx, s.auth.BearerToken(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) withOptionalSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if claims, err := s.auth.ParseFromRequest(r); err == nil {
			ctx = context.WithValue(ctx, sessionKey{}, claims.SessionID)
			ctx = commerce.WithCredential(ctx, s.auth.BearerToken(r))
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// sessionHandler mints a session for a shopper. In production the
// storefront's auth service owns this; the endpoint keeps local and dev
// flows self-contained.
func (s *Server) sessionHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}
	tok, err := s.auth.Mint(w, req.SessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"session_id": req.SessionID, "token": tok})
}
