package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/manojneupaneweb/GoGain-sub000/internal/domain"
	"github.com/manojneupaneweb/GoGain-sub000/internal/domain/model"
	"github.com/manojneupaneweb/GoGain-sub000/internal/domain/ports/adapter"
)

var _ adapter.CommerceBackend = (*Client)(nil)

type credentialKey struct{}

// WithCredential returns a ctx carrying the caller's bearer token, which
// the client forwards on every backend call.
func WithCredential(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, credentialKey{}, token)
}

// Client talks to the trusted /api/v1 commerce backend. Every call is
// bearer-authorized: the caller's session credential from the context wins,
// falling back to the configured service token.
type Client struct {
	baseURL      string
	serviceToken string
	http         *http.Client
}

func NewClient(baseURL, serviceToken string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:      baseURL,
		serviceToken: serviceToken,
		http:         &http.Client{Timeout: timeout},
	}
}

func (c *Client) token(ctx context.Context) string {
	if v, ok := ctx.Value(credentialKey{}).(string); ok && v != "" {
		return v
	}
	return c.serviceToken
}

func (c *Client) do(ctx context.Context, method, path string, in any, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	tok := c.token(ctx)
	if tok == "" {
		return domain.ErrUnauthorized
	}
	req.Header.Set("Authorization", "Bearer "+tok)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("backend %s %s: status %d: %s", method, path, resp.StatusCode, truncate(raw, 256))
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
		}
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}

// InitiatePayment implements the token-initiate contract:
// POST /api/v1/payment/<provider>/initiate {amount, productId, redirectLink}.
func (c *Client) InitiatePayment(ctx context.Context, provider model.Provider, amountMinor int64, productID, redirectLink string) (string, string, error) {
	in := map[string]any{
		"amount":       amountMinor,
		"productId":    productID,
		"redirectLink": redirectLink,
	}
	var out struct {
		PaymentURL string `json:"payment_url"`
		Pidx       string `json:"pidx"`
	}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/v1/payment/%s/initiate", provider), in, &out); err != nil {
		return "", "", fmt.Errorf("%w: %v", domain.ErrInitiationFailed, err)
	}
	if out.PaymentURL == "" {
		return "", "", fmt.Errorf("%w: no payment_url in response", domain.ErrInitiationFailed)
	}
	return out.PaymentURL, out.Pidx, nil
}

// verifyResponse mirrors the backend's verify payload. Everything beyond
// success/status/amount is kept raw for transparency.
type verifyResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Status        string `json:"status"`
		Amount        int64  `json:"amount"`
		TransactionID string `json:"transaction_id"`
		Idx           string `json:"idx"`
	} `json:"data"`
}

// VerifyPayment implements POST /api/v1/payment/<provider>/verify {pidx}.
// Any transport error or malformed body is reported as a verification
// failure; success is never inferred from anything but success=true with a
// completed provider status.
func (c *Client) VerifyPayment(ctx context.Context, provider model.Provider, correlationID string) (*model.VerificationResult, error) {
	in := map[string]any{"pidx": correlationID}

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/v1/payment/%s/verify", provider), in, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrVerificationFailed, err)
	}
	var vr verifyResponse
	if err := json.Unmarshal(raw, &vr); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrVerificationFailed, err)
	}

	txn := vr.Data.TransactionID
	if txn == "" {
		txn = vr.Data.Idx
	}
	return &model.VerificationResult{
		Success:        vr.Success,
		ProviderStatus: vr.Data.Status,
		CorrelationID:  correlationID,
		TransactionID:  txn,
		Amount:         vr.Data.Amount,
		Raw:            raw,
	}, nil
}

// CreateOrder implements POST /api/v1/cart/createorder {paymentData}.
func (c *Client) CreateOrder(ctx context.Context, verification *model.VerificationResult, items []model.CartLineItem) (string, error) {
	in := map[string]any{
		"paymentData": map[string]any{
			"transaction_id": verification.TransactionID,
			"pidx":           verification.CorrelationID,
			"status":         verification.ProviderStatus,
			"amount":         verification.Amount,
		},
		"items": items,
	}
	var out struct {
		OrderID string `json:"order_id"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/cart/createorder", in, &out); err != nil {
		return "", err
	}
	if out.OrderID == "" {
		return "", domain.ErrMalformedResponse
	}
	return out.OrderID, nil
}

// CreatePlan implements POST /api/v1/cart/createplan {planItem}.
func (c *Client) CreatePlan(ctx context.Context, verification *model.VerificationResult, plan *model.PlanItem) (string, error) {
	in := map[string]any{
		"planItem": plan,
		"paymentData": map[string]any{
			"transaction_id": verification.TransactionID,
			"pidx":           verification.CorrelationID,
			"amount":         verification.Amount,
		},
	}
	var out struct {
		PlanID string `json:"plan_id"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/cart/createplan", in, &out); err != nil {
		return "", err
	}
	if out.PlanID == "" {
		return "", domain.ErrMalformedResponse
	}
	return out.PlanID, nil
}

// FetchCart implements GET /api/v1/cart/getcartitem.
func (c *Client) FetchCart(ctx context.Context) ([]model.CartLineItem, error) {
	var out struct {
		Items []model.CartLineItem `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/cart/getcartitem", nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// UpdateCartItem implements PUT /api/v1/cart/:productId {quantity}.
func (c *Client) UpdateCartItem(ctx context.Context, productID string, quantity int) error {
	in := map[string]any{"quantity": quantity}
	if err := c.do(ctx, http.MethodPut, "/api/v1/cart/"+productID, in, nil); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCartRejected, err)
	}
	return nil
}

// RemoveCartItem implements DELETE /api/v1/cart/delete/:productId.
func (c *Client) RemoveCartItem(ctx context.Context, productID string) error {
	if err := c.do(ctx, http.MethodDelete, "/api/v1/cart/delete/"+productID, nil, nil); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCartRejected, err)
	}
	return nil
}
