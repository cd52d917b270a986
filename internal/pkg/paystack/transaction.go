package paystack

import (
	"context"
	"fmt"
	"net/url"

	"github.com/shopspring/decimal"
)

// Metadata keys attached to every transaction so the webhook handler can
// route the payment back to the right flow.
const (
	MetadataKindKey = "kind"
)

// InitializeRequest starts a hosted checkout session
type InitializeRequest struct {
	Email       string            `json:"email"`
	Amount      decimal.Decimal   `json:"-"`
	Currency    string            `json:"currency"`
	Reference   string            `json:"reference"`
	CallbackURL string            `json:"callback_url,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// InitializeResponse carries the hosted checkout URL
type InitializeResponse struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// ChargeRequest charges a previously stored card authorization
type ChargeRequest struct {
	Email             string            `json:"email"`
	Amount            decimal.Decimal   `json:"-"`
	Currency          string            `json:"currency"`
	AuthorizationCode string            `json:"authorization_code"`
	Reference         string            `json:"reference"`
	Metadata          map[string]string `json:"metadata,omitempty"`
}

// ChargeResponse is the result of a direct authorization charge
type ChargeResponse struct {
	ID              int64         `json:"id"`
	Status          string        `json:"status"`
	Reference       string        `json:"reference"`
	Amount          int64         `json:"amount"`
	Currency        string        `json:"currency"`
	GatewayResponse string        `json:"gateway_response"`
	Authorization   Authorization `json:"authorization"`
	Customer        Customer      `json:"customer"`
}

// Succeeded reports whether the charge went through
func (r *ChargeResponse) Succeeded() bool {
	return r.Status == "success"
}

// RefundRequest refunds a completed transaction, fully or partially
type RefundRequest struct {
	Transaction string          `json:"transaction"`
	Amount      decimal.Decimal `json:"-"`
}

// RefundResponse is the result of a refund request
type RefundResponse struct {
	ID       int64  `json:"id"`
	Status   string `json:"status"`
	Currency string `json:"currency"`
	Amount   int64  `json:"amount"`
}

// VerifyResponse is the state of a transaction looked up by reference
type VerifyResponse struct {
	ID              int64         `json:"id"`
	Status          string        `json:"status"`
	Reference       string        `json:"reference"`
	Amount          int64         `json:"amount"`
	Currency        string        `json:"currency"`
	GatewayResponse string        `json:"gateway_response"`
	Authorization   Authorization `json:"authorization"`
	Customer        Customer      `json:"customer"`
}

// toSubunits converts a decimal amount to the integer subunit representation
// Paystack expects (pesewas for GHS, kobo for NGN).
func toSubunits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// InitializeTransaction creates a hosted checkout session and returns the
// authorization URL the payer should be redirected to.
func (c *Client) InitializeTransaction(ctx context.Context, req InitializeRequest) (*InitializeResponse, error) {
	body := map[string]interface{}{
		"email":     req.Email,
		"amount":    toSubunits(req.Amount),
		"currency":  req.Currency,
		"reference": req.Reference,
	}
	if req.CallbackURL != "" {
		body["callback_url"] = req.CallbackURL
	}
	if len(req.Metadata) > 0 {
		body["metadata"] = req.Metadata
	}

	var out InitializeResponse
	if err := c.post(ctx, "/transaction/initialize", body, &out); err != nil {
		return nil, fmt.Errorf("initialize transaction: %w", err)
	}
	return &out, nil
}

// ChargeAuthorization charges a stored card authorization without payer
// interaction. Used for renewals, tier changes and addon purchases.
func (c *Client) ChargeAuthorization(ctx context.Context, req ChargeRequest) (*ChargeResponse, error) {
	body := map[string]interface{}{
		"email":              req.Email,
		"amount":             toSubunits(req.Amount),
		"currency":           req.Currency,
		"authorization_code": req.AuthorizationCode,
		"reference":          req.Reference,
	}
	if len(req.Metadata) > 0 {
		body["metadata"] = req.Metadata
	}

	var out ChargeResponse
	if err := c.post(ctx, "/transaction/charge_authorization", body, &out); err != nil {
		return nil, fmt.Errorf("charge authorization: %w", err)
	}
	return &out, nil
}

// Refund refunds a transaction by reference. A zero amount refunds in full.
func (c *Client) Refund(ctx context.Context, req RefundRequest) (*RefundResponse, error) {
	body := map[string]interface{}{
		"transaction": req.Transaction,
	}
	if req.Amount.IsPositive() {
		body["amount"] = toSubunits(req.Amount)
	}

	var out RefundResponse
	if err := c.post(ctx, "/refund", body, &out); err != nil {
		return nil, fmt.Errorf("refund transaction: %w", err)
	}
	return &out, nil
}

// VerifyTransaction looks up a transaction by reference
func (c *Client) VerifyTransaction(ctx context.Context, reference string) (*VerifyResponse, error) {
	var out VerifyResponse
	if err := c.get(ctx, "/transaction/verify/"+url.PathEscape(reference), &out); err != nil {
		return nil, fmt.Errorf("verify transaction: %w", err)
	}
	return &out, nil
}
