package paystack

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Webhook event types delivered by Paystack
const (
	EventChargeSuccess = "charge.success"
	EventChargeFailed  = "charge.failed"
)

// Authorization is the stored card token returned with a successful charge
type Authorization struct {
	AuthorizationCode string `json:"authorization_code"`
	CardType          string `json:"card_type"`
	Last4             string `json:"last4"`
	Brand             string `json:"brand"`
	Reusable          bool   `json:"reusable"`
}

// Customer identifies the payer on the gateway side
type Customer struct {
	CustomerCode string `json:"customer_code"`
	Email        string `json:"email"`
}

// WebhookEvent is the envelope Paystack posts to the webhook endpoint
type WebhookEvent struct {
	Event string           `json:"event"`
	Data  WebhookEventData `json:"data"`
}

// WebhookEventData carries the transaction details of a webhook event
type WebhookEventData struct {
	ID              int64             `json:"id"`
	Status          string            `json:"status"`
	Reference       string            `json:"reference"`
	Amount          int64             `json:"amount"`
	Currency        string            `json:"currency"`
	GatewayResponse string            `json:"gateway_response"`
	PaidAt          string            `json:"paid_at"`
	Metadata        map[string]string `json:"metadata"`
	Authorization   Authorization     `json:"authorization"`
	Customer        Customer          `json:"customer"`
}

// WebhookVerifier validates webhook signatures against the secret key
type WebhookVerifier struct {
	secretKey string
}

// NewWebhookVerifier creates a webhook verifier
func NewWebhookVerifier(secretKey string) *WebhookVerifier {
	return &WebhookVerifier{secretKey: secretKey}
}

// Verify checks the x-paystack-signature header, an HMAC-SHA512 of the raw
// body keyed with the account secret, and decodes the event on success.
func (v *WebhookVerifier) Verify(body []byte, signature string) (*WebhookEvent, error) {
	mac := hmac.New(sha512.New, []byte(v.secretKey))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return nil, fmt.Errorf("invalid webhook signature")
	}

	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("decode webhook event: %w", err)
	}
	return &event, nil
}
