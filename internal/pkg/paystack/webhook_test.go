package paystack

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "sk_test_secret"

func sign(secret string, body []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyAcceptsValidSignature(t *testing.T) {
	body := []byte(`{
		"event": "charge.success",
		"data": {
			"reference": "SUB-abc123",
			"status": "success",
			"amount": 139500,
			"currency": "GHS",
			"metadata": {"kind": "activation", "church_id": "ch-1"},
			"authorization": {"authorization_code": "AUTH_x", "last4": "4081", "brand": "visa", "reusable": true},
			"customer": {"customer_code": "CUS_x", "email": "treasurer@example.org"}
		}
	}`)

	verifier := NewWebhookVerifier(testSecret)
	event, err := verifier.Verify(body, sign(testSecret, body))
	require.NoError(t, err)

	assert.Equal(t, EventChargeSuccess, event.Event)
	assert.Equal(t, "SUB-abc123", event.Data.Reference)
	assert.Equal(t, "success", event.Data.Status)
	assert.Equal(t, "activation", event.Data.Metadata[MetadataKindKey])
	assert.Equal(t, "AUTH_x", event.Data.Authorization.AuthorizationCode)
	assert.Equal(t, "treasurer@example.org", event.Data.Customer.Email)
}

func TestVerifyRejectsBadSignature(t *testing.T) {
	body := []byte(`{"event": "charge.success"}`)
	verifier := NewWebhookVerifier(testSecret)

	tests := []struct {
		name      string
		signature string
	}{
		{"empty signature", ""},
		{"garbage signature", "deadbeef"},
		{"signature from wrong secret", sign("sk_test_other", body)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event, err := verifier.Verify(body, tt.signature)
			assert.Error(t, err)
			assert.Nil(t, event)
		})
	}
}

func TestVerifyRejectsTamperedBody(t *testing.T) {
	body := []byte(`{"event": "charge.success", "data": {"amount": 139500}}`)
	signature := sign(testSecret, body)
	tampered := []byte(`{"event": "charge.success", "data": {"amount": 1}}`)

	verifier := NewWebhookVerifier(testSecret)
	event, err := verifier.Verify(tampered, signature)
	assert.Error(t, err)
	assert.Nil(t, event)
}

func TestVerifyRejectsMalformedJSON(t *testing.T) {
	body := []byte(`{not json`)
	verifier := NewWebhookVerifier(testSecret)

	event, err := verifier.Verify(body, sign(testSecret, body))
	assert.Error(t, err)
	assert.Nil(t, event)
}
