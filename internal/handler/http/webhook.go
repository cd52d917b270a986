package http

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/pastcare/pastcare-billing-go/internal/domain/billing"
	"github.com/pastcare/pastcare-billing-go/internal/domain/tierchange"
	"github.com/pastcare/pastcare-billing-go/internal/handler/http/response"
	"github.com/pastcare/pastcare-billing-go/internal/pkg/paystack"
)

// WebhookHandler processes payment gateway callbacks
type WebhookHandler interface {
	HandlePaystackWebhook(w http.ResponseWriter, r *http.Request)
}

type webhookHandlerImpl struct {
	billingService    billing.BillingService
	tierChangeService tierchange.TierChangeService
	webhookVerifier   *paystack.WebhookVerifier
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(
	billingService billing.BillingService,
	tierChangeService tierchange.TierChangeService,
	webhookVerifier *paystack.WebhookVerifier,
) WebhookHandler {
	return &webhookHandlerImpl{
		billingService:    billingService,
		tierChangeService: tierChangeService,
		webhookVerifier:   webhookVerifier,
	}
}

// HandlePaystackWebhook processes Paystack webhook callbacks
// POST /api/v1/webhook/paystack - Public (signature verified)
func (h *webhookHandlerImpl) HandlePaystackWebhook(w http.ResponseWriter, r *http.Request) {
	// The signature covers the raw body, so read it before decoding
	body, err := io.ReadAll(r.Body)
	if err != nil {
		response.BadRequest(w, "failed to read request body", nil)
		return
	}

	signature := r.Header.Get("x-paystack-signature")
	if signature == "" {
		response.Unauthorized(w, "missing webhook signature")
		return
	}

	event, err := h.webhookVerifier.Verify(body, signature)
	if err != nil {
		response.Unauthorized(w, "invalid webhook signature")
		return
	}

	if err := h.routeEvent(r, event); err != nil {
		response.HandleError(w, err)
		return
	}

	// Return 200 OK so the gateway stops retrying
	response.Success(w, map[string]string{
		"status": "received",
	})
}

// routeEvent dispatches a verified event to the service that initialized
// the payment, keyed by the metadata kind set at checkout time
func (h *webhookHandlerImpl) routeEvent(r *http.Request, event *paystack.WebhookEvent) error {
	data := event.Data
	kind := data.Metadata[paystack.MetadataKindKey]

	switch kind {
	case billing.PaymentKindActivation:
		return h.billingService.HandleActivationWebhook(r.Context(), billing.WebhookPayload{
			Event:             event.Event,
			Reference:         data.Reference,
			Status:            data.Status,
			CustomerCode:      data.Customer.CustomerCode,
			PayerEmail:        data.Customer.Email,
			AuthorizationCode: data.Authorization.AuthorizationCode,
			CardLast4:         data.Authorization.Last4,
			CardBrand:         data.Authorization.Brand,
			GatewayResponse:   data.GatewayResponse,
			Metadata:          data.Metadata,
		})

	case billing.PaymentKindTierChange:
		if event.Event == paystack.EventChargeSuccess && data.Status == "success" {
			return h.tierChangeService.Complete(r.Context(), data.Reference)
		}
		return h.tierChangeService.Fail(r.Context(), data.Reference, data.GatewayResponse)

	case billing.PaymentKindAddon:
		// Addon purchases are charged synchronously against the stored
		// authorization; the webhook is only a receipt
		slog.Info("Addon payment webhook acknowledged", "reference", data.Reference, "status", data.Status)
		return nil

	default:
		slog.Warn("Webhook with unknown payment kind ignored", "reference", data.Reference, "kind", kind)
		return nil
	}
}
