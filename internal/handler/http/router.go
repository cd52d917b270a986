package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/pastcare/pastcare-billing-go/internal/config"
	"github.com/pastcare/pastcare-billing-go/internal/handler/http/middleware"
)

func NewRouter(
	cfg *config.Config,
	billingHandler BillingHandler,
	catalogHandler CatalogHandler,
	addonHandler AddonHandler,
	tierChangeHandler TierChangeHandler,
	currencyHandler CurrencyHandler,
	jobHandler JobHandler,
	partnershipHandler PartnershipHandler,
	webhookHandler WebhookHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "pastcare-billing"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Admin-ID"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		// Public catalog
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/tiers", catalogHandler.GetTiers)
			r.Get("/tiers/recommend", catalogHandler.RecommendTier)
			r.Get("/tiers/{id}", catalogHandler.GetTierByID)
			r.Get("/intervals", catalogHandler.GetIntervals)
			r.Get("/addons", catalogHandler.GetStorageAddons)
		})

		r.Get("/currency", currencyHandler.GetSettings)
		r.Get("/partnership-codes/{code}", partnershipHandler.Validate)

		// Gateway callbacks (signature verified in the handler)
		r.Post("/webhook/paystack", webhookHandler.HandlePaystackWebhook)

		// Tenant endpoints
		r.Route("/churches/{churchID}", func(r chi.Router) {
			r.Route("/subscription", func(r chi.Router) {
				r.Get("/", billingHandler.GetSubscription)
				r.Post("/", billingHandler.CreateInitialSubscription)
				r.Post("/start", billingHandler.StartSubscription)
				r.Post("/cancel", billingHandler.CancelSubscription)
				r.Get("/grace", billingHandler.GetGraceStatus)
				r.Get("/credits", billingHandler.GetPromotionalCredits)
			})

			r.Route("/addons", func(r chi.Router) {
				r.Get("/", addonHandler.ListOwned)
				r.Post("/", addonHandler.Purchase)
				r.Get("/storage", addonHandler.GetStorageSummary)
				r.Delete("/{addonID}", addonHandler.Cancel)
			})

			r.Route("/tier-changes", func(r chi.Router) {
				r.Get("/", tierChangeHandler.History)
				r.Post("/", tierChangeHandler.Initiate)
				r.Post("/preview", tierChangeHandler.Preview)
				r.Delete("/pending", tierChangeHandler.CancelPending)
			})

			r.Post("/partnership-codes/redeem", partnershipHandler.Redeem)
		})

		// Operator endpoints
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.AdminRequired)

			r.Route("/churches/{churchID}/subscription", func(r chi.Router) {
				r.Post("/reactivate", billingHandler.ReactivateSubscription)
				r.Post("/grace", billingHandler.GrantGracePeriod)
				r.Delete("/grace", billingHandler.RevokeGracePeriod)
				r.Post("/credits", billingHandler.GrantPromotionalCredits)
				r.Delete("/credits", billingHandler.RevokePromotionalCredits)
				r.Post("/retention", billingHandler.ExtendRetention)
			})

			r.Route("/subscriptions", func(r chi.Router) {
				r.Get("/stats", billingHandler.GetStats)
				r.Get("/deletion-eligible", billingHandler.ListDeletionEligible)
			})

			r.Route("/currency", func(r chi.Router) {
				r.Put("/rate", currencyHandler.UpdateExchangeRate)
				r.Get("/history", currencyHandler.GetRateHistory)
				r.Get("/stats", currencyHandler.GetRateStats)
			})

			r.Route("/jobs", func(r chi.Router) {
				r.Post("/{name}/trigger", jobHandler.Trigger)
				r.Route("/executions", func(r chi.Router) {
					r.Get("/", jobHandler.ListRecent)
					r.Get("/running", jobHandler.ListRunning)
					r.Get("/failed", jobHandler.ListFailed)
					r.Get("/{id}", jobHandler.GetExecution)
					r.Post("/{id}/retry", jobHandler.Retry)
					r.Post("/{id}/cancel", jobHandler.Cancel)
				})
			})
		})
	})
	return r
}
