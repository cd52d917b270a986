package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/pastcare/pastcare-billing-go/internal/config"
	"github.com/pastcare/pastcare-billing-go/internal/domain/jobs"
	appHTTP "github.com/pastcare/pastcare-billing-go/internal/handler/http"
	"github.com/pastcare/pastcare-billing-go/internal/pkg/cron"
	"github.com/pastcare/pastcare-billing-go/internal/pkg/database"
	"github.com/pastcare/pastcare-billing-go/internal/pkg/notify"
	"github.com/pastcare/pastcare-billing-go/internal/pkg/paystack"
	"github.com/pastcare/pastcare-billing-go/internal/repository/postgresql"
	addonService "github.com/pastcare/pastcare-billing-go/internal/service/addon"
	billingService "github.com/pastcare/pastcare-billing-go/internal/service/billing"
	catalogService "github.com/pastcare/pastcare-billing-go/internal/service/catalog"
	currencyService "github.com/pastcare/pastcare-billing-go/internal/service/currency"
	jobService "github.com/pastcare/pastcare-billing-go/internal/service/jobs"
	partnershipService "github.com/pastcare/pastcare-billing-go/internal/service/partnership"
	tierChangeService "github.com/pastcare/pastcare-billing-go/internal/service/tierchange"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	tierRepo := postgresql.NewTierRepository(db)
	intervalRepo := postgresql.NewIntervalRepository(db)
	storageAddonRepo := postgresql.NewStorageAddonRepository(db)
	subscriptionRepo := postgresql.NewSubscriptionRepository(db)
	ownershipRepo := postgresql.NewOwnershipRepository(db)
	currencyRepo := postgresql.NewCurrencyRepository(db)
	tierChangeRepo := postgresql.NewTierChangeRepository(db)
	jobExecutionRepo := postgresql.NewJobExecutionRepository(db)
	partnershipRepo := postgresql.NewPartnershipRepository(db)

	paystackClient := paystack.NewClient(cfg.Paystack)
	webhookVerifier := paystack.NewWebhookVerifier(cfg.Paystack.SecretKey)
	notifier := notify.NewLogDispatcher(slog.Default())

	currencySvc := currencyService.NewCurrencyService(currencyRepo, db)
	catalogSvc := catalogService.NewCatalogService(tierRepo, intervalRepo, storageAddonRepo, currencySvc)
	jobSvc := jobService.NewJobService(jobExecutionRepo, cfg)
	partnershipSvc := partnershipService.NewPartnershipService(partnershipRepo, subscriptionRepo, db)
	addonSvc := addonService.NewAddonService(ownershipRepo, storageAddonRepo, subscriptionRepo, currencySvc, paystackClient, db)
	tierChangeSvc := tierChangeService.NewTierChangeService(tierChangeRepo, subscriptionRepo, tierRepo, intervalRepo, currencySvc, paystackClient, db)
	billingSvc := billingService.NewBillingService(
		subscriptionRepo,
		tierRepo,
		intervalRepo,
		ownershipRepo,
		catalogSvc,
		currencySvc,
		paystackClient,
		notifier,
		db,
		cfg,
	)

	// The ledger records every run of these, cadenced or manual
	jobSvc.Register(jobs.JobRenewals, func(ctx context.Context) (int, int, error) {
		result, err := billingSvc.ProcessRenewals(ctx)
		return result.Processed, result.Failed, err
	})
	jobSvc.Register(jobs.JobSuspensions, func(ctx context.Context) (int, int, error) {
		result, err := billingSvc.SuspendOverdueSubscriptions(ctx)
		return result.Processed, result.Failed, err
	})
	jobSvc.Register(jobs.JobDeletionWarnings, func(ctx context.Context) (int, int, error) {
		result, err := billingSvc.SendDeletionWarnings(ctx)
		return result.Processed, result.Failed, err
	})
	jobSvc.Register(jobs.JobDeletionFlags, func(ctx context.Context) (int, int, error) {
		result, err := billingSvc.FlagDeletionEligible(ctx)
		return result.Processed, result.Failed, err
	})
	jobSvc.Register(jobs.JobLedgerCleanup, func(ctx context.Context) (int, int, error) {
		removed, err := jobSvc.CleanupOldExecutions(ctx)
		return int(removed), 0, err
	})

	scheduler := cron.NewScheduler()
	billingJobs := cron.NewBillingJobs(jobSvc)
	if err := billingJobs.RegisterJobs(scheduler); err != nil {
		fmt.Println("Error registering cron jobs:", err)
		return
	}
	scheduler.Start()
	defer scheduler.Stop()

	billingHandler := appHTTP.NewBillingHandler(billingSvc)
	catalogHandler := appHTTP.NewCatalogHandler(catalogSvc)
	addonHandler := appHTTP.NewAddonHandler(addonSvc)
	tierChangeHandler := appHTTP.NewTierChangeHandler(tierChangeSvc)
	currencyHandler := appHTTP.NewCurrencyHandler(currencySvc)
	jobHandler := appHTTP.NewJobHandler(jobSvc)
	partnershipHandler := appHTTP.NewPartnershipHandler(partnershipSvc)
	webhookHandler := appHTTP.NewWebhookHandler(billingSvc, tierChangeSvc, webhookVerifier)

	router := appHTTP.NewRouter(
		cfg,
		billingHandler,
		catalogHandler,
		addonHandler,
		tierChangeHandler,
		currencyHandler,
		jobHandler,
		partnershipHandler,
		webhookHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	server := &http.Server{Addr: port, Handler: router}

	go func() {
		fmt.Printf("Server running at http://localhost%s\n", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Println("Server error:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("Shutting down...")
	if err := server.Shutdown(context.Background()); err != nil {
		fmt.Println("Shutdown error:", err)
	}
}
