package cron

import (
	"context"

	"github.com/pastcare/pastcare-billing-go/internal/domain/jobs"
)

// Cron expressions for the daily billing lifecycle. Renewals run first so
// that a tenant charged today is never suspended in the same batch window.
const (
	specRenewals         = "0 2 * * *"
	specSuspendOverdue   = "30 2 * * *"
	specDeletionWarnings = "0 3 * * *"
	specDeletionEligible = "30 3 * * *"
	specJobLedgerCleanup = "0 4 * * 0"
)

// BillingJobs wires the billing lifecycle jobs into the scheduler. Each
// run is recorded in the job execution ledger via the job service.
type BillingJobs struct {
	jobService jobs.JobService
}

// NewBillingJobs creates the billing lifecycle cron jobs
func NewBillingJobs(jobService jobs.JobService) *BillingJobs {
	return &BillingJobs{
		jobService: jobService,
	}
}

// RegisterJobs registers all billing lifecycle cron jobs
func (j *BillingJobs) RegisterJobs(scheduler *Scheduler) error {
	entries := []struct {
		name string
		spec string
	}{
		{jobs.JobRenewals, specRenewals},
		{jobs.JobSuspensions, specSuspendOverdue},
		{jobs.JobDeletionWarnings, specDeletionWarnings},
		{jobs.JobDeletionFlags, specDeletionEligible},
		{jobs.JobLedgerCleanup, specJobLedgerCleanup},
	}

	for _, entry := range entries {
		name := entry.name
		err := scheduler.AddJob(name, entry.spec, func(ctx context.Context) error {
			return j.jobService.Run(ctx, name)
		})
		if err != nil {
			return err
		}
	}
	return nil
}
