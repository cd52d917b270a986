package billing

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func TestIsDueForRenewal(t *testing.T) {
	today := date(2025, 6, 15)

	cases := []struct {
		name string
		sub  Subscription
		want bool
	}{
		{
			name: "due today",
			sub:  Subscription{Status: StatusActive, AutoRenew: true, NextBillingDate: today},
			want: true,
		},
		{
			name: "overdue",
			sub:  Subscription{Status: StatusActive, AutoRenew: true, NextBillingDate: date(2025, 6, 10)},
			want: true,
		},
		{
			name: "not yet due",
			sub:  Subscription{Status: StatusActive, AutoRenew: true, NextBillingDate: date(2025, 6, 16)},
			want: false,
		},
		{
			name: "auto renew off",
			sub:  Subscription{Status: StatusActive, AutoRenew: false, NextBillingDate: today},
			want: false,
		},
		{
			name: "not active",
			sub:  Subscription{Status: StatusCanceled, AutoRenew: true, NextBillingDate: today},
			want: false,
		},
	}

	for _, c := range cases {
		if got := c.sub.IsDueForRenewal(today); got != c.want {
			t.Errorf("%s: IsDueForRenewal = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestGracePeriodMeasuredFromMissedBillingDate(t *testing.T) {
	sub := Subscription{
		Status:          StatusPastDue,
		NextBillingDate: date(2025, 6, 1),
		GracePeriodDays: 5,
	}

	if !sub.IsInGracePeriod(date(2025, 6, 3)) {
		t.Error("day 3 of 5-day grace window should still be in grace")
	}
	if sub.IsInGracePeriod(date(2025, 6, 6)) {
		t.Error("grace window ends 5 days after the missed billing date")
	}
	if sub.ShouldSuspend(date(2025, 6, 3)) {
		t.Error("should not suspend inside the grace window")
	}
	if !sub.ShouldSuspend(date(2025, 6, 6)) {
		t.Error("should suspend once the grace window elapses")
	}
}

func TestDefaultGraceIsZero(t *testing.T) {
	sub := Subscription{
		Status:          StatusPastDue,
		NextBillingDate: date(2025, 6, 1),
	}

	// Without an explicit grant, suspension is due the moment the
	// subscription is past due.
	if sub.IsInGracePeriod(date(2025, 6, 1)) {
		t.Error("zero grace days means no grace window at all")
	}
	if !sub.ShouldSuspend(date(2025, 6, 1)) {
		t.Error("past due with zero grace should suspend immediately")
	}
}

func TestComputeRetentionEndRebasesFromSuspension(t *testing.T) {
	suspendedAt := date(2025, 3, 1)

	end := ComputeRetentionEnd(suspendedAt, 90, 0)
	if !end.Equal(date(2025, 5, 30)) {
		t.Errorf("retention end = %v, want 2025-05-30", end)
	}

	// An extension rebases from suspendedAt, never stacks on the
	// previous end date.
	extended := ComputeRetentionEnd(suspendedAt, 90, 30)
	if !extended.Equal(date(2025, 6, 29)) {
		t.Errorf("extended retention end = %v, want 2025-06-29", extended)
	}

	// Two successive extensions accumulate in extensionDays; applying
	// them one at a time through the rebase must land on the same date
	// as applying the sum.
	first := ComputeRetentionEnd(suspendedAt, 90, 10)
	second := ComputeRetentionEnd(suspendedAt, 90, 10+20)
	if !second.Equal(first.AddDate(0, 0, 20)) {
		t.Errorf("successive extensions drifted: %v then %v", first, second)
	}
}

func TestNeedsDeletionWarning(t *testing.T) {
	retentionEnd := date(2025, 5, 30)
	sub := Subscription{
		Status:               StatusSuspended,
		DataRetentionEndDate: &retentionEnd,
	}

	if sub.NeedsDeletionWarning(date(2025, 5, 22), 7) {
		t.Error("more than 7 days out, no warning yet")
	}
	if !sub.NeedsDeletionWarning(date(2025, 5, 23), 7) {
		t.Error("exactly 7 days before retention end, warning is due")
	}

	sub.DeletionWarningSentAt = timePtr(date(2025, 5, 23))
	if sub.NeedsDeletionWarning(date(2025, 5, 25), 7) {
		t.Error("at most one warning per suspension")
	}
}

func TestDeletionEligibilityIsMonotonic(t *testing.T) {
	retentionEnd := date(2025, 5, 30)
	warned := date(2025, 5, 23)
	sub := Subscription{
		Status:                StatusSuspended,
		DataRetentionEndDate:  &retentionEnd,
		DeletionWarningSentAt: &warned,
	}

	if sub.IsEligibleForDeletion(date(2025, 5, 30), 7) {
		t.Error("not eligible on the retention end date itself")
	}
	if !sub.IsEligibleForDeletion(date(2025, 5, 31), 7) {
		t.Error("eligible the day after retention ends with warning aged 7 days")
	}

	// Once true, stays true for every later date
	for day := 0; day < 120; day++ {
		if !sub.IsEligibleForDeletion(date(2025, 5, 31).AddDate(0, 0, day), 7) {
			t.Fatalf("eligibility regressed %d days after becoming true", day)
		}
	}
}

func TestDeletionRequiresWarningAge(t *testing.T) {
	retentionEnd := date(2025, 5, 30)
	// Warning went out late, only 2 days before the retention end
	warned := date(2025, 5, 28)
	sub := Subscription{
		Status:                StatusSuspended,
		DataRetentionEndDate:  &retentionEnd,
		DeletionWarningSentAt: &warned,
	}

	if sub.IsEligibleForDeletion(date(2025, 5, 31), 7) {
		t.Error("retention elapsed but the warning is only 3 days old")
	}
	if !sub.IsEligibleForDeletion(date(2025, 6, 4), 7) {
		t.Error("eligible once the warning is 7 days old and retention has elapsed")
	}
}

func TestDecideActiveSubscriptions(t *testing.T) {
	today := date(2025, 6, 15)
	auth := strPtr("AUTH_x9k2")

	cases := []struct {
		name string
		sub  Subscription
		want Action
	}{
		{
			name: "not due",
			sub:  Subscription{Status: StatusActive, AutoRenew: true, NextBillingDate: date(2025, 7, 1), GatewayAuthorizationCode: auth},
			want: ActionNone,
		},
		{
			name: "credit consumed before charging",
			sub:  Subscription{Status: StatusActive, AutoRenew: true, NextBillingDate: today, PromotionalCreditMonths: 2, GatewayAuthorizationCode: auth},
			want: ActionApplyCredit,
		},
		{
			name: "charge when no credit",
			sub:  Subscription{Status: StatusActive, AutoRenew: true, NextBillingDate: today, GatewayAuthorizationCode: auth},
			want: ActionChargeRenewal,
		},
		{
			name: "no stored authorization",
			sub:  Subscription{Status: StatusActive, AutoRenew: true, NextBillingDate: today},
			want: ActionMarkPastDue,
		},
	}

	for _, c := range cases {
		if got := Decide(&c.sub, today, 7); got != c.want {
			t.Errorf("%s: Decide = %q, want %q", c.name, got, c.want)
		}
	}
}

func TestDecideSuspendedAndPastDue(t *testing.T) {
	retentionEnd := date(2025, 5, 30)
	warned := date(2025, 5, 23)

	pastDue := Subscription{Status: StatusPastDue, NextBillingDate: date(2025, 6, 1)}
	if got := Decide(&pastDue, date(2025, 6, 2), 7); got != ActionSuspend {
		t.Errorf("past due without grace: Decide = %q, want %q", got, ActionSuspend)
	}

	graced := Subscription{Status: StatusPastDue, NextBillingDate: date(2025, 6, 1), GracePeriodDays: 5}
	if got := Decide(&graced, date(2025, 6, 2), 7); got != ActionNone {
		t.Errorf("past due inside grace without a card: Decide = %q, want %q", got, ActionNone)
	}

	needsWarning := Subscription{Status: StatusSuspended, DataRetentionEndDate: &retentionEnd}
	if got := Decide(&needsWarning, date(2025, 5, 25), 7); got != ActionSendDeletionWarning {
		t.Errorf("suspended near retention end: Decide = %q, want %q", got, ActionSendDeletionWarning)
	}

	eligible := Subscription{Status: StatusSuspended, DataRetentionEndDate: &retentionEnd, DeletionWarningSentAt: &warned}
	if got := Decide(&eligible, date(2025, 6, 15), 7); got != ActionFlagDeletionEligible {
		t.Errorf("retention elapsed: Decide = %q, want %q", got, ActionFlagDeletionEligible)
	}

	canceled := Subscription{Status: StatusCanceled}
	if got := Decide(&canceled, date(2025, 6, 15), 7); got != ActionNone {
		t.Errorf("canceled: Decide = %q, want %q", got, ActionNone)
	}
}

// A past-due church with a stored card is re-charged on every run while
// its grace window is open, so payment can still recover the account.
func TestDecidePastDueRetriesChargeWhileInGrace(t *testing.T) {
	auth := strPtr("AUTH_x9k2")

	cases := []struct {
		name  string
		sub   Subscription
		today time.Time
		want  Action
	}{
		{
			name:  "stored card inside grace is re-charged",
			sub:   Subscription{Status: StatusPastDue, NextBillingDate: date(2025, 6, 1), GracePeriodDays: 5, GatewayAuthorizationCode: auth},
			today: date(2025, 6, 3),
			want:  ActionChargeRenewal,
		},
		{
			name:  "re-charged on the last grace day",
			sub:   Subscription{Status: StatusPastDue, NextBillingDate: date(2025, 6, 1), GracePeriodDays: 5, GatewayAuthorizationCode: auth},
			today: date(2025, 6, 5),
			want:  ActionChargeRenewal,
		},
		{
			name:  "promotional credit consumed before re-charging",
			sub:   Subscription{Status: StatusPastDue, NextBillingDate: date(2025, 6, 1), GracePeriodDays: 5, PromotionalCreditMonths: 1, GatewayAuthorizationCode: auth},
			today: date(2025, 6, 3),
			want:  ActionApplyCredit,
		},
		{
			name:  "grace expired suspends instead",
			sub:   Subscription{Status: StatusPastDue, NextBillingDate: date(2025, 6, 1), GracePeriodDays: 5, GatewayAuthorizationCode: auth},
			today: date(2025, 6, 6),
			want:  ActionSuspend,
		},
		{
			name:  "zero grace suspends on the first run",
			sub:   Subscription{Status: StatusPastDue, NextBillingDate: date(2025, 6, 1), GatewayAuthorizationCode: auth},
			today: date(2025, 6, 2),
			want:  ActionSuspend,
		},
	}

	for _, c := range cases {
		if got := Decide(&c.sub, c.today, 7); got != c.want {
			t.Errorf("%s: Decide = %q, want %q", c.name, got, c.want)
		}
	}
}
