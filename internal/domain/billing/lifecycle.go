package billing

import "time"

// Action is what the daily lifecycle batch should do with one
// subscription. Deciding is pure; executing is the service's job.
type Action string

const (
	ActionNone                 Action = "none"
	ActionApplyCredit          Action = "apply_promotional_credit"
	ActionChargeRenewal        Action = "charge_renewal"
	ActionMarkPastDue          Action = "mark_past_due"
	ActionSuspend              Action = "suspend"
	ActionSendDeletionWarning  Action = "send_deletion_warning"
	ActionFlagDeletionEligible Action = "flag_deletion_eligible"
)

// Decide maps one subscription and a calendar date to the single action
// the lifecycle batch should take. It touches no I/O so every state
// transition can be tested as a plain function.
func Decide(s *Subscription, today time.Time, warningDays int) Action {
	switch s.Status {
	case StatusActive:
		if !s.IsDueForRenewal(today) {
			return ActionNone
		}
		if s.HasPromotionalCredits() {
			return ActionApplyCredit
		}
		if !s.HasPaymentAuthorization() {
			// Nothing to charge against; the tenant must re-enter a card
			return ActionMarkPastDue
		}
		return ActionChargeRenewal

	case StatusPastDue:
		// The grace window exists so payment can still succeed, not just
		// to delay suspension: keep re-attempting collection until the
		// window closes.
		if s.IsInGracePeriod(today) {
			if s.HasPromotionalCredits() {
				return ActionApplyCredit
			}
			if s.HasPaymentAuthorization() {
				return ActionChargeRenewal
			}
			return ActionNone
		}
		if s.ShouldSuspend(today) {
			return ActionSuspend
		}
		return ActionNone

	case StatusSuspended:
		if s.IsEligibleForDeletion(today, warningDays) {
			return ActionFlagDeletionEligible
		}
		if s.NeedsDeletionWarning(today, warningDays) {
			return ActionSendDeletionWarning
		}
		return ActionNone

	default: // canceled
		return ActionNone
	}
}
