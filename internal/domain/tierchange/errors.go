package tierchange

import "errors"

var (
	ErrRecordNotFound        = errors.New("tier change record not found")
	ErrPendingChangeExists   = errors.New("a pending tier change already exists for this church")
	ErrNoPendingChange       = errors.New("no pending tier change to cancel")
	ErrSameTierAndInterval   = errors.New("requested tier and interval match the current subscription")
	ErrSubscriptionNotActive = errors.New("subscription must be active to change tiers")
	ErrChangeNotPending      = errors.New("tier change is not pending")
)
