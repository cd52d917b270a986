package addon

import "errors"

var (
	ErrOwnershipNotFound       = errors.New("storage addon ownership not found")
	ErrAddonAlreadyActive      = errors.New("church already has this addon active")
	ErrAddonNotActive          = errors.New("storage addon is not active for this church")
	ErrSubscriptionNotEligible = errors.New("subscription must be active to purchase addons")
)
