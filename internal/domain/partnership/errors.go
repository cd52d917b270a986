package partnership

import "errors"

var (
	ErrCodeNotFound        = errors.New("partnership code not found")
	ErrCodeInactive        = errors.New("partnership code is not active")
	ErrCodeExpired         = errors.New("partnership code has expired")
	ErrCodeExhausted       = errors.New("partnership code has no uses left")
	ErrCodeAlreadyRedeemed = errors.New("partnership code already redeemed by this church")
)
