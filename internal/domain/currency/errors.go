package currency

import "errors"

var (
	ErrSettingsNotFound    = errors.New("currency settings not found")
	ErrInvalidExchangeRate = errors.New("exchange rate must be greater than zero")
	ErrVersionConflict     = errors.New("currency settings were modified concurrently")
)
