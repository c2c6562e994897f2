package access

import (
	"fmt"

	"defi-academy/internal/domain/referrals"
)

// DefaultEarlyAccessWindowDays applies when content has no public release date.
const DefaultEarlyAccessWindowDays = 14

type Rules struct {
	EarlyAccessWindowDays int
	CommissionRates       referrals.Rates
}

func DefaultRules() Rules {
	return Rules{
		EarlyAccessWindowDays: DefaultEarlyAccessWindowDays,
		CommissionRates:       referrals.DefaultRates(),
	}
}

func (r Rules) Validate() error {
	if r.EarlyAccessWindowDays < 0 {
		return fmt.Errorf("early access window must not be negative, got %d days", r.EarlyAccessWindowDays)
	}
	return r.CommissionRates.Validate()
}
