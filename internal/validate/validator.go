package validate

import (
	"fmt"

	"arbdesk/internal/model"
)

// Order checks a candidate order notional against a counterparty's limits
// and payment methods. Boundary values are inclusive: an amount exactly
// equal to the minimum or maximum is valid.
//
// Out-of-range amounts and payment mismatches are expected business
// outcomes and come back as a ValidationResult. Only a structurally
// invalid amount (zero or negative) is an error.
func Order(notionalINR, minINR, maxINR float64, accepted, available []string) (model.ValidationResult, error) {
	if notionalINR <= 0 {
		return model.ValidationResult{}, fmt.Errorf("%w: order notional %.2f", model.ErrInvalidInput, notionalINR)
	}

	if notionalINR < minINR {
		return model.ValidationResult{Valid: false, Reason: model.ReasonBelowMinimum}, nil
	}
	if maxINR > 0 && notionalINR > maxINR {
		return model.ValidationResult{Valid: false, Reason: model.ReasonAboveMaximum}, nil
	}
	if !methodsOverlap(accepted, available) {
		return model.ValidationResult{Valid: false, Reason: model.ReasonPaymentMethodMismatch}, nil
	}

	return model.ValidationResult{Valid: true}, nil
}

// methodsOverlap reports whether the two payment method sets intersect.
// An empty accepted set means the counterparty takes anything.
func methodsOverlap(accepted, available []string) bool {
	if len(accepted) == 0 {
		return true
	}
	for _, a := range accepted {
		for _, b := range available {
			if a == b {
				return true
			}
		}
	}
	return false
}
