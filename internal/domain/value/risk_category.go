package value

import (
	"fmt"
)

// RiskCategory is the ordinal discretization of a behavior score.
type RiskCategory string

const (
	RiskLow    RiskCategory = "Low Risk"
	RiskMedium RiskCategory = "Medium Risk"
	RiskHigh   RiskCategory = "High Risk"
)

func (c RiskCategory) String() string {
	return string(c)
}

func ParseRiskCategory(s string) (RiskCategory, error) {
	switch RiskCategory(s) {
	case RiskLow, RiskMedium, RiskHigh:
		return RiskCategory(s), nil
	}

	return "", fmt.Errorf("unknown risk category %q", s)
}

// Categories returns all buckets from safest to riskiest.
func Categories() []RiskCategory {
	return []RiskCategory{RiskLow, RiskMedium, RiskHigh}
}
