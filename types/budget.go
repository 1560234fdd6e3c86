package types

import "fmt"

// BudgetLevel caps how many external recommendation calls one analysis
// run may make. The counter is consumed within a run and never carries
// over to the next one.
type BudgetLevel string

const (
	BudgetLow    BudgetLevel = "low"
	BudgetMedium BudgetLevel = "medium"
	BudgetHigh   BudgetLevel = "high"
)

const (
	lowBudgetCalls    = 3
	mediumBudgetCalls = 10
	highBudgetCalls   = 25
)

// ParseBudgetLevel validates a budget level string. An empty value
// resolves to medium.
func ParseBudgetLevel(s string) (BudgetLevel, error) {
	switch BudgetLevel(s) {
	case BudgetLow, BudgetMedium, BudgetHigh:
		return BudgetLevel(s), nil
	case "":
		return BudgetMedium, nil
	default:
		return "", &InvalidConfigError{Field: "budget_level", Reason: fmt.Sprintf("unknown level %q, expected low, medium or high", s)}
	}
}

// CallCount maps the level to the maximum number of external calls.
func (b BudgetLevel) CallCount() int {
	switch b {
	case BudgetLow:
		return lowBudgetCalls
	case BudgetHigh:
		return highBudgetCalls
	default:
		return mediumBudgetCalls
	}
}
