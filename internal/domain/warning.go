package domain

import "fmt"

// WarningKind classifies an advisory warning on a candidate transaction.
type WarningKind string

const (
	WarningFutureDated    WarningKind = "future_dated"
	WarningUnusuallyLarge WarningKind = "unusually_large"
	WarningDuplicate      WarningKind = "duplicate"
)

// Warning is attached to a candidate before commit and never stored.
type Warning struct {
	Kind   WarningKind
	Amount float64 // set for WarningUnusuallyLarge
}

// Message is the user-facing text for the warning.
func (w Warning) Message() string {
	switch w.Kind {
	case WarningFutureDated:
		return "This transaction is dated in the future"
	case WarningUnusuallyLarge:
		return fmt.Sprintf("This is an unusually large transaction (%.2f)", w.Amount)
	case WarningDuplicate:
		return "This appears to be a duplicate transaction"
	default:
		return string(w.Kind)
	}
}

func (w Warning) String() string {
	return w.Message()
}
