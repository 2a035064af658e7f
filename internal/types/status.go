package types

// Status is the stored lifecycle state of a long-lived record such as a promo code.
// Expiry and exhaustion are derived from dates and counters, never stored here.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)
