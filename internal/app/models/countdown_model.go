package models

import "time"

// CountdownResponse is what the payment page renders. Active is false and the
// remaining fields are zero unless the subject is pending.
type CountdownResponse struct {
	Status      string     `json:"status"`
	Active      bool       `json:"active"`
	RemainingMs int64      `json:"remaining_ms"`
	Remaining   string     `json:"remaining"`
	Expired     bool       `json:"expired"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

type CooldownState struct {
	Active           bool       `json:"active"`
	Permitted        bool       `json:"permitted"`
	CooldownEndsAt   *time.Time `json:"cooldown_ends_at,omitempty"`
	RemainingSeconds int        `json:"remaining_seconds"`
}
