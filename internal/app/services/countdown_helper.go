package services

import (
	"time"

	"github.com/safatanc/gsalt-paylink/internal/app/countdown"
	"github.com/safatanc/gsalt-paylink/internal/app/models"
)

// buildCountdown renders a countdown for a subject. Nothing is tracked unless
// the subject is pending; a window that cannot be built counts as elapsed.
func buildCountdown(status string, pending bool, start time.Time, duration time.Duration, now time.Time) *models.CountdownResponse {
	resp := &models.CountdownResponse{
		Status:    status,
		Remaining: countdown.Format(0),
	}
	if !pending {
		return resp
	}

	window, err := countdown.NewWindow(start, duration)
	if err != nil {
		resp.Expired = true
		return resp
	}

	snap := window.Tick(now)
	deadline := window.Deadline()
	resp.Active = !snap.Expired
	resp.Expired = snap.Expired
	resp.RemainingMs = snap.RemainingMs()
	resp.Remaining = countdown.Format(snap.Remaining)
	resp.ExpiresAt = &deadline
	return resp
}
