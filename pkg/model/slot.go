package model

import "time"

// SlotCandidate is an offerable booking start computed on demand. It is
// ephemeral and never persisted; only a confirmed Booking is durable.
type SlotCandidate struct {
	Date    string    `json:"date"`
	Start   string    `json:"start"`
	End     string    `json:"end"`
	StartAt time.Time `json:"start_at"`
	EndAt   time.Time `json:"end_at"`
}
