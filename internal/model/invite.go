package model

import "time"

type InviteCode struct {
	ID                 int64      `json:"id"`
	Code               string     `json:"code"`
	CreatedBy          int64      `json:"created_by"`
	MaxUses            int        `json:"max_uses"`
	CurrentUses        int        `json:"current_uses"`
	FastTrackThreshold int        `json:"fast_track_threshold"`
	Active             bool       `json:"active"`
	ExpiresAt          *time.Time `json:"expires_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

// IsValid reports whether the code can still be redeemed.
func (c *InviteCode) IsValid() bool {
	if !c.Active {
		return false
	}
	if c.CurrentUses >= c.MaxUses {
		return false
	}
	if c.ExpiresAt != nil && time.Now().After(*c.ExpiresAt) {
		return false
	}
	return true
}

// RemainingUses never goes below zero.
func (c *InviteCode) RemainingUses() int {
	if c.CurrentUses >= c.MaxUses {
		return 0
	}
	return c.MaxUses - c.CurrentUses
}
