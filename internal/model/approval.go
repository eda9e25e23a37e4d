package model

import "time"

type MembershipStatus string

const (
	MembershipStatusPending  MembershipStatus = "pending"
	MembershipStatusApproved MembershipStatus = "approved"
	MembershipStatusRejected MembershipStatus = "rejected"
)

// PendingMember accumulates peer approvals until the invite's fast-track
// threshold promotes it. Promotion happens in the invite service, inside
// the same transaction that records the deciding approval.
type PendingMember struct {
	ID            int64            `json:"id"`
	UserID        int64            `json:"user_id"`
	InviteID      *int64           `json:"invite_id,omitempty"`
	Status        MembershipStatus `json:"status"`
	ApprovalCount int              `json:"approval_count"`
	CreatedAt     time.Time        `json:"created_at"`
	PromotedAt    *time.Time       `json:"promoted_at,omitempty"`
}

type MemberApproval struct {
	ID              int64     `json:"id"`
	PendingMemberID int64     `json:"pending_member_id"`
	ApproverID      int64     `json:"approver_id"`
	Reason          *string   `json:"reason,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}
