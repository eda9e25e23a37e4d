package model

import "time"

type User struct {
	ID          int64      `json:"id"`
	FullName    string     `json:"full_name"`
	Email       string     `json:"email"`
	Headline    *string    `json:"headline,omitempty"`
	AvatarURL   *string    `json:"avatar_url,omitempty"`
	EarlyAccess bool       `json:"early_access"`
	MemberSince *time.Time `json:"member_since,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
