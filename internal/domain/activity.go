package domain

import "time"

// Activity is one append-only entry in a deal's log.
type Activity struct {
	ID           int64        `json:"id" yaml:"id"`
	DealID       int64        `json:"deal_id" yaml:"deal_id"`
	UserID       int64        `json:"user_id" yaml:"user_id"`
	ActivityType ActivityType `json:"activity_type" yaml:"activity_type"`
	Description  string       `json:"description" yaml:"description"`
	CreatedAt    time.Time    `json:"created_at" yaml:"created_at"`
}

// Vote records that a user backed a deal. At most one exists per (deal, user).
type Vote struct {
	ID        int64     `json:"id" yaml:"id"`
	DealID    int64     `json:"deal_id" yaml:"deal_id"`
	UserID    int64     `json:"user_id" yaml:"user_id"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// CommentCreate is the POST /activities/comment payload.
type CommentCreate struct {
	DealID  int64  `json:"deal_id"`
	Comment string `json:"comment"`
}
