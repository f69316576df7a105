package models

import "time"

// Interaction action kinds consumed by the reputation pipeline.
const (
	ActionUpvote   = "upvote"
	ActionDownvote = "downvote"
	ActionPost     = "post"
	ActionEdit     = "edit"
	ActionDelete   = "delete"
	ActionView     = "view"
)

// Interaction is an append-only record of who did what to whom.
// Rows are written after the triggering transaction commits and are
// never updated or deleted here.
type Interaction struct {
	ID         int       `gorm:"primaryKey" json:"id"`
	UserID     int       `gorm:"index" json:"user_id"` // the actor
	Action     string    `gorm:"not null" json:"action"`
	TargetID   int       `json:"target_id"`
	TargetType string    `json:"target_type"` // "question" or "answer"
	AuthorID   int       `json:"author_id"`   // author of the target content
	CreatedAt  time.Time `json:"created_at"`
}
