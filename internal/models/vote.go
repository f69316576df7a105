package models

import "time"

// Vote target types.
const (
	TargetQuestion = "question"
	TargetAnswer   = "answer"
)

// Vote values as stored in vote_type.
const (
	VoteUp   = 1
	VoteDown = -1
)

// Vote model - tracks individual user votes on questions and answers.
// At most one vote per (user, target) pair; polarity flips update the row
// in place, re-casting the same polarity deletes it.
type Vote struct {
	ID         int       `gorm:"primaryKey" json:"id"`
	UserID     int       `gorm:"uniqueIndex:idx_user_target" json:"user_id"`
	TargetID   int       `gorm:"uniqueIndex:idx_user_target" json:"target_id"`
	TargetType string    `gorm:"uniqueIndex:idx_user_target" json:"target_type"` // "question" or "answer"
	VoteType   int       `json:"vote_type"`                                      // 1 or -1
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type CreateVoteRequest struct {
	TargetID   int    `json:"target_id" validate:"required"`
	TargetType string `json:"target_type" validate:"required,oneof=question answer"`
	VoteType   int    `json:"vote_type" validate:"required,oneof=-1 1"`
}

type HasVotedRequest struct {
	TargetID   int    `json:"target_id" form:"target_id" validate:"required"`
	TargetType string `json:"target_type" form:"target_type" validate:"required,oneof=question answer"`
}

type HasVotedResponse struct {
	HasUpvoted   bool `json:"has_upvoted"`
	HasDownvoted bool `json:"has_downvoted"`
}
