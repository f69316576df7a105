package models

import "time"

type Answer struct {
	ID         int       `gorm:"primaryKey" json:"id"`
	Content    string    `gorm:"not null" json:"content"`
	AuthorID   int       `json:"author_id"`
	Author     User      `gorm:"foreignKey:AuthorID" json:"author"`
	QuestionID int       `gorm:"index" json:"question_id"`
	Upvotes    int       `gorm:"default:0" json:"upvotes"`
	Downvotes  int       `gorm:"default:0" json:"downvotes"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type CreateAnswerRequest struct {
	QuestionID int    `json:"question_id" validate:"required"`
	Content    string `json:"content" validate:"required,min=20"`
}

// GetAnswersRequest carries pagination for the answer list on a question page.
// Filter is one of "latest", "oldest", "popular"; empty means latest.
type GetAnswersRequest struct {
	QuestionID int    `json:"question_id" form:"question_id" validate:"required"`
	Page       int    `json:"page" form:"page" validate:"omitempty,min=1"`
	PageSize   int    `json:"page_size" form:"page_size" validate:"omitempty,min=1,max=100"`
	Filter     string `json:"filter" form:"filter" validate:"omitempty,oneof=latest oldest popular"`
}
