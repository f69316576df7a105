package handlers

import (
	"gorm.io/gorm"

	"github.com/emilythestrangee/devflow/backend/internal/answers"
	"github.com/emilythestrangee/devflow/backend/internal/interactions"
	"github.com/emilythestrangee/devflow/backend/internal/revalidate"
	"github.com/emilythestrangee/devflow/backend/internal/votes"
)

// Handler combines all handler types
type Handler struct {
	Auth     *AuthHandler
	Question *QuestionHandler
	Answer   *AnswerHandler
	Vote     *VoteHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(db *gorm.DB, notifier *interactions.Notifier, reval revalidate.Revalidator) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(db),
		Question: NewQuestionHandler(db, notifier, reval),
		Answer:   NewAnswerHandler(answers.NewService(db, notifier, reval)),
		Vote:     NewVoteHandler(votes.NewService(db, notifier, reval)),
	}
}
