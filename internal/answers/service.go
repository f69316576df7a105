// Package answers handles answer creation, deletion and listing. Creation
// and deletion follow the same transactional discipline as voting: the
// answer row and the question's answers counter move together or not at
// all.
package answers

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/emilythestrangee/devflow/backend/internal/apperr"
	"github.com/emilythestrangee/devflow/backend/internal/interactions"
	"github.com/emilythestrangee/devflow/backend/internal/models"
	"github.com/emilythestrangee/devflow/backend/internal/revalidate"
)

type Service struct {
	db       *gorm.DB
	notifier *interactions.Notifier
	reval    revalidate.Revalidator

	// failpoint, when set, is invoked after the answer row write and
	// before the counter update. Test seam for rollback behavior.
	failpoint func() error
}

func NewService(db *gorm.DB, notifier *interactions.Notifier, reval revalidate.Revalidator) *Service {
	return &Service{db: db, notifier: notifier, reval: reval}
}

// Create inserts the answer and bumps the question's answers counter in
// one transaction. On commit the question page is revalidated and a
// "post" interaction recorded.
func (s *Service) Create(authorID, questionID int, content string) (*models.Answer, error) {
	answer := models.Answer{
		Content:    content,
		AuthorID:   authorID,
		QuestionID: questionID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var question models.Question
		if err := tx.First(&question, questionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &apperr.NotFoundError{Resource: "question"}
			}
			return &apperr.TransactionError{Op: "load question", Err: err}
		}

		if err := tx.Create(&answer).Error; err != nil {
			return &apperr.TransactionError{Op: "create answer", Err: err}
		}

		if s.failpoint != nil {
			if err := s.failpoint(); err != nil {
				return err
			}
		}

		res := tx.Model(&models.Question{}).
			Where("id = ?", questionID).
			UpdateColumn("answers", gorm.Expr("answers + ?", 1))
		if res.Error != nil {
			return &apperr.TransactionError{Op: "update answer count", Err: res.Error}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The answer is committed either way; a failed reload only costs
	// the Author preload in the response.
	if err := s.db.Preload("Author").First(&answer, answer.ID).Error; err != nil {
		log.Printf("answers: failed to reload answer %d: %v", answer.ID, err)
	}

	s.notifier.Record(interactions.Event{
		UserID:     authorID,
		Action:     models.ActionPost,
		TargetID:   answer.ID,
		TargetType: models.TargetAnswer,
		AuthorID:   authorID,
	})
	s.reval.Revalidate(fmt.Sprintf("/questions/%d", questionID))

	return &answer, nil
}

// Delete removes an answer, its votes, and decrements the question's
// answers counter, all in one transaction. Only the author may delete.
func (s *Service) Delete(actorID, answerID int) error {
	var answer models.Answer

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&answer, answerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &apperr.NotFoundError{Resource: "answer"}
			}
			return &apperr.TransactionError{Op: "load answer", Err: err}
		}

		if answer.AuthorID != actorID {
			return &apperr.ForbiddenError{Reason: "you can only delete your own answers"}
		}

		res := tx.Model(&models.Question{}).
			Where("id = ?", answer.QuestionID).
			UpdateColumn("answers", gorm.Expr("answers - ?", 1))
		if res.Error != nil {
			return &apperr.TransactionError{Op: "update answer count", Err: res.Error}
		}

		if err := tx.Where("target_id = ? AND target_type = ?",
			answer.ID, models.TargetAnswer).Delete(&models.Vote{}).Error; err != nil {
			return &apperr.TransactionError{Op: "delete votes", Err: err}
		}

		if err := tx.Delete(&answer).Error; err != nil {
			return &apperr.TransactionError{Op: "delete answer", Err: err}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.notifier.Record(interactions.Event{
		UserID:     actorID,
		Action:     models.ActionDelete,
		TargetID:   answerID,
		TargetType: models.TargetAnswer,
		AuthorID:   answer.AuthorID,
	})
	s.reval.Revalidate(fmt.Sprintf("/questions/%d", answer.QuestionID))

	return nil
}

// ListResult is one page of answers for a question.
type ListResult struct {
	Answers      []models.Answer `json:"answers"`
	IsNext       bool            `json:"is_next"`
	TotalAnswers int             `json:"total_answers"`
}

// List returns a page of answers. Filter is "latest" (default, newest
// first), "oldest", or "popular" (most upvoted first).
func (s *Service) List(questionID, page, pageSize int, filter string) (*ListResult, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	skip := (page - 1) * pageSize

	var order string
	switch filter {
	case "oldest":
		order = "created_at asc"
	case "popular":
		order = "upvotes desc"
	default:
		order = "created_at desc"
	}

	var total int64
	if err := s.db.Model(&models.Answer{}).
		Where("question_id = ?", questionID).Count(&total).Error; err != nil {
		return nil, &apperr.TransactionError{Op: "count answers", Err: err}
	}

	var answers []models.Answer
	if err := s.db.Where("question_id = ?", questionID).
		Preload("Author").
		Order(order).
		Offset(skip).
		Limit(pageSize).
		Find(&answers).Error; err != nil {
		return nil, &apperr.TransactionError{Op: "list answers", Err: err}
	}

	if answers == nil {
		answers = []models.Answer{}
	}

	return &ListResult{
		Answers:      answers,
		IsNext:       total > int64(skip+len(answers)),
		TotalAnswers: int(total),
	}, nil
}
