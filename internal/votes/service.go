// Package votes implements the vote state machine. A user holds at most
// one vote per target; re-casting the same polarity removes it, casting
// the opposite polarity flips it. Every path that touches a vote row and
// its target's counters runs inside one transaction, and counter updates
// are expressed as atomic deltas so concurrent voters never lose an
// increment.
package votes

import (
	"errors"
	"fmt"

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

	// failpoint, when set, is invoked after the vote row write and
	// before the counter update. Test seam for rollback behavior.
	failpoint func() error
}

func NewService(db *gorm.DB, notifier *interactions.Notifier, reval revalidate.Revalidator) *Service {
	return &Service{db: db, notifier: notifier, reval: reval}
}

// target captures what the state machine needs from the votable document:
// whose reputation the vote affects and which question page to revalidate.
type target struct {
	AuthorID   int
	QuestionID int
}

func (s *Service) loadTarget(tx *gorm.DB, targetType string, targetID int) (target, error) {
	switch targetType {
	case models.TargetQuestion:
		var q models.Question
		if err := tx.First(&q, targetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return target{}, &apperr.NotFoundError{Resource: "question"}
			}
			return target{}, &apperr.TransactionError{Op: "load question", Err: err}
		}
		return target{AuthorID: q.AuthorID, QuestionID: q.ID}, nil
	case models.TargetAnswer:
		var a models.Answer
		if err := tx.First(&a, targetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return target{}, &apperr.NotFoundError{Resource: "answer"}
			}
			return target{}, &apperr.TransactionError{Op: "load answer", Err: err}
		}
		return target{AuthorID: a.AuthorID, QuestionID: a.QuestionID}, nil
	default:
		return target{}, &apperr.NotFoundError{Resource: targetType}
	}
}

// updateVoteCount adjusts the target's upvote or downvote counter by
// change. The delta is applied in SQL, never read-modify-write from
// application memory.
func updateVoteCount(tx *gorm.DB, targetType string, targetID, voteType, change int) error {
	field := "upvotes"
	if voteType == models.VoteDown {
		field = "downvotes"
	}

	var model any
	if targetType == models.TargetQuestion {
		model = &models.Question{}
	} else {
		model = &models.Answer{}
	}

	res := tx.Model(model).
		Where("id = ?", targetID).
		UpdateColumn(field, gorm.Expr(field+" + ?", change))
	if res.Error != nil {
		return &apperr.TransactionError{Op: "update vote count", Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return &apperr.NotFoundError{Resource: targetType}
	}
	return nil
}

// Cast applies one vote action for (userID, targetID, targetType):
//
//	no vote + vote        -> create row, counter +1
//	same polarity again   -> delete row, counter -1 (toggle off)
//	opposite polarity     -> update row, old counter -1, new counter +1
//
// All writes share one transaction. On commit an interaction event is
// recorded and the question page revalidated, both fire-and-forget.
func (s *Service) Cast(userID, targetID int, targetType string, voteType int) error {
	var tgt target

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		tgt, err = s.loadTarget(tx, targetType, targetID)
		if err != nil {
			return err
		}

		var existing models.Vote
		findErr := tx.Where("user_id = ? AND target_id = ? AND target_type = ?",
			userID, targetID, targetType).First(&existing).Error

		switch {
		case findErr == nil && existing.VoteType == voteType:
			// Toggle off. A concurrent toggle may have removed the
			// row after our read; decrementing for a delete that hit
			// nothing would drive the counter below the live rows.
			res := tx.Delete(&existing)
			if res.Error != nil {
				return &apperr.TransactionError{Op: "delete vote", Err: res.Error}
			}
			if res.RowsAffected == 0 {
				return &apperr.ConflictError{Reason: "vote was removed concurrently"}
			}
			if s.failpoint != nil {
				if err := s.failpoint(); err != nil {
					return err
				}
			}
			return updateVoteCount(tx, targetType, targetID, voteType, -1)

		case findErr == nil:
			// Flip polarity. Update writes the new value back into
			// existing.VoteType, so remember the old polarity first.
			oldType := existing.VoteType
			res := tx.Model(&existing).Update("vote_type", voteType)
			if res.Error != nil {
				return &apperr.TransactionError{Op: "update vote", Err: res.Error}
			}
			if res.RowsAffected == 0 {
				return &apperr.ConflictError{Reason: "vote was removed concurrently"}
			}
			if s.failpoint != nil {
				if err := s.failpoint(); err != nil {
					return err
				}
			}
			if err := updateVoteCount(tx, targetType, targetID, oldType, -1); err != nil {
				return err
			}
			return updateVoteCount(tx, targetType, targetID, voteType, 1)

		case errors.Is(findErr, gorm.ErrRecordNotFound):
			vote := models.Vote{
				UserID:     userID,
				TargetID:   targetID,
				TargetType: targetType,
				VoteType:   voteType,
			}
			if err := tx.Create(&vote).Error; err != nil {
				return &apperr.TransactionError{Op: "create vote", Err: err}
			}
			if s.failpoint != nil {
				if err := s.failpoint(); err != nil {
					return err
				}
			}
			return updateVoteCount(tx, targetType, targetID, voteType, 1)

		default:
			return &apperr.TransactionError{Op: "find vote", Err: findErr}
		}
	})
	if err != nil {
		return err
	}

	action := models.ActionUpvote
	if voteType == models.VoteDown {
		action = models.ActionDownvote
	}
	s.notifier.Record(interactions.Event{
		UserID:     userID,
		Action:     action,
		TargetID:   targetID,
		TargetType: targetType,
		AuthorID:   tgt.AuthorID,
	})
	s.reval.Revalidate(fmt.Sprintf("/questions/%d", tgt.QuestionID))

	return nil
}

// HasVoted reports the caller's current vote flags on a target. Absence
// of a vote is a normal answer, not an error.
func (s *Service) HasVoted(userID, targetID int, targetType string) (models.HasVotedResponse, error) {
	var vote models.Vote
	err := s.db.Where("user_id = ? AND target_id = ? AND target_type = ?",
		userID, targetID, targetType).First(&vote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.HasVotedResponse{}, nil
	}
	if err != nil {
		return models.HasVotedResponse{}, &apperr.TransactionError{Op: "find vote", Err: err}
	}

	return models.HasVotedResponse{
		HasUpvoted:   vote.VoteType == models.VoteUp,
		HasDownvoted: vote.VoteType == models.VoteDown,
	}, nil
}
