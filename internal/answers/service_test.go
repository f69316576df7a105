package answers

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/emilythestrangee/devflow/backend/internal/apperr"
	"github.com/emilythestrangee/devflow/backend/internal/interactions"
	"github.com/emilythestrangee/devflow/backend/internal/models"
	"github.com/emilythestrangee/devflow/backend/internal/revalidate"
	"github.com/emilythestrangee/devflow/backend/internal/testutil"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := testutil.NewTestDB(t)
	notifier := interactions.NewNotifier(db)
	t.Cleanup(notifier.Close)
	return NewService(db, notifier, revalidate.Noop{}), db
}

func answerCount(t *testing.T, db *gorm.DB, questionID int) int {
	t.Helper()
	var question models.Question
	require.NoError(t, db.First(&question, questionID).Error)
	return question.Answers
}

func liveAnswers(t *testing.T, db *gorm.DB, questionID int) int {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.Answer{}).
		Where("question_id = ?", questionID).Count(&count).Error)
	return int(count)
}

func TestCreateBumpsAnswerCount(t *testing.T) {
	svc, db := newTestService(t)

	author := testutil.SeedUser(t, db, "author")
	question := testutil.SeedQuestion(t, db, author.ID, "Does the counter track the rows?")

	answer, err := svc.Create(author.ID, question.ID, "It must; they move in the same transaction.")
	require.NoError(t, err)
	require.NotNil(t, answer)
	assert.Equal(t, question.ID, answer.QuestionID)
	assert.Equal(t, author.ID, answer.AuthorID)

	assert.Equal(t, 1, answerCount(t, db, question.ID))
	assert.Equal(t, 1, liveAnswers(t, db, question.ID))
}

func TestCreateFailsWhenQuestionMissing(t *testing.T) {
	svc, db := newTestService(t)
	author := testutil.SeedUser(t, db, "author")

	_, err := svc.Create(author.ID, 99999, "Answering into the void should not work.")
	var notFound *apperr.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestCreateRollsBackAnswerRowOnCounterFailure(t *testing.T) {
	svc, db := newTestService(t)

	author := testutil.SeedUser(t, db, "author")
	question := testutil.SeedQuestion(t, db, author.ID, "What if the counter update fails?")

	svc.failpoint = func() error { return errors.New("injected failure") }
	_, err := svc.Create(author.ID, question.ID, "The answer row must not survive without its counter.")
	require.Error(t, err)
	svc.failpoint = nil

	assert.Equal(t, 0, answerCount(t, db, question.ID))
	assert.Equal(t, 0, liveAnswers(t, db, question.ID))
}

func TestDeleteByNonAuthorIsForbiddenAndChangesNothing(t *testing.T) {
	svc, db := newTestService(t)

	author := testutil.SeedUser(t, db, "author")
	stranger := testutil.SeedUser(t, db, "stranger")
	question := testutil.SeedQuestion(t, db, author.ID, "Can someone else delete my answer?")
	answer := testutil.SeedAnswer(t, db, author.ID, question.ID, "Only the author may delete.")

	err := svc.Delete(stranger.ID, answer.ID)
	var forbidden *apperr.ForbiddenError
	require.ErrorAs(t, err, &forbidden)

	assert.Equal(t, 1, answerCount(t, db, question.ID))
	assert.Equal(t, 1, liveAnswers(t, db, question.ID))
}

func TestDeleteCascadesVotesAndDecrementsCount(t *testing.T) {
	svc, db := newTestService(t)

	author := testutil.SeedUser(t, db, "author")
	voter := testutil.SeedUser(t, db, "voter")
	question := testutil.SeedQuestion(t, db, author.ID, "What happens to votes on a deleted answer?")
	answer := testutil.SeedAnswer(t, db, author.ID, question.ID, "They go with it, in the same transaction.")

	vote := models.Vote{
		UserID:     voter.ID,
		TargetID:   answer.ID,
		TargetType: models.TargetAnswer,
		VoteType:   models.VoteUp,
	}
	require.NoError(t, db.Create(&vote).Error)

	require.NoError(t, svc.Delete(author.ID, answer.ID))

	assert.Equal(t, 0, answerCount(t, db, question.ID))
	assert.Equal(t, 0, liveAnswers(t, db, question.ID))

	var voteCount int64
	require.NoError(t, db.Model(&models.Vote{}).
		Where("target_id = ? AND target_type = ?", answer.ID, models.TargetAnswer).
		Count(&voteCount).Error)
	assert.Equal(t, int64(0), voteCount)
}

func TestDeleteMissingAnswerNotFound(t *testing.T) {
	svc, db := newTestService(t)
	actor := testutil.SeedUser(t, db, "actor")

	err := svc.Delete(actor.ID, 99999)
	var notFound *apperr.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestListPaginatesOldestFirst(t *testing.T) {
	svc, db := newTestService(t)

	author := testutil.SeedUser(t, db, "author")
	question := testutil.SeedQuestion(t, db, author.ID, "How does page two look?")

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 15; i++ {
		answer := models.Answer{
			Content:    fmt.Sprintf("answer %02d", i),
			AuthorID:   author.ID,
			QuestionID: question.ID,
		}
		require.NoError(t, db.Create(&answer).Error)
		// Spread creation times a minute apart so the sort order is
		// deterministic.
		require.NoError(t, db.Model(&answer).
			UpdateColumn("created_at", base.Add(time.Duration(i)*time.Minute)).Error)
	}

	page, err := svc.List(question.ID, 2, 10, "oldest")
	require.NoError(t, err)

	assert.Equal(t, 15, page.TotalAnswers)
	assert.False(t, page.IsNext)
	require.Len(t, page.Answers, 5)
	for i, answer := range page.Answers {
		assert.Equal(t, fmt.Sprintf("answer %02d", 10+i), answer.Content)
	}
}

func TestListPopularSortsByUpvotes(t *testing.T) {
	svc, db := newTestService(t)

	author := testutil.SeedUser(t, db, "author")
	question := testutil.SeedQuestion(t, db, author.ID, "Which answer is on top?")

	for _, upvotes := range []int{3, 7, 1} {
		answer := models.Answer{
			Content:    fmt.Sprintf("answer with %d upvotes and enough content", upvotes),
			AuthorID:   author.ID,
			QuestionID: question.ID,
			Upvotes:    upvotes,
		}
		require.NoError(t, db.Create(&answer).Error)
	}

	page, err := svc.List(question.ID, 1, 10, "popular")
	require.NoError(t, err)

	require.Len(t, page.Answers, 3)
	assert.Equal(t, 7, page.Answers[0].Upvotes)
	assert.Equal(t, 3, page.Answers[1].Upvotes)
	assert.Equal(t, 1, page.Answers[2].Upvotes)
	assert.Equal(t, 3, page.TotalAnswers)
	assert.False(t, page.IsNext)
}

func TestListDefaultsToLatestAndReportsNextPage(t *testing.T) {
	svc, db := newTestService(t)

	author := testutil.SeedUser(t, db, "author")
	question := testutil.SeedQuestion(t, db, author.ID, "Is there another page?")

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 12; i++ {
		answer := models.Answer{
			Content:    fmt.Sprintf("answer %02d", i),
			AuthorID:   author.ID,
			QuestionID: question.ID,
		}
		require.NoError(t, db.Create(&answer).Error)
		require.NoError(t, db.Model(&answer).
			UpdateColumn("created_at", base.Add(time.Duration(i)*time.Minute)).Error)
	}

	page, err := svc.List(question.ID, 1, 10, "")
	require.NoError(t, err)

	assert.Equal(t, 12, page.TotalAnswers)
	assert.True(t, page.IsNext)
	require.Len(t, page.Answers, 10)
	// Latest first: the newest answer leads.
	assert.Equal(t, "answer 11", page.Answers[0].Content)
}
