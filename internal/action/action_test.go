package action

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilythestrangee/devflow/backend/internal/apperr"
	"github.com/emilythestrangee/devflow/backend/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testContext() *gin.Context {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	return c
}

type stubResolver struct {
	session *Session
}

func (r stubResolver) Resolve(*gin.Context) *Session { return r.session }

func TestValidateReturnsFieldErrorMap(t *testing.T) {
	req := models.CreateVoteRequest{
		// TargetID missing, TargetType invalid, VoteType missing.
		TargetType: "comment",
	}

	err := Validate(req)
	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)

	// Errors keyed by json field name so the UI can attach them to
	// individual form fields.
	assert.Contains(t, verr.Fields, "target_id")
	assert.Contains(t, verr.Fields, "target_type")
	assert.Contains(t, verr.Fields, "vote_type")
	assert.NotEmpty(t, verr.Fields["target_type"])
}

func TestValidatePassesValidParams(t *testing.T) {
	req := models.CreateVoteRequest{
		TargetID:   1,
		TargetType: models.TargetAnswer,
		VoteType:   models.VoteUp,
	}
	require.NoError(t, Validate(req))
}

func TestRunRejectsInvalidParamsBeforeSessionLookup(t *testing.T) {
	res, err := Run(testContext(), stubResolver{session: &Session{UserID: 1}},
		models.CreateVoteRequest{}, true)

	require.Nil(t, res)
	var verr *apperr.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestRunRequiresSessionWhenAuthorized(t *testing.T) {
	req := models.CreateVoteRequest{
		TargetID:   1,
		TargetType: models.TargetQuestion,
		VoteType:   models.VoteDown,
	}

	res, err := Run(testContext(), stubResolver{}, req, true)

	require.Nil(t, res)
	var unauthorized *apperr.UnauthorizedError
	require.ErrorAs(t, err, &unauthorized)
}

func TestRunSkipsSessionWhenNotAuthorized(t *testing.T) {
	req := models.HasVotedRequest{TargetID: 5, TargetType: models.TargetAnswer}

	res, err := Run(testContext(), stubResolver{}, req, false)

	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Nil(t, res.Session)
	assert.Equal(t, 5, res.Params.TargetID)
}

func TestRunCarriesSessionThrough(t *testing.T) {
	req := models.CreateVoteRequest{
		TargetID:   7,
		TargetType: models.TargetAnswer,
		VoteType:   models.VoteUp,
	}

	res, err := Run(testContext(), stubResolver{session: &Session{UserID: 42}}, req, true)

	require.NoError(t, err)
	require.NotNil(t, res.Session)
	assert.Equal(t, 42, res.Session.UserID)
	assert.Equal(t, req, res.Params)
}

func TestContextResolverReadsMiddlewareIdentity(t *testing.T) {
	c := testContext()
	c.Set("user_id", 42)

	session := ContextResolver{}.Resolve(c)
	require.NotNil(t, session)
	assert.Equal(t, 42, session.UserID)
}

func TestContextResolverHandlesMissingAndBadValues(t *testing.T) {
	assert.Nil(t, ContextResolver{}.Resolve(testContext()))

	c := testContext()
	c.Set("user_id", "not-a-number")
	assert.Nil(t, ContextResolver{}.Resolve(c))

	c = testContext()
	c.Set("user_id", float64(7))
	session := ContextResolver{}.Resolve(c)
	require.NotNil(t, session)
	assert.Equal(t, 7, session.UserID)
}
