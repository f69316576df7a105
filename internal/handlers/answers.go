package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/devflow/backend/internal/action"
	"github.com/emilythestrangee/devflow/backend/internal/answers"
	"github.com/emilythestrangee/devflow/backend/internal/models"
)

type AnswerHandler struct {
	svc      *answers.Service
	resolver action.Resolver
}

func NewAnswerHandler(svc *answers.Service) *AnswerHandler {
	return &AnswerHandler{svc: svc, resolver: action.ContextResolver{}}
}

// CreateAnswer posts a new answer on a question (PROTECTED - requires
// authentication)
func (h *AnswerHandler) CreateAnswer(c *gin.Context) {
	var req models.CreateAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	res, err := action.Run(c, h.resolver, req, true)
	if err != nil {
		respondErr(c, err)
		return
	}

	answer, err := h.svc.Create(res.Session.UserID, res.Params.QuestionID, res.Params.Content)
	if err != nil {
		respondErr(c, err)
		return
	}

	respond(c, http.StatusCreated, answer)
}

// GetAnswers returns a page of answers for a question (public read)
func (h *AnswerHandler) GetAnswers(c *gin.Context) {
	questionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "Invalid question id")
		return
	}

	req := models.GetAnswersRequest{
		QuestionID: questionID,
		Page:       1,
		PageSize:   10,
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBadRequest(c, "Invalid query parameters")
		return
	}
	req.QuestionID = questionID

	res, err := action.Run(c, h.resolver, req, false)
	if err != nil {
		respondErr(c, err)
		return
	}

	page, err := h.svc.List(res.Params.QuestionID, res.Params.Page, res.Params.PageSize, res.Params.Filter)
	if err != nil {
		respondErr(c, err)
		return
	}

	respond(c, http.StatusOK, page)
}

// DeleteAnswer deletes an answer and its votes (PROTECTED - requires
// ownership)
func (h *AnswerHandler) DeleteAnswer(c *gin.Context) {
	answerID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "Invalid answer id")
		return
	}

	res, err := action.Run(c, h.resolver, struct{}{}, true)
	if err != nil {
		respondErr(c, err)
		return
	}

	if err := h.svc.Delete(res.Session.UserID, answerID); err != nil {
		respondErr(c, err)
		return
	}

	respond(c, http.StatusOK, nil)
}
