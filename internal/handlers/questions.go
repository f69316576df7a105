package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/emilythestrangee/devflow/backend/internal/action"
	"github.com/emilythestrangee/devflow/backend/internal/apperr"
	"github.com/emilythestrangee/devflow/backend/internal/interactions"
	"github.com/emilythestrangee/devflow/backend/internal/models"
	"github.com/emilythestrangee/devflow/backend/internal/revalidate"
)

type QuestionHandler struct {
	db       *gorm.DB
	notifier *interactions.Notifier
	reval    revalidate.Revalidator
	resolver action.Resolver
}

func NewQuestionHandler(db *gorm.DB, notifier *interactions.Notifier, reval revalidate.Revalidator) *QuestionHandler {
	return &QuestionHandler{
		db:       db,
		notifier: notifier,
		reval:    reval,
		resolver: action.ContextResolver{},
	}
}

// CreateQuestion creates a new question (PROTECTED - requires
// authentication)
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	var req models.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	res, err := action.Run(c, h.resolver, req, true)
	if err != nil {
		respondErr(c, err)
		return
	}

	question := models.Question{
		Title:    res.Params.Title,
		Content:  res.Params.Content,
		AuthorID: res.Session.UserID,
	}

	if err := h.db.Create(&question).Error; err != nil {
		respondErr(c, &apperr.TransactionError{Op: "create question", Err: err})
		return
	}

	if err := h.db.Preload("Author").First(&question, question.ID).Error; err != nil {
		log.Printf("questions: failed to reload question %d: %v", question.ID, err)
	}

	h.notifier.Record(interactions.Event{
		UserID:     res.Session.UserID,
		Action:     models.ActionPost,
		TargetID:   question.ID,
		TargetType: models.TargetQuestion,
		AuthorID:   res.Session.UserID,
	})
	h.reval.Revalidate("/")

	respond(c, http.StatusCreated, question)
}

// GetQuestions returns all questions, newest first (public read)
func (h *QuestionHandler) GetQuestions(c *gin.Context) {
	var questions []models.Question

	if err := h.db.Preload("Author").Order("created_at desc").Find(&questions).Error; err != nil {
		respondErr(c, &apperr.TransactionError{Op: "list questions", Err: err})
		return
	}

	// If no questions, return empty array not null
	if questions == nil {
		questions = []models.Question{}
	}

	respond(c, http.StatusOK, questions)
}

// GetQuestion returns a single question by ID and bumps its view count
// (public read)
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	questionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "Invalid question id")
		return
	}

	// Views are incremented in SQL like the vote counters; a
	// read-modify-write here would drop concurrent views. A failed
	// bump is not worth failing the read.
	if err := h.db.Model(&models.Question{}).
		Where("id = ?", questionID).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error; err != nil {
		log.Printf("questions: failed to bump views for %d: %v", questionID, err)
	}

	var question models.Question
	if err := h.db.Preload("Author").First(&question, questionID).Error; err != nil {
		respondErr(c, &apperr.NotFoundError{Resource: "question"})
		return
	}

	respond(c, http.StatusOK, question)
}
