package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/devflow/backend/internal/action"
	"github.com/emilythestrangee/devflow/backend/internal/models"
	"github.com/emilythestrangee/devflow/backend/internal/votes"
)

type VoteHandler struct {
	svc      *votes.Service
	resolver action.Resolver
}

func NewVoteHandler(svc *votes.Service) *VoteHandler {
	return &VoteHandler{svc: svc, resolver: action.ContextResolver{}}
}

// CreateVote casts, flips, or removes the caller's vote on a question
// or answer (PROTECTED - requires authentication)
func (h *VoteHandler) CreateVote(c *gin.Context) {
	var req models.CreateVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request body")
		return
	}

	res, err := action.Run(c, h.resolver, req, true)
	if err != nil {
		respondErr(c, err)
		return
	}

	if err := h.svc.Cast(res.Session.UserID, res.Params.TargetID,
		res.Params.TargetType, res.Params.VoteType); err != nil {
		respondErr(c, err)
		return
	}

	respond(c, http.StatusOK, nil)
}

// HasVoted returns the caller's vote flags on a target (PROTECTED)
func (h *VoteHandler) HasVoted(c *gin.Context) {
	var req models.HasVotedRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBadRequest(c, "Invalid query parameters")
		return
	}

	res, err := action.Run(c, h.resolver, req, true)
	if err != nil {
		respondErr(c, err)
		return
	}

	flags, err := h.svc.HasVoted(res.Session.UserID, res.Params.TargetID, res.Params.TargetType)
	if err != nil {
		respondErr(c, err)
		return
	}

	respond(c, http.StatusOK, flags)
}
