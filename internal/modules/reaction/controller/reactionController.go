package controller

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"redunap/internal/modules/reaction"
	resp "redunap/pkg/lib/response"
)

type ReactionController struct {
	log      *slog.Logger
	uc       reaction.UseCase
	validate *validator.Validate
}

func NewReactionController(log *slog.Logger, uc reaction.UseCase) *ReactionController {
	return &ReactionController{
		log:      log,
		uc:       uc,
		validate: validator.New(),
	}
}

// ReactToStory
// @Summary React to a story
// @Tags reaction
// @Security ApiKeyAuth
// @Description Toggles a like/dislike: the same reaction removes it, the opposite one replaces it.
// @Accept json
// @Produce json
// @Param story_id path int true "Story ID"
// @Param reaction body reaction.ReactRequest true "Reaction type"
// @Success 200 {object} response.SuccessResponse "Updated counters and user reaction"
// @Failure 404 {object} response.ErrorResponse "Story not found"
// @Router /stories/{story_id}/reactions [post]
func (c *ReactionController) ReactToStory(w http.ResponseWriter, r *http.Request) {
	log := c.log.With(slog.String("op", "ReactToStoryHandler"))

	userId, ok := r.Context().Value("userId").(uint)
	if !ok {
		resp.SendError(w, r, http.StatusUnauthorized, "no access token provided")
		return
	}

	storyId, err := strconv.ParseUint(chi.URLParam(r, "story_id"), 10, 32)
	if err != nil {
		resp.SendError(w, r, http.StatusBadRequest, "invalid story id")
		return
	}

	var req reaction.ReactRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		resp.SendError(w, r, http.StatusBadRequest, "failed to decode request")
		return
	}
	if err := c.validate.Struct(req); err != nil {
		resp.SendValidationError(w, r, err)
		return
	}

	result, err := c.uc.ToggleStoryReaction(uint(storyId), userId, req.ReactionType)
	if err != nil {
		c.handleReactionError(w, r, log, err)
		return
	}

	resp.SendSuccess(w, r, http.StatusOK, result)
}

// ReactToComment
// @Summary React to a comment
// @Tags reaction
// @Security ApiKeyAuth
// @Description Toggles a like/dislike on a comment with the same semantics as story reactions.
// @Accept json
// @Produce json
// @Param comment_id path int true "Comment ID"
// @Param reaction body reaction.ReactRequest true "Reaction type"
// @Success 200 {object} response.SuccessResponse "Updated counters and user reaction"
// @Failure 404 {object} response.ErrorResponse "Comment not found"
// @Router /comments/{comment_id}/reactions [post]
func (c *ReactionController) ReactToComment(w http.ResponseWriter, r *http.Request) {
	log := c.log.With(slog.String("op", "ReactToCommentHandler"))

	userId, ok := r.Context().Value("userId").(uint)
	if !ok {
		resp.SendError(w, r, http.StatusUnauthorized, "no access token provided")
		return
	}

	commentId, err := strconv.ParseUint(chi.URLParam(r, "comment_id"), 10, 32)
	if err != nil {
		resp.SendError(w, r, http.StatusBadRequest, "invalid comment id")
		return
	}

	var req reaction.ReactRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		resp.SendError(w, r, http.StatusBadRequest, "failed to decode request")
		return
	}
	if err := c.validate.Struct(req); err != nil {
		resp.SendValidationError(w, r, err)
		return
	}

	result, err := c.uc.ToggleCommentReaction(uint(commentId), userId, req.ReactionType)
	if err != nil {
		c.handleReactionError(w, r, log, err)
		return
	}

	resp.SendSuccess(w, r, http.StatusOK, result)
}

// GetStoryReactions
// @Summary Get reaction counters of a story
// @Tags reaction
// @Produce json
// @Param story_id path int true "Story ID"
// @Success 200 {object} response.SuccessResponse "Counters and the caller's reaction"
// @Failure 404 {object} response.ErrorResponse "Story not found"
// @Router /stories/{story_id}/reactions [get]
func (c *ReactionController) GetStoryReactions(w http.ResponseWriter, r *http.Request) {
	log := c.log.With(slog.String("op", "GetStoryReactionsHandler"))

	storyId, err := strconv.ParseUint(chi.URLParam(r, "story_id"), 10, 32)
	if err != nil {
		resp.SendError(w, r, http.StatusBadRequest, "invalid story id")
		return
	}

	viewerId, _ := r.Context().Value("userId").(uint)

	result, err := c.uc.GetStoryReactions(uint(storyId), viewerId)
	if err != nil {
		c.handleReactionError(w, r, log, err)
		return
	}

	resp.SendSuccess(w, r, http.StatusOK, result)
}

func (c *ReactionController) handleReactionError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, reaction.ErrStoryNotFound), errors.Is(err, reaction.ErrCommentNotFound):
		resp.SendError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, reaction.ErrInvalidReactionType):
		resp.SendError(w, r, http.StatusBadRequest, err.Error())
	default:
		log.Error(err.Error())
		resp.SendError(w, r, http.StatusInternalServerError, reaction.ErrInternal.Error())
	}
}
