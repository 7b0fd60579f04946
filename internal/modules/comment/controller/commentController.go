package controller

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"redunap/internal/modules/comment"
	resp "redunap/pkg/lib/response"
)

type CommentController struct {
	log      *slog.Logger
	uc       comment.UseCase
	validate *validator.Validate
}

func NewCommentController(log *slog.Logger, uc comment.UseCase) *CommentController {
	return &CommentController{
		log:      log,
		uc:       uc,
		validate: validator.New(),
	}
}

func viewerIdFromContext(r *http.Request) uint {
	if userId, ok := r.Context().Value("userId").(uint); ok {
		return userId
	}
	return 0
}

// ListComments
// @Summary List root comments of a story
// @Tags comment
// @Description Returns paginated root comments, each with up to three latest replies as a preview.
// @Produce json
// @Param story_id path int true "Story ID"
// @Param sort query string false "Sort order: newest (default), oldest, most_liked"
// @Param limit query int false "Page size (max 50, default 10)"
// @Param offset query int false "Offset"
// @Success 200 {object} response.SuccessResponse "Paginated comment list"
// @Failure 404 {object} response.ErrorResponse "Story not found"
// @Router /stories/{story_id}/comments [get]
func (c *CommentController) ListComments(w http.ResponseWriter, r *http.Request) {
	log := c.log.With(slog.String("op", "ListCommentsHandler"))

	storyId, err := strconv.ParseUint(chi.URLParam(r, "story_id"), 10, 32)
	if err != nil {
		resp.SendError(w, r, http.StatusBadRequest, "invalid story id")
		return
	}

	sort := r.URL.Query().Get("sort")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	list, err := c.uc.ListComments(uint(storyId), sort, limit, offset, viewerIdFromContext(r))
	if err != nil {
		c.handleCommentError(w, r, log, err)
		return
	}

	resp.SendSuccess(w, r, http.StatusOK, list)
}

// ListReplies
// @Summary List replies of a comment
// @Tags comment
// @Produce json
// @Param comment_id path int true "Comment ID"
// @Param limit query int false "Page size (max 50, default 10)"
// @Param offset query int false "Offset"
// @Success 200 {object} response.SuccessResponse "Paginated reply list"
// @Failure 404 {object} response.ErrorResponse "Comment not found"
// @Router /comments/{comment_id}/replies [get]
func (c *CommentController) ListReplies(w http.ResponseWriter, r *http.Request) {
	log := c.log.With(slog.String("op", "ListRepliesHandler"))

	commentId, err := strconv.ParseUint(chi.URLParam(r, "comment_id"), 10, 32)
	if err != nil {
		resp.SendError(w, r, http.StatusBadRequest, "invalid comment id")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	list, err := c.uc.ListReplies(uint(commentId), limit, offset, viewerIdFromContext(r))
	if err != nil {
		c.handleCommentError(w, r, log, err)
		return
	}

	resp.SendSuccess(w, r, http.StatusOK, list)
}

// CreateComment
// @Summary Comment a story
// @Tags comment
// @Security ApiKeyAuth
// @Description Adds a comment to a story. Set parent_comment_id to reply to a root comment (one level only).
// @Accept json
// @Produce json
// @Param story_id path int true "Story ID"
// @Param comment body comment.CreateCommentRequest true "Comment content"
// @Success 201 {object} response.SuccessResponse "Created comment"
// @Failure 400 {object} response.ErrorResponse "Validation error or nested reply"
// @Failure 404 {object} response.ErrorResponse "Story or parent comment not found"
// @Router /stories/{story_id}/comments [post]
func (c *CommentController) CreateComment(w http.ResponseWriter, r *http.Request) {
	log := c.log.With(slog.String("op", "CreateCommentHandler"))

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

	var req comment.CreateCommentRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		resp.SendError(w, r, http.StatusBadRequest, "failed to decode request")
		return
	}

	if err := c.validate.Struct(req); err != nil {
		resp.SendValidationError(w, r, err)
		return
	}

	cm, err := c.uc.CreateComment(uint(storyId), userId, &req)
	if err != nil {
		c.handleCommentError(w, r, log, err)
		return
	}

	resp.SendSuccess(w, r, http.StatusCreated, cm)
}

// UpdateComment
// @Summary Edit a comment
// @Tags comment
// @Security ApiKeyAuth
// @Description Replaces the comment content. Authors can edit their own comments, moderators and admins any comment.
// @Accept json
// @Produce json
// @Param comment_id path int true "Comment ID"
// @Param comment body comment.UpdateCommentRequest true "New content"
// @Success 200 {object} response.SuccessResponse "Updated comment"
// @Failure 403 {object} response.ErrorResponse "Not the author"
// @Failure 404 {object} response.ErrorResponse "Comment not found"
// @Router /comments/{comment_id} [put]
func (c *CommentController) UpdateComment(w http.ResponseWriter, r *http.Request) {
	log := c.log.With(slog.String("op", "UpdateCommentHandler"))

	userId, ok := r.Context().Value("userId").(uint)
	if !ok {
		resp.SendError(w, r, http.StatusUnauthorized, "no access token provided")
		return
	}
	role, _ := r.Context().Value("role").(string)

	commentId, err := strconv.ParseUint(chi.URLParam(r, "comment_id"), 10, 32)
	if err != nil {
		resp.SendError(w, r, http.StatusBadRequest, "invalid comment id")
		return
	}

	var req comment.UpdateCommentRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		resp.SendError(w, r, http.StatusBadRequest, "failed to decode request")
		return
	}

	if err := c.validate.Struct(req); err != nil {
		resp.SendValidationError(w, r, err)
		return
	}

	cm, err := c.uc.UpdateComment(uint(commentId), userId, role, &req)
	if err != nil {
		c.handleCommentError(w, r, log, err)
		return
	}

	resp.SendSuccess(w, r, http.StatusOK, cm)
}

// DeleteComment
// @Summary Delete a comment
// @Tags comment
// @Security ApiKeyAuth
// @Description Soft-deletes a comment with its replies. Authors can delete their own comments, moderators and admins any comment.
// @Produce json
// @Param comment_id path int true "Comment ID"
// @Success 200 {object} response.Response "Comment deleted"
// @Failure 403 {object} response.ErrorResponse "Not the author"
// @Failure 404 {object} response.ErrorResponse "Comment not found"
// @Router /comments/{comment_id} [delete]
func (c *CommentController) DeleteComment(w http.ResponseWriter, r *http.Request) {
	log := c.log.With(slog.String("op", "DeleteCommentHandler"))

	userId, ok := r.Context().Value("userId").(uint)
	if !ok {
		resp.SendError(w, r, http.StatusUnauthorized, "no access token provided")
		return
	}
	role, _ := r.Context().Value("role").(string)

	commentId, err := strconv.ParseUint(chi.URLParam(r, "comment_id"), 10, 32)
	if err != nil {
		resp.SendError(w, r, http.StatusBadRequest, "invalid comment id")
		return
	}

	if err := c.uc.DeleteComment(uint(commentId), userId, role); err != nil {
		c.handleCommentError(w, r, log, err)
		return
	}

	resp.SendOK(w, r, http.StatusOK)
}

func (c *CommentController) handleCommentError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, comment.ErrCommentNotFound),
		errors.Is(err, comment.ErrStoryNotFound),
		errors.Is(err, comment.ErrParentNotFound):
		resp.SendError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, comment.ErrNestedReply):
		resp.SendError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, comment.ErrForbidden):
		resp.SendError(w, r, http.StatusForbidden, err.Error())
	default:
		log.Error(err.Error())
		resp.SendError(w, r, http.StatusInternalServerError, comment.ErrInternal.Error())
	}
}
