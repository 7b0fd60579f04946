package controller

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"redunap/internal/modules/story"
	resp "redunap/pkg/lib/response"
)

type StoryController struct {
	log      *slog.Logger
	uc       story.UseCase
	validate *validator.Validate
}

func NewStoryController(log *slog.Logger, uc story.UseCase) *StoryController {
	return &StoryController{
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

// ListStories
// @Summary List stories
// @Tags story
// @Description Returns a paginated feed of active stories, newest first.
// @Produce json
// @Param category_id query int false "Filter by category"
// @Param author_id query int false "Filter by author"
// @Param search query string false "Search in title and content"
// @Param limit query int false "Page size (max 50, default 10)"
// @Param offset query int false "Offset"
// @Success 200 {object} response.SuccessResponse "Paginated story list"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /stories [get]
func (c *StoryController) ListStories(w http.ResponseWriter, r *http.Request) {
	log := c.log.With(slog.String("op", "ListStoriesHandler"))

	var filter story.ListFilter
	filter.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	filter.Offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	filter.Search = r.URL.Query().Get("search")

	if raw := r.URL.Query().Get("category_id"); raw != "" {
		if categoryId, err := strconv.ParseUint(raw, 10, 32); err == nil {
			id := uint(categoryId)
			filter.CategoryId = &id
		}
	}
	if raw := r.URL.Query().Get("author_id"); raw != "" {
		if authorId, err := strconv.ParseUint(raw, 10, 32); err == nil {
			id := uint(authorId)
			filter.AuthorId = &id
		}
	}

	list, err := c.uc.ListStories(filter, viewerIdFromContext(r))
	if err != nil {
		log.Error(err.Error())
		resp.SendError(w, r, http.StatusInternalServerError, story.ErrInternal.Error())
		return
	}

	resp.SendSuccess(w, r, http.StatusOK, list)
}

// GetStory
// @Summary Get a story by ID
// @Tags story
// @Produce json
// @Param story_id path int true "Story ID"
// @Success 200 {object} response.SuccessResponse "Story"
// @Failure 404 {object} response.ErrorResponse "Story not found"
// @Router /stories/{story_id} [get]
func (c *StoryController) GetStory(w http.ResponseWriter, r *http.Request) {
	log := c.log.With(slog.String("op", "GetStoryHandler"))

	storyId, err := strconv.ParseUint(chi.URLParam(r, "story_id"), 10, 32)
	if err != nil {
		resp.SendError(w, r, http.StatusBadRequest, "invalid story id")
		return
	}

	st, err := c.uc.GetStory(uint(storyId), viewerIdFromContext(r))
	if err != nil {
		c.handleStoryError(w, r, log, err)
		return
	}

	resp.SendSuccess(w, r, http.StatusOK, st)
}

// CreateStory
// @Summary Publish a story
// @Tags story
// @Security ApiKeyAuth
// @Description Publishes a story, notifies WhatsApp subscribers and broadcasts the event to connected feed clients.
// @Accept json
// @Produce json
// @Param story body story.CreateStoryRequest true "Story details"
// @Success 201 {object} response.SuccessResponse "Created story"
// @Failure 400 {object} response.ErrorResponse "Validation error"
// @Failure 401 {object} response.ErrorResponse "Unauthorized"
// @Router /stories [post]
func (c *StoryController) CreateStory(w http.ResponseWriter, r *http.Request) {
	log := c.log.With(slog.String("op", "CreateStoryHandler"))

	userId, ok := r.Context().Value("userId").(uint)
	if !ok {
		resp.SendError(w, r, http.StatusUnauthorized, "no access token provided")
		return
	}

	var req story.CreateStoryRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		resp.SendError(w, r, http.StatusBadRequest, "failed to decode request")
		return
	}

	if err := c.validate.Struct(req); err != nil {
		resp.SendValidationError(w, r, err)
		return
	}

	st, err := c.uc.CreateStory(userId, &req)
	if err != nil {
		c.handleStoryError(w, r, log, err)
		return
	}

	resp.SendSuccess(w, r, http.StatusCreated, st)
}

// UpdateStory
// @Summary Update a story
// @Tags story
// @Security ApiKeyAuth
// @Description Authors can edit their own stories. Moderators and admins can edit any story.
// @Accept json
// @Produce json
// @Param story_id path int true "Story ID"
// @Param story body story.UpdateStoryRequest true "Fields to update"
// @Success 200 {object} response.SuccessResponse "Updated story"
// @Failure 403 {object} response.ErrorResponse "Not the author"
// @Failure 404 {object} response.ErrorResponse "Story not found"
// @Router /stories/{story_id} [put]
func (c *StoryController) UpdateStory(w http.ResponseWriter, r *http.Request) {
	log := c.log.With(slog.String("op", "UpdateStoryHandler"))

	userId, ok := r.Context().Value("userId").(uint)
	if !ok {
		resp.SendError(w, r, http.StatusUnauthorized, "no access token provided")
		return
	}
	role, _ := r.Context().Value("role").(string)

	storyId, err := strconv.ParseUint(chi.URLParam(r, "story_id"), 10, 32)
	if err != nil {
		resp.SendError(w, r, http.StatusBadRequest, "invalid story id")
		return
	}

	var req story.UpdateStoryRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		resp.SendError(w, r, http.StatusBadRequest, "failed to decode request")
		return
	}

	if err := c.validate.Struct(req); err != nil {
		resp.SendValidationError(w, r, err)
		return
	}

	st, err := c.uc.UpdateStory(uint(storyId), userId, role, &req)
	if err != nil {
		c.handleStoryError(w, r, log, err)
		return
	}

	resp.SendSuccess(w, r, http.StatusOK, st)
}

// DeleteStory
// @Summary Delete a story
// @Tags story
// @Security ApiKeyAuth
// @Description Soft-deletes a story. Authors can delete their own stories, moderators and admins any story.
// @Produce json
// @Param story_id path int true "Story ID"
// @Success 200 {object} response.Response "Story deleted"
// @Failure 403 {object} response.ErrorResponse "Not the author"
// @Failure 404 {object} response.ErrorResponse "Story not found"
// @Router /stories/{story_id} [delete]
func (c *StoryController) DeleteStory(w http.ResponseWriter, r *http.Request) {
	log := c.log.With(slog.String("op", "DeleteStoryHandler"))

	userId, ok := r.Context().Value("userId").(uint)
	if !ok {
		resp.SendError(w, r, http.StatusUnauthorized, "no access token provided")
		return
	}
	role, _ := r.Context().Value("role").(string)

	storyId, err := strconv.ParseUint(chi.URLParam(r, "story_id"), 10, 32)
	if err != nil {
		resp.SendError(w, r, http.StatusBadRequest, "invalid story id")
		return
	}

	if err := c.uc.DeleteStory(uint(storyId), userId, role); err != nil {
		c.handleStoryError(w, r, log, err)
		return
	}

	resp.SendOK(w, r, http.StatusOK)
}

func (c *StoryController) handleStoryError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, story.ErrStoryNotFound), errors.Is(err, story.ErrCategoryNotFound):
		resp.SendError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, story.ErrForbidden):
		resp.SendError(w, r, http.StatusForbidden, err.Error())
	default:
		log.Error(err.Error())
		resp.SendError(w, r, http.StatusInternalServerError, story.ErrInternal.Error())
	}
}
