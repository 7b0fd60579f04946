package controller

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	u "redunap/internal/modules/user"
	"redunap/internal/modules/user/profile"
	resp "redunap/pkg/lib/response"
)

const maxAvatarSize = 5 << 20 // 5 MB

type ProfileController struct {
	log      *slog.Logger
	uc       profile.UseCase
	validate *validator.Validate
}

func NewProfileController(log *slog.Logger, uc profile.UseCase) *ProfileController {
	return &ProfileController{
		log:      log,
		uc:       uc,
		validate: validator.New(),
	}
}

// GetMe
// @Summary Get current user profile
// @Tags profile
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} response.SuccessResponse "User profile"
// @Failure 401 {object} response.ErrorResponse "Unauthorized"
// @Failure 404 {object} response.ErrorResponse "User not found"
// @Router /profile [get]
func (c *ProfileController) GetMe(w http.ResponseWriter, r *http.Request) {
	log := c.log.With(slog.String("op", "GetMeHandler"))

	userId, ok := r.Context().Value("userId").(uint)
	if !ok {
		resp.SendError(w, r, http.StatusUnauthorized, u.ErrNoAccessToken.Error())
		return
	}

	user, err := c.uc.GetUser(userId)
	if err != nil {
		c.handleProfileError(w, r, log, err)
		return
	}

	resp.SendSuccess(w, r, http.StatusOK, user)
}

// UpdateMe
// @Summary Update current user profile
// @Tags profile
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param profile body profile.UpdateUserProfileRequest true "Fields to update"
// @Success 200 {object} response.SuccessResponse "Updated profile"
// @Failure 400 {object} response.ErrorResponse "Validation error"
// @Failure 409 {object} response.ErrorResponse "Username already taken"
// @Router /profile [put]
func (c *ProfileController) UpdateMe(w http.ResponseWriter, r *http.Request) {
	log := c.log.With(slog.String("op", "UpdateMeHandler"))

	userId, ok := r.Context().Value("userId").(uint)
	if !ok {
		resp.SendError(w, r, http.StatusUnauthorized, u.ErrNoAccessToken.Error())
		return
	}

	var req profile.UpdateUserProfileRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		resp.SendError(w, r, http.StatusBadRequest, "failed to decode request")
		return
	}

	if err := c.validate.Struct(req); err != nil {
		resp.SendValidationError(w, r, err)
		return
	}

	user, err := c.uc.UpdateUser(userId, &req)
	if err != nil {
		c.handleProfileError(w, r, log, err)
		return
	}

	resp.SendSuccess(w, r, http.StatusOK, user)
}

// UploadAvatar
// @Summary Upload user avatar
// @Tags profile
// @Security ApiKeyAuth
// @Accept mpfd
// @Produce json
// @Param avatar formData file true "Avatar image (1:1, png/jpeg/webp/non-animated gif)"
// @Success 200 {object} response.SuccessResponse "Updated profile with avatar URL"
// @Failure 400 {object} response.ErrorResponse "Invalid file"
// @Router /profile/avatar [post]
func (c *ProfileController) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	log := c.log.With(slog.String("op", "UploadAvatarHandler"))

	userId, ok := r.Context().Value("userId").(uint)
	if !ok {
		resp.SendError(w, r, http.StatusUnauthorized, u.ErrNoAccessToken.Error())
		return
	}

	if err := r.ParseMultipartForm(maxAvatarSize); err != nil {
		resp.SendError(w, r, http.StatusBadRequest, u.ErrInvalidSizeAvatar.Error())
		return
	}

	file, _, err := r.FormFile("avatar")
	if err != nil {
		resp.SendError(w, r, http.StatusBadRequest, "avatar file is required")
		return
	}
	defer file.Close()

	user, err := c.uc.UploadAvatar(userId, &file)
	if err != nil {
		c.handleProfileError(w, r, log, err)
		return
	}

	resp.SendSuccess(w, r, http.StatusOK, user)
}

// ListUsers
// @Summary List users (admin)
// @Tags profile
// @Security ApiKeyAuth
// @Produce json
// @Param limit query int false "Page size (max 50)"
// @Param offset query int false "Offset"
// @Success 200 {object} response.SuccessResponse "Paginated user list"
// @Failure 403 {object} response.ErrorResponse "Forbidden"
// @Router /users [get]
func (c *ProfileController) ListUsers(w http.ResponseWriter, r *http.Request) {
	log := c.log.With(slog.String("op", "ListUsersHandler"))

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	users, err := c.uc.ListUsers(limit, offset)
	if err != nil {
		c.handleProfileError(w, r, log, err)
		return
	}

	resp.SendSuccess(w, r, http.StatusOK, users)
}

type setUserActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// SetUserActive
// @Summary Activate or deactivate a user (admin)
// @Tags profile
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param user_id path int true "User ID"
// @Success 200 {object} response.Response "Updated"
// @Failure 404 {object} response.ErrorResponse "User not found"
// @Router /users/{user_id}/active [put]
func (c *ProfileController) SetUserActive(w http.ResponseWriter, r *http.Request) {
	log := c.log.With(slog.String("op", "SetUserActiveHandler"))

	userId, err := strconv.ParseUint(chi.URLParam(r, "user_id"), 10, 32)
	if err != nil {
		resp.SendError(w, r, http.StatusBadRequest, "invalid user id")
		return
	}

	var req setUserActiveRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		resp.SendError(w, r, http.StatusBadRequest, "failed to decode request")
		return
	}
	if err := c.validate.Struct(req); err != nil {
		resp.SendValidationError(w, r, err)
		return
	}

	if err := c.uc.SetUserActive(uint(userId), *req.IsActive); err != nil {
		c.handleProfileError(w, r, log, err)
		return
	}

	resp.SendOK(w, r, http.StatusOK)
}

func (c *ProfileController) handleProfileError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, u.ErrUserNotFound):
		resp.SendError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, u.ErrUsernameExists), errors.Is(err, u.ErrEmailExists):
		resp.SendError(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, u.ErrInvalidTypeAvatar), errors.Is(err, u.ErrInvalidResolutionAvatar), errors.Is(err, u.ErrInvalidAvatarFile):
		resp.SendError(w, r, http.StatusBadRequest, err.Error())
	default:
		log.Error(err.Error())
		resp.SendError(w, r, http.StatusInternalServerError, u.ErrInternal.Error())
	}
}
