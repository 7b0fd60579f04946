package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	u "redunap/internal/modules/user"
	resp "redunap/pkg/lib/response"
)

// SignIn
// @Summary User SignIn
// @Tags auth
// @Description Authenticates a user and returns an access token. The refresh token is set as an httpOnly cookie.
// @Accept json
// @Produce json
// @Param user body controller.UserSignInRequest true "User login details"
// @Success 200 {object} response.SuccessResponse "User successfully signed in"
// @Failure 400 {object} response.ErrorResponse "Invalid request payload or validation error"
// @Failure 401 {object} response.ErrorResponse "Invalid credentials"
// @Failure 403 {object} response.ErrorResponse "User account is deactivated"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /auth/sign-in [post]
func (c *AuthController) SignIn(w http.ResponseWriter, r *http.Request) {
	log := c.log.With(slog.String("op", "SignInHandler"))

	var req UserSignInRequest

	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", slog.Any("err", err))
		resp.SendError(w, r, http.StatusBadRequest, "failed to decode request")
		return
	}

	if err := c.validate.Struct(req); err != nil {
		log.Warn("failed to validate request", slog.Any("err", err))
		resp.SendValidationError(w, r, err)
		return
	}

	if req.Email == "" && req.Username == "" {
		resp.SendError(w, r, http.StatusBadRequest, "email or username is required")
		return
	}

	accessToken, refreshToken, user, err := c.uc.SignIn(req.Email, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, u.ErrUserNotFound):
			resp.SendError(w, r, http.StatusUnauthorized, "invalid email, username or password")
		case errors.Is(err, u.ErrUserAuthWithOauth2):
			resp.SendError(w, r, http.StatusUnauthorized, err.Error())
		case errors.Is(err, u.ErrUserInactive):
			resp.SendError(w, r, http.StatusForbidden, err.Error())
		default:
			log.Error("failed to sign in", slog.Any("err", err))
			resp.SendError(w, r, http.StatusInternalServerError, u.ErrInternal.Error())
		}
		return
	}

	c.setRefreshCookie(w, refreshToken)

	resp.SendSuccess(w, r, http.StatusOK, map[string]interface{}{
		"access_token": accessToken,
		"user":         user,
	})
}
