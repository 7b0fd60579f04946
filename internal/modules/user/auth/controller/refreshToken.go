package controller

import (
	"errors"
	"log/slog"
	"net/http"

	u "redunap/internal/modules/user"
	resp "redunap/pkg/lib/response"
)

// RefreshToken
// @Summary Refresh Access Token
// @Tags auth
// @Description Issues a new access token using the refresh_token cookie.
// @Produce json
// @Success 200 {object} response.SuccessResponse "New access token"
// @Failure 401 {object} response.ErrorResponse "Invalid, missing, or expired refresh token"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /auth/refresh-token [post]
func (c *AuthController) RefreshToken(w http.ResponseWriter, r *http.Request) {
	log := c.log.With(slog.String("op", "RefreshTokenHandler"))

	accessToken, err := c.uc.RefreshToken(r)
	if err != nil {
		switch {
		case errors.Is(err, u.ErrNoRefreshToken),
			errors.Is(err, u.ErrInvalidToken),
			errors.Is(err, u.ErrExpiredToken),
			errors.Is(err, u.ErrUserNotFound),
			errors.Is(err, u.ErrUserInactive):
			resp.SendError(w, r, http.StatusUnauthorized, err.Error())
		default:
			log.Error(err.Error())
			resp.SendError(w, r, http.StatusInternalServerError, u.ErrInternal.Error())
		}
		return
	}

	resp.SendSuccess(w, r, http.StatusOK, resp.AccessTokenData{AccessToken: accessToken})
}

// Logout
// @Summary Logout
// @Tags auth
// @Description Clears the refresh_token cookie.
// @Produce json
// @Success 200 {object} response.Response "Logged out"
// @Router /auth/logout [post]
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	c.clearRefreshCookie(w)
	resp.SendOK(w, r, http.StatusOK)
}
