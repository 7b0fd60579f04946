package controller

import (
	"log/slog"
	"net/http"

	u "redunap/internal/modules/user"
	resp "redunap/pkg/lib/response"
)

// GuestSession
// @Summary Create guest session
// @Tags auth
// @Description Issues a short-lived access token for an anonymous reader. No account is created.
// @Produce json
// @Success 200 {object} response.SuccessResponse "Guest session created"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /auth/guest [post]
func (c *AuthController) GuestSession(w http.ResponseWriter, r *http.Request) {
	log := c.log.With(slog.String("op", "GuestSessionHandler"))

	accessToken, guest, err := c.uc.GuestSession()
	if err != nil {
		log.Error("failed to create guest session", slog.Any("err", err))
		resp.SendError(w, r, http.StatusInternalServerError, u.ErrInternal.Error())
		return
	}

	resp.SendSuccess(w, r, http.StatusOK, map[string]interface{}{
		"access_token": accessToken,
		"user":         guest,
	})
}
