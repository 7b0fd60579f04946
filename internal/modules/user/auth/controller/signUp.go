package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	u "redunap/internal/modules/user"
	resp "redunap/pkg/lib/response"
)

// SignUp
// @Summary User SignUp
// @Tags auth
// @Description Registers a new user with the provided email and password. A display username is generated automatically.
// @Accept json
// @Produce json
// @Param user body controller.UserSignUpRequest true "User registration details"
// @Success 201 {object} response.SuccessResponse "User successfully created"
// @Failure 400 {object} response.ErrorResponse "Validation error or invalid request payload"
// @Failure 409 {object} response.ErrorResponse "User with this email already exists"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /auth/sign-up [post]
func (c *AuthController) SignUp(w http.ResponseWriter, r *http.Request) {
	log := c.log.With(slog.String("op", "SignUpHandler"))

	var req UserSignUpRequest

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

	user, err := c.uc.SignUp(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, u.ErrEmailExists):
			log.Info("email already exists", slog.String("email", req.Email))
			resp.SendError(w, r, http.StatusConflict, err.Error())
		default:
			log.Error("failed to sign up user", slog.Any("err", err))
			resp.SendError(w, r, http.StatusInternalServerError, u.ErrInternal.Error())
		}
		return
	}

	resp.SendSuccess(w, r, http.StatusCreated, user)
}
