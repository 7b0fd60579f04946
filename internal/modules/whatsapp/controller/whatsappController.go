package controller

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"redunap/internal/modules/whatsapp"
	resp "redunap/pkg/lib/response"
)

type WhatsappController struct {
	log      *slog.Logger
	uc       whatsapp.UseCase
	validate *validator.Validate
}

func NewWhatsappController(log *slog.Logger, uc whatsapp.UseCase) *WhatsappController {
	return &WhatsappController{
		log:      log,
		uc:       uc,
		validate: validator.New(),
	}
}

// RegisterPhone
// @Summary Register a phone number and request a verification code
// @Tags whatsapp
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param request body whatsapp.RegisterPhoneRequest true "Phone number with optional country code"
// @Success 200 {object} response.SuccessResponse "Verification code sent"
// @Failure 400 {object} response.ErrorResponse "Invalid phone number"
// @Failure 502 {object} response.ErrorResponse "Messaging gateway unavailable"
// @Router /whatsapp/register [post]
func (c *WhatsappController) RegisterPhone(w http.ResponseWriter, r *http.Request) {
	log := c.log.With(slog.String("op", "RegisterPhoneHandler"))

	userId := r.Context().Value("userId").(uint)

	var req whatsapp.RegisterPhoneRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error(err.Error())
		resp.SendError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := c.validate.Struct(req); err != nil {
		log.Error(err.Error())
		resp.SendValidationError(w, r, err)
		return
	}

	result, err := c.uc.RegisterPhone(userId, &req)
	if err != nil {
		c.handleWhatsappError(w, r, log, err)
		return
	}

	resp.SendSuccess(w, r, http.StatusOK, result)
}

// VerifyPhone
// @Summary Confirm phone ownership with the received code
// @Tags whatsapp
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param request body whatsapp.VerifyPhoneRequest true "Six digit verification code"
// @Success 200 {object} response.Response "Phone verified"
// @Failure 400 {object} response.ErrorResponse "Invalid or expired code"
// @Router /whatsapp/verify [post]
func (c *WhatsappController) VerifyPhone(w http.ResponseWriter, r *http.Request) {
	log := c.log.With(slog.String("op", "VerifyPhoneHandler"))

	userId := r.Context().Value("userId").(uint)

	var req whatsapp.VerifyPhoneRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error(err.Error())
		resp.SendError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := c.validate.Struct(req); err != nil {
		log.Error(err.Error())
		resp.SendValidationError(w, r, err)
		return
	}

	if err := c.uc.VerifyPhone(userId, req.VerificationCode); err != nil {
		c.handleWhatsappError(w, r, log, err)
		return
	}

	resp.SendOK(w, r, http.StatusOK)
}

// GetStatus
// @Summary Get subscription status, preferences and delivery stats
// @Tags whatsapp
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} response.SuccessResponse "Subscription status"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /whatsapp/status [get]
func (c *WhatsappController) GetStatus(w http.ResponseWriter, r *http.Request) {
	log := c.log.With(slog.String("op", "GetWhatsappStatusHandler"))

	userId := r.Context().Value("userId").(uint)

	status, err := c.uc.GetStatus(userId)
	if err != nil {
		c.handleWhatsappError(w, r, log, err)
		return
	}

	resp.SendSuccess(w, r, http.StatusOK, status)
}

// UpdatePreferences
// @Summary Update notification preferences (requires a verified phone)
// @Tags whatsapp
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param request body whatsapp.UpdatePreferencesRequest true "Map of type name to enabled flag"
// @Success 200 {object} response.SuccessResponse "Updated status"
// @Failure 403 {object} response.ErrorResponse "Phone not verified"
// @Router /whatsapp/preferences [put]
func (c *WhatsappController) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	log := c.log.With(slog.String("op", "UpdatePreferencesHandler"))

	userId := r.Context().Value("userId").(uint)

	var req whatsapp.UpdatePreferencesRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error(err.Error())
		resp.SendError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := c.validate.Struct(req); err != nil {
		log.Error(err.Error())
		resp.SendValidationError(w, r, err)
		return
	}

	status, err := c.uc.UpdatePreferences(userId, &req)
	if err != nil {
		c.handleWhatsappError(w, r, log, err)
		return
	}

	resp.SendSuccess(w, r, http.StatusOK, status)
}

// RemovePhone
// @Summary Unlink the phone number
// @Tags whatsapp
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} response.Response "Phone removed"
// @Failure 404 {object} response.ErrorResponse "No registered phone"
// @Router /whatsapp/remove [delete]
func (c *WhatsappController) RemovePhone(w http.ResponseWriter, r *http.Request) {
	log := c.log.With(slog.String("op", "RemovePhoneHandler"))

	userId := r.Context().Value("userId").(uint)

	if err := c.uc.RemovePhone(userId); err != nil {
		c.handleWhatsappError(w, r, log, err)
		return
	}

	resp.SendOK(w, r, http.StatusOK)
}

// StatusWebhook
// @Summary Delivery status callback from the messaging gateway
// @Tags whatsapp
// @Accept x-www-form-urlencoded
// @Produce json
// @Param MessageSid formData string true "Gateway message SID"
// @Param MessageStatus formData string true "Delivery status"
// @Success 200 {object} response.Response "Acknowledged"
// @Router /whatsapp/webhook [post]
func (c *WhatsappController) StatusWebhook(w http.ResponseWriter, r *http.Request) {
	log := c.log.With(slog.String("op", "StatusWebhookHandler"))

	// Шлюз повторяет доставку при не-2xx ответах, поэтому вебхук всегда
	// отвечает 200, даже если тело не разобралось.
	if err := r.ParseForm(); err != nil {
		log.Warn("failed to parse webhook form", slog.String("error", err.Error()))
		resp.SendOK(w, r, http.StatusOK)
		return
	}

	messageSid := r.PostFormValue("MessageSid")
	messageStatus := r.PostFormValue("MessageStatus")
	if messageSid == "" || messageStatus == "" {
		log.Warn("webhook missing MessageSid or MessageStatus")
		resp.SendOK(w, r, http.StatusOK)
		return
	}

	var errorCode *int
	if raw := r.PostFormValue("ErrorCode"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			errorCode = &parsed
		}
	}
	var errorMessage *string
	if raw := r.PostFormValue("ErrorMessage"); raw != "" {
		errorMessage = &raw
	}

	c.uc.HandleStatusCallback(messageSid, messageStatus, errorCode, errorMessage)

	resp.SendOK(w, r, http.StatusOK)
}

func (c *WhatsappController) handleWhatsappError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, whatsapp.ErrInvalidPhoneNumber):
		resp.SendError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, whatsapp.ErrInvalidOrExpiredCode):
		resp.SendError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, whatsapp.ErrNotRegistered):
		resp.SendError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, whatsapp.ErrNotVerified):
		resp.SendError(w, r, http.StatusForbidden, err.Error())
	case errors.Is(err, whatsapp.ErrGatewayNotConfigured):
		resp.SendError(w, r, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, whatsapp.ErrGatewaySendFailed):
		resp.SendError(w, r, http.StatusBadGateway, err.Error())
	default:
		log.Error(err.Error())
		resp.SendError(w, r, http.StatusInternalServerError, whatsapp.ErrInternal.Error())
	}
}
