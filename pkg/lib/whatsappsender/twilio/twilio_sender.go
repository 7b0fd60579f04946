package twilio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/twilio/twilio-go"
	api "github.com/twilio/twilio-go/rest/api/v2010"

	"redunap/config"
	"redunap/pkg/lib/whatsappsender"
)

var ErrNotConfigured = errors.New("whatsapp gateway is not configured")

// TwilioSender - реализация whatsappsender.Sender поверх Twilio WhatsApp API.
// Клиент создаётся явно и передаётся зависимостью, без глобального синглтона,
// чтобы в тестах его можно было подменить фейком.
type TwilioSender struct {
	client     *twilio.RestClient
	fromNumber string
	enabled    bool
	log        *slog.Logger
}

func NewTwilioSender(cfg config.WhatsAppConfig, logger *slog.Logger) *TwilioSender {
	log := logger.With(slog.String("component", "TwilioSender"))

	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	var client *twilio.RestClient
	if accountSid != "" && authToken != "" {
		client = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		})
	} else {
		log.Warn("Twilio credentials are not set, WhatsApp notifications will be disabled")
	}

	return &TwilioSender{
		client:     client,
		fromNumber: cfg.FromNumber,
		enabled:    cfg.Enabled,
		log:        log,
	}
}

func (s *TwilioSender) IsConfigured() bool {
	return s.client != nil && s.enabled
}

func (s *TwilioSender) Send(ctx context.Context, to string, body string) (*whatsappsender.SendResult, error) {
	op := "TwilioSender.Send"
	log := s.log.With(slog.String("op", op))

	// Самопроверка: шлюз без конфигурации возвращает ошибку, а не паникует.
	if !s.IsConfigured() {
		log.Warn("send attempted while gateway is not configured")
		return nil, ErrNotConfigured
	}

	formattedTo := to
	if !strings.HasPrefix(formattedTo, "whatsapp:") {
		formattedTo = "whatsapp:" + formattedTo
	}

	params := &api.CreateMessageParams{}
	params.SetTo(formattedTo)
	params.SetFrom(s.fromNumber)
	params.SetBody(body)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		log.Error("failed to send whatsapp message", "to", formattedTo, "error", err)
		return nil, fmt.Errorf("twilio create message: %w", err)
	}

	result := &whatsappsender.SendResult{}
	if resp.Sid != nil {
		result.SID = *resp.Sid
	}
	if resp.Status != nil {
		result.Status = *resp.Status
	}

	log.Info("whatsapp message sent", slog.String("sid", result.SID), slog.String("status", result.Status))
	return result, nil
}

func (s *TwilioSender) GetStatus(ctx context.Context, sid string) (*whatsappsender.StatusResult, error) {
	op := "TwilioSender.GetStatus"
	log := s.log.With(slog.String("op", op), slog.String("sid", sid))

	if !s.IsConfigured() {
		return nil, ErrNotConfigured
	}

	resp, err := s.client.Api.FetchMessage(sid, &api.FetchMessageParams{})
	if err != nil {
		log.Error("failed to fetch message status", "error", err)
		return nil, fmt.Errorf("twilio fetch message: %w", err)
	}

	result := &whatsappsender.StatusResult{
		ErrorCode:    resp.ErrorCode,
		ErrorMessage: resp.ErrorMessage,
	}
	if resp.Status != nil {
		result.Status = *resp.Status
	}

	return result, nil
}
