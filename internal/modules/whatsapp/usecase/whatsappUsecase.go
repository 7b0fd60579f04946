package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"redunap/config"
	"redunap/internal/modules/notification"
	"redunap/internal/modules/whatsapp"
	"redunap/pkg/lib/phone"
	"redunap/pkg/lib/whatsappsender"
)

const defaultCountryCode = "+1"

type WhatsappUseCase struct {
	log    *slog.Logger
	rp     whatsapp.Repo
	sender whatsappsender.Sender
	cfg    config.WhatsAppConfig
}

func NewWhatsappUseCase(log *slog.Logger, rp whatsapp.Repo, sender whatsappsender.Sender, cfg config.WhatsAppConfig) *WhatsappUseCase {
	return &WhatsappUseCase{
		log:    log,
		rp:     rp,
		sender: sender,
		cfg:    cfg,
	}
}

// RegisterPhone проверяет номер, генерирует код и отправляет его в WhatsApp.
// Если шлюз не настроен или отправка не удалась, регистрация целиком
// считается неуспешной.
func (uc *WhatsappUseCase) RegisterPhone(userId uint, req *whatsapp.RegisterPhoneRequest) (*whatsapp.RegisterPhoneResponse, error) {
	if !uc.sender.IsConfigured() {
		return nil, whatsapp.ErrGatewayNotConfigured
	}

	raw := strings.TrimSpace(req.PhoneNumber)
	if !strings.HasPrefix(raw, "+") {
		countryCode := req.CountryCode
		if countryCode == "" {
			countryCode = defaultCountryCode
		}
		raw = countryCode + raw
	}

	validated, err := phone.ValidateAndFormat(raw, uc.cfg.DefaultRegion)
	if err != nil {
		return nil, whatsapp.ErrInvalidPhoneNumber
	}

	code, err := phone.GenerateVerificationCode()
	if err != nil {
		uc.log.Error("failed to generate verification code", slog.String("error", err.Error()))
		return nil, whatsapp.ErrInternal
	}

	expiresAt := time.Now().Add(uc.cfg.VerificationExpire)
	countryCode := "+" + validated.CallingCode

	// Повторная регистрация перезаписывает код и сбрасывает верификацию.
	err = uc.rp.UpsertRegistration(&whatsapp.UserWhatsapp{
		UserId:              userId,
		PhoneNumber:         validated.E164,
		CountryCode:         &countryCode,
		IsVerified:          false,
		VerificationCode:    &code,
		VerificationExpires: &expiresAt,
		IsActive:            true,
	})
	if err != nil {
		return nil, err
	}

	// Настройки по умолчанию засеваются только при самой первой регистрации.
	seeded, err := uc.rp.HasAnyPreferences(userId)
	if err != nil {
		return nil, err
	}
	if !seeded {
		if err := uc.rp.SeedDefaultPreferences(userId); err != nil {
			return nil, err
		}
	}

	message := fmt.Sprintf("🔐 *RED UNAP*\n\nTu código de verificación es: *%s*\n\nEste código expira en %d minutos. Si no solicitaste este código, ignora este mensaje.",
		code, int(uc.cfg.VerificationExpire.Minutes()))

	result, err := uc.sender.Send(context.Background(), validated.E164, message)
	if err != nil {
		errMsg := err.Error()
		if histErr := uc.rp.InsertHistory(userId, notification.TypeVerification, validated.E164, message, nil, &errMsg); histErr != nil {
			uc.log.Error("failed to record verification history", slog.String("error", histErr.Error()))
		}
		uc.log.Error("failed to send verification code", slog.String("error", err.Error()))
		return nil, whatsapp.ErrGatewaySendFailed
	}

	if err := uc.rp.InsertHistory(userId, notification.TypeVerification, validated.E164, message, &result.SID, nil); err != nil {
		uc.log.Error("failed to record verification history", slog.String("error", err.Error()))
	}

	return &whatsapp.RegisterPhoneResponse{
		PhoneNumber:   validated.E164,
		International: validated.International,
		ExpiresAt:     expiresAt.Format(time.RFC3339),
	}, nil
}

// VerifyPhone сверяет код и помечает номер верифицированным. Приветственное
// сообщение отправляется асинхронно и на результат не влияет.
func (uc *WhatsappUseCase) VerifyPhone(userId uint, code string) error {
	reg, err := uc.rp.FindPendingByCode(userId, code, time.Now())
	if err != nil {
		return err
	}

	if err := uc.rp.MarkVerified(reg.WhatsappId); err != nil {
		return err
	}

	go uc.sendBestEffort(userId, notification.TypeWelcome, reg.PhoneNumber,
		"🎉 *¡Bienvenido a RED UNAP!*\n\nTu número ha sido verificado. A partir de ahora recibirás notificaciones de la comunidad por WhatsApp.\n\nPuedes ajustar tus preferencias en cualquier momento desde tu perfil.")

	return nil
}

func (uc *WhatsappUseCase) GetStatus(userId uint) (*whatsapp.StatusResponse, error) {
	reg, err := uc.rp.GetRegistration(userId)
	if err != nil {
		if errors.Is(err, whatsapp.ErrNotRegistered) {
			return &whatsapp.StatusResponse{
				Registered:  false,
				Verified:    false,
				Preferences: []whatsapp.PreferenceView{},
			}, nil
		}
		return nil, err
	}

	prefs, err := uc.rp.ListPreferences(userId)
	if err != nil {
		return nil, err
	}

	stats, err := uc.rp.GetHistoryStats(userId)
	if err != nil {
		return nil, err
	}

	return &whatsapp.StatusResponse{
		Registered:  true,
		Verified:    reg.IsVerified,
		PhoneNumber: &reg.PhoneNumber,
		Preferences: prefs,
		Stats:       *stats,
	}, nil
}

// UpdatePreferences применяет частичное обновление настроек. Неизвестные
// имена типов пропускаются без ошибки.
func (uc *WhatsappUseCase) UpdatePreferences(userId uint, req *whatsapp.UpdatePreferencesRequest) (*whatsapp.StatusResponse, error) {
	reg, err := uc.rp.GetRegistration(userId)
	if err != nil {
		return nil, err
	}
	if !reg.IsVerified {
		return nil, whatsapp.ErrNotVerified
	}

	for typeName, enabled := range req.Notifications {
		if err := uc.rp.UpdatePreference(userId, typeName, enabled); err != nil {
			if errors.Is(err, notification.ErrTypeNotFound) {
				uc.log.Debug("skipping unknown notification type", slog.String("type", typeName))
				continue
			}
			return nil, err
		}
	}

	return uc.GetStatus(userId)
}

// RemovePhone отправляет прощальное сообщение (не обязательно успешно) и
// удаляет регистрацию. Настройки и история сохраняются.
func (uc *WhatsappUseCase) RemovePhone(userId uint) error {
	reg, err := uc.rp.GetRegistration(userId)
	if err != nil {
		return err
	}

	if reg.IsVerified {
		uc.sendBestEffort(userId, notification.TypeSystem, reg.PhoneNumber,
			"👋 *RED UNAP*\n\nTu número ha sido desvinculado y ya no recibirás notificaciones por WhatsApp.\n\nPuedes volver a registrarte cuando quieras. ¡Hasta pronto!")
	}

	return uc.rp.DeleteRegistration(userId)
}

// HandleStatusCallback обновляет статус доставки по событию шлюза.
func (uc *WhatsappUseCase) HandleStatusCallback(messageSid string, status string, errorCode *int, errorMessage *string) {
	if err := uc.rp.UpdateHistoryStatus(messageSid, status, errorCode, errorMessage); err != nil {
		uc.log.Error("failed to update delivery status",
			slog.String("message_sid", messageSid),
			slog.String("error", err.Error()),
		)
	}
}

// sendBestEffort отправляет сервисное сообщение и пишет историю. Ошибки
// только логируются.
func (uc *WhatsappUseCase) sendBestEffort(userId uint, typeName string, phoneNumber string, message string) {
	if !uc.sender.IsConfigured() {
		return
	}

	result, err := uc.sender.Send(context.Background(), phoneNumber, message)
	if err != nil {
		errMsg := err.Error()
		if histErr := uc.rp.InsertHistory(userId, typeName, phoneNumber, message, nil, &errMsg); histErr != nil {
			uc.log.Error("failed to record history", slog.String("error", histErr.Error()))
		}
		uc.log.Warn("failed to send service message",
			slog.String("type", typeName),
			slog.String("error", err.Error()),
		)
		return
	}

	if err := uc.rp.InsertHistory(userId, typeName, phoneNumber, message, &result.SID, nil); err != nil {
		uc.log.Error("failed to record history", slog.String("error", err.Error()))
	}
}
