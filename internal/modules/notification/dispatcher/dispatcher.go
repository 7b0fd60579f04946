package dispatcher

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"redunap/internal/modules/notification"
	"redunap/pkg/lib/whatsappsender"
)

// Dispatcher последовательно рассылает сообщение подписчикам типа.
// Темп отправки задает token-bucket лимитер: политика троттлинга
// подменяется в тестах вместе с отправителем.
type Dispatcher struct {
	log     *slog.Logger
	repo    notification.Repo
	sender  whatsappsender.Sender
	limiter *rate.Limiter
}

func NewDispatcher(log *slog.Logger, repo notification.Repo, sender whatsappsender.Sender, messagesPerSecond float64) *Dispatcher {
	if messagesPerSecond <= 0 {
		messagesPerSecond = 1
	}
	return &Dispatcher{
		log:     log,
		repo:    repo,
		sender:  sender,
		limiter: rate.NewLimiter(rate.Limit(messagesPerSecond), 1),
	}
}

// SendToSubscribers возвращает итог (sent, failed). Ошибка отправки одному
// получателю не прерывает рассылку остальным. Если шлюз не настроен или
// подписчиков нет, возвращается (0, 0) без обращений к шлюзу.
func (d *Dispatcher) SendToSubscribers(ctx context.Context, typeName string, message string, excludeUserID uint) (int, int) {
	log := d.log.With(slog.String("op", "SendToSubscribers"), slog.String("type", typeName))

	if !d.sender.IsConfigured() {
		log.Info("whatsapp gateway is not configured, skipping dispatch")
		return 0, 0
	}

	nt, err := d.repo.GetTypeByName(typeName)
	if err != nil {
		log.Error("failed to resolve notification type", slog.Any("err", err))
		return 0, 0
	}

	candidates, err := d.repo.ResolveCandidates(typeName)
	if err != nil {
		log.Error("failed to resolve candidates", slog.Any("err", err))
		return 0, 0
	}

	recipients := make([]notification.Candidate, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.UserId == excludeUserID {
			continue
		}
		// Нет явной записи - получатель включен (opt-out модель).
		if candidate.Preference != nil && !*candidate.Preference {
			continue
		}
		recipients = append(recipients, candidate)
	}

	if len(recipients) == 0 {
		return 0, 0
	}

	var sent, failed int
	for _, recipient := range recipients {
		if err := d.limiter.Wait(ctx); err != nil {
			log.Warn("dispatch interrupted", slog.Any("err", err))
			break
		}

		result, err := d.sender.Send(ctx, recipient.PhoneNumber, message)
		if err != nil {
			failed++
			errMsg := err.Error()
			d.recordHistory(log, &notification.NotificationHistory{
				UserId:             recipient.UserId,
				NotificationTypeId: &nt.NotificationTypeId,
				PhoneNumber:        recipient.PhoneNumber,
				Message:            message,
				MessageSid:         nil,
				Status:             notification.StatusFailed,
				ErrorMessage:       &errMsg,
				SentAt:             time.Now(),
			})
			log.Warn("failed to send notification",
				slog.Uint64("user_id", uint64(recipient.UserId)),
				slog.Any("err", err),
			)
			continue
		}

		sent++
		sid := result.SID
		d.recordHistory(log, &notification.NotificationHistory{
			UserId:             recipient.UserId,
			NotificationTypeId: &nt.NotificationTypeId,
			PhoneNumber:        recipient.PhoneNumber,
			Message:            message,
			MessageSid:         &sid,
			Status:             notification.StatusSent,
			SentAt:             time.Now(),
		})
	}

	return sent, failed
}

// recordHistory не должен ронять рассылку: ошибка журнала только логируется.
func (d *Dispatcher) recordHistory(log *slog.Logger, entry *notification.NotificationHistory) {
	if err := d.repo.InsertHistory(entry); err != nil {
		log.Error("failed to record notification history", slog.Any("err", err))
	}
}
