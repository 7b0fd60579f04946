package whatsappsender

import (
	"context"
)

// SendResult содержит результат успешной отправки одного сообщения.
type SendResult struct {
	SID    string // внешний идентификатор сообщения у провайдера
	Status string // queued / sent / ...
}

// StatusResult - результат опроса статуса ранее отправленного сообщения.
type StatusResult struct {
	Status       string
	ErrorCode    *int
	ErrorMessage *string
}

// Sender определяет интерфейс для отправки WhatsApp-сообщений.
// Реализация не ретраит неудачные отправки: ошибка возвращается один раз,
// решение о логировании или игнорировании принимает вызывающий код.
type Sender interface {
	// Send отправляет одно сообщение на номер в формате E.164.
	Send(ctx context.Context, to string, body string) (*SendResult, error)
	// GetStatus возвращает текущий статус сообщения по его внешнему идентификатору.
	GetStatus(ctx context.Context, sid string) (*StatusResult, error)
	// IsConfigured сообщает, сконфигурирован ли шлюз (credentials + фича-флаг).
	IsConfigured() bool
}
