package notification

import (
	"context"
	"time"
)

// Имена типов уведомлений, засеянные миграцией.
const (
	TypeWelcome      = "welcome"
	TypeNewStory     = "new_story"
	TypeStoryUpdate  = "story_update"
	TypeSystem       = "system"
	TypeVerification = "verification"
)

const (
	StatusSent      = "sent"
	StatusDelivered = "delivered"
	StatusFailed    = "failed"
)

// NotificationType - справочник типов. Тип "verification" служебный: он не
// показывается в настройках и не участвует в рассылках по подписке.
type NotificationType struct {
	NotificationTypeId uint    `gorm:"primaryKey;column:notification_type_id"`
	Name               string  `gorm:"unique;size:50;not null;column:name"`
	Description        *string `gorm:"column:description"`
	IsActive           bool    `gorm:"default:true;column:is_active"`
}

func (NotificationType) TableName() string {
	return "notification_types"
}

type UserNotificationPreference struct {
	PreferenceId       uint      `gorm:"primaryKey;column:preference_id"`
	UserId             uint      `gorm:"not null;column:user_id"`
	NotificationTypeId uint      `gorm:"not null;column:notification_type_id"`
	IsEnabled          bool      `gorm:"default:true;column:is_enabled"`
	CreatedAt          time.Time `gorm:"column:created_at"`
	UpdatedAt          time.Time `gorm:"column:updated_at"`
}

func (UserNotificationPreference) TableName() string {
	return "user_notification_preferences"
}

// NotificationHistory - журнал всех отправок. MessageSid == nil означает,
// что шлюз отказал и сообщение не ушло.
type NotificationHistory struct {
	HistoryId          uint       `gorm:"primaryKey;column:history_id"`
	UserId             uint       `gorm:"not null;column:user_id"`
	NotificationTypeId *uint      `gorm:"column:notification_type_id"`
	PhoneNumber        string     `gorm:"size:20;not null;column:phone_number"`
	Message            string     `gorm:"not null;column:message"`
	MessageSid         *string    `gorm:"size:64;column:message_sid"`
	Status             string     `gorm:"size:20;default:'sent';column:status"`
	ErrorCode          *int       `gorm:"column:error_code"`
	ErrorMessage       *string    `gorm:"column:error_message"`
	SentAt             time.Time  `gorm:"column:sent_at"`
	DeliveredAt        *time.Time `gorm:"column:delivered_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at"`
}

func (NotificationHistory) TableName() string {
	return "notification_history"
}

// Candidate - кандидат на получение рассылки. Preference отражает явную
// запись в настройках: nil значит записи нет, и решение о включении
// принимает диспетчер, а не SQL.
type Candidate struct {
	UserId      uint
	PhoneNumber string
	Preference  *bool
}

// Dispatcher рассылает сообщение всем подписчикам типа уведомления.
type Dispatcher interface {
	SendToSubscribers(ctx context.Context, typeName string, message string, excludeUserID uint) (sent int, failed int)
}

// Repo - доступ диспетчера к данным рассылки.
type Repo interface {
	ResolveCandidates(typeName string) ([]Candidate, error)
	GetTypeByName(typeName string) (*NotificationType, error)
	InsertHistory(entry *NotificationHistory) error
	UpdateHistoryStatus(messageSid string, status string, errorCode *int, errorMessage *string) error
}
