package whatsapp

import (
	"net/http"
	"time"
)

// UserWhatsapp - регистрация номера пользователя. Одна запись на
// пользователя; повторная регистрация перезаписывает код и сбрасывает
// верификацию.
type UserWhatsapp struct {
	WhatsappId          uint       `gorm:"primaryKey;column:whatsapp_id"`
	UserId              uint       `gorm:"unique;not null;column:user_id"`
	PhoneNumber         string     `gorm:"size:20;not null;column:phone_number"`
	CountryCode         *string    `gorm:"size:5;column:country_code"`
	IsVerified          bool       `gorm:"default:false;column:is_verified"`
	VerificationCode    *string    `gorm:"size:6;column:verification_code"`
	VerificationExpires *time.Time `gorm:"column:verification_expires"`
	IsActive            bool       `gorm:"default:true;column:is_active"`
	CreatedAt           time.Time  `gorm:"column:created_at"`
	UpdatedAt           time.Time  `gorm:"column:updated_at"`
}

func (UserWhatsapp) TableName() string {
	return "user_whatsapp"
}

type RegisterPhoneRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required,min=6,max=20"`
	CountryCode string `json:"country_code,omitempty" validate:"omitempty,max=5"`
}

type VerifyPhoneRequest struct {
	VerificationCode string `json:"verification_code" validate:"required,len=6,numeric"`
}

// UpdatePreferencesRequest - частичное обновление: неупомянутые типы
// не меняются.
type UpdatePreferencesRequest struct {
	Notifications map[string]bool `json:"notifications" validate:"required,min=1"`
}

type PreferenceView struct {
	Type        string  `json:"type"`
	Description *string `json:"description,omitempty"`
	Enabled     bool    `json:"enabled"`
}

type HistoryStats struct {
	TotalSent      int64 `json:"total_sent"`
	TotalDelivered int64 `json:"total_delivered"`
	TotalFailed    int64 `json:"total_failed"`
}

// StatusResponse - агрегированное состояние подписки пользователя.
type StatusResponse struct {
	Registered  bool             `json:"registered"`
	Verified    bool             `json:"verified"`
	PhoneNumber *string          `json:"phone_number,omitempty"`
	Preferences []PreferenceView `json:"preferences"`
	Stats       HistoryStats     `json:"stats"`
}

type RegisterPhoneResponse struct {
	PhoneNumber   string `json:"phone_number"`
	International string `json:"international"`
	ExpiresAt     string `json:"expires_at"`
}

type Controller interface {
	RegisterPhone(w http.ResponseWriter, r *http.Request)
	VerifyPhone(w http.ResponseWriter, r *http.Request)
	GetStatus(w http.ResponseWriter, r *http.Request)
	UpdatePreferences(w http.ResponseWriter, r *http.Request)
	RemovePhone(w http.ResponseWriter, r *http.Request)
	StatusWebhook(w http.ResponseWriter, r *http.Request)
}

type UseCase interface {
	RegisterPhone(userId uint, req *RegisterPhoneRequest) (*RegisterPhoneResponse, error)
	VerifyPhone(userId uint, code string) error
	GetStatus(userId uint) (*StatusResponse, error)
	UpdatePreferences(userId uint, req *UpdatePreferencesRequest) (*StatusResponse, error)
	RemovePhone(userId uint) error
	HandleStatusCallback(messageSid string, status string, errorCode *int, errorMessage *string)
}

type Repo interface {
	GetRegistration(userId uint) (*UserWhatsapp, error)
	UpsertRegistration(reg *UserWhatsapp) error
	FindPendingByCode(userId uint, code string, now time.Time) (*UserWhatsapp, error)
	MarkVerified(whatsappId uint) error
	DeleteRegistration(userId uint) error
	HasAnyPreferences(userId uint) (bool, error)
	SeedDefaultPreferences(userId uint) error
	UpdatePreference(userId uint, typeName string, enabled bool) error
	ListPreferences(userId uint) ([]PreferenceView, error)
	GetHistoryStats(userId uint) (*HistoryStats, error)
	UpdateHistoryStatus(messageSid string, status string, errorCode *int, errorMessage *string) error
	InsertHistory(userId uint, typeName string, phoneNumber string, message string, messageSid *string, errorMessage *string) error
}
