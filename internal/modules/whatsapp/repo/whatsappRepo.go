package repo

import (
	"time"

	"redunap/internal/modules/whatsapp"
)

type WhatsappDb interface {
	GetRegistration(userId uint) (*whatsapp.UserWhatsapp, error)
	UpsertRegistration(reg *whatsapp.UserWhatsapp) error
	FindPendingByCode(userId uint, code string, now time.Time) (*whatsapp.UserWhatsapp, error)
	MarkVerified(whatsappId uint) error
	DeleteRegistration(userId uint) error
	HasAnyPreferences(userId uint) (bool, error)
	SeedDefaultPreferences(userId uint) error
	UpdatePreference(userId uint, typeName string, enabled bool) error
	ListPreferences(userId uint) ([]whatsapp.PreferenceView, error)
	GetHistoryStats(userId uint) (*whatsapp.HistoryStats, error)
	UpdateHistoryStatus(messageSid string, status string, errorCode *int, errorMessage *string) error
	InsertHistory(userId uint, typeName string, phoneNumber string, message string, messageSid *string, errorMessage *string) error
}

type Repo struct {
	db WhatsappDb
}

func NewRepo(db WhatsappDb) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) GetRegistration(userId uint) (*whatsapp.UserWhatsapp, error) {
	return r.db.GetRegistration(userId)
}

func (r *Repo) UpsertRegistration(reg *whatsapp.UserWhatsapp) error {
	return r.db.UpsertRegistration(reg)
}

func (r *Repo) FindPendingByCode(userId uint, code string, now time.Time) (*whatsapp.UserWhatsapp, error) {
	return r.db.FindPendingByCode(userId, code, now)
}

func (r *Repo) MarkVerified(whatsappId uint) error {
	return r.db.MarkVerified(whatsappId)
}

func (r *Repo) DeleteRegistration(userId uint) error {
	return r.db.DeleteRegistration(userId)
}

func (r *Repo) HasAnyPreferences(userId uint) (bool, error) {
	return r.db.HasAnyPreferences(userId)
}

func (r *Repo) SeedDefaultPreferences(userId uint) error {
	return r.db.SeedDefaultPreferences(userId)
}

func (r *Repo) UpdatePreference(userId uint, typeName string, enabled bool) error {
	return r.db.UpdatePreference(userId, typeName, enabled)
}

func (r *Repo) ListPreferences(userId uint) ([]whatsapp.PreferenceView, error) {
	return r.db.ListPreferences(userId)
}

func (r *Repo) GetHistoryStats(userId uint) (*whatsapp.HistoryStats, error) {
	return r.db.GetHistoryStats(userId)
}

func (r *Repo) UpdateHistoryStatus(messageSid string, status string, errorCode *int, errorMessage *string) error {
	return r.db.UpdateHistoryStatus(messageSid, status, errorCode, errorMessage)
}

func (r *Repo) InsertHistory(userId uint, typeName string, phoneNumber string, message string, messageSid *string, errorMessage *string) error {
	return r.db.InsertHistory(userId, typeName, phoneNumber, message, messageSid, errorMessage)
}
