package database

import (
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"redunap/internal/modules/notification"
	"redunap/internal/modules/whatsapp"
)

type WhatsappDatabase struct {
	db  *gorm.DB
	log *slog.Logger
}

func NewWhatsappDatabase(db *gorm.DB, log *slog.Logger) *WhatsappDatabase {
	return &WhatsappDatabase{
		db:  db,
		log: log.With("op", "db"),
	}
}

func (db *WhatsappDatabase) GetRegistration(userId uint) (*whatsapp.UserWhatsapp, error) {
	var reg whatsapp.UserWhatsapp

	if err := db.db.Where("user_id = ?", userId).First(&reg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, whatsapp.ErrNotRegistered
		}
		db.log.Error(err.Error())
		return nil, whatsapp.ErrInternal
	}

	return &reg, nil
}

// UpsertRegistration вставляет или перезаписывает регистрацию по user_id.
func (db *WhatsappDatabase) UpsertRegistration(reg *whatsapp.UserWhatsapp) error {
	err := db.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"phone_number", "country_code", "is_verified",
			"verification_code", "verification_expires", "is_active", "updated_at",
		}),
	}).Create(reg).Error
	if err != nil {
		db.log.Error(err.Error())
		return whatsapp.ErrInternal
	}
	return nil
}

func (db *WhatsappDatabase) FindPendingByCode(userId uint, code string, now time.Time) (*whatsapp.UserWhatsapp, error) {
	var reg whatsapp.UserWhatsapp

	err := db.db.Where(
		"user_id = ? AND verification_code = ? AND verification_expires > ?",
		userId, code, now,
	).First(&reg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, whatsapp.ErrInvalidOrExpiredCode
		}
		db.log.Error(err.Error())
		return nil, whatsapp.ErrInternal
	}

	return &reg, nil
}

func (db *WhatsappDatabase) MarkVerified(whatsappId uint) error {
	err := db.db.Model(&whatsapp.UserWhatsapp{}).
		Where("whatsapp_id = ?", whatsappId).
		Updates(map[string]interface{}{
			"is_verified":          true,
			"verification_code":    nil,
			"verification_expires": nil,
			"updated_at":           time.Now(),
		}).Error
	if err != nil {
		db.log.Error(err.Error())
		return whatsapp.ErrInternal
	}
	return nil
}

func (db *WhatsappDatabase) DeleteRegistration(userId uint) error {
	result := db.db.Where("user_id = ?", userId).Delete(&whatsapp.UserWhatsapp{})
	if result.Error != nil {
		db.log.Error(result.Error.Error())
		return whatsapp.ErrInternal
	}
	if result.RowsAffected == 0 {
		return whatsapp.ErrNotRegistered
	}
	return nil
}

func (db *WhatsappDatabase) HasAnyPreferences(userId uint) (bool, error) {
	var count int64
	err := db.db.Model(&notification.UserNotificationPreference{}).
		Where("user_id = ?", userId).
		Count(&count).Error
	if err != nil {
		db.log.Error(err.Error())
		return false, whatsapp.ErrInternal
	}
	return count > 0, nil
}

// SeedDefaultPreferences создает включенные настройки для всех активных
// типов, кроме "verification". Существующие записи не трогаются.
func (db *WhatsappDatabase) SeedDefaultPreferences(userId uint) error {
	var types []notification.NotificationType
	err := db.db.Where("is_active = ? AND name <> ?", true, notification.TypeVerification).
		Find(&types).Error
	if err != nil {
		db.log.Error(err.Error())
		return whatsapp.ErrInternal
	}

	for _, nt := range types {
		err := db.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "notification_type_id"}},
			DoNothing: true,
		}).Create(&notification.UserNotificationPreference{
			UserId:             userId,
			NotificationTypeId: nt.NotificationTypeId,
			IsEnabled:          true,
		}).Error
		if err != nil {
			db.log.Error(err.Error())
			return whatsapp.ErrInternal
		}
	}

	return nil
}

// UpdatePreference выполняет upsert записи настройки. Неизвестное или
// неактивное имя типа возвращает ErrTypeNotFound.
func (db *WhatsappDatabase) UpdatePreference(userId uint, typeName string, enabled bool) error {
	var nt notification.NotificationType
	err := db.db.Where("name = ? AND is_active = ?", typeName, true).First(&nt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notification.ErrTypeNotFound
		}
		db.log.Error(err.Error())
		return whatsapp.ErrInternal
	}

	err = db.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "notification_type_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"is_enabled": enabled, "updated_at": time.Now()}),
	}).Create(&notification.UserNotificationPreference{
		UserId:             userId,
		NotificationTypeId: nt.NotificationTypeId,
		IsEnabled:          enabled,
	}).Error
	if err != nil {
		db.log.Error(err.Error())
		return whatsapp.ErrInternal
	}

	return nil
}

type preferenceRow struct {
	Name        string  `gorm:"column:name"`
	Description *string `gorm:"column:description"`
	IsEnabled   *bool   `gorm:"column:is_enabled"`
}

// ListPreferences возвращает все активные типы (кроме "verification") с
// текущим значением настройки. Отсутствие записи отображается как enabled.
func (db *WhatsappDatabase) ListPreferences(userId uint) ([]whatsapp.PreferenceView, error) {
	var rows []preferenceRow

	err := db.db.Table("notification_types").
		Select("notification_types.name, notification_types.description, user_notification_preferences.is_enabled").
		Joins(`LEFT JOIN user_notification_preferences
			ON user_notification_preferences.notification_type_id = notification_types.notification_type_id
			AND user_notification_preferences.user_id = ?`, userId).
		Where("notification_types.is_active = ? AND notification_types.name <> ?", true, notification.TypeVerification).
		Order("notification_types.notification_type_id ASC").
		Scan(&rows).Error
	if err != nil {
		db.log.Error(err.Error())
		return nil, whatsapp.ErrInternal
	}

	views := make([]whatsapp.PreferenceView, 0, len(rows))
	for _, row := range rows {
		enabled := true
		if row.IsEnabled != nil {
			enabled = *row.IsEnabled
		}
		views = append(views, whatsapp.PreferenceView{
			Type:        row.Name,
			Description: row.Description,
			Enabled:     enabled,
		})
	}

	return views, nil
}

func (db *WhatsappDatabase) GetHistoryStats(userId uint) (*whatsapp.HistoryStats, error) {
	var stats whatsapp.HistoryStats

	err := db.db.Table("notification_history").
		Select(`COUNT(*) FILTER (WHERE status IN ('sent', 'delivered')) AS total_sent,
			COUNT(*) FILTER (WHERE status = 'delivered') AS total_delivered,
			COUNT(*) FILTER (WHERE status = 'failed') AS total_failed`).
		Where("user_id = ?", userId).
		Take(&stats).Error
	if err != nil {
		db.log.Error(err.Error())
		return nil, whatsapp.ErrInternal
	}

	return &stats, nil
}

func (db *WhatsappDatabase) UpdateHistoryStatus(messageSid string, status string, errorCode *int, errorMessage *string) error {
	updates := map[string]interface{}{
		"status":        status,
		"error_code":    errorCode,
		"error_message": errorMessage,
		"updated_at":    time.Now(),
	}
	if status == notification.StatusDelivered {
		updates["delivered_at"] = time.Now()
	}

	err := db.db.Model(&notification.NotificationHistory{}).
		Where("message_sid = ?", messageSid).
		Updates(updates).Error
	if err != nil {
		db.log.Error(err.Error())
		return whatsapp.ErrInternal
	}
	return nil
}

func (db *WhatsappDatabase) InsertHistory(userId uint, typeName string, phoneNumber string, message string, messageSid *string, errorMessage *string) error {
	var typeId *uint
	var nt notification.NotificationType
	if err := db.db.Where("name = ?", typeName).First(&nt).Error; err == nil {
		typeId = &nt.NotificationTypeId
	}

	status := notification.StatusSent
	if messageSid == nil {
		status = notification.StatusFailed
	}

	err := db.db.Create(&notification.NotificationHistory{
		UserId:             userId,
		NotificationTypeId: typeId,
		PhoneNumber:        phoneNumber,
		Message:            message,
		MessageSid:         messageSid,
		Status:             status,
		ErrorMessage:       errorMessage,
		SentAt:             time.Now(),
	}).Error
	if err != nil {
		db.log.Error(err.Error())
		return whatsapp.ErrInternal
	}
	return nil
}
